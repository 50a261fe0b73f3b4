package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/trekbot-go/internal/application/player"
	"github.com/andrescamacho/trekbot-go/internal/domain/game"
	"github.com/andrescamacho/trekbot-go/internal/domain/strategy"
	"github.com/andrescamacho/trekbot-go/test/helpers"
)

type playerSessionContext struct {
	conn   *helpers.ScriptedConn
	result player.Result
	err    error
}

func (ctx *playerSessionContext) reset() {
	ctx.conn = nil
	ctx.result = player.Result{}
	ctx.err = nil
}

// fixedNavStrategy always navigates on a fixed course at warp 1.
type fixedNavStrategy struct {
	course float64
}

func (fixedNavStrategy) Name() string { return "fixed-nav" }
func (fixedNavStrategy) Reset()       {}

func (s fixedNavStrategy) Decide(state *game.GameState) game.Command {
	switch state.LastPrompt.Kind {
	case game.PromptCommand:
		return game.NewCommand(game.VerbMove)
	default:
		return game.NewCommand(game.VerbMove, game.Number(s.course))
	}
}

func (ctx *playerSessionContext) anInterpreterThatReplays(transcript *godog.DocString) error {
	// Exchanges are separated by "---" lines; each exchange's output is
	// released after the player's previous command.
	var script []helpers.Exchange
	current := helpers.Exchange{}
	for _, line := range strings.Split(transcript.Content, "\n") {
		if strings.TrimSpace(line) == "---" {
			script = append(script, current)
			current = helpers.Exchange{}
			continue
		}
		current.Lines = append(current.Lines, line)
	}
	script = append(script, current)
	ctx.conn = helpers.NewScriptedConn(script...)
	return nil
}

func (ctx *playerSessionContext) play(strat strategy.Strategy) error {
	if ctx.conn == nil {
		return fmt.Errorf("no interpreter scripted")
	}
	p := player.New(ctx.conn, strat, player.Options{
		ReadTimeout:    time.Second,
		WallClock:      10 * time.Second,
		MaxTurns:       50,
		TerminateGrace: 100 * time.Millisecond,
	})
	ctx.result, ctx.err = p.Play(context.Background())
	return nil
}

func (ctx *playerSessionContext) theCheatStrategyPlays() error {
	return ctx.play(strategy.NewCheat())
}

func (ctx *playerSessionContext) aFixedNavStrategyPlays(course int) error {
	return ctx.play(fixedNavStrategy{course: float64(course)})
}

func (ctx *playerSessionContext) theOutcomeIs(want string) error {
	if ctx.err != nil {
		return fmt.Errorf("unexpected session error: %w", ctx.err)
	}
	if string(ctx.result.Outcome) != want {
		return fmt.Errorf("expected outcome %q, got %q", want, ctx.result.Outcome)
	}
	return nil
}

func (ctx *playerSessionContext) theSessionReportsAFault() error {
	if ctx.result.FaultReason == "" {
		return fmt.Errorf("expected a fault reason, got none")
	}
	return nil
}

func (ctx *playerSessionContext) theProcessIsTerminated() error {
	if ctx.conn.IsAlive() {
		return fmt.Errorf("interpreter process still alive after session")
	}
	return nil
}

func (ctx *playerSessionContext) theInterpreterReceivedExactly(expected *godog.DocString) error {
	want := strings.Split(strings.TrimSpace(expected.Content), "\n")
	got := ctx.conn.Writes()
	if len(got) != len(want) {
		return fmt.Errorf("expected %d commands %v, got %d: %v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != strings.TrimSpace(want[i]) {
			return fmt.Errorf("command %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	return nil
}

func (ctx *playerSessionContext) theSessionFinishesWithinTurns(max int) error {
	if ctx.result.Turns > max {
		return fmt.Errorf("expected at most %d turns, got %d", max, ctx.result.Turns)
	}
	return nil
}

// InitializePlayerSessionScenario registers the game session steps
func InitializePlayerSessionScenario(sc *godog.ScenarioContext) {
	ctx := &playerSessionContext{}

	sc.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^an interpreter that replays:$`, ctx.anInterpreterThatReplays)
	sc.Step(`^the cheat strategy plays the game$`, ctx.theCheatStrategyPlays)
	sc.Step(`^a strategy that always navigates on course (\d+) plays the game$`, ctx.aFixedNavStrategyPlays)
	sc.Step(`^the outcome is "([^"]*)"$`, ctx.theOutcomeIs)
	sc.Step(`^the session reports a fault$`, ctx.theSessionReportsAFault)
	sc.Step(`^the interpreter process is terminated$`, ctx.theProcessIsTerminated)
	sc.Step(`^the interpreter received exactly:$`, ctx.theInterpreterReceivedExactly)
	sc.Step(`^the session finishes within (\d+) turn(?:s)?$`, ctx.theSessionFinishesWithinTurns)
}
