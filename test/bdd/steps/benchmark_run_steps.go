package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/trekbot-go/internal/application/benchmark"
	"github.com/andrescamacho/trekbot-go/internal/application/player"
	"github.com/andrescamacho/trekbot-go/internal/domain/game"
)

var errStrategyDefect = errors.New("strategy produced an illegal command")

type benchmarkRunContext struct {
	play   benchmark.GameFunc
	games  int
	report *benchmark.Report
	err    error
}

func (ctx *benchmarkRunContext) reset() {
	ctx.play = nil
	ctx.games = 0
	ctx.report = nil
	ctx.err = nil
}

func cellValue(table *godog.Table, row *messages.PickleTableRow, column string) string {
	for i, header := range table.Rows[0].Cells {
		if header.Value == column {
			return row.Cells[i].Value
		}
	}
	return ""
}

func (ctx *benchmarkRunContext) aBatchOfGames(table *godog.Table) error {
	type scripted struct {
		outcome game.Outcome
		turns   int
	}
	var games []scripted
	for _, row := range table.Rows[1:] {
		turns, err := strconv.Atoi(cellValue(table, row, "turns"))
		if err != nil {
			return fmt.Errorf("invalid turn count: %w", err)
		}
		games = append(games, scripted{
			outcome: game.Outcome(cellValue(table, row, "outcome")),
			turns:   turns,
		})
	}
	ctx.games = len(games)
	ctx.play = func(_ context.Context, index int) (player.Result, error) {
		result := player.Result{Outcome: games[index].outcome, Turns: games[index].turns}
		if result.Outcome == game.OutcomeAborted {
			result.FaultReason = "output ended mid-game"
		}
		return result, nil
	}
	return nil
}

func (ctx *benchmarkRunContext) aBatchWithOutcomes(list string) error {
	outcomes := strings.Split(list, ",")
	ctx.games = len(outcomes)
	ctx.play = func(_ context.Context, index int) (player.Result, error) {
		result := player.Result{Outcome: game.Outcome(outcomes[index]), Turns: 20}
		if result.Outcome == game.OutcomeAborted {
			result.FaultReason = "output ended mid-game"
		}
		return result, nil
	}
	return nil
}

func (ctx *benchmarkRunContext) aBatchOfDefectiveGames() error {
	ctx.games = 10
	var played int64
	ctx.play = func(_ context.Context, _ int) (player.Result, error) {
		atomic.AddInt64(&played, 1)
		return player.Result{Outcome: game.OutcomeAborted}, errStrategyDefect
	}
	return nil
}

func (ctx *benchmarkRunContext) theBenchmarkRuns(concurrency int) error {
	runner := benchmark.NewRunner(ctx.play, benchmark.Options{
		Games:       ctx.games,
		Concurrency: concurrency,
	})
	ctx.report, ctx.err = runner.Run(context.Background())
	return nil
}

func (ctx *benchmarkRunContext) theReportCounts(won, lost, aborted int) error {
	if ctx.err != nil {
		return fmt.Errorf("unexpected run error: %w", ctx.err)
	}
	got := [3]int{
		ctx.report.Count(game.OutcomeWon),
		ctx.report.Count(game.OutcomeLost),
		ctx.report.Count(game.OutcomeAborted),
	}
	if got != [3]int{won, lost, aborted} {
		return fmt.Errorf("expected %d/%d/%d won/lost/aborted, got %d/%d/%d",
			won, lost, aborted, got[0], got[1], got[2])
	}
	return nil
}

func (ctx *benchmarkRunContext) theWinRateIs(percent int) error {
	want := float64(percent) / 100
	if math.Abs(ctx.report.WinRate()-want) > 1e-9 {
		return fmt.Errorf("expected win rate %.2f, got %.2f", want, ctx.report.WinRate())
	}
	return nil
}

func (ctx *benchmarkRunContext) theRunFails() error {
	if ctx.err == nil {
		return fmt.Errorf("expected the run to fail")
	}
	return nil
}

func (ctx *benchmarkRunContext) theReportStillRecordsGames() error {
	if ctx.report == nil || len(ctx.report.Games) == 0 {
		return fmt.Errorf("expected recorded games in the report")
	}
	return nil
}

// InitializeBenchmarkRunScenario registers the benchmark aggregation steps
func InitializeBenchmarkRunScenario(sc *godog.ScenarioContext) {
	ctx := &benchmarkRunContext{}

	sc.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^a batch of games that end:$`, ctx.aBatchOfGames)
	sc.Step(`^a batch where the games end "([^"]*)"$`, ctx.aBatchWithOutcomes)
	sc.Step(`^a batch where every game fails with a strategy defect$`, ctx.aBatchOfDefectiveGames)
	sc.Step(`^the benchmark runs with concurrency (\d+)$`, ctx.theBenchmarkRuns)
	sc.Step(`^the report counts (\d+) won, (\d+) lost and (\d+) aborted games$`, ctx.theReportCounts)
	sc.Step(`^the win rate is (\d+) percent$`, ctx.theWinRateIs)
	sc.Step(`^the run fails$`, ctx.theRunFails)
	sc.Step(`^the report still records the played games$`, ctx.theReportStillRecordsGames)
}
