package player

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/trekbot-go/internal/adapters/interpreter"
	"github.com/andrescamacho/trekbot-go/internal/domain/game"
	"github.com/andrescamacho/trekbot-go/internal/domain/strategy"
)

// Conn is the transport surface the player drives. *interpreter.Transport
// satisfies it; tests substitute a scripted fake.
type Conn interface {
	ReadLine(timeout time.Duration) (string, error)
	WriteLine(line string) error
	IsAlive() bool
	Terminate(grace time.Duration) error
}

// Options tune one game session.
type Options struct {
	// ReadTimeout bounds each wait for the next output line.
	ReadTimeout time.Duration

	// WallClock bounds the whole game; expiry aborts it.
	WallClock time.Duration

	// MaxTurns aborts a game that is still running after this many
	// commands, which catches strategies stuck in a loop.
	MaxTurns int

	// CommandsPerSecond throttles command delivery. Zero disables
	// pacing. Interpreters are fast but a throttle keeps transcript
	// logs humanly readable during debugging.
	CommandsPerSecond float64

	// TerminateGrace is how long a shutdown waits before escalating.
	TerminateGrace time.Duration

	// Verbose echoes the transcript to the log.
	Verbose bool
}

func (o *Options) withDefaults() Options {
	opts := *o
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WallClock <= 0 {
		opts.WallClock = 5 * time.Minute
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = 100
	}
	if opts.TerminateGrace <= 0 {
		opts.TerminateGrace = 2 * time.Second
	}
	return opts
}

// Result summarizes one finished game session.
type Result struct {
	Outcome   game.Outcome
	Turns     int
	Anomalies int
	Duration  time.Duration
	Strategy  string

	// FaultReason records why an aborted game was aborted, empty
	// otherwise.
	FaultReason string
}

// Player runs the turn loop for a single game: read output until the
// interpreter asks for input, consult the strategy, send the answer,
// repeat until a terminal outcome.
type Player struct {
	conn     Conn
	strategy strategy.Strategy
	opts     Options
}

// New builds a player around a live connection.
func New(conn Conn, strat strategy.Strategy, opts Options) *Player {
	return &Player{conn: conn, strategy: strat, opts: opts.withDefaults()}
}

// Play drives the game to completion. Per-game faults (timeouts, a dead
// process, torn output) produce a Result with the aborted outcome and a
// nil error. The error return is reserved for defects that invalidate the
// whole run, currently only a strategy producing an illegal command.
func (p *Player) Play(ctx context.Context) (Result, error) {
	opts := p.opts
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, opts.WallClock)
	defer cancel()

	// The interpreter must never outlive the session, whatever path
	// exits the loop.
	defer func() { _ = p.conn.Terminate(opts.TerminateGrace) }()

	p.strategy.Reset()
	parser := game.NewParser()
	tracker := game.NewStateTracker()

	var limiter *rate.Limiter
	if opts.CommandsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.CommandsPerSecond), 1)
	}

	result := func(reason string) Result {
		state := tracker.Snapshot()
		return Result{
			Outcome:     state.Outcome,
			Turns:       state.TurnIndex,
			Anomalies:   state.Anomalies,
			Duration:    time.Since(start),
			Strategy:    p.strategy.Name(),
			FaultReason: reason,
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			tracker.Abort()
			return result("wall clock expired"), nil
		}
		if tracker.Turns() >= opts.MaxTurns && !tracker.Outcome().Terminal() {
			tracker.Abort()
			return result(fmt.Sprintf("still running after %d turns", opts.MaxTurns)), nil
		}

		line, err := p.conn.ReadLine(opts.ReadTimeout)
		if err != nil {
			if errors.Is(err, interpreter.ErrEndOfStream) {
				p.drainEnd(parser, tracker)
				if tracker.Outcome().Terminal() {
					return result(""), nil
				}
				tracker.Abort()
				return result("output ended mid-game"), nil
			}
			tracker.Abort()
			return result(err.Error()), nil
		}
		if opts.Verbose {
			log.Printf("< %s", line)
		}

		events, perr := parser.ParseLine(line)
		for _, ev := range events {
			tracker.Apply(ev)
		}
		if perr != nil {
			tracker.RecordMalformed()
		}
		if tracker.Outcome().Terminal() {
			if tracker.Outcome() == game.OutcomeAborted {
				return result("malformed output exceeded the retry budget"), nil
			}
			return result(""), nil
		}

		prompt, ok := tracker.ConsumePrompt()
		if !ok {
			continue
		}

		cmd := p.strategy.Decide(tracker.Snapshot())
		if err := strategy.Validate(tracker.Snapshot(), cmd); err != nil {
			tracker.Abort()
			return result(err.Error()), err
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				tracker.Abort()
				return result("wall clock expired"), nil
			}
		}

		if opts.Verbose {
			log.Printf("> %s", cmd)
		}
		if err := p.conn.WriteLine(cmd.Line(prompt.Kind)); err != nil {
			tracker.Abort()
			return result(err.Error()), nil
		}
		tracker.AdvanceTurn()
	}
}

// drainEnd folds any partial parser state after the stream closed, so a
// banner printed without a trailing newline still decides the outcome.
func (p *Player) drainEnd(parser *game.Parser, tracker *game.StateTracker) {
	for _, ev := range parser.Flush() {
		tracker.Apply(ev)
	}
}
