package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/andrescamacho/trekbot-go/internal/application/player"
)

// ErrNoGamesStarted reports a run where not a single game could begin,
// which is a configuration failure rather than a streak of bad luck.
var ErrNoGamesStarted = errors.New("benchmark started no games")

// GameFunc plays one game and returns its result. The benchmark injects
// the real interpreter-backed session here; tests inject fakes. index is
// the zero-based game number within the run.
type GameFunc func(ctx context.Context, index int) (player.Result, error)

// Options tune a benchmark run.
type Options struct {
	// Games is how many games to play.
	Games int

	// Concurrency caps how many interpreter processes run at once.
	Concurrency int

	// StrategyName is recorded in the report.
	StrategyName string
}

func (o *Options) withDefaults() Options {
	opts := *o
	if opts.Games <= 0 {
		opts.Games = 1
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return opts
}

// Runner plays a batch of games through a bounded worker pool and
// aggregates their results.
type Runner struct {
	opts Options
	play GameFunc
}

// NewRunner builds a runner around the injected game function.
func NewRunner(play GameFunc, opts Options) *Runner {
	return &Runner{play: play, opts: opts.withDefaults()}
}

// Run plays the configured number of games. Cancelling ctx stops new
// games from starting; games already in flight finish and are recorded.
// The returned report always covers every game that was actually played,
// even when an error is also returned.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := NewReport(r.opts.StrategyName, r.opts.Games)
	start := time.Now()

	sem := make(chan struct{}, r.opts.Concurrency)
	records := make(chan GameRecord, r.opts.Games)

	var mu sync.Mutex
	var fatal error
	hasFatal := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fatal != nil
	}

	var started int
	var wg sync.WaitGroup

	for i := 0; i < r.opts.Games; i++ {
		if ctx.Err() != nil || hasFatal() {
			break
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}

		started++
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := r.play(ctx, index)
			if err != nil {
				// A fatal game error still leaves a result worth
				// recording; the run stops accepting new games.
				mu.Lock()
				if fatal == nil {
					fatal = fmt.Errorf("game %d: %w", index, err)
				}
				mu.Unlock()
			}
			records <- GameRecord{Index: index, Result: result}
		}(i)
	}

	wg.Wait()
	close(records)
	for rec := range records {
		report.Add(rec)
	}
	report.Duration = time.Since(start)

	if started == 0 {
		return report, ErrNoGamesStarted
	}
	if fatal != nil {
		return report, fatal
	}
	if ctx.Err() != nil {
		log.Printf("benchmark interrupted after %d of %d games", len(report.Games), r.opts.Games)
	}
	return report, nil
}
