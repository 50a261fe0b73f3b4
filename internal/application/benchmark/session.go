package benchmark

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andrescamacho/trekbot-go/internal/adapters/interpreter"
	"github.com/andrescamacho/trekbot-go/internal/application/player"
	"github.com/andrescamacho/trekbot-go/internal/domain/game"
	"github.com/andrescamacho/trekbot-go/internal/domain/strategy"
)

// Session wires interpreter launches, strategies and coverage collection
// into the GameFunc the runner executes.
type Session struct {
	// Launcher is the template for every game's interpreter process.
	Launcher interpreter.Launcher

	// NewStrategy builds one strategy instance per game, so concurrent
	// games never share strategy memory. Seeded strategies should derive
	// the per-game seed from the index.
	NewStrategy func(index int) strategy.Strategy

	// PlayerOpts apply to every game.
	PlayerOpts player.Options

	// Merger, when non-nil on a coverage-capable family, collects each
	// game's coverage file into the union.
	Merger *CoverageMerger

	// WorkDir holds per-game coverage files.
	WorkDir string
}

// Play runs one full game, satisfying GameFunc.
func (s *Session) Play(ctx context.Context, index int) (player.Result, error) {
	launcher := s.Launcher

	var coverageFile string
	if s.Merger != nil && launcher.Family.SupportsCoverage() {
		coverageFile = filepath.Join(s.WorkDir, fmt.Sprintf("coverage-game-%d.json", index))
		launcher.CoverageFile = coverageFile
	}

	conn, err := launcher.Launch()
	if err != nil {
		// A failed spawn is a per-game fault; the runner keeps going
		// unless every spawn fails the same way.
		return player.Result{
			Outcome:     game.OutcomeAborted,
			FaultReason: err.Error(),
		}, nil
	}

	p := player.New(conn, s.NewStrategy(index), s.PlayerOpts)
	result, err := p.Play(ctx)

	if coverageFile != "" {
		// The interpreter flushes coverage on exit; Play terminates the
		// process before returning, so the file is complete here. A
		// crashed interpreter may leave none, which is just an empty
		// contribution.
		if _, statErr := os.Stat(coverageFile); statErr == nil {
			if mergeErr := s.Merger.MergeFile(coverageFile); mergeErr == nil {
				_ = os.Remove(coverageFile)
			}
		}
	}
	return result, err
}
