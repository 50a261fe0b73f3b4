package benchmark

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/trekbot-go/internal/application/player"
	"github.com/andrescamacho/trekbot-go/internal/domain/game"
)

// GameRecord is the benchmark's view of one finished game.
type GameRecord struct {
	Index  int
	Result player.Result
}

// Report aggregates a finished or partially finished benchmark run.
type Report struct {
	RunID     uuid.UUID
	Strategy  string
	StartedAt time.Time
	Duration  time.Duration

	Requested int
	Games     []GameRecord

	// CoveredStatements is the size of the merged coverage union, zero
	// when coverage was not recorded.
	CoveredStatements int
}

// NewReport starts an empty report for a run.
func NewReport(strategy string, requested int) *Report {
	return &Report{
		RunID:     uuid.New(),
		Strategy:  strategy,
		StartedAt: time.Now(),
		Requested: requested,
	}
}

// Add records one finished game.
func (r *Report) Add(rec GameRecord) {
	r.Games = append(r.Games, rec)
}

// Count returns how many recorded games ended with the outcome.
func (r *Report) Count(o game.Outcome) int {
	n := 0
	for _, g := range r.Games {
		if g.Result.Outcome == o {
			n++
		}
	}
	return n
}

// Completed returns how many games reached a won or lost outcome.
func (r *Report) Completed() int {
	return r.Count(game.OutcomeWon) + r.Count(game.OutcomeLost)
}

// WinRate is wins over completed games. Aborted games are excluded so a
// flaky interpreter does not masquerade as a losing streak.
func (r *Report) WinRate() float64 {
	completed := r.Completed()
	if completed == 0 {
		return 0
	}
	return float64(r.Count(game.OutcomeWon)) / float64(completed)
}

// AverageTurns is the mean turn count over all recorded games.
func (r *Report) AverageTurns() float64 {
	if len(r.Games) == 0 {
		return 0
	}
	total := 0
	for _, g := range r.Games {
		total += g.Result.Turns
	}
	return float64(total) / float64(len(r.Games))
}

// Summary writes the human-readable run report.
func (r *Report) Summary(w io.Writer) {
	fmt.Fprintf(w, "Benchmark run %s\n", r.RunID)
	fmt.Fprintf(w, "  Strategy:   %s\n", r.Strategy)
	fmt.Fprintf(w, "  Games:      %d played of %d requested\n", len(r.Games), r.Requested)
	fmt.Fprintf(w, "  Won:        %d\n", r.Count(game.OutcomeWon))
	fmt.Fprintf(w, "  Lost:       %d\n", r.Count(game.OutcomeLost))
	fmt.Fprintf(w, "  Aborted:    %d\n", r.Count(game.OutcomeAborted))
	fmt.Fprintf(w, "  Win rate:   %.1f%%\n", r.WinRate()*100)
	fmt.Fprintf(w, "  Avg turns:  %.1f\n", r.AverageTurns())
	fmt.Fprintf(w, "  Duration:   %s\n", r.Duration.Round(time.Millisecond))
	if r.CoveredStatements > 0 {
		fmt.Fprintf(w, "  Coverage:   %d statements\n", r.CoveredStatements)
	}

	faults := map[string]int{}
	for _, g := range r.Games {
		if g.Result.FaultReason != "" {
			faults[g.Result.FaultReason]++
		}
	}
	if len(faults) > 0 {
		fmt.Fprintln(w, "  Faults:")
		reasons := make([]string, 0, len(faults))
		for reason := range faults {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Fprintf(w, "    %dx %s\n", faults[reason], reason)
		}
	}
}
