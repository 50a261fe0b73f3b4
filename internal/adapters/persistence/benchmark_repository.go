package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andrescamacho/trekbot-go/internal/application/benchmark"
	"github.com/andrescamacho/trekbot-go/internal/application/player"
	"github.com/andrescamacho/trekbot-go/internal/domain/game"
)

// ErrRunNotFound is returned when a benchmark run id is unknown.
var ErrRunNotFound = errors.New("benchmark run not found")

// RunInfo captures the interpreter context a report was produced under.
type RunInfo struct {
	InterpreterFamily string
	ProgramPath       string
}

// GormBenchmarkRepository persists benchmark reports using GORM
type GormBenchmarkRepository struct {
	db *gorm.DB
}

// NewGormBenchmarkRepository creates a new GORM benchmark repository
func NewGormBenchmarkRepository(db *gorm.DB) *GormBenchmarkRepository {
	return &GormBenchmarkRepository{db: db}
}

// SaveReport persists a run and all its game results in one transaction.
func (r *GormBenchmarkRepository) SaveReport(ctx context.Context, report *benchmark.Report, info RunInfo) error {
	run := &BenchmarkRunModel{
		RunID:             report.RunID.String(),
		Strategy:          report.Strategy,
		InterpreterFamily: info.InterpreterFamily,
		ProgramPath:       info.ProgramPath,
		RequestedGames:    report.Requested,
		StartedAt:         report.StartedAt,
		DurationMs:        report.Duration.Milliseconds(),
		CoveredStatements: report.CoveredStatements,
	}

	games := make([]GameResultModel, 0, len(report.Games))
	for _, g := range report.Games {
		games = append(games, GameResultModel{
			RunID:       run.RunID,
			GameIndex:   g.Index,
			Outcome:     string(g.Result.Outcome),
			Turns:       g.Result.Turns,
			Anomalies:   g.Result.Anomalies,
			DurationMs:  g.Result.Duration.Milliseconds(),
			FaultReason: g.Result.FaultReason,
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(run).Error; err != nil {
			return fmt.Errorf("failed to save benchmark run: %w", err)
		}
		if len(games) > 0 {
			if err := tx.Save(&games).Error; err != nil {
				return fmt.Errorf("failed to save game results: %w", err)
			}
		}
		return nil
	})
}

// FindRun reconstructs a stored report with all its games.
func (r *GormBenchmarkRepository) FindRun(ctx context.Context, runID uuid.UUID) (*benchmark.Report, RunInfo, error) {
	var run BenchmarkRunModel
	result := r.db.WithContext(ctx).Where("run_id = ?", runID.String()).First(&run)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, RunInfo{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, RunInfo{}, fmt.Errorf("failed to find benchmark run: %w", result.Error)
	}

	var games []GameResultModel
	if err := r.db.WithContext(ctx).
		Where("run_id = ?", run.RunID).
		Order("game_index").
		Find(&games).Error; err != nil {
		return nil, RunInfo{}, fmt.Errorf("failed to load game results: %w", err)
	}

	report, err := modelToReport(&run, games)
	if err != nil {
		return nil, RunInfo{}, err
	}
	info := RunInfo{
		InterpreterFamily: run.InterpreterFamily,
		ProgramPath:       run.ProgramPath,
	}
	return report, info, nil
}

// ListRuns returns the most recent runs, newest first, without their games.
func (r *GormBenchmarkRepository) ListRuns(ctx context.Context, limit int) ([]*benchmark.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []BenchmarkRunModel
	if err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list benchmark runs: %w", err)
	}

	reports := make([]*benchmark.Report, 0, len(runs))
	for _, run := range runs {
		report, err := modelToReport(&run, nil)
		if err != nil {
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func modelToReport(run *BenchmarkRunModel, games []GameResultModel) (*benchmark.Report, error) {
	id, err := uuid.Parse(run.RunID)
	if err != nil {
		return nil, fmt.Errorf("corrupt run id %q: %w", run.RunID, err)
	}

	report := &benchmark.Report{
		RunID:             id,
		Strategy:          run.Strategy,
		StartedAt:         run.StartedAt,
		Duration:          time.Duration(run.DurationMs) * time.Millisecond,
		Requested:         run.RequestedGames,
		CoveredStatements: run.CoveredStatements,
	}
	for _, g := range games {
		report.Add(benchmark.GameRecord{
			Index: g.GameIndex,
			Result: player.Result{
				Outcome:     game.Outcome(g.Outcome),
				Turns:       g.Turns,
				Anomalies:   g.Anomalies,
				Duration:    time.Duration(g.DurationMs) * time.Millisecond,
				Strategy:    run.Strategy,
				FaultReason: g.FaultReason,
			},
		})
	}
	return report, nil
}
