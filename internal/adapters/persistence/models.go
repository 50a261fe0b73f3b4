package persistence

import (
	"time"
)

// BenchmarkRunModel represents the benchmark_runs table
type BenchmarkRunModel struct {
	RunID             string    `gorm:"column:run_id;primaryKey"`
	Strategy          string    `gorm:"column:strategy;not null"`
	InterpreterFamily string    `gorm:"column:interpreter_family;not null"`
	ProgramPath       string    `gorm:"column:program_path;not null"`
	RequestedGames    int       `gorm:"column:requested_games;not null"`
	StartedAt         time.Time `gorm:"column:started_at;not null"`
	DurationMs        int64     `gorm:"column:duration_ms;not null"`
	CoveredStatements int       `gorm:"column:covered_statements;default:0"`
}

func (BenchmarkRunModel) TableName() string {
	return "benchmark_runs"
}

// GameResultModel represents the game_results table
type GameResultModel struct {
	RunID       string             `gorm:"column:run_id;primaryKey;not null"`
	Run         *BenchmarkRunModel `gorm:"foreignKey:RunID;references:RunID;constraint:OnDelete:CASCADE"`
	GameIndex   int                `gorm:"column:game_index;primaryKey;not null"`
	Outcome     string             `gorm:"column:outcome;not null"`
	Turns       int                `gorm:"column:turns;not null"`
	Anomalies   int                `gorm:"column:anomalies;default:0"`
	DurationMs  int64              `gorm:"column:duration_ms;not null"`
	FaultReason string             `gorm:"column:fault_reason"`
}

func (GameResultModel) TableName() string {
	return "game_results"
}
