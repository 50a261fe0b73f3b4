package config

import "time"

// PlayerConfig tunes the per-game turn loop
type PlayerConfig struct {
	// Strategy is the decision engine to play with.
	Strategy string `mapstructure:"strategy" validate:"required,oneof=random cheat"`

	// Seed feeds seeded strategies; the per-game seed is derived from it.
	Seed int64 `mapstructure:"seed"`

	// ReadTimeout bounds each wait for interpreter output.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WallClock bounds one whole game.
	WallClock time.Duration `mapstructure:"wall_clock"`

	// MaxTurns aborts games that run away.
	MaxTurns int `mapstructure:"max_turns" validate:"omitempty,min=1"`

	// CommandsPerSecond throttles command delivery, zero disables it.
	CommandsPerSecond float64 `mapstructure:"commands_per_second" validate:"omitempty,min=0"`

	// Verbose echoes game transcripts to the log.
	Verbose bool `mapstructure:"verbose"`
}
