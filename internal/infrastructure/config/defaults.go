package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Interpreter defaults
	if cfg.Interpreter.Family == "" {
		cfg.Interpreter.Family = "basic-rs"
	}
	if cfg.Interpreter.Program == "" {
		cfg.Interpreter.Program = "superstartrek.bas"
	}

	// Player defaults
	if cfg.Player.Strategy == "" {
		cfg.Player.Strategy = "cheat"
	}
	if cfg.Player.Seed == 0 {
		cfg.Player.Seed = 1
	}
	if cfg.Player.ReadTimeout == 0 {
		cfg.Player.ReadTimeout = 10 * time.Second
	}
	if cfg.Player.WallClock == 0 {
		cfg.Player.WallClock = 5 * time.Minute
	}
	if cfg.Player.MaxTurns == 0 {
		cfg.Player.MaxTurns = 100
	}

	// Benchmark defaults
	if cfg.Benchmark.Games == 0 {
		cfg.Benchmark.Games = 10
	}
	if cfg.Benchmark.Concurrency == 0 {
		cfg.Benchmark.Concurrency = 4
	}
	if cfg.Benchmark.WorkDir == "" {
		cfg.Benchmark.WorkDir = "/tmp/trekbot"
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "trekbot.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "trekbot"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "trekbot"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}
