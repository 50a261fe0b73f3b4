package cli

import (
	"fmt"

	"github.com/andrescamacho/trekbot-go/internal/adapters/interpreter"
	"github.com/andrescamacho/trekbot-go/internal/application/player"
	"github.com/andrescamacho/trekbot-go/internal/domain/strategy"
	"github.com/andrescamacho/trekbot-go/internal/infrastructure/config"
)

// loadConfig loads configuration and folds in the global CLI flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Player.Verbose = true
	}
	return cfg, nil
}

// buildLauncher translates interpreter configuration into a launcher.
func buildLauncher(cfg *config.Config) (interpreter.Launcher, error) {
	family, err := interpreter.ParseFamily(cfg.Interpreter.Family)
	if err != nil {
		return interpreter.Launcher{}, err
	}
	l := interpreter.Launcher{
		Family:          family,
		InterpreterPath: cfg.Interpreter.Path,
		ProgramPath:     cfg.Interpreter.Program,
	}
	return l, l.Validate()
}

// buildStrategy constructs one strategy instance. seed offsets let
// concurrent games derive distinct deterministic streams.
func buildStrategy(name string, seed int64) (strategy.Strategy, error) {
	switch name {
	case "random":
		return strategy.NewRandom(seed), nil
	case "cheat":
		return strategy.NewCheat(), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

// playerOptions translates player configuration.
func playerOptions(cfg *config.Config) player.Options {
	return player.Options{
		ReadTimeout:       cfg.Player.ReadTimeout,
		WallClock:         cfg.Player.WallClock,
		MaxTurns:          cfg.Player.MaxTurns,
		CommandsPerSecond: cfg.Player.CommandsPerSecond,
		Verbose:           cfg.Player.Verbose,
	}
}
