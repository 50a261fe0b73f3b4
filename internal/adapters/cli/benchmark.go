package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/trekbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/trekbot-go/internal/application/benchmark"
	"github.com/andrescamacho/trekbot-go/internal/domain/strategy"
	"github.com/andrescamacho/trekbot-go/internal/infrastructure/config"
	"github.com/andrescamacho/trekbot-go/internal/infrastructure/database"
	"github.com/andrescamacho/trekbot-go/internal/infrastructure/lockfile"
)

// NewBenchmarkCommand creates the benchmark command
func NewBenchmarkCommand() *cobra.Command {
	var (
		gamesFlag       int
		concurrencyFlag int
		programFlag     string
		strategyFlag    string
		seedFlag        int64
		coverageFlag    string
		persistFlag     bool
	)

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Play a batch of games and report aggregate statistics",
		Long: `Benchmark plays many games through a bounded pool of interpreter
processes and aggregates outcomes, turn counts and faults. Interrupting
the run with Ctrl-C stops new games; games in flight finish and are
included in the report.

Aborted games are part of a normal report. The command only fails when
the configuration is unusable or a strategy defect is detected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if gamesFlag > 0 {
				cfg.Benchmark.Games = gamesFlag
			}
			if concurrencyFlag > 0 {
				cfg.Benchmark.Concurrency = concurrencyFlag
			}
			if programFlag != "" {
				cfg.Interpreter.Program = programFlag
			}
			if strategyFlag != "" {
				cfg.Player.Strategy = strategyFlag
			}
			if seedFlag != 0 {
				cfg.Player.Seed = seedFlag
			}
			if coverageFlag != "" {
				cfg.Benchmark.CoverageFile = coverageFlag
			}
			if persistFlag {
				cfg.Benchmark.Persist = true
			}
			return runBenchmark(cmd, cfg)
		},
	}

	cmd.Flags().IntVar(&gamesFlag, "games", 0, "Number of games to play")
	cmd.Flags().IntVar(&concurrencyFlag, "concurrency", 0, "Max simultaneous interpreter processes")
	cmd.Flags().StringVar(&programFlag, "program", "", "Game program source file")
	cmd.Flags().StringVar(&strategyFlag, "strategy", "", "Strategy to play with (random, cheat)")
	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "Base seed for the random strategy")
	cmd.Flags().StringVar(&coverageFlag, "coverage-file", "", "Write merged statement coverage here")
	cmd.Flags().BoolVar(&persistFlag, "persist", false, "Store the run report in the database")

	return cmd
}

func runBenchmark(cmd *cobra.Command, cfg *config.Config) error {
	launcher, err := buildLauncher(cfg)
	if err != nil {
		return err
	}
	if _, err := buildStrategy(cfg.Player.Strategy, cfg.Player.Seed); err != nil {
		return err
	}

	var merger *benchmark.CoverageMerger
	if cfg.Benchmark.CoverageFile != "" {
		if !launcher.Family.SupportsCoverage() {
			return fmt.Errorf("interpreter family %s cannot record coverage", launcher.Family)
		}
		if err := os.MkdirAll(cfg.Benchmark.WorkDir, 0o755); err != nil {
			return fmt.Errorf("create work dir: %w", err)
		}

		// One benchmark at a time may own the merged coverage file.
		lock := lockfile.New(cfg.Benchmark.CoverageFile + ".lock")
		if err := lock.Acquire(); err != nil {
			return err
		}
		defer func() { _ = lock.Release() }()

		merger = benchmark.NewCoverageMerger()
	}

	baseSeed := cfg.Player.Seed
	session := &benchmark.Session{
		Launcher: launcher,
		NewStrategy: func(index int) strategy.Strategy {
			strat, _ := buildStrategy(cfg.Player.Strategy, baseSeed+int64(index))
			return strat
		},
		PlayerOpts: playerOptions(cfg),
		Merger:     merger,
		WorkDir:    cfg.Benchmark.WorkDir,
	}

	runner := benchmark.NewRunner(session.Play, benchmark.Options{
		Games:        cfg.Benchmark.Games,
		Concurrency:  cfg.Benchmark.Concurrency,
		StrategyName: cfg.Player.Strategy,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, runErr := runner.Run(ctx)

	// The report covers everything that actually ran; publish it even
	// when the run itself failed.
	if merger != nil {
		report.CoveredStatements = merger.Statements()
		if err := merger.WriteFile(cfg.Benchmark.CoverageFile); err != nil {
			log.Printf("coverage write failed: %v", err)
		}
	}
	if cfg.Benchmark.Persist {
		if err := persistReport(cmd.Context(), cfg, report); err != nil {
			log.Printf("report persistence failed: %v", err)
		}
	}
	report.Summary(cmd.OutOrStdout())

	return runErr
}

func persistReport(ctx context.Context, cfg *config.Config, report *benchmark.Report) error {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	repo := persistence.NewGormBenchmarkRepository(db)
	return repo.SaveReport(ctx, report, persistence.RunInfo{
		InterpreterFamily: cfg.Interpreter.Family,
		ProgramPath:       cfg.Interpreter.Program,
	})
}
