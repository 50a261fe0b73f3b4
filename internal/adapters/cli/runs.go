package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/andrescamacho/trekbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/trekbot-go/internal/domain/game"
	"github.com/andrescamacho/trekbot-go/internal/infrastructure/database"
)

// NewRunsCommand creates the runs command with subcommands
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored benchmark runs",
	}

	cmd.AddCommand(newRunsListCommand())
	cmd.AddCommand(newRunsShowCommand())

	return cmd
}

func newRunsListCommand() *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent benchmark runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(func(repo *persistence.GormBenchmarkRepository) error {
				runs, err := repo.ListRuns(cmd.Context(), limitFlag)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No stored runs.")
					return nil
				}
				for _, r := range runs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s  %3d games  started %s\n",
						r.RunID, r.Strategy, r.Requested,
						r.StartedAt.Format("2006-01-02 15:04:05"))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 20, "Max runs to list")
	return cmd
}

func newRunsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one stored run with per-game results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid run id %q: %w", args[0], err)
			}
			return withRepository(func(repo *persistence.GormBenchmarkRepository) error {
				report, info, err := repo.FindRun(cmd.Context(), runID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				report.Summary(out)
				fmt.Fprintf(out, "  Program:    %s (%s)\n", info.ProgramPath, info.InterpreterFamily)
				for _, g := range report.Games {
					marker := " "
					if g.Result.Outcome == game.OutcomeAborted {
						marker = "!"
					}
					fmt.Fprintf(out, "  %s game %3d  %-11s %3d turns  %s\n",
						marker, g.Index, g.Result.Outcome, g.Result.Turns, g.Result.FaultReason)
				}
				return nil
			})
		},
	}
}

// withRepository opens the configured database around one repository call.
func withRepository(fn func(*persistence.GormBenchmarkRepository) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer func(db *gorm.DB) { _ = database.Close(db) }(db)

	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	return fn(persistence.NewGormBenchmarkRepository(db))
}
