package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/trekbot-go/internal/application/player"
	"github.com/andrescamacho/trekbot-go/internal/domain/game"
)

// NewPlayCommand creates the play command
func NewPlayCommand() *cobra.Command {
	var (
		programFlag  string
		strategyFlag string
		seedFlag     int64
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
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

			launcher, err := buildLauncher(cfg)
			if err != nil {
				return err
			}
			strat, err := buildStrategy(cfg.Player.Strategy, cfg.Player.Seed)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			conn, err := launcher.Launch()
			if err != nil {
				return err
			}

			result, err := player.New(conn, strat, playerOptions(cfg)).Play(ctx)
			if err != nil {
				return err
			}
			printResult(cmd, result)

			if result.Outcome == game.OutcomeAborted {
				return fmt.Errorf("game aborted: %s", result.FaultReason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&programFlag, "program", "", "Game program source file")
	cmd.Flags().StringVar(&strategyFlag, "strategy", "", "Strategy to play with (random, cheat)")
	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "Seed for the random strategy")

	return cmd
}

func printResult(cmd *cobra.Command, result player.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Outcome:   %s\n", result.Outcome)
	fmt.Fprintf(out, "Strategy:  %s\n", result.Strategy)
	fmt.Fprintf(out, "Turns:     %d\n", result.Turns)
	fmt.Fprintf(out, "Duration:  %s\n", result.Duration.Round(time.Millisecond))
	if result.Anomalies > 0 {
		fmt.Fprintf(out, "Anomalies: %d\n", result.Anomalies)
	}
	if result.FaultReason != "" {
		fmt.Fprintf(out, "Fault:     %s\n", result.FaultReason)
	}
}
