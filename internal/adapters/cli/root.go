package cli

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trekbot",
		Short: "TrekBot - automated Super Star Trek player and benchmark harness",
		Long: `TrekBot plays the classic Super Star Trek BASIC program through an
external interpreter and benchmarks strategies against it.

Examples:
  trekbot play --program superstartrek.bas --strategy cheat
  trekbot play --strategy random --seed 7 --verbose
  trekbot benchmark --games 100 --concurrency 8 --strategy random
  trekbot benchmark --games 50 --coverage-file coverage.json --persist
  trekbot runs list
  trekbot runs show <run-id>`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: config.yaml in ., ./configs, /etc/trekbot)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Echo game transcripts to the log")

	rootCmd.AddCommand(NewPlayCommand())
	rootCmd.AddCommand(NewBenchmarkCommand())
	rootCmd.AddCommand(NewRunsCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}
