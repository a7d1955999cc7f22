package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/trendwatch/pkg/config"
)

var (
	// Global flags
	watchlistFile string
	verbose       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trendwatch",
	Short: "trendwatch - 均線趨勢看板",
	Long: `trendwatch evaluates a watch-list of daily closing prices against
strategy-dependent moving averages and reports a trend signal per symbol.

Usage:
  go run ./cmd/trendwatch [command]

Examples:
  go run ./cmd/trendwatch serve
  go run ./cmd/trendwatch evaluate --json
  go run ./cmd/trendwatch plan long 90`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&watchlistFile, "watchlist", "", "watch-list seed file (default $WATCHLIST_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the environment and applies global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyFlags(cfg)
	return cfg, nil
}

func applyFlags(cfg *config.Config) {
	if watchlistFile != "" {
		cfg.Watchlist.File = watchlistFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
}
