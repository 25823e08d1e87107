package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Global flags
var (
	configFile string
	userID     string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "reconbot",
	Short: "Reconbot - agent-based reconnaissance and attack path planning",
	Long: `Reconbot runs concurrent analysis agents against a target, classifies
the aggregated findings into a threat level, and plans risk-scored
attack paths from completed scans.

All activity is rate limited per user and endpoint.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: $HOME/.reconbot/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "local", "User identity for rate limiting")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(versionCmd)
}
