package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rocketintel-sim/internal/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "rocketintel-sim",
	Short: "Rocket launch telemetry simulator",
	Long:  "rocketintel-sim simulates rocket launches, streams telemetry with anomaly status and risk assessments, and exports mission reports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger := logging.NewWithLevel(os.Stderr, level)
		cmd.SetContext(logging.NewContext(cmd.Context(), logger))
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(dashboardCmd)
}
