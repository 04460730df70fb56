package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rocketintel-sim/internal/config"
	"rocketintel-sim/internal/sim"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a telemetry log file",
	Long:  "replay feeds telemetry rows from a JSONL log back into GreptimeDB or STDOUT, paced by mission time.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		writer, cleanup, err := newWriters(config.Default(), writerOptions{PrintOnly: replayPrintOnly})
		if err != nil {
			return err
		}
		defer cleanup()
		return sim.ReplayLogFile(cmd.Context(), replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to telemetry log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print telemetry to STDOUT instead of writing to DB")
	_ = replayCmd.MarkFlagRequired("input")
}
