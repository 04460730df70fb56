package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"rocketintel-sim/internal/config"
	"rocketintel-sim/internal/export"
	"rocketintel-sim/internal/flight"
	"rocketintel-sim/internal/logging"
)

var (
	exportConfigPath string
	exportSchemaPath string
	exportRocket     string
	exportFormat     string
	exportOutput     string
	exportDuration   float64
	exportFrame      float64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fly one launch headless and write its mission report",
	Long:  "export runs a deterministic simulation of one vehicle to the given mission time and writes the mission report as JSON or CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logging.FromContext(ctx)

		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		cfg := config.Default()
		if exportConfigPath != "" {
			if cfg, err = config.Load(exportConfigPath, exportSchemaPath); err != nil {
				return err
			}
		}
		if exportRocket != "" {
			cfg.Vehicles = []string{exportRocket}
		}
		cfg.Vehicles = cfg.Vehicles[:1]
		if exportFrame <= 0 {
			return fmt.Errorf("frame must be positive")
		}

		simulator, err := buildSimulator(cfg, nil)
		if err != nil {
			return err
		}
		id := simulator.Vehicles()[0].ID
		simulator.Start()
		for t := 0.0; t < exportDuration; t += exportFrame {
			if err := simulator.Step(ctx, exportFrame); err != nil {
				return err
			}
		}
		if cfg.Analysis.Enabled {
			if _, err := simulator.Analyze(ctx, id); err != nil {
				log.Warn("final analysis failed", "err", err)
			}
		}
		report, err := simulator.Report(id)
		if err != nil {
			return err
		}
		log.Info("mission complete", "rocket", report.Rocket.ID, "phase", report.MissionPhase, "samples", len(report.TelemetryHistory))

		var out io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return export.Write(out, format, report)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportConfigPath, "config", "", "Path to simulation configuration YAML (defaults when empty)")
	exportCmd.Flags().StringVar(&exportSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	exportCmd.Flags().StringVar(&exportRocket, "rocket", "", "Rocket id to fly (overrides the configured vehicles)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Report format (json or csv)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (STDOUT when empty)")
	exportCmd.Flags().Float64Var(&exportDuration, "duration", flight.PhaseCompleted.Start()+5, "Mission seconds to simulate")
	exportCmd.Flags().Float64Var(&exportFrame, "frame", 1.0/60, "Frame delta in mission seconds")
}
