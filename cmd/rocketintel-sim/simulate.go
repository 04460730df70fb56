package main

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/spf13/cobra"

	"rocketintel-sim/internal/admin"
	"rocketintel-sim/internal/config"
	"rocketintel-sim/internal/logging"
	"rocketintel-sim/internal/metrics"
	"rocketintel-sim/internal/sim"
	"rocketintel-sim/internal/stream"
)

var (
	simPrintOnly  bool
	simTUI        bool
	simConfigPath string
	simSchemaPath string
	simLogFile    string
	simAdminAddr  string
	simAutoStart  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the real-time launch simulator",
	Long:  "simulate flies the configured vehicles in real time, emitting telemetry and risk assessments and serving the admin UI.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		log := logging.FromContext(ctx)

		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}

		hub := stream.NewHub()
		defer hub.Close()

		writer, cleanup, err := newWriters(cfg, writerOptions{
			PrintOnly: simPrintOnly,
			TUI:       simTUI,
			LogFile:   simLogFile,
			Hub:       hub,
		})
		if err != nil {
			return err
		}
		defer cleanup()

		simulator, err := buildSimulator(cfg, writer)
		if err != nil {
			return err
		}
		recorder := metrics.NewRecorder()
		simulator.SetRecorder(recorder)
		if tw, ok := writer.(interface{ SetFaultInjector(sim.FaultInjector) }); ok {
			tw.SetFaultInjector(simulator.InjectFault)
		}

		var wg sync.WaitGroup
		if simAdminAddr != "" {
			srv := admin.NewServer(simulator)
			srv.Analyzer = newAnalyzer(cfg)
			srv.Stream = hub
			srv.Metrics = recorder.Handler()
			wg.Add(1)
			go func() {
				defer wg.Done()
				log.Info("admin UI listening", "addr", simAdminAddr)
				setAdminStatus(writer, true)
				if err := srv.Start(ctx, simAdminAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("admin server failed", "err", err)
				}
				setAdminStatus(writer, false)
			}()
		}

		if simAutoStart {
			simulator.Start()
		}
		simulator.Run(ctx)
		cancel()
		wg.Wait()
		log.Info("launch simulation stopped")
		return nil
	},
}

func setAdminStatus(w sim.TelemetryWriter, active bool) {
	if sw, ok := w.(sim.AdminStatusWriter); ok {
		sw.SetAdminStatus(active)
	}
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print telemetry to STDOUT instead of writing to DB")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render telemetry in an interactive terminal UI")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export telemetry logs (JSONL); analyses go to <path>.analysis")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin-addr", ":8080", "Admin UI listen address (empty to disable)")
	simulateCmd.Flags().BoolVar(&simAutoStart, "autostart", true, "Start the launch immediately")
}
