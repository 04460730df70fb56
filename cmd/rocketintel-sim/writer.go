package main

import (
	"os"

	"golang.org/x/term"

	"rocketintel-sim/internal/config"
	"rocketintel-sim/internal/sim"
	"rocketintel-sim/internal/stream"
	"rocketintel-sim/internal/telemetry"
)

// writerOptions select the sinks assembled by newWriters.
type writerOptions struct {
	PrintOnly bool
	TUI       bool
	LogFile   string
	Hub       *stream.Hub
}

// newWriters sets up telemetry writers based on flags and env vars. Every
// writer it returns also accepts analyses. The cleanup function closes any
// resources.
func newWriters(cfg *config.SimulationConfig, opts writerOptions) (sim.TelemetryWriter, func(), error) {
	var closers []func() error
	cleanup := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	base, err := baseWriter(cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	if tw, ok := base.(*sim.TUIWriter); ok {
		closers = append(closers, tw.Close)
	}

	tws := []sim.TelemetryWriter{base}
	if opts.LogFile != "" {
		fw, err := sim.NewFileWriter(opts.LogFile, opts.LogFile+".analysis")
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, fw.Close)
		tws = append(tws, fw)
	}
	if opts.Hub != nil {
		tws = append(tws, sim.NewStreamWriter(opts.Hub))
	}
	if len(tws) == 1 {
		return base, cleanup, nil
	}
	return sim.NewMultiWriter(tws), cleanup, nil
}

// baseWriter chooses the primary sink: the TUI, GreptimeDB when
// GREPTIMEDB_ENDPOINT is set, or STDOUT (colored on a terminal).
func baseWriter(cfg *config.SimulationConfig, opts writerOptions) (sim.TelemetryWriter, error) {
	if opts.TUI {
		return sim.NewTUIWriter(cfg), nil
	}
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	if opts.PrintOnly || endpoint == "" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return sim.NewColorStdoutWriter(cfg), nil
		}
		return sim.NewJSONStdoutWriter(), nil
	}
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	return sim.NewGreptimeDBWriter(endpoint, database, telemetry.TelemetryTableName, telemetry.AnalysisTableName)
}
