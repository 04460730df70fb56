package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"rocketintel-sim/internal/config"
	"rocketintel-sim/internal/sim"
	"rocketintel-sim/internal/stream"
	"rocketintel-sim/internal/telemetry"
)

func TestNewWritersPrintOnly(t *testing.T) {
	tw, cleanup, err := newWriters(config.Default(), writerOptions{PrintOnly: true})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := tw.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", tw)
	}
	if _, ok := tw.(sim.AnalysisWriter); !ok {
		t.Fatalf("stdout writer should accept analyses")
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	tw, cleanup, err := newWriters(config.Default(), writerOptions{})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := tw.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", tw)
	}
}

func TestNewWritersLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telemetry.log")
	hub := stream.NewHub()
	defer hub.Close()
	tw, cleanup, err := newWriters(config.Default(), writerOptions{PrintOnly: true, LogFile: path, Hub: hub})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if _, ok := tw.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", tw)
	}
	row := telemetry.TelemetryRow{RunID: "r1", VehicleID: "v1", Timestamp: time.Now()}
	if err := tw.Write(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	aw, ok := tw.(sim.AnalysisWriter)
	if !ok {
		t.Fatalf("telemetry writer does not implement AnalysisWriter")
	}
	if err := aw.WriteAnalysis(telemetry.AnalysisRow{RunID: "r1", VehicleID: "v1", OverallRisk: "low", Timestamp: time.Now()}); err != nil {
		t.Fatalf("write analysis failed: %v", err)
	}
	for _, p := range []string{path, path + ".analysis"} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if info.Size() == 0 {
			t.Fatalf("expected %s to be non-empty", p)
		}
	}
}

func TestSimOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	p := 0.0
	cfg.ThrustFaultProbability = &p
	cfg.Profile = "physics"
	cfg.Scenario = "thrust-decay"
	opts, err := simOptions(cfg)
	if err != nil {
		t.Fatalf("simOptions: %v", err)
	}
	if opts.Flight.Profile.Name() != "physics" || opts.Flight.ThrustFaultProbability != 0 {
		t.Fatalf("unexpected flight options %+v", opts.Flight)
	}
	if opts.Script == nil || opts.Script.Name != "thrust-decay" {
		t.Fatalf("scenario not resolved: %+v", opts.Script)
	}

	cfg.Profile = "warp"
	if _, err := simOptions(cfg); err == nil {
		t.Fatalf("expected error for unknown profile")
	}
}

func TestBuildSimulatorAddsVehicles(t *testing.T) {
	cfg := config.Default()
	cfg.Vehicles = []string{"falcon-9", "electron"}
	s, err := buildSimulator(cfg, nil)
	if err != nil {
		t.Fatalf("buildSimulator: %v", err)
	}
	if len(s.Vehicles()) != 2 {
		t.Fatalf("vehicles = %d", len(s.Vehicles()))
	}
	cfg.Vehicles = []string{"nope"}
	if _, err := buildSimulator(cfg, nil); err == nil {
		t.Fatalf("expected error for unknown rocket")
	}
}
