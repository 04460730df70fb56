package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"rocketintel-sim/internal/analysis"
	"rocketintel-sim/internal/flight"
	"rocketintel-sim/internal/telemetry"
)

type mockGreptimeClient struct {
	table *table.Table
	err   error
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, m.err
}

func TestGreptimeWriterTelemetry(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	rows := []telemetry.TelemetryRow{
		{
			RunID:       "r1",
			VehicleID:   "v1",
			RocketID:    "falcon-9",
			Phase:       flight.PhaseMaxQ,
			MissionTime: 12.3,
			Altitude:    9000,
			Anomaly:     flight.AnomalyStatus{Overall: flight.SeverityWarning, Guidance: flight.SeverityWarning},
			Trajectory:  &flight.TrajectoryPoint{X: 4, Y: 900, Z: 1},
			Timestamp:   ts,
		},
		{RunID: "r1", VehicleID: "v2", RocketID: "electron", Timestamp: ts},
	}

	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, table: "launch_telemetry"}
	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	got := m.table.GetRows()
	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.Rows))
	}
	if len(got.Schema) != 22 {
		t.Fatalf("unexpected schema length: %d", len(got.Schema))
	}
	if got.Schema[0].SemanticType != gpb.SemanticType_TAG {
		t.Fatalf("run_id should be a tag")
	}
	if v := got.Rows[0].Values[3].GetStringValue(); v != "max-q" {
		t.Fatalf("phase = %s, want max-q", v)
	}
	if v := got.Rows[0].Values[5].GetF64Value(); v != 9000 {
		t.Fatalf("altitude = %v, want 9000", v)
	}
	if v := got.Rows[0].Values[16].GetStringValue(); v != "warning" {
		t.Fatalf("guidance_status = %s, want warning", v)
	}
	if v := got.Rows[0].Values[19].GetF64Value(); v != 900 {
		t.Fatalf("traj_y = %v, want 900", v)
	}
}

func TestGreptimeWriterAnalysis(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, analysisTable: "launch_analysis"}
	row := telemetry.AnalysisRow{RunID: "r1", VehicleID: "v1", OverallRisk: "high", Predictions: make([]analysis.Prediction, 5), Recommendations: []string{"a", "b"}, Timestamp: time.Unix(0, 0)}
	if err := w.WriteAnalysis(row); err != nil {
		t.Fatalf("WriteAnalysis: %v", err)
	}
	vals := m.table.GetRows().Rows[0].Values
	if vals[4].GetStringValue() != "high" {
		t.Fatalf("overall_risk = %s", vals[4].GetStringValue())
	}
	if vals[6].GetStringValue() != "a; b" {
		t.Fatalf("recommendations = %s", vals[6].GetStringValue())
	}
}

func TestGreptimeWriterError(t *testing.T) {
	m := &mockGreptimeClient{err: errors.New("unavailable")}
	w := &GreptimeDBWriter{client: m, table: "launch_telemetry"}
	if err := w.Write(telemetry.TelemetryRow{Timestamp: time.Unix(0, 0)}); err == nil {
		t.Fatalf("expected error")
	}
	if err := w.WriteBatch(nil); err != nil {
		t.Fatalf("empty batch should be a no-op: %v", err)
	}
}

func TestSplitEndpoint(t *testing.T) {
	cases := []struct {
		in   string
		host string
		port int
	}{
		{"greptimedb", "greptimedb", 4001},
		{"localhost:5001", "localhost", 5001},
		{"http://db:4001", "db", 4001},
	}
	for _, tc := range cases {
		h, p, err := splitEndpoint(tc.in)
		if err != nil || h != tc.host || p != tc.port {
			t.Fatalf("splitEndpoint(%q) = %s %d %v", tc.in, h, p, err)
		}
	}
	if _, _, err := splitEndpoint("db:port"); err == nil {
		t.Fatalf("expected error for bad port")
	}
}
