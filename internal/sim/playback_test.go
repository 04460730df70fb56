package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"rocketintel-sim/internal/telemetry"
)

type collectWriter struct{ rows []telemetry.TelemetryRow }

func (c *collectWriter) Write(r telemetry.TelemetryRow) error {
	c.rows = append(c.rows, r)
	return nil
}

func encodeRows(t *testing.T, rows []telemetry.TelemetryRow) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	return &buf
}

func TestReplayLog(t *testing.T) {
	rows := []telemetry.TelemetryRow{
		{VehicleID: "v1", MissionTime: 0.1, Timestamp: time.Unix(0, 0)},
		{VehicleID: "v2", MissionTime: 0.1, Timestamp: time.Unix(0, 0)},
		{VehicleID: "v1", MissionTime: 0.2, Timestamp: time.Unix(1, 0)},
	}
	cw := &collectWriter{}
	if err := ReplayLog(context.Background(), encodeRows(t, rows), cw, 0); err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if len(cw.rows) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(cw.rows))
	}
	for i, r := range rows {
		if cw.rows[i].VehicleID != r.VehicleID || cw.rows[i].MissionTime != r.MissionTime {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, cw.rows[i], r)
		}
	}
}

func TestReplayLogCancelled(t *testing.T) {
	rows := []telemetry.TelemetryRow{{MissionTime: 0}, {MissionTime: 60}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	cw := &collectWriter{}
	err := ReplayLog(ctx, encodeRows(t, rows), cw, 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if len(cw.rows) != 1 {
		t.Fatalf("expected only first row, got %d", len(cw.rows))
	}
}
