package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"rocketintel-sim/internal/catalog"
	"rocketintel-sim/internal/flight"
)

func TestGeneratorRow(t *testing.T) {
	gen := NewGenerator("run-1")
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	gen.now = func() time.Time { return fixed }

	rocket := catalog.RocketModel{ID: "falcon-9", ThrustRating: 7600}
	snap := flight.Snapshot{
		Phase:            flight.PhaseMaxQ,
		Telemetry:        flight.Telemetry{Altitude: 8400, Speed: 2100, Fuel: 59.5, Timestamp: 17},
		ThrustMultiplier: 0.5,
		Anomaly:          flight.AnomalyStatus{Overall: flight.SeverityWarning, Guidance: flight.SeverityWarning},
		Trajectory:       &flight.TrajectoryPoint{X: 3.5, Y: 840, Z: 1.4},
	}
	row := gen.Row("veh-1", rocket, snap)

	if row.RunID != "run-1" || row.VehicleID != "veh-1" || row.RocketID != "falcon-9" {
		t.Fatalf("unexpected tags %+v", row)
	}
	if row.MissionTime != 17 || row.Altitude != 8400 {
		t.Fatalf("unexpected readings %+v", row)
	}
	if row.ThrustKN != 7600*0.8*0.5 {
		t.Fatalf("thrust = %v", row.ThrustKN)
	}
	if !row.Timestamp.Equal(fixed) {
		t.Fatalf("timestamp = %v", row.Timestamp)
	}
	if row.Telemetry() != snap.Telemetry {
		t.Fatalf("telemetry round trip: %+v", row.Telemetry())
	}
}

func TestTelemetryRowJSON(t *testing.T) {
	row := TelemetryRow{RunID: "r", Phase: flight.PhaseOrbitInsertion, Anomaly: flight.AnomalyStatus{Fuel: flight.SeverityCritical}}
	b, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back TelemetryRow
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Phase != flight.PhaseOrbitInsertion || back.Anomaly.Fuel != flight.SeverityCritical {
		t.Fatalf("unexpected row %+v", back)
	}
}

func TestTableNames(t *testing.T) {
	if (TelemetryRow{}).TableName() == "" || (AnalysisRow{}).TableName() == "" {
		t.Fatalf("table names must not be empty")
	}
}
