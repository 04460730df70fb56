package telemetry

import (
	"time"

	"rocketintel-sim/internal/catalog"
	"rocketintel-sim/internal/flight"
)

// Generator stamps flight snapshots into rows for one simulation run.
type Generator struct {
	RunID string
	now   func() time.Time
}

// NewGenerator creates a row generator for a run.
func NewGenerator(runID string) *Generator {
	return &Generator{RunID: runID, now: time.Now}
}

// Row converts a committed snapshot into a TelemetryRow ready for writers.
func (g *Generator) Row(vehicleID string, rocket catalog.RocketModel, snap flight.Snapshot) TelemetryRow {
	tel := snap.Telemetry
	return TelemetryRow{
		RunID:            g.RunID,
		VehicleID:        vehicleID,
		RocketID:         rocket.ID,
		Phase:            snap.Phase,
		MissionTime:      tel.Timestamp,
		Altitude:         tel.Altitude,
		Speed:            tel.Speed,
		Acceleration:     tel.Acceleration,
		Fuel:             tel.Fuel,
		Temperature:      tel.Temperature,
		Pressure:         tel.Pressure,
		ThrustMultiplier: snap.ThrustMultiplier,
		ThrustKN:         flight.ThrustOutput(rocket, snap.Phase) * snap.ThrustMultiplier,
		Anomaly:          snap.Anomaly,
		Trajectory:       snap.Trajectory,
		Timestamp:        g.now().UTC(),
	}
}
