// Telemetry rows with greptime tags
package telemetry

import (
	"os"
	"time"

	"rocketintel-sim/internal/flight"
)

// TelemetryRow represents one committed tick of one vehicle.
type TelemetryRow struct {
	RunID            string                  `json:"run_id"`     // TAG
	VehicleID        string                  `json:"vehicle_id"` // TAG
	RocketID         string                  `json:"rocket_id"`  // TAG
	Phase            flight.Phase            `json:"phase"`
	MissionTime      float64                 `json:"mission_time"`
	Altitude         float64                 `json:"altitude"`
	Speed            float64                 `json:"speed"`
	Acceleration     float64                 `json:"acceleration"`
	Fuel             float64                 `json:"fuel"`
	Temperature      float64                 `json:"temperature"`
	Pressure         float64                 `json:"pressure"`
	ThrustMultiplier float64                 `json:"thrust_multiplier"`
	ThrustKN         float64                 `json:"thrust_kn"`
	Anomaly          flight.AnomalyStatus    `json:"anomaly"`
	Trajectory       *flight.TrajectoryPoint `json:"trajectory,omitempty"`
	Timestamp        time.Time               `json:"ts"` // TIME INDEX
}

// Telemetry returns the flight readings carried by the row.
func (r TelemetryRow) Telemetry() flight.Telemetry {
	return flight.Telemetry{
		Altitude:     r.Altitude,
		Speed:        r.Speed,
		Acceleration: r.Acceleration,
		Fuel:         r.Fuel,
		Temperature:  r.Temperature,
		Pressure:     r.Pressure,
		Timestamp:    r.MissionTime,
	}
}

// TelemetryTableName holds the table name used when writing to GreptimeDB.
// It defaults to "launch_telemetry" but can be overridden via the
// GREPTIMEDB_TABLE environment variable.
var TelemetryTableName = envOr("GREPTIMEDB_TABLE", "launch_telemetry")

// AnalysisTableName is the GreptimeDB table for analysis results, set with
// ANALYSIS_TABLE.
var AnalysisTableName = envOr("ANALYSIS_TABLE", "launch_analysis")

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (TelemetryRow) TableName() string {
	return TelemetryTableName
}
