package stream

import (
	"encoding/json"

	"rocketintel-sim/internal/analysis"
	"rocketintel-sim/internal/telemetry"
)

// Message types carried in an Envelope.
const (
	TypeTelemetry = "telemetry"
	TypeAnalysis  = "ai_analysis"
)

// Envelope is the JSON frame exchanged over the socket. Clients send
// telemetry requests; the server pushes telemetry rows and analyses.
type Envelope struct {
	Type      string                  `json:"type"`
	VehicleID string                  `json:"vehicleId,omitempty"`
	Telemetry *analysis.Request       `json:"telemetry,omitempty"`
	Row       *telemetry.TelemetryRow `json:"row,omitempty"`
	Analysis  *analysis.Analysis      `json:"analysis,omitempty"`
}

// TelemetryFrame wraps a row for broadcast.
func TelemetryFrame(row telemetry.TelemetryRow) ([]byte, error) {
	return json.Marshal(Envelope{Type: TypeTelemetry, VehicleID: row.VehicleID, Row: &row})
}

// AnalysisFrame wraps an analysis for broadcast.
func AnalysisFrame(vehicleID string, a analysis.Analysis) ([]byte, error) {
	return json.Marshal(Envelope{Type: TypeAnalysis, VehicleID: vehicleID, Analysis: &a})
}
