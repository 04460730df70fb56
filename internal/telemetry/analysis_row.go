package telemetry

import (
	"time"

	"rocketintel-sim/internal/analysis"
)

// AnalysisRow records one risk assessment returned for a vehicle.
type AnalysisRow struct {
	RunID           string                `json:"run_id"`     // TAG
	VehicleID       string                `json:"vehicle_id"` // TAG
	MissionTime     float64               `json:"mission_time"`
	Phase           string                `json:"phase"`
	OverallRisk     string                `json:"overall_risk"`
	Predictions     []analysis.Prediction `json:"predictions"`
	Recommendations []string              `json:"recommendations"`
	Timestamp       time.Time             `json:"ts"` // TIME INDEX
}

// Analysis returns the assessment carried by the row.
func (r AnalysisRow) Analysis() analysis.Analysis {
	risk, err := analysis.ParseRisk(r.OverallRisk)
	if err != nil {
		risk = analysis.RiskLow
	}
	return analysis.Analysis{OverallRisk: risk, Predictions: r.Predictions, Recommendations: r.Recommendations}
}

func (AnalysisRow) TableName() string {
	return AnalysisTableName
}
