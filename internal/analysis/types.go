// Risk assessment boundary between the simulator and analysis services
package analysis

import (
	"context"
	"fmt"
	"strings"

	"rocketintel-sim/internal/flight"
)

// Risk is the qualitative risk level of a system or mission.
type Risk string

const (
	RiskLow      Risk = "low"
	RiskMedium   Risk = "medium"
	RiskHigh     Risk = "high"
	RiskCritical Risk = "critical"
)

var riskRank = map[Risk]int{RiskLow: 0, RiskMedium: 1, RiskHigh: 2, RiskCritical: 3}

// ParseRisk validates s.
func ParseRisk(s string) (Risk, error) {
	r := Risk(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := riskRank[r]; !ok {
		return "", fmt.Errorf("unknown risk %q", s)
	}
	return r, nil
}

// MaxRisk returns the highest of risks, or low for none.
func MaxRisk(risks ...Risk) Risk {
	m := RiskLow
	for _, r := range risks {
		if riskRank[r] > riskRank[m] {
			m = r
		}
	}
	return m
}

// Prediction is the outlook for one vehicle system.
type Prediction struct {
	System     string  `json:"system"`
	Risk       Risk    `json:"risk"`
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// Analysis is the result returned for one telemetry request.
type Analysis struct {
	OverallRisk     Risk         `json:"overallRisk"`
	Predictions     []Prediction `json:"predictions"`
	Recommendations []string     `json:"recommendations"`
}

// Request is the telemetry snapshot sent for analysis.
type Request struct {
	VehicleID        string                `json:"vehicleId,omitempty"`
	RocketModel      string                `json:"rocketModel"`
	MissionPhase     string                `json:"missionPhase"`
	Altitude         float64               `json:"altitude"`
	Speed            float64               `json:"speed"`
	Acceleration     float64               `json:"acceleration"`
	Fuel             float64               `json:"fuel"`
	Temperature      float64               `json:"temperature"`
	Pressure         float64               `json:"pressure"`
	Timestamp        float64               `json:"timestamp"`
	ThrustMultiplier float64               `json:"thrustMultiplier,omitempty"`
	AnomalyStatus    *flight.AnomalyStatus `json:"anomalyStatus,omitempty"`
	// Generation identifies the run the snapshot came from. Never sent.
	Generation       uint64                `json:"-"`
}

// NewRequest builds a request from a committed snapshot.
func NewRequest(vehicleID, rocketName string, snap flight.Snapshot) Request {
	tel := snap.Telemetry
	anomaly := snap.Anomaly
	return Request{
		VehicleID:        vehicleID,
		RocketModel:      rocketName,
		MissionPhase:     snap.Phase.String(),
		Altitude:         tel.Altitude,
		Speed:            tel.Speed,
		Acceleration:     tel.Acceleration,
		Fuel:             tel.Fuel,
		Temperature:      tel.Temperature,
		Pressure:         tel.Pressure,
		Timestamp:        tel.Timestamp,
		ThrustMultiplier: snap.ThrustMultiplier,
		AnomalyStatus:    &anomaly,
	}
}

// Analyzer turns a telemetry request into a risk assessment.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (Analysis, error)
}

// MissionClock formats mission seconds as T+m:ss.
func MissionClock(t float64) string {
	if t < 0 {
		t = 0
	}
	s := int(t)
	return fmt.Sprintf("T+%d:%02d", s/60, s%60)
}
