package analysis

import (
	"context"
	"fmt"

	"rocketintel-sim/internal/flight"
)

// RuleAnalyzer grades telemetry with fixed thresholds. It stands in for a
// hosted model and never fails.
type RuleAnalyzer struct{}

func (RuleAnalyzer) Analyze(ctx context.Context, req Request) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	preds := []Prediction{
		engineOutlook(req),
		fuelOutlook(req),
		guidanceOutlook(req),
		temperatureOutlook(req),
		structuralOutlook(req),
	}
	out := Analysis{Predictions: preds}
	for _, p := range preds {
		out.OverallRisk = MaxRisk(out.OverallRisk, p.Risk)
		if rec, ok := recommendations[p.System][p.Risk]; ok {
			out.Recommendations = append(out.Recommendations, rec)
		}
	}
	if len(out.Recommendations) == 0 {
		out.Recommendations = []string{fmt.Sprintf("Continue nominal %s profile", req.MissionPhase)}
	}
	return out, nil
}

var recommendations = map[string]map[Risk]string{
	"engine": {
		RiskHigh:     "Monitor engine chamber pressure and prepare throttle compensation",
		RiskCritical: "Engine thrust decay detected; evaluate abort criteria",
	},
	"fuel": {
		RiskMedium:   "Verify propellant margins against the insertion burn",
		RiskHigh:     "Fuel consumption above plan; check for feed system leaks",
		RiskCritical: "Fuel system failure imminent; prepare contingency trajectory",
	},
	"guidance": {
		RiskMedium: "Cross-check inertial and GNSS solutions",
	},
	"temperature": {
		RiskMedium:   "Watch thermal margins through the next phase",
		RiskHigh:     "Temperature above limits; reduce throttle to lower heating",
		RiskCritical: "Excessive temperature rise; initiate thermal protection procedures",
	},
	"structural": {
		RiskMedium: "Peak aerodynamic load; hold throttle bucket",
	},
}

func engineOutlook(req Request) Prediction {
	t := req.ThrustMultiplier
	if t == 0 {
		t = 1
	}
	if req.AnomalyStatus != nil && req.AnomalyStatus.Engine == flight.SeverityCritical {
		t = 0
	}
	switch {
	case t < 0.8:
		return Prediction{"engine", RiskCritical, "Thrust output degraded below safe margin", 0.9}
	case t < 1:
		return Prediction{"engine", RiskHigh, "Thrust decay in progress", 0.85}
	default:
		return Prediction{"engine", RiskLow, "Engines performing within nominal parameters", 0.9}
	}
}

func fuelOutlook(req Request) Prediction {
	switch flight.FuelSeverity(req.Fuel, req.Timestamp) {
	case flight.SeverityCritical:
		return Prediction{"fuel", RiskCritical, "Propellant will be exhausted before orbit", 0.9}
	case flight.SeverityWarning:
		return Prediction{"fuel", RiskHigh, "Propellant reserve trending below plan", 0.8}
	}
	if req.Fuel < 20 && req.Timestamp < 60 {
		return Prediction{"fuel", RiskMedium, "Low propellant reserve for remaining burn", 0.7}
	}
	return Prediction{"fuel", RiskLow, "Propellant margins adequate", 0.85}
}

func guidanceOutlook(req Request) Prediction {
	if req.AnomalyStatus != nil && req.AnomalyStatus.Guidance != flight.SeverityNominal {
		return Prediction{"guidance", RiskMedium, "Transient guidance deviation reported", 0.6}
	}
	return Prediction{"guidance", RiskLow, "Trajectory tracking nominal", 0.75}
}

func temperatureOutlook(req Request) Prediction {
	switch {
	case req.Temperature > flight.TempCriticalC:
		return Prediction{"temperature", RiskCritical, "Thermal limits exceeded", 0.9}
	case req.Temperature > flight.TempWarningC:
		return Prediction{"temperature", RiskHigh, "Approaching thermal limits", 0.85}
	case req.Temperature > 450:
		return Prediction{"temperature", RiskMedium, "Elevated aerodynamic heating", 0.7}
	default:
		return Prediction{"temperature", RiskLow, "Thermal state nominal", 0.85}
	}
}

func structuralOutlook(req Request) Prediction {
	if req.MissionPhase == flight.PhaseMaxQ.String() {
		return Prediction{"structural", RiskMedium, "Vehicle passing maximum dynamic pressure", 0.7}
	}
	return Prediction{"structural", RiskLow, "Structural loads within limits", 0.8}
}
