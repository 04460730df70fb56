package flight

import (
	"math"

	"rocketintel-sim/internal/catalog"
)

// Telemetry is one committed snapshot of vehicle readings.
type Telemetry struct {
	Altitude     float64 `json:"altitude"`     // m
	Speed        float64 `json:"speed"`        // m/s
	Acceleration float64 `json:"acceleration"` // g
	Fuel         float64 `json:"fuel"`         // percent
	Temperature  float64 `json:"temperature"`  // °C
	Pressure     float64 `json:"pressure"`     // kPa
	Timestamp    float64 `json:"timestamp"`    // mission seconds
}

// TrajectoryPoint is a scene-space sample of the flight path.
type TrajectoryPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PadTelemetry is the reading on the pad before the first commit.
var PadTelemetry = Telemetry{Fuel: 100, Temperature: 20, Pressure: 101.3}

func (t *Telemetry) clamp() {
	t.Fuel = math.Min(100, math.Max(0, t.Fuel))
	t.Pressure = math.Max(0, t.Pressure)
	t.Altitude = math.Max(0, t.Altitude)
	t.Speed = math.Max(0, t.Speed)
}

// trajectoryAt returns the path sample for phase p, or nil outside powered
// flight. u is the time since the phase started.
func trajectoryAt(p Phase, u, altitude float64) *TrajectoryPoint {
	y := altitude / 10
	switch p {
	case PhaseLiftoff:
		return &TrajectoryPoint{X: 0, Y: y, Z: 0}
	case PhaseMaxQ:
		return &TrajectoryPoint{X: 0.5 * u, Y: y, Z: 0.2 * u}
	case PhaseStageSeparation:
		return &TrajectoryPoint{X: 7.5 + 0.8*u, Y: y, Z: 3 + 0.3*u}
	case PhaseOrbitInsertion:
		return &TrajectoryPoint{X: 19.5 + 1.2*u, Y: y, Z: 7.5 + 0.5*u}
	}
	return nil
}

// ThrustOutput returns the displayed engine thrust in kN for phase p.
func ThrustOutput(r catalog.RocketModel, p Phase) float64 {
	switch p {
	case PhaseLiftoff, PhaseMaxQ:
		return r.ThrustRating * 0.8
	case PhaseStageSeparation:
		return r.ThrustRating * 0.5 * 0.6
	case PhaseOrbitInsertion:
		return r.ThrustRating * 0.5 * 0.3
	default:
		return 0
	}
}
