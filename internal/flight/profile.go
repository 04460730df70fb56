package flight

import (
	"math"

	"rocketintel-sim/internal/catalog"
	"rocketintel-sim/internal/physics"
)

// Frame is the input handed to a Profile on each commit.
type Frame struct {
	Time   float64 // mission seconds
	Step   float64 // seconds since the previous commit
	Phase  Phase
	Thrust float64 // current thrust multiplier
	Spike  bool    // the thrust fault draw fired on this commit
}

// Accumulator carries integrated vehicle state between commits.
type Accumulator struct {
	Altitude float64
	Speed    float64
	Thrust   float64
}

// Profile turns a commit frame into telemetry.
type Profile interface {
	Name() string
	Compute(r catalog.RocketModel, f Frame, acc *Accumulator) Telemetry
}

// ProfileByName returns the profile registered under name. An empty name
// selects the scripted profile.
func ProfileByName(name string) (Profile, bool) {
	switch name {
	case "", ScriptedProfile{}.Name():
		return ScriptedProfile{}, true
	case PhysicsProfile{}.Name():
		return PhysicsProfile{}, true
	}
	return nil, false
}

// ScriptedProfile evaluates closed-form per-phase curves. It is the
// canonical model.
type ScriptedProfile struct{}

func (ScriptedProfile) Name() string { return "scripted" }

func (ScriptedProfile) Compute(_ catalog.RocketModel, f Frame, acc *Accumulator) Telemetry {
	t, T := f.Time, f.Thrust
	u := t - f.Phase.Start()
	degraded := T < 0.8

	tel := PadTelemetry
	switch f.Phase {
	case PhaseIgnition:
		tel.Fuel = scriptedFuel(f.Phase, t)
		tel.Temperature = 20 + 100*t
	case PhaseLiftoff:
		tel.Altitude = 50 * u * u * T
		tel.Speed = math.Max(0, 100*u*T)
		tel.Acceleration = 3.5 * T
		tel.Fuel = scriptedFuel(f.Phase, t)
		tel.Temperature = 320 + 20*u + bump(f.Spike, 80)
		tel.Pressure = 101.3 - 5*u
	case PhaseMaxQ:
		tel.Altitude = 3500 + 100*u*u*T
		tel.Speed = math.Max(0, 700+200*u*T)
		tel.Acceleration = 4.2 * T
		tel.Fuel = scriptedFuel(f.Phase, t)
		tel.Temperature = 460 + 5*u + bump(degraded, 50)
		tel.Pressure = 51.3 - 2*u
	case PhaseStageSeparation:
		tel.Altitude = 25000 + 200*u*u*T
		tel.Speed = math.Max(0, 3700+300*u*T)
		tel.Acceleration = 2.8 * T
		tel.Fuel = scriptedFuel(f.Phase, t)
		tel.Temperature = 535 - 10*u + bump(degraded, 60)
		tel.Pressure = 21.3 - u
	case PhaseOrbitInsertion:
		tel.Altitude = 70000 + 100*u*u*T
		tel.Speed = math.Max(0, 8200+150*u*T)
		tel.Acceleration = 1.2 * T
		tel.Fuel = scriptedFuel(f.Phase, t)
		tel.Temperature = 385 - 5*u + bump(degraded, 40)
		tel.Pressure = math.Max(0, 6.3-0.3*u)
	case PhaseCompleted:
		tel = Telemetry{Altitude: 110000, Speed: 11200, Temperature: 285}
	}
	tel.Timestamp = t
	acc.Altitude, acc.Speed, acc.Thrust = tel.Altitude, tel.Speed, T
	return tel
}

func bump(on bool, v float64) float64 {
	if on {
		return v
	}
	return 0
}

// scriptedFuel is the fuel curve shared by both profiles.
func scriptedFuel(p Phase, t float64) float64 {
	u := t - p.Start()
	switch p {
	case PhaseIgnition:
		return 100 - t/3*2
	case PhaseLiftoff:
		return 98 - 3*u
	case PhaseMaxQ:
		return 77 - 2.5*u
	case PhaseStageSeparation:
		return 40 - 1.5*u
	case PhaseOrbitInsertion:
		return math.Max(0, 17.5-0.8*u)
	case PhaseCompleted:
		return 0
	default:
		return 100
	}
}

// ThrottleFor is the engine throttle setting PhysicsProfile applies in p.
func ThrottleFor(p Phase) float64 {
	switch p {
	case PhaseLiftoff:
		return 1
	case PhaseMaxQ:
		return 0.85
	case PhaseStageSeparation:
		return 0.7
	case PhaseOrbitInsertion:
		return 0.5
	default:
		return 0
	}
}

// PhysicsProfile integrates the continuous force model between commits.
// Fuel follows the scripted curve so anomaly rules stay comparable.
type PhysicsProfile struct{}

func (PhysicsProfile) Name() string { return "physics" }

func (PhysicsProfile) Compute(r catalog.RocketModel, f Frame, acc *Accumulator) Telemetry {
	fuel := scriptedFuel(f.Phase, f.Time)
	thrust := r.ThrustRating * 1000 * ThrottleFor(f.Phase) * f.Thrust
	frc := physics.ComputeForces(physics.State{
		Altitude:   acc.Altitude,
		Speed:      acc.Speed,
		Fuel:       fuel,
		RocketMass: r.Mass,
		Thrust:     thrust,
		Time:       f.Time,
	})

	accel := frc.Acceleration
	if f.Phase == PhaseCompleted {
		accel = 0
	} else {
		m := physics.Integrate(acc.Altitude, acc.Speed, accel, f.Step)
		acc.Altitude, acc.Speed = m.Altitude, m.Speed
	}
	// resting on the pad
	if acc.Altitude == 0 && acc.Speed == 0 && accel < 0 {
		accel = 0
	}
	acc.Thrust = f.Thrust

	return Telemetry{
		Altitude:     acc.Altitude,
		Speed:        acc.Speed,
		Acceleration: accel,
		Fuel:         fuel,
		Temperature:  frc.Temperature,
		Pressure:     frc.Pressure,
		Timestamp:    f.Time,
	}
}
