// Continuous force model and motion integrator for a single vehicle
package physics

import "math"

const (
	EarthRadius           = 6371000.0 // m
	SeaLevelPressure      = 101325.0  // Pa
	SeaLevelDensity       = 1.225     // kg/m³
	ScaleHeight           = 8500.0    // m
	GravitationalConstant = 6.674e-11
	EarthMass             = 5.972e24 // kg
	DragCoefficient       = 0.75
	ReferenceArea         = 10.0 // m²
	StandardGravity       = 9.81 // m/s²

	heatCapacityRatio = 1.4
	gasConstantAir    = 287.0
)

// State is the instantaneous vehicle state fed into ComputeForces.
type State struct {
	Altitude   float64 // m
	Speed      float64 // m/s
	Fuel       float64 // percent
	RocketMass float64 // kg at full fuel
	Thrust     float64 // N
	Time       float64 // s
}

// Forces holds the derived quantities for a State.
type Forces struct {
	Acceleration float64 // g
	Temperature  float64 // °C
	Pressure     float64 // kPa
	Drag         float64 // kN
	Gravity      float64 // m/s²
}

// Motion is the result of one integration step.
type Motion struct {
	Altitude float64
	Speed    float64
}

// Gravity returns the gravitational acceleration at altitude.
func Gravity(altitude float64) float64 {
	d := EarthRadius + altitude
	return GravitationalConstant * EarthMass / (d * d)
}

// Density returns the air density at altitude (isothermal model).
func Density(altitude float64) float64 {
	return SeaLevelDensity * math.Exp(-altitude/ScaleHeight)
}

// Pressure returns the ambient pressure in Pa.
func Pressure(altitude float64) float64 {
	return SeaLevelPressure * math.Exp(-altitude/ScaleHeight)
}

// AmbientTemperature applies a banded lapse-rate model, in °C.
func AmbientTemperature(altitude float64) float64 {
	switch {
	case altitude < 11000:
		return 15 - 0.0065*altitude
	case altitude < 20000:
		return -56.5
	case altitude < 32000:
		return -56.5 + 0.001*(altitude-20000)
	default:
		return -44.5 + 0.0028*(altitude-32000)
	}
}

// MachNumber returns speed relative to the speed of sound at tempC.
func MachNumber(speed, tempC float64) float64 {
	sound := math.Sqrt(heatCapacityRatio * gasConstantAir * (tempC + 273.15))
	if sound <= 0 || math.IsNaN(sound) {
		return 0
	}
	return speed / sound
}

// ComputeForces evaluates thrust, drag and gravity for s. Thrust is ignored
// once fuel is exhausted.
func ComputeForces(s State) Forces {
	g := Gravity(s.Altitude)
	rho := Density(s.Altitude)
	drag := 0.5 * rho * s.Speed * s.Speed * DragCoefficient * ReferenceArea

	mass := s.RocketMass * (0.5 + s.Fuel/200)
	net := -drag - mass*g
	if s.Fuel > 0 {
		net += s.Thrust
	}
	var accel float64
	if mass > 0 {
		accel = net / mass / StandardGravity
	}

	temp := AmbientTemperature(s.Altitude)
	mach := MachNumber(s.Speed, temp)
	temp += 10 * (0.5 * rho * s.Speed * s.Speed * s.Speed / 1e6)
	if mach > 0.8 && mach < 1.2 {
		temp += 100 * (1 - math.Abs(mach-1))
	}

	return Forces{
		Acceleration: accel,
		Temperature:  temp,
		Pressure:     Pressure(s.Altitude) / 1000,
		Drag:         drag / 1000,
		Gravity:      g,
	}
}

// Integrate advances altitude and speed by dt using the mean of the old and
// new speed. Neither result goes below zero.
func Integrate(altitude, speed, acceleration, dt float64) Motion {
	next := speed + acceleration*dt*StandardGravity
	alt := altitude + (speed+next)/2*dt
	return Motion{
		Altitude: math.Max(0, alt),
		Speed:    math.Max(0, next),
	}
}
