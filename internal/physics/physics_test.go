package physics

import (
	"math"
	"testing"
)

func approx(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestComputeForcesEngineCutoff(t *testing.T) {
	base := State{Altitude: 12000, Speed: 800, Fuel: 0, RocketMass: 549000, Time: 30}
	off := ComputeForces(base)
	for _, thrust := range []float64{1, 7.6e6, 1e9} {
		s := base
		s.Thrust = thrust
		got := ComputeForces(s)
		if got.Acceleration != off.Acceleration {
			t.Fatalf("thrust %.0f: accel = %v, want %v", thrust, got.Acceleration, off.Acceleration)
		}
	}
}

func TestComputeForcesSeaLevel(t *testing.T) {
	f := ComputeForces(State{RocketMass: 1000, Fuel: 100})
	if !approx(f.Pressure, 101.325, 1e-9) {
		t.Fatalf("pressure = %v", f.Pressure)
	}
	if !approx(f.Gravity, 9.82, 0.01) {
		t.Fatalf("gravity = %v", f.Gravity)
	}
	if f.Drag != 0 {
		t.Fatalf("drag = %v, want 0 at rest", f.Drag)
	}
	if !approx(f.Acceleration, -f.Gravity/StandardGravity, 1e-9) {
		t.Fatalf("accel = %v", f.Acceleration)
	}
	if f.Temperature != 15 {
		t.Fatalf("temperature = %v, want 15", f.Temperature)
	}
}

func TestComputeForcesZeroMass(t *testing.T) {
	f := ComputeForces(State{Thrust: 100, Fuel: 50})
	if f.Acceleration != 0 || math.IsNaN(f.Acceleration) {
		t.Fatalf("accel = %v, want 0", f.Acceleration)
	}
}

func TestComputeForcesMassDepletion(t *testing.T) {
	full := ComputeForces(State{RocketMass: 1000, Fuel: 100, Thrust: 20000})
	half := ComputeForces(State{RocketMass: 1000, Fuel: 1, Thrust: 20000})
	if half.Acceleration <= full.Acceleration {
		t.Fatalf("lighter vehicle should accelerate harder: %v <= %v", half.Acceleration, full.Acceleration)
	}
}

func TestAmbientTemperatureBands(t *testing.T) {
	cases := []struct {
		alt, want float64
	}{
		{0, 15},
		{10000, -50},
		{15000, -56.5},
		{25000, -51.5},
		{42000, -16.5},
	}
	for _, c := range cases {
		if got := AmbientTemperature(c.alt); !approx(got, c.want, 1e-9) {
			t.Fatalf("alt %.0f: got %v, want %v", c.alt, got, c.want)
		}
	}
}

func TestTransonicHeating(t *testing.T) {
	sound := math.Sqrt(1.4 * 287 * (15 + 273.15))
	at := ComputeForces(State{Speed: sound, RocketMass: 1})
	dyn := 10 * 0.5 * SeaLevelDensity * sound * sound * sound / 1e6
	if !approx(at.Temperature, 15+dyn+100, 1e-6) {
		t.Fatalf("temperature at mach 1 = %v", at.Temperature)
	}
}

func TestIntegrate(t *testing.T) {
	m := Integrate(100, 10, 1, 2)
	if !approx(m.Speed, 29.62, 1e-9) {
		t.Fatalf("speed = %v", m.Speed)
	}
	if !approx(m.Altitude, 100+(10+29.62), 1e-9) {
		t.Fatalf("altitude = %v", m.Altitude)
	}
}

func TestIntegrateGroundFloor(t *testing.T) {
	m := Integrate(0, 0, -1, 1)
	if m.Altitude != 0 || m.Speed != 0 {
		t.Fatalf("got %+v, want zero floor", m)
	}
}
