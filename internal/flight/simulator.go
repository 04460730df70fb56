// Flight phase simulator producing committed telemetry snapshots
package flight

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"rocketintel-sim/internal/catalog"
)

// ErrInvalidDelta is returned by Tick for negative, NaN or infinite deltas.
var ErrInvalidDelta = errors.New("invalid time delta")

const (
	DefaultCommitStep                = 0.1
	DefaultThrustFaultProbability    = 0.08
	DefaultGuidanceGlitchProbability = 0.02

	// FaultArmAfter is the earliest mission time a thrust fault may arm.
	FaultArmAfter = 5.0
	// DecayDelay is how long after arming the thrust starts to decay.
	DecayDelay          = 0.5
	DecayStep           = 0.05
	MinThrustMultiplier = 0.3

	freshRunWindow  = 0.1
	commitTolerance = 1e-9
)

// Options tune a Simulator.
type Options struct {
	Profile                   Profile
	CommitStep                float64
	ThrustFaultProbability    float64
	GuidanceGlitchProbability float64
	// EngineStatusFromThrust grades the engine subsystem from the thrust
	// multiplier instead of always reporting nominal.
	EngineStatusFromThrust bool
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		Profile:                   ScriptedProfile{},
		CommitStep:                DefaultCommitStep,
		ThrustFaultProbability:    DefaultThrustFaultProbability,
		GuidanceGlitchProbability: DefaultGuidanceGlitchProbability,
	}
}

// Snapshot is the state handed back to the host after a Tick.
type Snapshot struct {
	Time             float64          `json:"simulation_time"`
	Phase            Phase            `json:"phase"`
	Telemetry        Telemetry        `json:"telemetry"`
	Anomaly          AnomalyStatus    `json:"anomaly_status"`
	ThrustMultiplier float64          `json:"thrust_multiplier"`
	Trajectory       *TrajectoryPoint `json:"trajectory_point,omitempty"`
	Committed        bool             `json:"committed"`
}

type thrustFault struct {
	armed       bool
	triggerTime float64
	multiplier  float64
}

func (f *thrustFault) reset() { *f = thrustFault{multiplier: 1} }

func (f *thrustFault) arm(t float64) bool {
	if f.armed {
		return false
	}
	f.armed = true
	f.triggerTime = t
	return true
}

func (f *thrustFault) advance(t float64) {
	if f.armed && t-f.triggerTime > DecayDelay {
		f.multiplier = math.Max(MinThrustMultiplier, f.multiplier-DecayStep)
	}
}

// Simulator advances one vehicle through the mission. It is not safe for
// concurrent use; hosts running several vehicles keep one Simulator each.
type Simulator struct {
	rocket  catalog.RocketModel
	opts    Options
	profile Profile
	draw    func() float64

	running       bool
	time          float64
	lastCommit    float64
	phase         Phase
	telemetry     Telemetry
	anomaly       AnomalyStatus
	fault         thrustFault
	acc           Accumulator
	glitchPending bool
	history       []Telemetry
	trajectory    []TrajectoryPoint
}

// NewSimulator creates a stopped simulator for rocket. rng may be nil, in
// which case a generator seeded with 1 is used.
func NewSimulator(rocket catalog.RocketModel, opts Options, rng *rand.Rand) *Simulator {
	if opts.Profile == nil {
		opts.Profile = ScriptedProfile{}
	}
	if opts.CommitStep <= 0 {
		opts.CommitStep = DefaultCommitStep
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	s := &Simulator{
		rocket:  rocket,
		opts:    opts,
		profile: opts.Profile,
		draw:    rng.Float64,
	}
	s.Reset()
	return s
}

// Start resets the run and begins accepting ticks.
func (s *Simulator) Start() {
	s.Reset()
	s.running = true
}

// Stop freezes the run. Ticks are ignored until Start.
func (s *Simulator) Stop() { s.running = false }

// Reset clears the clock, histories and fault state and leaves the
// simulator stopped.
func (s *Simulator) Reset() {
	s.running = false
	s.time = 0
	s.lastCommit = 0
	s.phase = PhasePreLaunch
	s.telemetry = PadTelemetry
	s.anomaly = AnomalyStatus{}
	s.fault.reset()
	s.acc = Accumulator{Thrust: 1}
	s.glitchPending = false
	s.history = nil
	s.trajectory = nil
}

// CheckDelta rejects negative, NaN and infinite frame deltas.
func CheckDelta(dt float64) error {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDelta, dt)
	}
	return nil
}

// Tick advances mission time by dt seconds and commits a new snapshot once
// at least one commit step has accumulated.
func (s *Simulator) Tick(dt float64) (Snapshot, error) {
	if err := CheckDelta(dt); err != nil {
		return s.Snapshot(), err
	}
	if !s.running {
		return s.Snapshot(), nil
	}
	s.time += dt
	if s.time-s.lastCommit+commitTolerance < s.opts.CommitStep {
		return s.Snapshot(), nil
	}
	return s.commit(), nil
}

func (s *Simulator) commit() Snapshot {
	t := s.time
	step := t - s.lastCommit
	s.lastCommit = t
	if t < freshRunWindow {
		s.acc = Accumulator{Thrust: 1}
	}

	phase := PhaseAt(t)
	spike := false
	if phase == PhaseLiftoff && t > FaultArmAfter {
		if s.draw() > 1-s.opts.ThrustFaultProbability {
			spike = true
			s.fault.arm(t)
		}
	}
	s.fault.advance(t)

	tel := s.profile.Compute(s.rocket, Frame{
		Time:   t,
		Step:   step,
		Phase:  phase,
		Thrust: s.fault.multiplier,
		Spike:  spike,
	}, &s.acc)
	tel.Timestamp = t
	tel.clamp()

	s.phase = phase
	s.telemetry = tel
	s.history = append(s.history, tel)

	pt := trajectoryAt(phase, t-phase.Start(), tel.Altitude)
	if pt != nil {
		s.trajectory = append(s.trajectory, *pt)
	}

	guidance := SeverityNominal
	if s.draw() > 1-s.opts.GuidanceGlitchProbability && GuidanceWindow(t) {
		guidance = SeverityWarning
	}
	if s.glitchPending {
		guidance = SeverityWarning
		s.glitchPending = false
	}
	engine := SeverityNominal
	if s.opts.EngineStatusFromThrust {
		engine = EngineSeverity(s.fault.multiplier)
	}
	s.anomaly = DeriveAnomalyStatus(tel, t, guidance, engine)

	snap := s.Snapshot()
	snap.Committed = true
	snap.Trajectory = pt
	return snap
}

// InjectThrustFault arms the thrust fault at the current mission time. It
// reports false if a fault was already armed this run.
func (s *Simulator) InjectThrustFault() bool { return s.fault.arm(s.time) }

// InjectGuidanceGlitch forces a guidance warning on the next commit.
func (s *Simulator) InjectGuidanceGlitch() { s.glitchPending = true }

// Snapshot returns the last committed state without advancing time.
func (s *Simulator) Snapshot() Snapshot {
	return Snapshot{
		Time:             s.time,
		Phase:            s.phase,
		Telemetry:        s.telemetry,
		Anomaly:          s.anomaly,
		ThrustMultiplier: s.fault.multiplier,
	}
}

// History returns a copy of all committed telemetry in commit order.
func (s *Simulator) History() []Telemetry {
	out := make([]Telemetry, len(s.history))
	copy(out, s.history)
	return out
}

// Trajectory returns a copy of the recorded flight path.
func (s *Simulator) Trajectory() []TrajectoryPoint {
	out := make([]TrajectoryPoint, len(s.trajectory))
	copy(out, s.trajectory)
	return out
}

func (s *Simulator) Time() float64 { return s.time }
func (s *Simulator) Running() bool { return s.running }
func (s *Simulator) Phase() Phase { return s.phase }
func (s *Simulator) Telemetry() Telemetry { return s.telemetry }
func (s *Simulator) Anomaly() AnomalyStatus { return s.anomaly }
func (s *Simulator) ThrustMultiplier() float64 { return s.fault.multiplier }
func (s *Simulator) Rocket() catalog.RocketModel { return s.rocket }
func (s *Simulator) ProfileName() string { return s.profile.Name() }

// FaultTriggerTime returns when the thrust fault armed, if it has.
func (s *Simulator) FaultTriggerTime() (float64, bool) {
	return s.fault.triggerTime, s.fault.armed
}
