package flight

import (
	"fmt"
	"strings"
)

// Phase is a mission stage keyed purely by elapsed mission time.
type Phase int

const (
	PhasePreLaunch Phase = iota
	PhaseIgnition
	PhaseLiftoff
	PhaseMaxQ
	PhaseStageSeparation
	PhaseOrbitInsertion
	PhaseCompleted
)

var phaseNames = [...]string{
	"pre-launch",
	"ignition",
	"liftoff",
	"max-q",
	"stage-separation",
	"orbit-insertion",
	"completed",
}

// phaseStarts holds the mission time at which each phase begins.
var phaseStarts = [...]float64{0, 0, 3, 10, 25, 40, 60}

var timelineLabels = [...]string{
	"T-00:00",
	"T+00:00",
	"T+00:03",
	"T+00:10",
	"T+00:25",
	"T+00:40",
	"T+01:00",
}

// Phases lists all phases in mission order.
func Phases() []Phase {
	return []Phase{
		PhasePreLaunch, PhaseIgnition, PhaseLiftoff, PhaseMaxQ,
		PhaseStageSeparation, PhaseOrbitInsertion, PhaseCompleted,
	}
}

// PhaseAt classifies mission time t. Negative time is pre-launch.
func PhaseAt(t float64) Phase {
	switch {
	case t < 0:
		return PhasePreLaunch
	case t < 3:
		return PhaseIgnition
	case t < 10:
		return PhaseLiftoff
	case t < 25:
		return PhaseMaxQ
	case t < 40:
		return PhaseStageSeparation
	case t < 60:
		return PhaseOrbitInsertion
	default:
		return PhaseCompleted
	}
}

// Start returns the mission time at which p begins.
func (p Phase) Start() float64 {
	if !p.valid() {
		return 0
	}
	return phaseStarts[p]
}

// TimelineLabel returns the countdown label shown for p.
func (p Phase) TimelineLabel() string {
	if !p.valid() {
		return ""
	}
	return timelineLabels[p]
}

func (p Phase) valid() bool { return p >= PhasePreLaunch && p <= PhaseCompleted }

func (p Phase) String() string {
	if !p.valid() {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range phaseNames {
		if n == s {
			return Phase(i), nil
		}
	}
	return PhasePreLaunch, fmt.Errorf("unknown mission phase %q", s)
}

func (p Phase) MarshalText() ([]byte, error) {
	if !p.valid() {
		return nil, fmt.Errorf("invalid mission phase %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	v, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
