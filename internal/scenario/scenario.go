package scenario

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fault names a failure that can be injected into a flight.
type Fault string

const (
	FaultThrustDecay    Fault = "thrust_decay"
	FaultGuidanceGlitch Fault = "guidance_glitch"
)

// ParseFault validates s.
func ParseFault(s string) (Fault, error) {
	switch f := Fault(strings.ToLower(strings.TrimSpace(s))); f {
	case FaultThrustDecay, FaultGuidanceGlitch:
		return f, nil
	}
	return "", fmt.Errorf("unknown fault %q", s)
}

// Script is a named list of timed fault injections.
type Script struct {
	Name        string      `yaml:"name,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Injections  []Injection `yaml:"injections"`
}

// Injection fires a fault at mission time At. An empty Rocket targets every
// vehicle; otherwise only vehicles flying that catalog id.
type Injection struct {
	At     float64 `yaml:"at"`
	Fault  Fault   `yaml:"fault"`
	Rocket string  `yaml:"rocket,omitempty"`
}

// Applies reports whether the injection targets rocketID.
func (i Injection) Applies(rocketID string) bool {
	return i.Rocket == "" || i.Rocket == rocketID
}

// Load reads a YAML fault script from disk.
func Load(path string) (*Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Script
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Resolve returns the built-in script called name or loads it from disk.
func Resolve(name string) (*Script, error) {
	if name == "" {
		return nil, nil
	}
	if s, ok := BuiltIn()[name]; ok {
		return &s, nil
	}
	return Load(name)
}

// Validate checks fault names and times and sorts injections by time.
func (s *Script) Validate() error {
	for i, inj := range s.Injections {
		if _, err := ParseFault(string(inj.Fault)); err != nil {
			return fmt.Errorf("injection %d: %w", i, err)
		}
		if inj.At < 0 {
			return fmt.Errorf("injection %d: negative time %v", i, inj.At)
		}
	}
	sort.SliceStable(s.Injections, func(a, b int) bool { return s.Injections[a].At < s.Injections[b].At })
	return nil
}

// Due returns the injections scheduled in (prev, now].
func (s *Script) Due(prev, now float64) []Injection {
	if s == nil {
		return nil
	}
	var out []Injection
	for _, inj := range s.Injections {
		if inj.At > prev && inj.At <= now {
			out = append(out, inj)
		}
	}
	return out
}

// BuiltIn returns the predefined fault scripts.
func BuiltIn() map[string]Script {
	return map[string]Script{
		"nominal": {
			Name:        "nominal",
			Description: "Clean ascent with no scripted faults.",
		},
		"thrust-decay": {
			Name:        "thrust-decay",
			Description: "Engine loses thrust shortly after clearing the tower.",
			Injections:  []Injection{{At: 6, Fault: FaultThrustDecay}},
		},
		"guidance-glitch": {
			Name:        "guidance-glitch",
			Description: "Navigation solutions disagree through max-q and staging.",
			Injections: []Injection{
				{At: 18, Fault: FaultGuidanceGlitch},
				{At: 31, Fault: FaultGuidanceGlitch},
			},
		},
	}
}
