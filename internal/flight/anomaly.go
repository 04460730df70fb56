package flight

import (
	"fmt"
	"strings"
)

// Severity grades a subsystem reading. Higher values are worse.
type Severity int

const (
	SeverityNominal Severity = iota
	SeverityWarning
	SeverityCritical
)

var severityNames = [...]string{"nominal", "warning", "critical"}

func (s Severity) String() string {
	if s < SeverityNominal || s > SeverityCritical {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity is the inverse of Severity.String.
func ParseSeverity(v string) (Severity, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for i, n := range severityNames {
		if n == v {
			return Severity(i), nil
		}
	}
	return SeverityNominal, fmt.Errorf("unknown severity %q", v)
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MaxSeverity returns the most severe of levels.
func MaxSeverity(levels ...Severity) Severity {
	m := SeverityNominal
	for _, l := range levels {
		if l > m {
			m = l
		}
	}
	return m
}

// AnomalyStatus is the per-subsystem classification of one committed tick.
type AnomalyStatus struct {
	Overall     Severity `json:"overall"`
	Engine      Severity `json:"engine"`
	Fuel        Severity `json:"fuel"`
	Guidance    Severity `json:"guidance"`
	Temperature Severity `json:"temperature"`
}

// Anomaly thresholds.
const (
	TempWarningC   = 500.0
	TempCriticalC  = 600.0
	FuelWarningPct = 30.0
	FuelWarningT   = 30.0
	FuelCritical   = 10.0
	FuelCriticalT  = 20.0
	GuidanceFrom   = 15.0
	GuidanceUntil  = 45.0
)

// TemperatureSeverity grades a temperature reading.
func TemperatureSeverity(tempC float64) Severity {
	switch {
	case tempC > TempCriticalC:
		return SeverityCritical
	case tempC > TempWarningC:
		return SeverityWarning
	default:
		return SeverityNominal
	}
}

// FuelSeverity grades remaining fuel at mission time t.
func FuelSeverity(fuel, t float64) Severity {
	switch {
	case fuel < FuelCritical && t < FuelCriticalT:
		return SeverityCritical
	case fuel < FuelWarningPct && t < FuelWarningT:
		return SeverityWarning
	default:
		return SeverityNominal
	}
}

// GuidanceWindow reports whether guidance glitches can be raised at t.
func GuidanceWindow(t float64) bool { return t > GuidanceFrom && t < GuidanceUntil }

// EngineSeverity grades a thrust multiplier. Only used when engine status is
// derived from thrust decay.
func EngineSeverity(thrustMultiplier float64) Severity {
	switch {
	case thrustMultiplier < 0.8:
		return SeverityCritical
	case thrustMultiplier < 1:
		return SeverityWarning
	default:
		return SeverityNominal
	}
}

// DeriveAnomalyStatus classifies a telemetry snapshot. guidance and engine
// come from the caller because they depend on a random draw and on
// simulator options respectively; everything else is a function of tel and t.
func DeriveAnomalyStatus(tel Telemetry, t float64, guidance, engine Severity) AnomalyStatus {
	a := AnomalyStatus{
		Engine:      engine,
		Fuel:        FuelSeverity(tel.Fuel, t),
		Guidance:    guidance,
		Temperature: TemperatureSeverity(tel.Temperature),
	}
	a.Overall = MaxSeverity(a.Engine, a.Fuel, a.Guidance, a.Temperature)
	return a
}
