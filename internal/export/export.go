// Package export renders mission reports as JSON documents or CSV
// telemetry tables.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"rocketintel-sim/internal/analysis"
	"rocketintel-sim/internal/catalog"
	"rocketintel-sim/internal/flight"
)

// ErrUnknownFormat is returned for formats other than json and csv.
var ErrUnknownFormat = errors.New("invalid format")

// Format selects the report encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// Filename returns the attachment name for a report exported at t.
func (f Format) Filename(t time.Time) string {
	return fmt.Sprintf("mission-report-%d.%s", t.UnixMilli(), f)
}

// MissionReport is the exported record of one vehicle's flight.
type MissionReport struct {
	Rocket           catalog.RocketModel      `json:"rocket"`
	RunID            string                   `json:"runId,omitempty"`
	VehicleID        string                   `json:"vehicleId,omitempty"`
	MissionPhase     flight.Phase             `json:"missionPhase"`
	TelemetryHistory []flight.Telemetry       `json:"telemetryHistory"`
	TrajectoryPoints []flight.TrajectoryPoint `json:"trajectoryPoints"`
	AIAnalysis       *analysis.Analysis       `json:"aiAnalysis,omitempty"`
	ExportedAt       time.Time                `json:"exportedAt"`
}

// CSVHeader lists the columns written by WriteCSV.
var CSVHeader = []string{"timestamp", "altitude", "speed", "acceleration", "fuel", "temperature", "pressure"}

// Write encodes the report in format f.
func Write(w io.Writer, f Format, r MissionReport) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatCSV:
		return WriteCSV(w, r.TelemetryHistory)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// WriteJSON writes the full report as indented JSON.
func WriteJSON(w io.Writer, r MissionReport) error {
	if r.TelemetryHistory == nil {
		r.TelemetryHistory = []flight.Telemetry{}
	}
	if r.TrajectoryPoints == nil {
		r.TrajectoryPoints = []flight.TrajectoryPoint{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes one row per telemetry snapshot in history order. An
// empty history produces only the header.
func WriteCSV(w io.Writer, history []flight.Telemetry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, t := range history {
		rec := []string{
			num(t.Timestamp), num(t.Altitude), num(t.Speed), num(t.Acceleration),
			num(t.Fuel), num(t.Temperature), num(t.Pressure),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
