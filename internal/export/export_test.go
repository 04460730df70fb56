package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"rocketintel-sim/internal/catalog"
	"rocketintel-sim/internal/flight"
)

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("CSV"); err != nil || f != FormatCSV {
		t.Fatalf("ParseFormat = %v %v", f, err)
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestFilenameAndContentType(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	if got := FormatJSON.Filename(ts); got != "mission-report-1700000000123.json" {
		t.Fatalf("filename = %s", got)
	}
	if FormatCSV.ContentType() != "text/csv" || FormatJSON.ContentType() != "application/json" {
		t.Fatalf("unexpected content types")
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "timestamp,altitude,speed,acceleration,fuel,temperature,pressure\n" {
		t.Fatalf("unexpected csv %q", buf.String())
	}
}

func TestWriteCSVRowsInOrder(t *testing.T) {
	hist := []flight.Telemetry{
		{Timestamp: 0.1, Fuel: 100, Temperature: 20, Pressure: 101.3},
		{Timestamp: 0.2, Altitude: 12.5, Speed: 3, Acceleration: 1.2, Fuel: 99.5, Temperature: 21, Pressure: 101.1},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, hist); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d", len(lines))
	}
	if lines[2] != "0.2,12.5,3,1.2,99.5,21,101.1" {
		t.Fatalf("row = %q", lines[2])
	}
}

func TestWriteJSON(t *testing.T) {
	r := MissionReport{
		Rocket:       catalog.RocketModel{ID: "falcon-9", Name: "Falcon 9"},
		MissionPhase: flight.PhaseCompleted,
		ExportedAt:   time.Unix(0, 0).UTC(),
	}
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, r); err != nil {
		t.Fatalf("write: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back["missionPhase"] != "completed" {
		t.Fatalf("missionPhase = %v", back["missionPhase"])
	}
	if h, ok := back["telemetryHistory"].([]any); !ok || len(h) != 0 {
		t.Fatalf("telemetryHistory = %v", back["telemetryHistory"])
	}
	if _, ok := back["aiAnalysis"]; ok {
		t.Fatalf("aiAnalysis should be omitted")
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, Format("pdf"), MissionReport{}); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
