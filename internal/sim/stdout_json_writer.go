package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"rocketintel-sim/internal/telemetry"
)

// JSONStdoutWriter prints telemetry and analyses as JSON lines to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// Write outputs a telemetry row in JSON format.
func (w *JSONStdoutWriter) Write(row telemetry.TelemetryRow) error {
	return w.line(row)
}

// WriteBatch outputs multiple telemetry rows in JSON format.
func (w *JSONStdoutWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteAnalysis outputs an analysis row in JSON format.
func (w *JSONStdoutWriter) WriteAnalysis(row telemetry.AnalysisRow) error {
	return w.line(row)
}

func (w *JSONStdoutWriter) line(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}
