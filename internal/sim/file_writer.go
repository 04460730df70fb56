package sim

import (
	"encoding/json"
	"os"

	"rocketintel-sim/internal/telemetry"
)

// FileWriter writes telemetry and analysis rows to JSONL files.
type FileWriter struct {
	teleFile     *os.File
	analysisFile *os.File
	teleEnc      *json.Encoder
	analysisEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. analysisPath may be empty to skip
// the analysis log.
func NewFileWriter(telemetryPath, analysisPath string) (*FileWriter, error) {
	tf, err := os.Create(telemetryPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{teleFile: tf, teleEnc: json.NewEncoder(tf)}
	if analysisPath != "" {
		af, err := os.Create(analysisPath)
		if err != nil {
			tf.Close()
			return nil, err
		}
		fw.analysisFile = af
		fw.analysisEnc = json.NewEncoder(af)
	}
	return fw, nil
}

// Write logs a single telemetry row.
func (f *FileWriter) Write(row telemetry.TelemetryRow) error {
	return f.teleEnc.Encode(row)
}

// WriteBatch logs multiple telemetry rows.
func (f *FileWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteAnalysis logs an analysis row, if enabled.
func (f *FileWriter) WriteAnalysis(row telemetry.AnalysisRow) error {
	if f.analysisEnc == nil {
		return nil
	}
	return f.analysisEnc.Encode(row)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	for _, file := range []*os.File{f.teleFile, f.analysisFile} {
		if file == nil {
			continue
		}
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
