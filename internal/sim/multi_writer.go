package sim

import (
	"errors"

	"rocketintel-sim/internal/telemetry"
)

// MultiWriter fans telemetry and analysis rows out to multiple writers.
// Every writer receives every row; errors are joined.
type MultiWriter struct {
	telewriters     []TelemetryWriter
	analysisWriters []AnalysisWriter
}

// NewMultiWriter creates a new MultiWriter. Telemetry writers that also
// implement AnalysisWriter receive analyses too.
func NewMultiWriter(tws []TelemetryWriter, aws ...AnalysisWriter) *MultiWriter {
	mw := &MultiWriter{telewriters: tws}
	for _, w := range tws {
		if aw, ok := w.(AnalysisWriter); ok {
			mw.analysisWriters = append(mw.analysisWriters, aw)
		}
	}
	mw.analysisWriters = append(mw.analysisWriters, aws...)
	return mw
}

// Write sends a telemetry row to all writers.
func (mw *MultiWriter) Write(row telemetry.TelemetryRow) error {
	var errs []error
	for _, w := range mw.telewriters {
		if err := w.Write(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteBatch sends multiple telemetry rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	var errs []error
	for _, w := range mw.telewriters {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				errs = append(errs, err)
				break
			}
		}
	}
	return errors.Join(errs...)
}

// WriteAnalysis sends an analysis row to all analysis writers.
func (mw *MultiWriter) WriteAnalysis(row telemetry.AnalysisRow) error {
	var errs []error
	for _, w := range mw.analysisWriters {
		if err := w.WriteAnalysis(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetAdminStatus forwards the admin UI status to writers that display it.
func (mw *MultiWriter) SetAdminStatus(listening bool) {
	for _, w := range mw.telewriters {
		if sw, ok := w.(AdminStatusWriter); ok {
			sw.SetAdminStatus(listening)
		}
	}
}

// Close closes writers that hold resources.
func (mw *MultiWriter) Close() error {
	var errs []error
	for _, w := range mw.telewriters {
		if c, ok := w.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
