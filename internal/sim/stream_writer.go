package sim

import (
	"errors"

	"rocketintel-sim/internal/stream"
	"rocketintel-sim/internal/telemetry"
)

// StreamWriter pushes telemetry and analyses to WebSocket subscribers.
type StreamWriter struct {
	hub *stream.Hub
}

func NewStreamWriter(hub *stream.Hub) *StreamWriter {
	return &StreamWriter{hub: hub}
}

func (w *StreamWriter) Write(row telemetry.TelemetryRow) error {
	frame, err := stream.TelemetryFrame(row)
	if err != nil {
		return err
	}
	w.hub.Broadcast(row.VehicleID, frame)
	return nil
}

func (w *StreamWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	var errs []error
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *StreamWriter) WriteAnalysis(row telemetry.AnalysisRow) error {
	frame, err := stream.AnalysisFrame(row.VehicleID, row.Analysis())
	if err != nil {
		return err
	}
	w.hub.Broadcast(row.VehicleID, frame)
	return nil
}
