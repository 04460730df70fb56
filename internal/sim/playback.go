package sim

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"rocketintel-sim/internal/telemetry"
)

// ReplayLog replays telemetry rows from r to writer, pacing them by
// mission time. A speed >0 accelerates playback. If speed <= 0, no
// artificial delay is inserted.
func ReplayLog(ctx context.Context, r io.Reader, writer TelemetryWriter, speed float64) error {
	dec := json.NewDecoder(r)
	prev := -1.0
	for {
		var row telemetry.TelemetryRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if prev >= 0 && speed > 0 {
			diff := time.Duration((row.MissionTime - prev) / speed * float64(time.Second))
			if diff > 0 {
				select {
				case <-time.After(diff):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
		prev = row.MissionTime
	}
}

// ReplayLogFile opens a file and replays its telemetry rows.
func ReplayLogFile(ctx context.Context, path string, writer TelemetryWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(ctx, f, writer, speed)
}
