package sim

import (
	"encoding/json"
	"testing"
	"time"

	"rocketintel-sim/internal/analysis"
	"rocketintel-sim/internal/stream"
	"rocketintel-sim/internal/telemetry"
)

type chanSubscriber chan []byte

func (c chanSubscriber) Send(b []byte) error {
	c <- b
	return nil
}

func (c chanSubscriber) Close() {}

func recv(t *testing.T, c chanSubscriber) stream.Envelope {
	t.Helper()
	select {
	case b := <-c:
		var env stream.Envelope
		if err := json.Unmarshal(b, &env); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		return env
	case <-time.After(2 * time.Second):
		t.Fatalf("no frame received")
	}
	return stream.Envelope{}
}

func TestStreamWriterBroadcasts(t *testing.T) {
	hub := stream.NewHub()
	defer hub.Close()
	sub := make(chanSubscriber, 4)
	hub.Register("veh-1", sub)

	w := NewStreamWriter(hub)
	if err := w.WriteBatch([]telemetry.TelemetryRow{{VehicleID: "veh-1", Altitude: 120}}); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	env := recv(t, sub)
	if env.Type != stream.TypeTelemetry || env.Row == nil || env.Row.Altitude != 120 {
		t.Fatalf("unexpected telemetry frame %+v", env)
	}

	err := w.WriteAnalysis(telemetry.AnalysisRow{VehicleID: "veh-1", OverallRisk: "high", Recommendations: []string{"hold"}})
	if err != nil {
		t.Fatalf("write analysis: %v", err)
	}
	env = recv(t, sub)
	if env.Type != stream.TypeAnalysis || env.Analysis == nil || env.Analysis.OverallRisk != analysis.RiskHigh {
		t.Fatalf("unexpected analysis frame %+v", env)
	}
}
