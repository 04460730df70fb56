package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"rocketintel-sim/internal/analysis"
	"rocketintel-sim/internal/flight"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSnapshot(t *testing.T) {
	r := NewRecorder()
	snap := flight.Snapshot{
		Phase:            flight.PhaseMaxQ,
		Telemetry:        flight.Telemetry{Altitude: 12000, Speed: 900, Fuel: 70},
		ThrustMultiplier: 0.6,
		Anomaly:          flight.AnomalyStatus{Engine: flight.SeverityCritical},
	}
	r.ObserveSnapshot("v1", "falcon-9", snap)
	r.ObserveSnapshot("v1", "falcon-9", snap)

	if got := testutil.ToFloat64(r.commits.WithLabelValues("v1", "falcon-9")); got != 2 {
		t.Fatalf("commits = %v", got)
	}
	if got := testutil.ToFloat64(r.altitude.WithLabelValues("v1")); got != 12000 {
		t.Fatalf("altitude = %v", got)
	}
	if got := testutil.ToFloat64(r.thrustMultiplier.WithLabelValues("v1")); got != 0.6 {
		t.Fatalf("thrust = %v", got)
	}
	if got := testutil.ToFloat64(r.anomaly.WithLabelValues("v1", "engine")); got != 2 {
		t.Fatalf("engine severity = %v", got)
	}
	if got := testutil.ToFloat64(r.phase.WithLabelValues("v1")); got != float64(flight.PhaseMaxQ) {
		t.Fatalf("phase = %v", got)
	}
}

func TestObserveAnalysisAndCounters(t *testing.T) {
	r := NewRecorder()
	r.ObserveAnalysis("v1", analysis.Analysis{OverallRisk: analysis.RiskHigh})
	r.AnalysisDropped()
	r.SetVehicles(2)

	if got := testutil.ToFloat64(r.risk.WithLabelValues("v1")); got != 2 {
		t.Fatalf("risk = %v", got)
	}
	if got := testutil.ToFloat64(r.analyses.WithLabelValues("high")); got != 1 {
		t.Fatalf("analyses = %v", got)
	}
	if got := testutil.ToFloat64(r.dropped); got != 1 {
		t.Fatalf("dropped = %v", got)
	}
	if got := testutil.ToFloat64(r.vehicles); got != 2 {
		t.Fatalf("vehicles = %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.SetVehicles(1)
	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "rocketintel_sim_vehicles 1") {
		t.Fatalf("missing vehicles gauge:\n%s", body)
	}
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.AnalysisDropped()
	if got := testutil.ToFloat64(b.dropped); got != 0 {
		t.Fatalf("registries should not share state, got %v", got)
	}
}
