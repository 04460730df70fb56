package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"rocketintel-sim/internal/flight"
)

func TestRuleAnalyzerNominal(t *testing.T) {
	req := Request{MissionPhase: flight.PhaseLiftoff.String(), Fuel: 90, Temperature: 120, Timestamp: 6, ThrustMultiplier: 1}
	res, err := RuleAnalyzer{}.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.OverallRisk != RiskLow {
		t.Fatalf("overall = %s", res.OverallRisk)
	}
	if len(res.Predictions) != 5 {
		t.Fatalf("predictions = %d", len(res.Predictions))
	}
	if len(res.Recommendations) != 1 {
		t.Fatalf("recommendations = %v", res.Recommendations)
	}
}

func TestRuleAnalyzerEscalates(t *testing.T) {
	req := Request{MissionPhase: flight.PhaseMaxQ.String(), Fuel: 70, Temperature: 650, Timestamp: 30, ThrustMultiplier: 0.6}
	res, _ := RuleAnalyzer{}.Analyze(context.Background(), req)
	if res.OverallRisk != RiskCritical {
		t.Fatalf("overall = %s", res.OverallRisk)
	}
	got := map[string]Risk{}
	for _, p := range res.Predictions {
		got[p.System] = p.Risk
	}
	if got["engine"] != RiskCritical || got["temperature"] != RiskCritical || got["structural"] != RiskMedium {
		t.Fatalf("unexpected predictions %v", got)
	}
}

func TestRuleAnalyzerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (RuleAnalyzer{}).Analyze(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestMaxRiskAndParse(t *testing.T) {
	if MaxRisk() != RiskLow || MaxRisk(RiskMedium, RiskHigh, RiskLow) != RiskHigh {
		t.Fatalf("unexpected max risk")
	}
	if r, err := ParseRisk(" Critical "); err != nil || r != RiskCritical {
		t.Fatalf("parse = %v %v", r, err)
	}
	if _, err := ParseRisk("severe"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewRequest(t *testing.T) {
	snap := flight.Snapshot{
		Phase:            flight.PhaseStageSeparation,
		Telemetry:        flight.Telemetry{Altitude: 40000, Speed: 3500, Fuel: 44, Timestamp: 27},
		ThrustMultiplier: 0.9,
		Anomaly:          flight.AnomalyStatus{Guidance: flight.SeverityWarning},
	}
	req := NewRequest("v1", "Falcon 9", snap)
	if req.MissionPhase != "stage-separation" || req.Altitude != 40000 || req.RocketModel != "Falcon 9" {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.AnomalyStatus == nil || req.AnomalyStatus.Guidance != flight.SeverityWarning {
		t.Fatalf("anomaly not carried")
	}
}

func TestMissionClock(t *testing.T) {
	cases := map[float64]string{0: "T+0:00", 9.9: "T+0:09", 65: "T+1:05", -3: "T+0:00"}
	for in, want := range cases {
		if got := MissionClock(in); got != want {
			t.Fatalf("MissionClock(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestScheduleFiresOncePerWindow(t *testing.T) {
	s := NewSchedule(5)
	var fired []float64
	for i := 1; i <= 120; i++ {
		ts := float64(i) * 0.1
		if s.Due(ts) {
			fired = append(fired, ts)
		}
	}
	if len(fired) != 3 {
		t.Fatalf("fired at %v", fired)
	}
	if fired[1] < 5 || fired[1] > 5.2 || fired[2] < 10 || fired[2] > 10.2 {
		t.Fatalf("unexpected firing times %v", fired)
	}
	s.Reset()
	if !s.Due(0.1) {
		t.Fatalf("reset schedule should fire")
	}
}

func TestHTTPAnalyzer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		if req.MissionPhase != "liftoff" {
			http.Error(w, "phase", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(Analysis{OverallRisk: RiskMedium, Recommendations: []string{"ok"}})
	}))
	defer srv.Close()

	a := NewHTTPAnalyzer(srv.URL, time.Second)
	res, err := a.Analyze(context.Background(), Request{MissionPhase: "liftoff"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.OverallRisk != RiskMedium {
		t.Fatalf("overall = %s", res.OverallRisk)
	}
	if _, err := a.Analyze(context.Background(), Request{MissionPhase: "max-q"}); err == nil {
		t.Fatalf("expected error on 400")
	}
}

type stubAnalyzer struct {
	err   error
	block chan struct{}
}

func (s stubAnalyzer) Analyze(ctx context.Context, req Request) (Analysis, error) {
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return Analysis{}, s.err
	}
	return Analysis{OverallRisk: RiskHigh}, nil
}

func TestDispatcherDeliversResults(t *testing.T) {
	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	d := NewDispatcher(stubAnalyzer{}, 4, time.Second, func(req Request, a Analysis) {
		mu.Lock()
		got = append(got, req.VehicleID)
		n := len(got)
		mu.Unlock()
		if n == 2 {
			close(done)
		}
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Submit(Request{VehicleID: "a"})
	d.Submit(Request{VehicleID: "b"})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("results not delivered")
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	d := NewDispatcher(stubAnalyzer{}, 1, time.Second, nil)
	if !d.Submit(Request{}) {
		t.Fatalf("first submit should be queued")
	}
	if d.Submit(Request{}) {
		t.Fatalf("second submit should be dropped")
	}
	if d.Dropped() != 1 {
		t.Fatalf("dropped = %d", d.Dropped())
	}
}

func TestDispatcherCountsFailures(t *testing.T) {
	called := false
	d := NewDispatcher(stubAnalyzer{err: errors.New("boom")}, 1, time.Second, func(Request, Analysis) { called = true })
	ctx, cancel := context.WithCancel(context.Background())
	d.Submit(Request{})
	go d.Run(ctx)
	deadline := time.Now().Add(2 * time.Second)
	for d.Failed() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if d.Failed() != 1 || called {
		t.Fatalf("failed = %d called = %v", d.Failed(), called)
	}
}
