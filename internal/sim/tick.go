package sim

import (
	"context"
	"sync"
	"time"

	"rocketintel-sim/internal/analysis"
	"rocketintel-sim/internal/flight"
	"rocketintel-sim/internal/logging"
	"rocketintel-sim/internal/telemetry"
)

// Run drives frames from the wall clock until the context is done. Frame
// deltas are scaled by the configured time scale.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "run_id", s.opts.RunID, "frame_interval", s.frame, "time_scale", s.opts.TimeScale)

	var wg sync.WaitGroup
	if d := s.dispatcher(); d != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Run(ctx)
		}()
	}

	ticker := time.NewTicker(s.frame)
	defer ticker.Stop()
	last := s.now()
	for {
		select {
		case <-ticker.C:
			now := s.now()
			dt := now.Sub(last).Seconds() * s.opts.TimeScale
			last = now
			if err := s.Step(ctx, dt); err != nil {
				log.Error("frame failed", "err", err)
			}
		case <-ctx.Done():
			wg.Wait()
			log.Info("stopping simulator")
			return
		}
	}
}

func (s *Simulator) dispatcher() *analysis.Dispatcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch
}

// Step advances every running vehicle by dt mission seconds and writes the
// snapshots committed in this frame.
func (s *Simulator) Step(ctx context.Context, dt float64) error {
	log := logging.FromContext(ctx)
	if err := flight.CheckDelta(dt); err != nil {
		return err
	}
	var batch []telemetry.TelemetryRow
	var requests []analysis.Request

	s.mu.Lock()
	writer, recorder, dispatch := s.writer, s.recorder, s.dispatch
	for _, v := range s.vehicles {
		snap, err := v.sim.Tick(dt)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		if !snap.Committed {
			continue
		}
		for _, inj := range s.opts.Script.Due(v.lastCommit, snap.Time) {
			if !inj.Applies(v.sim.Rocket().ID) {
				continue
			}
			if err := applyFault(v, inj.Fault); err != nil {
				log.Warn("scripted fault skipped", "vehicle_id", v.id, "fault", inj.Fault, "err", err)
				continue
			}
			log.Info("scripted fault injected", "vehicle_id", v.id, "fault", inj.Fault, "at", inj.At)
		}
		v.lastCommit = snap.Time

		rocket := v.sim.Rocket()
		if recorder != nil {
			recorder.ObserveSnapshot(v.id, rocket.ID, snap)
		}
		batch = append(batch, s.teleGen.Row(v.id, rocket, snap))
		if dispatch != nil && v.schedule.Due(snap.Time) {
			req := analysis.NewRequest(v.id, rocket.Name, snap)
			req.Generation = v.gen
			requests = append(requests, req)
		}
	}
	s.mu.Unlock()

	for _, req := range requests {
		if !dispatch.Submit(req) {
			log.Warn("analysis queue full, request dropped", "vehicle_id", req.VehicleID)
			if recorder != nil {
				recorder.AnalysisDropped()
			}
		}
	}

	if writer == nil || len(batch) == 0 {
		return nil
	}
	// Batch support if writer implements WriteBatch
	if bw, ok := writer.(batchWriter); ok {
		if err := bw.WriteBatch(batch); err != nil {
			log.Error("batch write failed", "err", err)
		}
	} else {
		for _, row := range batch {
			if err := writer.Write(row); err != nil {
				log.Error("write failed", "vehicle_id", row.VehicleID, "err", err)
			}
		}
	}
	return nil
}

// handleAnalysis holds a completed analysis and forwards it to the
// analysis writer. Results for vehicles that were removed or reset since
// the request, or older than the held result, are dropped.
func (s *Simulator) handleAnalysis(req analysis.Request, res analysis.Analysis) {
	s.mu.Lock()
	v, err := s.lookup(req.VehicleID)
	if err != nil || !v.accepts(req) {
		s.mu.Unlock()
		return
	}
	held := res
	v.analysis = &held
	v.analysisAt = req.Timestamp
	w, recorder := s.aWriter, s.recorder
	row := telemetry.AnalysisRow{
		RunID:           s.opts.RunID,
		VehicleID:       v.id,
		MissionTime:     req.Timestamp,
		Phase:           req.MissionPhase,
		OverallRisk:     string(res.OverallRisk),
		Predictions:     res.Predictions,
		Recommendations: res.Recommendations,
		Timestamp:       s.now().UTC(),
	}
	s.mu.Unlock()

	if recorder != nil {
		recorder.ObserveAnalysis(req.VehicleID, res)
	}
	if w != nil {
		if err := w.WriteAnalysis(row); err != nil {
			logging.FromContext(context.Background()).Error("analysis write failed", "vehicle_id", row.VehicleID, "err", err)
		}
	}
}

func (v *vehicle) accepts(req analysis.Request) bool {
	if req.Generation != v.gen || req.Timestamp > v.sim.Time() {
		return false
	}
	return v.analysis == nil || req.Timestamp >= v.analysisAt
}
