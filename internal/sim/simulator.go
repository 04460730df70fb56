// Simulator hosting one flight core per vehicle and fanning out telemetry
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"rocketintel-sim/internal/analysis"
	"rocketintel-sim/internal/catalog"
	"rocketintel-sim/internal/export"
	"rocketintel-sim/internal/flight"
	"rocketintel-sim/internal/scenario"
	"rocketintel-sim/internal/telemetry"

	"github.com/google/uuid"
)

var (
	ErrUnknownVehicle    = errors.New("unknown vehicle")
	ErrTooManyVehicles   = errors.New("too many vehicles")
	ErrFaultAlreadyArmed = errors.New("thrust fault already armed")
)

// MaxVehicles bounds comparison mode.
const MaxVehicles = 3

// TelemetryWriter is an interface to support different output writers.
type TelemetryWriter interface {
	Write(telemetry.TelemetryRow) error
}

// Optional: Writers can also support batch mode
type batchWriter interface {
	WriteBatch([]telemetry.TelemetryRow) error
}

// AnalysisWriter receives risk assessments as they complete.
type AnalysisWriter interface {
	WriteAnalysis(telemetry.AnalysisRow) error
}

// Recorder observes committed snapshots, typically for metrics.
type Recorder interface {
	ObserveSnapshot(vehicleID, rocketID string, snap flight.Snapshot)
	ObserveAnalysis(vehicleID string, a analysis.Analysis)
	AnalysisDropped()
	SetVehicles(n int)
}

// Options configure a Simulator.
type Options struct {
	RunID     string
	Seed      int64
	Flight    flight.Options
	FrameRate float64
	TimeScale float64
	Script    *scenario.Script
	// AnalysisInterval is the mission-time spacing of analysis requests.
	AnalysisInterval float64
}

type vehicle struct {
	id         string
	sim        *flight.Simulator
	schedule   *analysis.Schedule
	lastCommit float64
	gen        uint64
	analysis   *analysis.Analysis
	analysisAt float64
}

// VehicleStatus is the externally visible state of one vehicle.
type VehicleStatus struct {
	ID       string              `json:"id"`
	Rocket   catalog.RocketModel `json:"rocket"`
	Profile  string              `json:"profile"`
	Running  bool                `json:"running"`
	Snapshot flight.Snapshot     `json:"snapshot"`
	Clock    string              `json:"mission_clock"`
	Analysis *analysis.Analysis  `json:"analysis,omitempty"`
}

// Simulator drives every vehicle in the run with the same frame deltas.
type Simulator struct {
	opts     Options
	catalog  *catalog.Catalog
	teleGen  *telemetry.Generator
	writer   TelemetryWriter
	aWriter  AnalysisWriter
	recorder Recorder
	analyzer analysis.Analyzer
	dispatch *analysis.Dispatcher
	now      func() time.Time
	frame    time.Duration
	vehicles []*vehicle
	seeds    int64
	running  bool
	mu       sync.Mutex
}

// NewSimulator creates a stopped simulator. writer may be nil.
func NewSimulator(cat *catalog.Catalog, opts Options, writer TelemetryWriter) *Simulator {
	if cat == nil {
		cat = catalog.Default()
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = 60
	}
	if opts.TimeScale <= 0 {
		opts.TimeScale = 1
	}
	if opts.Flight.Profile == nil && opts.Flight.CommitStep == 0 {
		opts.Flight = flight.DefaultOptions()
	}
	return &Simulator{
		opts:    opts,
		catalog: cat,
		teleGen: telemetry.NewGenerator(opts.RunID),
		writer:  writer,
		now:     time.Now,
		frame:   time.Duration(float64(time.Second) / opts.FrameRate),
	}
}

// RunID returns the identifier stamped on every row.
func (s *Simulator) RunID() string { return s.opts.RunID }

// Catalog returns the vehicle catalog in use.
func (s *Simulator) Catalog() *catalog.Catalog { return s.catalog }

// SetAnalysisWriter sets the sink for completed analyses.
func (s *Simulator) SetAnalysisWriter(w AnalysisWriter) {
	s.mu.Lock()
	s.aWriter = w
	s.mu.Unlock()
}

// SetRecorder attaches a snapshot observer.
func (s *Simulator) SetRecorder(r Recorder) {
	s.mu.Lock()
	s.recorder = r
	if r != nil {
		r.SetVehicles(len(s.vehicles))
	}
	s.mu.Unlock()
}

// EnableAnalysis routes periodic snapshots to a through a bounded queue of
// queueSize. The queue is drained by Run.
func (s *Simulator) EnableAnalysis(a analysis.Analyzer, queueSize int, timeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzer = a
	s.dispatch = analysis.NewDispatcher(a, queueSize, timeout, s.handleAnalysis)
}

// AddVehicle adds a vehicle flying rocketID and returns its id. A vehicle
// added while the run is active starts immediately.
func (s *Simulator) AddVehicle(rocketID string) (string, error) {
	rocket, err := s.catalog.ByID(rocketID)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.vehicles) >= MaxVehicles {
		return "", fmt.Errorf("%w: max %d", ErrTooManyVehicles, MaxVehicles)
	}
	rng := rand.New(rand.NewSource(s.opts.Seed + s.seeds))
	s.seeds++
	v := &vehicle{
		id:         uuid.NewString(),
		sim:        flight.NewSimulator(rocket, s.opts.Flight, rng),
		schedule:   analysis.NewSchedule(s.opts.AnalysisInterval),
		lastCommit: -1,
	}
	if s.running {
		v.sim.Start()
	}
	s.vehicles = append(s.vehicles, v)
	if s.recorder != nil {
		s.recorder.SetVehicles(len(s.vehicles))
	}
	return v.id, nil
}

// RemoveVehicle drops a vehicle from the run.
func (s *Simulator) RemoveVehicle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.vehicles {
		if v.id == id {
			s.vehicles = append(s.vehicles[:i], s.vehicles[i+1:]...)
			if s.recorder != nil {
				s.recorder.SetVehicles(len(s.vehicles))
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownVehicle, id)
}

// Start restarts every vehicle from T+0.
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	for _, v := range s.vehicles {
		v.sim.Start()
		v.reset()
	}
}

// Stop freezes every vehicle.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	for _, v := range s.vehicles {
		v.sim.Stop()
	}
}

// Reset returns every vehicle to the pad and clears held analyses.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	for _, v := range s.vehicles {
		v.sim.Reset()
		v.reset()
	}
}

// reset starts a new run generation. lastCommit sits below zero so
// injections scheduled at T+0 fire on the first commit.
func (v *vehicle) reset() {
	v.lastCommit = -1
	v.gen++
	v.analysis = nil
	v.analysisAt = 0
	v.schedule.Reset()
}

// Running reports whether the run is active.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// InjectFault applies fault to vehicle id at its current mission time.
func (s *Simulator) InjectFault(id string, fault scenario.Fault) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.lookup(id)
	if err != nil {
		return err
	}
	return applyFault(v, fault)
}

func applyFault(v *vehicle, fault scenario.Fault) error {
	switch fault {
	case scenario.FaultThrustDecay:
		if !v.sim.InjectThrustFault() {
			return ErrFaultAlreadyArmed
		}
	case scenario.FaultGuidanceGlitch:
		v.sim.InjectGuidanceGlitch()
	default:
		return fmt.Errorf("unknown fault %q", fault)
	}
	return nil
}

func (s *Simulator) lookup(id string) (*vehicle, error) {
	for _, v := range s.vehicles {
		if v.id == id {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownVehicle, id)
}

// Vehicles lists all vehicles in insertion order.
func (s *Simulator) Vehicles() []VehicleStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]VehicleStatus, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, v.status())
	}
	return out
}

// Vehicle returns the status of one vehicle.
func (s *Simulator) Vehicle(id string) (VehicleStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.lookup(id)
	if err != nil {
		return VehicleStatus{}, err
	}
	return v.status(), nil
}

func (v *vehicle) status() VehicleStatus {
	snap := v.sim.Snapshot()
	return VehicleStatus{
		ID:       v.id,
		Rocket:   v.sim.Rocket(),
		Profile:  v.sim.ProfileName(),
		Running:  v.sim.Running(),
		Snapshot: snap,
		Clock:    analysis.MissionClock(snap.Time),
		Analysis: v.analysis,
	}
}

// History returns the committed telemetry of vehicle id.
func (s *Simulator) History(id string) ([]flight.Telemetry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return v.sim.History(), nil
}

// Trajectory returns the trajectory points of vehicle id.
func (s *Simulator) Trajectory(id string) ([]flight.TrajectoryPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return v.sim.Trajectory(), nil
}

// Analysis returns the latest assessment for vehicle id, or nil.
func (s *Simulator) Analysis(id string) (*analysis.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return v.analysis, nil
}

// Analyze runs the configured analyzer on the current snapshot of vehicle
// id and holds the result.
func (s *Simulator) Analyze(ctx context.Context, id string) (analysis.Analysis, error) {
	s.mu.Lock()
	v, err := s.lookup(id)
	a := s.analyzer
	var req analysis.Request
	if err == nil {
		req = analysis.NewRequest(v.id, v.sim.Rocket().Name, v.sim.Snapshot())
		req.Generation = v.gen
	}
	s.mu.Unlock()
	if err != nil {
		return analysis.Analysis{}, err
	}
	if a == nil {
		a = analysis.RuleAnalyzer{}
	}
	res, err := a.Analyze(ctx, req)
	if err != nil {
		return analysis.Analysis{}, err
	}
	s.handleAnalysis(req, res)
	return res, nil
}

// Report assembles the mission report of vehicle id.
func (s *Simulator) Report(id string) (export.MissionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.lookup(id)
	if err != nil {
		return export.MissionReport{}, err
	}
	return export.MissionReport{
		Rocket:           v.sim.Rocket(),
		RunID:            s.opts.RunID,
		VehicleID:        v.id,
		MissionPhase:     v.sim.Phase(),
		TelemetryHistory: v.sim.History(),
		TrajectoryPoints: v.sim.Trajectory(),
		AIAnalysis:       v.analysis,
		ExportedAt:       s.now().UTC(),
	}, nil
}
