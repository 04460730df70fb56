package admin

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"rocketintel-sim/internal/analysis"
	"rocketintel-sim/internal/catalog"
	"rocketintel-sim/internal/export"
	"rocketintel-sim/internal/logging"
	"rocketintel-sim/internal/scenario"
	"rocketintel-sim/internal/sim"
	"rocketintel-sim/internal/stream"
)

// Server exposes simulator controls and reads over HTTP.
type Server struct {
	Sim      *sim.Simulator
	Analyzer analysis.Analyzer
	// Stream and Metrics are optional; their routes are mounted when set.
	Stream  *stream.Hub
	Metrics http.Handler

	tpl *template.Template
	log *slog.Logger
	now func() time.Time
}

//go:embed templates/index.html
var content embed.FS

func NewServer(simulator *sim.Simulator) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{
		Sim:      simulator,
		Analyzer: analysis.RuleAnalyzer{},
		tpl:      tpl,
		log:      slog.Default(),
		now:      time.Now,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /telemetry", s.handleTelemetry)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("GET /trajectory", s.handleTrajectory)
	mux.HandleFunc("GET /analysis", s.handleAnalysis)
	mux.HandleFunc("POST /analysis", s.handleAnalyzeVehicle)
	mux.HandleFunc("GET /rockets", s.handleRockets)
	mux.HandleFunc("GET /vehicles", s.handleVehicles)
	mux.HandleFunc("POST /vehicles", s.handleAddVehicle)
	mux.HandleFunc("DELETE /vehicles", s.handleRemoveVehicle)
	mux.HandleFunc("POST /start", s.handleControl(s.Sim.Start))
	mux.HandleFunc("POST /stop", s.handleControl(s.Sim.Stop))
	mux.HandleFunc("POST /reset", s.handleControl(s.Sim.Reset))
	mux.HandleFunc("POST /inject-fault", s.handleInjectFault)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("POST /api/analyze-telemetry", s.handleAnalyzeTelemetry)
	mux.HandleFunc("POST /api/export-mission-report", s.handleExportMissionReport)
	if s.Stream != nil {
		mux.Handle("GET /ws", stream.NewHandler(s.Stream, s.Analyzer, s.log))
	}
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics)
	}
	return mux
}

// Start serves on addr until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.log = logging.FromContext(ctx)
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps simulator errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sim.ErrUnknownVehicle):
		return http.StatusNotFound
	case errors.Is(err, sim.ErrTooManyVehicles), errors.Is(err, sim.ErrFaultAlreadyArmed):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrUnknownRocket), errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// vehicleID resolves the vehicle query parameter, defaulting to the first
// vehicle of the run.
func (s *Server) vehicleID(r *http.Request) (string, error) {
	if id := r.URL.Query().Get("vehicle"); id != "" {
		return id, nil
	}
	vs := s.Sim.Vehicles()
	if len(vs) == 0 {
		return "", sim.ErrUnknownVehicle
	}
	return vs[0].ID, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		RunID    string
		Running  bool
		Vehicles []sim.VehicleStatus
		Rockets  []catalog.RocketModel
		Faults   []scenario.Fault
	}{
		RunID:    s.Sim.RunID(),
		Running:  s.Sim.Running(),
		Vehicles: s.Sim.Vehicles(),
		Rockets:  s.Sim.Catalog().All(),
		Faults:   []scenario.Fault{scenario.FaultThrustDecay, scenario.FaultGuidanceGlitch},
	}
	if err := s.tpl.Execute(w, data); err != nil {
		s.log.Error("render index failed", "err", err)
	}
}

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("vehicle")
	if id == "" {
		writeJSON(w, http.StatusOK, s.Sim.Vehicles())
		return
	}
	st, err := s.Sim.Vehicle(id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := s.vehicleID(r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	hist, err := s.Sim.History(id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, hist)
}

func (s *Server) handleTrajectory(w http.ResponseWriter, r *http.Request) {
	id, err := s.vehicleID(r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	pts, err := s.Sim.Trajectory(id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pts)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := s.vehicleID(r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	a, err := s.Sim.Analysis(id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if a == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAnalyzeVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := s.vehicleID(r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	res, err := s.Sim.Analyze(r.Context(), id)
	if err != nil {
		if status := statusFor(err); status != http.StatusInternalServerError {
			writeError(w, status, err.Error())
			return
		}
		s.log.Error("analysis failed", "vehicle_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRockets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sim.Catalog().All())
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sim.Vehicles())
}

func (s *Server) handleAddVehicle(w http.ResponseWriter, r *http.Request) {
	rocket := r.URL.Query().Get("rocket")
	if rocket == "" {
		rocket = r.FormValue("rocket")
	}
	if rocket == "" {
		writeError(w, http.StatusBadRequest, "rocket is required")
		return
	}
	id, err := s.Sim.AddVehicle(rocket)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.log.Info("vehicle added", "vehicle_id", id, "rocket", rocket)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleRemoveVehicle(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("vehicle")
	if err := s.Sim.RemoveVehicle(id); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleControl(fn func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn()
		writeJSON(w, http.StatusOK, map[string]bool{"running": s.Sim.Running()})
	}
}

func (s *Server) handleInjectFault(w http.ResponseWriter, r *http.Request) {
	fault, err := scenario.ParseFault(r.URL.Query().Get("fault"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := s.vehicleID(r)
	if err == nil {
		err = s.Sim.InjectFault(id, fault)
	}
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.log.Info("fault injected", "vehicle_id", id, "fault", fault)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid format")
		return
	}
	id, err := s.vehicleID(r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	report, err := s.Sim.Report(id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.writeReport(w, format, report)
}

func (s *Server) handleAnalyzeTelemetry(w http.ResponseWriter, r *http.Request) {
	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid telemetry")
		return
	}
	res, err := s.Analyzer.Analyze(r.Context(), req)
	if err != nil {
		s.log.Error("analysis failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type exportRequest struct {
	MissionData export.MissionReport `json:"missionData"`
	Format      string               `json:"format"`
}

func (s *Server) handleExportMissionReport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusInternalServerError, "Export failed")
		return
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid format")
		return
	}
	s.writeReport(w, format, req.MissionData)
}

func (s *Server) writeReport(w http.ResponseWriter, format export.Format, report export.MissionReport) {
	var buf bytes.Buffer
	if err := export.Write(&buf, format, report); err != nil {
		s.log.Error("export failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Export failed")
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename(s.now())+`"`)
	_, _ = w.Write(buf.Bytes())
}
