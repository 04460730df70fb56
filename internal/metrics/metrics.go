// Package metrics exposes simulator state as Prometheus collectors.
package metrics

import (
	"net/http"

	"rocketintel-sim/internal/analysis"
	"rocketintel-sim/internal/flight"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rocketintel"

var (
	altitudeBuckets = []float64{1e3, 1e4, 5e4, 1e5, 2e5, 4e5}
	subsystems      = []string{"engine", "fuel", "guidance", "temperature"}
	riskLevels      = map[analysis.Risk]float64{
		analysis.RiskLow:      0,
		analysis.RiskMedium:   1,
		analysis.RiskHigh:     2,
		analysis.RiskCritical: 3,
	}
)

// Recorder tracks committed snapshots and analyses in a private registry.
type Recorder struct {
	registry *prometheus.Registry

	commits          *prometheus.CounterVec
	altitude         *prometheus.GaugeVec
	speed            *prometheus.GaugeVec
	fuel             *prometheus.GaugeVec
	thrustMultiplier *prometheus.GaugeVec
	anomaly          *prometheus.GaugeVec
	phase            *prometheus.GaugeVec
	altitudeHist     *prometheus.HistogramVec
	risk             *prometheus.GaugeVec
	analyses         *prometheus.CounterVec
	dropped          prometheus.Counter
	vehicles         prometheus.Gauge
}

// NewRecorder creates a recorder with every collector registered.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}
	r.commits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "flight",
		Name:      "commits_total",
		Help:      "Committed simulation ticks",
	}, []string{"vehicle", "rocket"})
	r.altitude = r.gauge("altitude_meters", "Current altitude")
	r.speed = r.gauge("speed_meters_per_second", "Current speed")
	r.fuel = r.gauge("fuel_percent", "Remaining propellant")
	r.thrustMultiplier = r.gauge("thrust_multiplier", "Thrust output relative to nominal")
	r.phase = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "flight",
		Name:      "phase",
		Help:      "Mission phase index",
	}, []string{"vehicle"})
	r.anomaly = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "flight",
		Name:      "anomaly_severity",
		Help:      "Subsystem severity (0 nominal, 1 warning, 2 critical)",
	}, []string{"vehicle", "subsystem"})
	r.altitudeHist = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "flight",
		Name:      "committed_altitude_meters",
		Help:      "Distribution of committed altitudes",
		Buckets:   altitudeBuckets,
	}, []string{"rocket"})
	r.risk = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "analysis",
		Name:      "overall_risk",
		Help:      "Latest overall risk (0 low .. 3 critical)",
	}, []string{"vehicle"})
	r.analyses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "analysis",
		Name:      "results_total",
		Help:      "Completed analyses by risk",
	}, []string{"risk"})
	r.dropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "analysis",
		Name:      "dropped_total",
		Help:      "Analysis requests dropped because the queue was full",
	})
	r.vehicles = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sim",
		Name:      "vehicles",
		Help:      "Vehicles in the run",
	})
	r.registry.MustRegister(
		r.commits, r.altitude, r.speed, r.fuel, r.thrustMultiplier, r.phase,
		r.anomaly, r.altitudeHist, r.risk, r.analyses, r.dropped, r.vehicles,
	)
	return r
}

func (r *Recorder) gauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "flight",
		Name:      name,
		Help:      help,
	}, []string{"vehicle"})
}

// ObserveSnapshot records a committed snapshot.
func (r *Recorder) ObserveSnapshot(vehicleID, rocketID string, snap flight.Snapshot) {
	tel := snap.Telemetry
	r.commits.WithLabelValues(vehicleID, rocketID).Inc()
	r.altitude.WithLabelValues(vehicleID).Set(tel.Altitude)
	r.speed.WithLabelValues(vehicleID).Set(tel.Speed)
	r.fuel.WithLabelValues(vehicleID).Set(tel.Fuel)
	r.thrustMultiplier.WithLabelValues(vehicleID).Set(snap.ThrustMultiplier)
	r.phase.WithLabelValues(vehicleID).Set(float64(snap.Phase))
	r.altitudeHist.WithLabelValues(rocketID).Observe(tel.Altitude)

	levels := []flight.Severity{snap.Anomaly.Engine, snap.Anomaly.Fuel, snap.Anomaly.Guidance, snap.Anomaly.Temperature}
	for i, sub := range subsystems {
		r.anomaly.WithLabelValues(vehicleID, sub).Set(float64(levels[i]))
	}
}

// ObserveAnalysis records a completed analysis.
func (r *Recorder) ObserveAnalysis(vehicleID string, a analysis.Analysis) {
	r.risk.WithLabelValues(vehicleID).Set(riskLevels[a.OverallRisk])
	r.analyses.WithLabelValues(string(a.OverallRisk)).Inc()
}

// AnalysisDropped counts a request lost to a full queue.
func (r *Recorder) AnalysisDropped() { r.dropped.Inc() }

// SetVehicles records the vehicle count.
func (r *Recorder) SetVehicles(n int) { r.vehicles.Set(float64(n)) }

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
