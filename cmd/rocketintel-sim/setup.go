package main

import (
	"fmt"
	"time"

	"rocketintel-sim/internal/analysis"
	"rocketintel-sim/internal/catalog"
	"rocketintel-sim/internal/config"
	"rocketintel-sim/internal/flight"
	"rocketintel-sim/internal/scenario"
	"rocketintel-sim/internal/sim"
)

const analysisTimeout = 10 * time.Second

// simOptions translates a loaded configuration into simulator options.
func simOptions(cfg *config.SimulationConfig) (sim.Options, error) {
	profile, ok := flight.ProfileByName(cfg.Profile)
	if !ok {
		return sim.Options{}, fmt.Errorf("unknown profile %q", cfg.Profile)
	}
	fo := flight.DefaultOptions()
	fo.Profile = profile
	fo.CommitStep = cfg.TickStepS
	fo.EngineStatusFromThrust = cfg.EngineStatusFromThrust
	if cfg.ThrustFaultProbability != nil {
		fo.ThrustFaultProbability = *cfg.ThrustFaultProbability
	}
	if cfg.GuidanceGlitchProbability != nil {
		fo.GuidanceGlitchProbability = *cfg.GuidanceGlitchProbability
	}
	script, err := scenario.Resolve(cfg.Scenario)
	if err != nil {
		return sim.Options{}, err
	}
	return sim.Options{
		RunID:            cfg.RunID,
		Seed:             cfg.Seed,
		Flight:           fo,
		FrameRate:        cfg.FrameRateHz,
		TimeScale:        cfg.TimeScale,
		Script:           script,
		AnalysisInterval: cfg.Analysis.IntervalS,
	}, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

// newAnalyzer returns the HTTP analyzer when a service URL is configured
// and the rule analyzer otherwise.
func newAnalyzer(cfg *config.SimulationConfig) analysis.Analyzer {
	if cfg.Analysis.URL != "" {
		return analysis.NewHTTPAnalyzer(cfg.Analysis.URL, analysisTimeout)
	}
	return analysis.RuleAnalyzer{}
}

// buildSimulator creates a simulator with the configured vehicles.
func buildSimulator(cfg *config.SimulationConfig, writer sim.TelemetryWriter) (*sim.Simulator, error) {
	opts, err := simOptions(cfg)
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	s := sim.NewSimulator(cat, opts, writer)
	for _, rocket := range cfg.Vehicles {
		if _, err := s.AddVehicle(rocket); err != nil {
			return nil, fmt.Errorf("add vehicle %s: %w", rocket, err)
		}
	}
	if aw, ok := writer.(sim.AnalysisWriter); ok {
		s.SetAnalysisWriter(aw)
	}
	if cfg.Analysis.Enabled {
		s.EnableAnalysis(newAnalyzer(cfg), cfg.Analysis.QueueSize, analysisTimeout)
	}
	return s, nil
}
