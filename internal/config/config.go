// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"strconv"

	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

// Analysis controls the periodic risk assessment of each vehicle.
type Analysis struct {
	Enabled   bool    `yaml:"enabled"`
	IntervalS float64 `yaml:"interval_s"`
	QueueSize int     `yaml:"queue_size"`
	URL       string  `yaml:"url"`
}

// SimulationConfig is the root configuration for a launch run
type SimulationConfig struct {
	RunID                     string   `yaml:"run_id"`
	Vehicles                  []string `yaml:"vehicles"`
	Profile                   string   `yaml:"profile"`
	Seed                      int64    `yaml:"seed"`
	TickStepS                 float64  `yaml:"tick_step_s"`
	FrameRateHz               float64  `yaml:"frame_rate_hz"`
	TimeScale                 float64  `yaml:"time_scale"`
	ThrustFaultProbability    *float64 `yaml:"thrust_fault_probability"`
	GuidanceGlitchProbability *float64 `yaml:"guidance_glitch_probability"`
	EngineStatusFromThrust    bool     `yaml:"engine_status_from_thrust"`
	CatalogPath               string   `yaml:"catalog_path"`
	Scenario                  string   `yaml:"scenario"`
	Analysis                  Analysis `yaml:"analysis"`
}

// Defaults used for unset fields.
const (
	DefaultVehicle     = "falcon-9"
	DefaultProfile     = "scripted"
	DefaultTickStepS   = 0.1
	DefaultFrameRateHz = 60
	DefaultTimeScale   = 1
	DefaultQueueSize   = 8
	DefaultIntervalS   = 5
)

// Default returns a configuration with every default applied.
func Default() *SimulationConfig {
	cfg := &SimulationConfig{Analysis: Analysis{Enabled: true}}
	cfg.applyDefaults()
	return cfg
}

// Load loads YAML config and validates it against a CUE schema
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := SimulationConfig{Analysis: Analysis{Enabled: true}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *SimulationConfig) applyDefaults() {
	if len(c.Vehicles) == 0 {
		c.Vehicles = []string{DefaultVehicle}
	}
	if c.Profile == "" {
		c.Profile = DefaultProfile
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
	if c.TickStepS <= 0 {
		c.TickStepS = DefaultTickStepS
	}
	if c.FrameRateHz <= 0 {
		c.FrameRateHz = DefaultFrameRateHz
	}
	if c.TimeScale <= 0 {
		c.TimeScale = DefaultTimeScale
	}
	if c.Analysis.IntervalS <= 0 {
		c.Analysis.IntervalS = DefaultIntervalS
	}
	if c.Analysis.QueueSize <= 0 {
		c.Analysis.QueueSize = DefaultQueueSize
	}
}

// ApplyEnv overrides fields from RUN_ID and FRAME_RATE when set.
func (c *SimulationConfig) ApplyEnv() error {
	if v := os.Getenv("RUN_ID"); v != "" {
		c.RunID = v
	}
	if v := os.Getenv("FRAME_RATE"); v != "" {
		hz, err := strconv.ParseFloat(v, 64)
		if err != nil || hz <= 0 {
			return fmt.Errorf("invalid FRAME_RATE %q", v)
		}
		c.FrameRateHz = hz
	}
	return nil
}

// ValidateWithCue validates a YAML configuration file using a CUE schema file.
func ValidateWithCue(configFile, cueFile string) error {
	ctx := cuecontext.New()

	yamlBytes, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("cannot read YAML config: %w", err)
	}
	f, err := cueyaml.Extract(configFile, yamlBytes)
	if err != nil {
		return fmt.Errorf("cannot parse YAML config: %w", err)
	}
	configVal := ctx.BuildFile(f)

	schemaBytes, err := os.ReadFile(cueFile)
	if err != nil {
		return fmt.Errorf("cannot read CUE schema: %w", err)
	}
	schemaVal := ctx.CompileBytes(schemaBytes)

	// Merge values with schema
	final := configVal.Unify(schemaVal)
	if final.Err() != nil {
		return fmt.Errorf("schema unify failed: %w", final.Err())
	}
	if err := final.Validate(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
