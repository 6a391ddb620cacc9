// Package config holds the experiment configuration surface: model
// parameters, grid and shock settings, and solver controls. Experiments
// are described in YAML files; flag overrides are applied by the CLI on
// top of the loaded values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Method names the policy-update operator to run.
type Method string

const (
	MethodEGM       Method = "egm"
	MethodExogenous Method = "exogenous"
)

// Experiment is one solver run's worth of configuration.
type Experiment struct {
	// Preferences and technology.
	Beta  float64 `yaml:"beta"`
	Gamma float64 `yaml:"gamma"`
	Alpha float64 `yaml:"alpha"`

	// State grid.
	GridMin  float64 `yaml:"grid_min"`
	GridMax  float64 `yaml:"grid_max"`
	GridSize int     `yaml:"grid_size"`

	// Shock sample.
	ShockSample int     `yaml:"shock_sample"`
	ShockMu     float64 `yaml:"shock_mu"`
	ShockSigma  float64 `yaml:"shock_sigma"`
	Seed        uint64  `yaml:"seed"`

	// Solver controls. Tolerance 0 selects fixed-iteration mode.
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
	Method        Method  `yaml:"method"`
	Workers       int     `yaml:"workers"`
}

// Default returns the reference experiment: log utility, alpha 0.65,
// beta 0.95, 200-point grid, 250 shock draws, tolerance-based stopping.
func Default() Experiment {
	return Experiment{
		Beta:          0.95,
		Gamma:         1.0,
		Alpha:         0.65,
		GridMin:       1e-5,
		GridMax:       4,
		GridSize:      200,
		ShockSample:   250,
		ShockMu:       0,
		ShockSigma:    0.1,
		Seed:          42,
		MaxIterations: 500,
		Tolerance:     1e-6,
		Method:        MethodEGM,
		Workers:       1,
	}
}

// Load reads a YAML experiment file over the defaults: omitted keys keep
// their default values.
func Load(path string) (Experiment, error) {
	exp := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return exp, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return exp, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := exp.Validate(); err != nil {
		return exp, fmt.Errorf("config %s: %w", path, err)
	}
	return exp, nil
}

// Validate checks the ranges the solver assumes. Model-parameter ranges
// are re-checked by the model constructor; the checks here exist so a bad
// config file fails with a message naming the offending key.
func (e Experiment) Validate() error {
	if e.Beta <= 0 || e.Beta >= 1 {
		return fmt.Errorf("beta must lie in (0,1), got %v", e.Beta)
	}
	if e.Gamma <= 0 {
		return fmt.Errorf("gamma must be positive, got %v", e.Gamma)
	}
	if e.Alpha <= 0 || e.Alpha >= 1 {
		return fmt.Errorf("alpha must lie in (0,1), got %v", e.Alpha)
	}
	if e.GridMin <= 0 {
		return fmt.Errorf("grid_min must be positive, got %v", e.GridMin)
	}
	if e.GridMax <= e.GridMin {
		return fmt.Errorf("grid_max (%v) must exceed grid_min (%v)", e.GridMax, e.GridMin)
	}
	if e.GridSize < 2 {
		return fmt.Errorf("grid_size must be at least 2, got %d", e.GridSize)
	}
	if e.ShockSample <= 0 {
		return fmt.Errorf("shock_sample must be positive, got %d", e.ShockSample)
	}
	if e.ShockSigma < 0 {
		return fmt.Errorf("shock_sigma must be non-negative, got %v", e.ShockSigma)
	}
	if e.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", e.MaxIterations)
	}
	if e.Tolerance < 0 {
		return fmt.Errorf("tolerance must be non-negative, got %v", e.Tolerance)
	}
	switch e.Method {
	case MethodEGM, MethodExogenous:
	default:
		return fmt.Errorf("method must be %q or %q, got %q", MethodEGM, MethodExogenous, e.Method)
	}
	if e.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", e.Workers)
	}
	return nil
}
