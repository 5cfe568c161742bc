package torusbench

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig describes one verification run as loaded from a YAML file.
// Actions are given in physical units (kpc²/Myr) and converted to the
// internal basis before the run; the verdict itself never depends on the
// unit system.
type RunConfig struct {
	Samples int     `yaml:"samples"`
	Periods float64 `yaml:"periods"`

	Actions   ActionsConfig   `yaml:"actions"`
	Units     UnitsConfig     `yaml:"units"`
	Potential PotentialConfig `yaml:"potential"`

	// Finder selects the estimator under test: "epicycle" (the approximate
	// local finder) or "exact" (the analytic inverse, for baselines).
	Finder string `yaml:"finder"`

	Baseline BaselineConfig `yaml:"baseline"`
	LogLevel string         `yaml:"log_level"`
}

// ActionsConfig is the target action triple in kpc²/Myr.
type ActionsConfig struct {
	Jr   float64 `yaml:"jr"`
	Jz   float64 `yaml:"jz"`
	Jphi float64 `yaml:"jphi"`
}

// UnitsConfig fixes the internal unit basis in physical terms.
type UnitsConfig struct {
	LengthKpc float64 `yaml:"length_kpc"`
	TimeMyr   float64 `yaml:"time_myr"`
}

// PotentialConfig selects and parameterizes the potential model.
type PotentialConfig struct {
	Type string `yaml:"type"` // oscillator | miyamoto

	// oscillator parameters
	OmegaPerp float64 `yaml:"omega_perp"`
	OmegaZ    float64 `yaml:"omega_z"`

	// miyamoto parameters
	GM          float64 `yaml:"gm"`
	ScaleLength float64 `yaml:"scale_length"`
	ScaleHeight float64 `yaml:"scale_height"`
}

// BaselineConfig points a run at a recorded baseline database.
type BaselineConfig struct {
	Path      string  `yaml:"path"`
	Label     string  `yaml:"label"`
	Record    bool    `yaml:"record"`
	Tolerance float64 `yaml:"tolerance"`
}

// DefaultRunConfig reproduces the reference scenario: a near-circular orbit
// (Jr = Jz = 0.1, Jφ = 1 kpc²/Myr) sampled 64 times over 4 periods in the
// unit oscillator potential, probed by the epicyclic finder.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Samples: 64,
		Periods: 4,
		Actions: ActionsConfig{Jr: 0.1, Jz: 0.1, Jphi: 1},
		Units:   UnitsConfig{LengthKpc: 1, TimeMyr: 1},
		Potential: PotentialConfig{
			Type:      "oscillator",
			OmegaPerp: 1,
			OmegaZ:    1.2,
		},
		Finder:   "epicycle",
		Baseline: BaselineConfig{Tolerance: 1e-9},
		LogLevel: "info",
	}
}

// LoadRunConfig reads a YAML run configuration. Missing keys keep their
// defaults; the result is validated.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration before any sampling begins.
func (c RunConfig) Validate() error {
	if c.Samples < 1 {
		return fmt.Errorf("%w: samples must be >= 1, got %d", ErrConfiguration, c.Samples)
	}
	if !(c.Periods > 0) {
		return fmt.Errorf("%w: periods must be positive, got %g", ErrConfiguration, c.Periods)
	}
	if c.Actions.Jr < 0 || c.Actions.Jz < 0 {
		return fmt.Errorf("%w: Jr and Jz must be non-negative, got %g, %g",
			ErrConfiguration, c.Actions.Jr, c.Actions.Jz)
	}
	if c.Units.LengthKpc <= 0 || c.Units.TimeMyr <= 0 {
		return fmt.Errorf("%w: unit scales must be positive", ErrConfiguration)
	}
	switch c.Finder {
	case "epicycle", "exact":
	default:
		return fmt.Errorf("%w: unknown finder %q", ErrConfiguration, c.Finder)
	}
	switch c.Potential.Type {
	case "oscillator":
		if c.Potential.OmegaPerp <= 0 || c.Potential.OmegaZ <= 0 {
			return fmt.Errorf("%w: oscillator frequencies must be positive", ErrConfiguration)
		}
	case "miyamoto":
		if c.Potential.GM <= 0 || c.Potential.ScaleHeight <= 0 || c.Potential.ScaleLength < 0 {
			return fmt.Errorf("%w: bad Miyamoto-Nagai parameters", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown potential type %q", ErrConfiguration, c.Potential.Type)
	}
	return nil
}

// InternalUnits builds the unit system of the run.
func (c RunConfig) InternalUnits() (InternalUnits, error) {
	return NewInternalUnits(c.Units.LengthKpc, c.Units.TimeMyr)
}

// TargetActions converts the configured physical actions to internal units.
func (c RunConfig) TargetActions(u InternalUnits) Actions {
	return Actions{
		Jr:   u.ActionFromPhysical(c.Actions.Jr),
		Jz:   u.ActionFromPhysical(c.Actions.Jz),
		Jphi: u.ActionFromPhysical(c.Actions.Jphi),
	}
}

// BuildPotential constructs the configured potential model.
func (c PotentialConfig) BuildPotential() (Potential, error) {
	switch c.Type {
	case "oscillator":
		return OscillatorPotential{OmegaPerp: c.OmegaPerp, OmegaZ: c.OmegaZ}, nil
	case "miyamoto":
		return MiyamotoNagaiPotential{GM: c.GM, A: c.ScaleLength, B: c.ScaleHeight}, nil
	default:
		return nil, fmt.Errorf("%w: unknown potential type %q", ErrConfiguration, c.Type)
	}
}

// BuildSuite constructs the potential, torus mapper and action finder of a
// full verification run. Only the oscillator potential carries an exact torus
// mapping; asking for a Miyamoto-Nagai run is a configuration error.
func (c RunConfig) BuildSuite() (Potential, TorusMapper, ActionFinder, error) {
	if c.Potential.Type != "oscillator" {
		return nil, nil, nil, fmt.Errorf("%w: no exact torus mapping for potential type %q",
			ErrConfiguration, c.Potential.Type)
	}
	osc := OscillatorPotential{OmegaPerp: c.Potential.OmegaPerp, OmegaZ: c.Potential.OmegaZ}
	mapper := OscillatorMapper{Pot: osc}

	var finder ActionFinder
	switch c.Finder {
	case "exact":
		finder = OscillatorFinder{Pot: osc}
	default:
		finder = EpicyclicFinder{Pot: osc}
	}
	return osc, mapper, finder, nil
}

// VerifyConfig returns the decision parameters of the run: configured sample
// and period counts over the reference thresholds.
func (c RunConfig) VerifyConfig() VerifyConfig {
	vc := DefaultVerifyConfig()
	vc.Samples = c.Samples
	vc.Periods = c.Periods
	return vc
}
