package holomem

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BackendConfig selects an optional accelerated compute backend.
type BackendConfig struct {
	// Enabled turns backend loading on; the pure Go path is used otherwise.
	Enabled bool `yaml:"enabled"`

	// WASMPath points at a compiled kernel module (see WASMBackend for the
	// required exports).
	WASMPath string `yaml:"wasm_path"`
}

// Config is the root configuration for the subsystem: the field geometry,
// the carrier assignment, and the two control primitives.
type Config struct {
	GridSize        int     `yaml:"grid_size"`
	Primes          []int   `yaml:"primes"`
	WavelengthScale float64 `yaml:"wavelength_scale"`

	// BasePhase φ0 is added to every carrier at projection and removed at
	// reconstruction.
	BasePhase float64 `yaml:"base_phase"`

	// NonlinearGain scales the intensity-proportional extra damping
	// applied during Evolve.
	NonlinearGain float64 `yaml:"nonlinear_gain"`

	Stabilizer StabilizerConfig `yaml:"stabilizer"`
	Gate       GateConfig       `yaml:"gate"`
	Memory     StoreConfig      `yaml:"memory"`
	Backend    BackendConfig    `yaml:"backend"`
}

// DefaultConfig returns the standard configuration: 64×64 grid, the first
// 25 primes, and default control parameters.
func DefaultConfig() *Config {
	return &Config{
		GridSize:        DefaultGridSize,
		Primes:          DefaultPrimes(),
		WavelengthScale: DefaultWavelengthScale,
		NonlinearGain:   1.0,
		Stabilizer:      DefaultStabilizerConfig(),
		Gate:            DefaultGateConfig(),
		Memory:          DefaultStoreConfig(),
	}
}

// LoadConfig reads a YAML configuration file. Omitted fields keep their
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("holomem: read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("holomem: parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero-valued fields after an unmarshal so a partial
// YAML file behaves like DefaultConfig with overrides.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.GridSize <= 0 {
		c.GridSize = def.GridSize
	}
	if len(c.Primes) == 0 {
		c.Primes = def.Primes
	}
	if c.WavelengthScale <= 0 {
		c.WavelengthScale = def.WavelengthScale
	}
	if c.NonlinearGain == 0 {
		c.NonlinearGain = def.NonlinearGain
	}
	if c.Memory.MaxMemories <= 0 {
		c.Memory.MaxMemories = def.Memory.MaxMemories
	}
	if c.Memory.RecallThreshold <= 0 {
		c.Memory.RecallThreshold = def.Memory.RecallThreshold
	}
	// Stabilizer and gate zero-fields are handled by their constructors.
}
