package engineconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/limngo/pkg/solver"
)

// Config specifies the tunable parameters for a LimnSolver. It supports
// YAML parsing and validation, the way dungeon.Config does for its own
// generator parameters.
type Config struct {
	// Epsilon is the near-zero/near-equality tolerance the solver uses for
	// dual-feasibility checks and FetchChanges comparisons.
	Epsilon float64 `yaml:"epsilon" json:"epsilon"`

	// DefaultEditStrength names the strength bound to an edit variable
	// when a caller suggests a value without ever staging one through
	// Layout.Edit*. Must be one of "weak", "medium", "strong", "required".
	DefaultEditStrength string `yaml:"defaultEditStrength" json:"defaultEditStrength"`

	// DebugLogging is parsed, validated and serialized with the rest of
	// the config, but the engine does not read it: engine.LimnSolver dumps
	// DebugConstraints on every rejected constraint whatever its value.
	DebugLogging bool `yaml:"debugLogging" json:"debugLogging"`
}

// Default returns the engine's built-in tuning: the solver's own epsilon,
// Strong as the default edit strength, and logging off.
func Default() *Config {
	return &Config{
		Epsilon:             1e-8,
		DefaultEditStrength: "strong",
		DebugLogging:        false,
	}
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses YAML configuration from a byte slice. Useful for
// testing and programmatic config generation.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks all configuration constraints, returning an error
// describing the first failure found.
func (c *Config) Validate() error {
	if c.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, got %g", c.Epsilon)
	}
	if _, ok := strengthByName(c.DefaultEditStrength); !ok {
		return fmt.Errorf("defaultEditStrength must be one of weak/medium/strong/required, got %q", c.DefaultEditStrength)
	}
	return nil
}

// Strength resolves DefaultEditStrength to a solver.Strength.
func (c *Config) Strength() solver.Strength {
	s, _ := strengthByName(c.DefaultEditStrength)
	return s
}

// Apply installs c's tunables process-wide: it overrides the solver
// package's near-equality epsilon. Call it once at startup, before
// constructing any engine.LimnSolver.
func (c *Config) Apply() {
	solver.SetEpsilon(c.Epsilon)
}

// ToYAML serializes the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

func strengthByName(name string) (solver.Strength, bool) {
	switch name {
	case "weak":
		return solver.Weak, true
	case "medium":
		return solver.Medium, true
	case "strong":
		return solver.Strong, true
	case "required":
		return solver.Required, true
	default:
		return 0, false
	}
}
