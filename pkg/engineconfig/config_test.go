package engineconfig

import (
	"strings"
	"testing"

	"github.com/dshills/limngo/pkg/solver"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() config invalid: %v", err)
	}
	if cfg.Strength() != solver.Strong {
		t.Errorf("Default().Strength() = %v, want Strong", cfg.Strength())
	}
}

func TestLoadFromBytesValidConfig(t *testing.T) {
	yaml := `
epsilon: 0.0001
defaultEditStrength: weak
debugLogging: true
`
	cfg, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadFromBytes() failed: %v", err)
	}
	if cfg.Epsilon != 0.0001 {
		t.Errorf("Epsilon = %v, want 0.0001", cfg.Epsilon)
	}
	if cfg.Strength() != solver.Weak {
		t.Errorf("Strength() = %v, want Weak", cfg.Strength())
	}
	if !cfg.DebugLogging {
		t.Errorf("DebugLogging = false, want true")
	}
}

func TestLoadFromBytesRejectsNonPositiveEpsilon(t *testing.T) {
	_, err := LoadFromBytes([]byte("epsilon: 0\ndefaultEditStrength: strong\n"))
	if err == nil {
		t.Fatalf("expected error for epsilon <= 0")
	}
	if !strings.Contains(err.Error(), "epsilon") {
		t.Errorf("error = %v, want mention of epsilon", err)
	}
}

func TestLoadFromBytesRejectsUnknownStrength(t *testing.T) {
	_, err := LoadFromBytes([]byte("epsilon: 0.001\ndefaultEditStrength: extreme\n"))
	if err == nil {
		t.Fatalf("expected error for unknown strength name")
	}
}

func TestApplyOverridesSolverEpsilon(t *testing.T) {
	cfg := Default()
	cfg.Epsilon = 1e-3
	cfg.Apply()
	defer (&Config{Epsilon: 1e-8}).Apply() // restore default for other tests in the package

	s := solver.NewSolver()
	v := solver.New()
	if err := s.AddConstraint(solver.NewConstraint(solver.VarExpr(v), solver.Equal, solver.Required)); err != nil {
		t.Fatalf("AddConstraint(v=0): %v", err)
	}
	// v=0.0005 conflicts with v=0 by less than the 1e-3 tolerance, so it is
	// accepted; under the default 1e-8 it is unsatisfiable.
	c := solver.NewConstraint(solver.VarExpr(v).PlusConst(-0.0005), solver.Equal, solver.Required)
	if err := s.AddConstraint(c); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}
}

func TestToYAMLRoundTrips(t *testing.T) {
	cfg := Default()
	data, err := cfg.ToYAML()
	if err != nil {
		t.Fatalf("ToYAML() failed: %v", err)
	}
	cfg2, err := LoadFromBytes(data)
	if err != nil {
		t.Fatalf("reloading serialized config: %v", err)
	}
	if cfg2.Epsilon != cfg.Epsilon || cfg2.DefaultEditStrength != cfg.DefaultEditStrength {
		t.Errorf("round trip mismatch: got %+v, want %+v", cfg2, cfg)
	}
}
