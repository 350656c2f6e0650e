package stage

import (
	"testing"

	"github.com/dshills/limngo/pkg/constraintdsl"
	"github.com/dshills/limngo/pkg/solver"
	"github.com/dshills/limngo/pkg/vars"
)

func TestIDGeneratorIsMonotonic(t *testing.T) {
	var gen IDGenerator
	a := gen.Next()
	b := gen.Next()
	if a == 0 {
		t.Errorf("first id = 0, want nonzero")
	}
	if b <= a {
		t.Errorf("second id %v is not greater than first %v", b, a)
	}
}

func TestAddAndDrain(t *testing.T) {
	l := New(ID(1), "box")
	other := vars.New()
	l.Add(constraintdsl.AlignLeft(l.Vars, other))

	if len(l.GetConstraints()) != 1 {
		t.Fatalf("GetConstraints() len = %d, want 1", len(l.GetConstraints()))
	}

	c := l.GetConstraints()[0]
	l.RemoveConstraint(c)
	if len(l.GetRemovedConstraints()) != 1 {
		t.Fatalf("GetRemovedConstraints() len = %d, want 1", len(l.GetRemovedConstraints()))
	}

	l.DrainStaged()
	if len(l.GetConstraints()) != 0 || len(l.GetRemovedConstraints()) != 0 {
		t.Errorf("staging lists not empty after DrainStaged")
	}
}

func TestEditScopedAlwaysStagesRecordEvenWithoutSet(t *testing.T) {
	l := New(ID(1), "box")
	l.EditWidth(func(e *constraintdsl.EditAccessor) {
		// Deliberately does not call Set.
	})

	vs := l.GetEditVars()
	if len(vs) != 1 {
		t.Fatalf("GetEditVars() len = %d, want 1", len(vs))
	}
	if vs[0].HasValue {
		t.Errorf("HasValue = true, want false (Set was never called)")
	}
	if vs[0].Strength != solver.Strong {
		t.Errorf("Strength = %v, want Strong (default)", vs[0].Strength)
	}
	if vs[0].Var != l.Vars.Width() {
		t.Errorf("edit record targets the wrong variable")
	}
}

func TestEditScopedWithSetAndStrength(t *testing.T) {
	l := New(ID(1), "box")
	l.EditRight(func(e *constraintdsl.EditAccessor) {
		e.Set(100).Strength(solver.Medium)
	})

	vs := l.GetEditVars()
	if len(vs) != 1 || !vs[0].HasValue || vs[0].Value != 100 || vs[0].Strength != solver.Medium {
		t.Fatalf("unexpected edit record: %+v", vs)
	}
}

func TestEditScopedReleasesOnPanic(t *testing.T) {
	l := New(ID(1), "box")
	func() {
		defer func() { recover() }()
		l.EditHeight(func(e *constraintdsl.EditAccessor) {
			e.Set(50)
			panic("boom")
		})
	}()

	vs := l.GetEditVars()
	if len(vs) != 1 || !vs[0].HasValue || vs[0].Value != 50 {
		t.Fatalf("edit record not staged across panic unwind: %+v", vs)
	}
}

func TestAddAssociatedVarStagesAndRegistersLocally(t *testing.T) {
	l := New(ID(1), "box")
	v := l.AddAssociatedVar("scroll_offset")

	if got := l.Vars.VarType(v); got != vars.Other {
		t.Errorf("VarType(associated) = %v, want Other", got)
	}
	pending := l.DrainAssociatedVars()
	if len(pending) != 1 || pending[0] != v {
		t.Fatalf("DrainAssociatedVars() = %+v, want [%v]", pending, v)
	}
	if rest := l.DrainAssociatedVars(); len(rest) != 0 {
		t.Errorf("second DrainAssociatedVars() not empty: %+v", rest)
	}
}

func TestSetHidden(t *testing.T) {
	l := New(ID(1), "box")
	if l.Hidden {
		t.Fatalf("new layout is hidden, want visible")
	}
	l.SetHidden(true)
	if !l.Hidden {
		t.Errorf("SetHidden(true) did not stick")
	}
}
