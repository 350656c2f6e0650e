package engine

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/dshills/limngo/pkg/constraintdsl"
	"github.com/dshills/limngo/pkg/solver"
	"github.com/dshills/limngo/pkg/stage"
	"github.com/dshills/limngo/pkg/vars"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// A single absolutely positioned node resolves immediately.
func TestSingleNodePositioned(t *testing.T) {
	e := New(nil)
	root := stage.New(stage.ID(1), "root")
	root.Add(constraintdsl.TopLeft(root.Vars, constraintdsl.Point{X: 0, Y: 0}))
	root.Add(constraintdsl.Dimensions(root.Vars, constraintdsl.Size{W: 100, H: 200}))
	e.UpdateLayout(root)

	vals := e.solver.Values()
	if !near(vals[root.Vars.Left()], 0) || !near(vals[root.Vars.Width()], 100) {
		t.Fatalf("root not positioned: %+v", vals)
	}
	if !near(vals[root.Vars.Height()], 200) {
		t.Fatalf("root height wrong: %+v", vals)
	}
}

// A 2x2 grid of cells tied together by match/align constraints.
func TestGridOfMatchedCells(t *testing.T) {
	e := New(nil)
	root := stage.New(stage.ID(1), "root")
	root.Add(constraintdsl.TopLeft(root.Vars, constraintdsl.Point{X: 0, Y: 0}))
	root.Add(constraintdsl.Dimensions(root.Vars, constraintdsl.Size{W: 200, H: 200}))
	e.UpdateLayout(root)

	a := stage.New(stage.ID(2), "a")
	b := stage.New(stage.ID(3), "b")
	c := stage.New(stage.ID(4), "c")
	d := stage.New(stage.ID(5), "d")

	a.Add(constraintdsl.AlignLeft(a.Vars, root.Vars))
	a.Add(constraintdsl.AlignTop(a.Vars, root.Vars))
	a.Add(constraintdsl.MatchWidth(a.Vars, b.Vars))
	a.Add(constraintdsl.MatchHeight(a.Vars, c.Vars))
	a.AddConstraint(solver.NewConstraint(
		solver.VarExpr(a.Vars.Width()).PlusConst(-100), solver.Equal, solver.Required))
	a.AddConstraint(solver.NewConstraint(
		solver.VarExpr(a.Vars.Height()).PlusConst(-100), solver.Equal, solver.Required))

	b.Add(constraintdsl.ToRightOf(b.Vars, a.Vars))
	b.Add(constraintdsl.AlignTop(b.Vars, root.Vars))
	b.Add(constraintdsl.AlignRight(b.Vars, root.Vars))

	c.Add(constraintdsl.AlignLeft(c.Vars, root.Vars))
	c.Add(constraintdsl.Below(c.Vars, a.Vars))
	c.Add(constraintdsl.AlignBottom(c.Vars, root.Vars))

	d.Add(constraintdsl.ToRightOf(d.Vars, c.Vars))
	d.Add(constraintdsl.Below(d.Vars, b.Vars))
	d.Add(constraintdsl.AlignRight(d.Vars, root.Vars))
	d.Add(constraintdsl.AlignBottom(d.Vars, root.Vars))
	d.Add(constraintdsl.MatchWidth(d.Vars, b.Vars))
	d.Add(constraintdsl.MatchHeight(d.Vars, c.Vars))

	e.UpdateLayout(a)
	e.UpdateLayout(b)
	e.UpdateLayout(c)
	e.UpdateLayout(d)

	vals := e.solver.Values()
	if !near(vals[b.Vars.Width()], 100) || !near(vals[c.Vars.Height()], 100) {
		t.Fatalf("grid not matched: %+v", vals)
	}
	if !near(vals[d.Vars.Left()], 100) || !near(vals[d.Vars.Top()], 100) {
		t.Fatalf("cell d misplaced: %+v", vals)
	}
}

// A constraint referencing a not-yet-registered sibling defers, then
// activates when the sibling registers.
func TestDeferredConstraintPromotedOnRegistration(t *testing.T) {
	e := New(nil)
	a := stage.New(stage.ID(1), "a")
	b := stage.New(stage.ID(2), "b")

	c := solver.NewConstraint(
		solver.VarExpr(a.Vars.Left()).MinusVar(b.Vars.Left()).PlusConst(-10),
		solver.Equal, solver.Required,
	)
	a.AddConstraint(c)
	e.UpdateLayout(a)

	if e.solver.HasConstraint(c) {
		t.Fatalf("constraint active before b was registered")
	}
	b.Add(constraintdsl.TopLeft(b.Vars, constraintdsl.Point{X: 50, Y: 0}))
	e.UpdateLayout(b)

	if !e.solver.HasConstraint(c) {
		t.Fatalf("constraint not promoted after b registered")
	}
	vals := e.solver.Values()
	if !near(vals[a.Vars.Left()], vals[b.Vars.Left()]+10) {
		t.Fatalf("a.left = %v, want b.left+10 = %v", vals[a.Vars.Left()], vals[b.Vars.Left()]+10)
	}
}

// Hide collapses a node to zero size; unhide restores its geometry.
func TestHideCollapsesUnhideRestores(t *testing.T) {
	e := New(nil)
	root := stage.New(stage.ID(1), "root")
	root.Add(constraintdsl.TopLeft(root.Vars, constraintdsl.Point{X: 0, Y: 0}))
	root.Add(constraintdsl.Dimensions(root.Vars, constraintdsl.Size{W: 50, H: 60}))
	e.UpdateLayout(root)

	vals := e.solver.Values()
	if !near(vals[root.Vars.Width()], 50) {
		t.Fatalf("setup failed: %+v", vals)
	}

	root.SetHidden(true)
	e.UpdateLayout(root)
	vals = e.solver.Values()
	if !near(vals[root.Vars.Width()], 0) || !near(vals[root.Vars.Height()], 0) {
		t.Fatalf("hidden node not collapsed: %+v", vals)
	}

	root.SetHidden(false)
	e.UpdateLayout(root)
	vals = e.solver.Values()
	if !near(vals[root.Vars.Width()], 50) || !near(vals[root.Vars.Height()], 60) {
		t.Fatalf("unhidden node not restored: %+v", vals)
	}
}

// Suggesting an edit variable's value moves the solution.
func TestEditVariableSuggestsValue(t *testing.T) {
	e := New(nil)
	root := stage.New(stage.ID(1), "root")
	root.EditLeft(func(a *constraintdsl.EditAccessor) { a.Set(10).Strength(solver.Strong) })
	e.UpdateLayout(root)

	if got := e.solver.Values()[root.Vars.Left()]; !near(got, 10) {
		t.Fatalf("left = %v, want 10", got)
	}

	e.EditVariable(root.Vars.Left(), 42)
	if got := e.solver.Values()[root.Vars.Left()]; !near(got, 42) {
		t.Fatalf("left = %v, want 42", got)
	}
}

// Editing right/bottom of an anchored node resizes it through
// the required right-left=width and bottom-top=height links.
func TestEditRightAndBottomResize(t *testing.T) {
	e := New(nil)
	r := stage.New(stage.ID(1), "r")
	r.Add(constraintdsl.TopLeft(r.Vars, constraintdsl.Point{X: 0, Y: 0}))
	r.EditRight(func(a *constraintdsl.EditAccessor) { a.Set(100).Strength(solver.Strong) })
	r.EditBottom(func(a *constraintdsl.EditAccessor) { a.Set(100).Strength(solver.Strong) })
	e.UpdateLayout(r)

	vals := e.solver.Values()
	if !near(vals[r.Vars.Width()], 100) || !near(vals[r.Vars.Height()], 100) {
		t.Fatalf("size = (%v,%v), want (100,100)", vals[r.Vars.Width()], vals[r.Vars.Height()])
	}

	e.EditVariable(r.Vars.Right(), 200)
	if got := e.solver.Values()[r.Vars.Width()]; !near(got, 200) {
		t.Fatalf("width = %v after suggesting right=200, want 200", got)
	}
}

// Removing a node cascades away constraints it owned.
func TestRemoveWidgetCascadesConstraints(t *testing.T) {
	e := New(nil)
	root := stage.New(stage.ID(1), "root")
	root.Add(constraintdsl.TopLeft(root.Vars, constraintdsl.Point{X: 0, Y: 0}))
	root.Add(constraintdsl.Dimensions(root.Vars, constraintdsl.Size{W: 100, H: 100}))
	e.UpdateLayout(root)

	child := stage.New(stage.ID(2), "child")
	child.Add(constraintdsl.AlignLeft(child.Vars, root.Vars))
	e.UpdateLayout(child)

	before := len(e.solver.GetConstraints())
	e.RemoveWidget(child.ID)
	after := len(e.solver.GetConstraints())
	if after >= before {
		t.Fatalf("RemoveWidget did not shrink constraint set: before=%d after=%d", before, after)
	}
	if _, ok := e.manager.NodeIDFor(child.Vars.Left()); ok {
		t.Errorf("child variable still mapped after RemoveWidget")
	}
}

func TestConstraintOnRemovedWidgetDropped(t *testing.T) {
	e := New(nil)
	a := stage.New(stage.ID(1), "a")
	b := stage.New(stage.ID(2), "b")
	e.UpdateLayout(a)
	e.UpdateLayout(b)
	e.RemoveWidget(a.ID)

	dead := solver.NewConstraint(
		solver.VarExpr(b.Vars.Left()).MinusVar(a.Vars.Left()),
		solver.Equal, solver.Required,
	)
	live := solver.NewConstraint(
		solver.VarExpr(b.Vars.Left()).PlusConst(-5), solver.Equal, solver.Required)
	b.AddConstraint(dead)
	b.AddConstraint(live)
	e.UpdateLayout(b)

	if e.solver.HasConstraint(dead) {
		t.Errorf("constraint referencing removed widget became active")
	}
	if !e.solver.HasConstraint(live) {
		t.Errorf("unrelated constraint on surviving widget was not added")
	}
	if got := e.solver.Values()[b.Vars.Left()]; !near(got, 5) {
		t.Errorf("b.left = %v, want 5", got)
	}
}

func TestDeferredConstraintCancelledByRemove(t *testing.T) {
	e := New(nil)
	a := stage.New(stage.ID(1), "a")
	b := stage.New(stage.ID(2), "b")

	c := solver.NewConstraint(
		solver.VarExpr(a.Vars.Left()).MinusVar(b.Vars.Left()),
		solver.Equal, solver.Required,
	)
	a.AddConstraint(c)
	e.UpdateLayout(a)
	e.RemoveWidget(a.ID)

	// Registering b must not resurrect the constraint: its other
	// participant is gone.
	e.UpdateLayout(b)
	if e.solver.HasConstraint(c) {
		t.Errorf("deferred constraint promoted after its node was removed")
	}
}

func TestAssociatedVarRegisteredAfterNode(t *testing.T) {
	e := New(nil)
	a := stage.New(stage.ID(1), "a")
	e.UpdateLayout(a)

	// Declare the associated variable only after a is already registered.
	scroll := a.AddAssociatedVar("scroll_offset")
	c := solver.NewConstraint(
		solver.VarExpr(a.Vars.Top()).MinusVar(scroll), solver.Equal, solver.Required)
	a.AddConstraint(c)
	e.UpdateLayout(a)

	if !e.solver.HasConstraint(c) {
		t.Fatalf("constraint on late-declared associated variable not active")
	}
	id, ok := e.manager.NodeIDFor(scroll)
	if !ok || id != a.ID {
		t.Fatalf("associated variable not mapped to its node: (%v,%v)", id, ok)
	}
}

func TestFetchChangesReportsKindAndID(t *testing.T) {
	e := New(nil)
	root := stage.New(stage.ID(1), "root")
	root.Add(constraintdsl.TopLeft(root.Vars, constraintdsl.Point{X: 3, Y: 4}))
	root.Add(constraintdsl.Dimensions(root.Vars, constraintdsl.Size{W: 10, H: 20}))
	e.UpdateLayout(root)

	changes := e.FetchChanges()
	if len(changes) == 0 {
		t.Fatalf("expected at least one change after initial layout")
	}
	seen := map[vars.Kind]float64{}
	for _, c := range changes {
		if c.ID != root.ID {
			t.Fatalf("change for wrong node id: %+v", c)
		}
		seen[c.Kind] = c.Value
	}
	if !near(seen[vars.Left], 3) || !near(seen[vars.Width], 10) {
		t.Fatalf("unexpected change set: %+v", seen)
	}

	// A second poll without mutation reports nothing new.
	if more := e.FetchChanges(); len(more) != 0 {
		t.Fatalf("FetchChanges not empty on unchanged solution: %+v", more)
	}
}

func TestHideIsIdempotent(t *testing.T) {
	e := New(nil)
	root := stage.New(stage.ID(1), "root")
	root.Add(constraintdsl.Dimensions(root.Vars, constraintdsl.Size{W: 20, H: 20}))
	e.UpdateLayout(root)

	e.HideWidget(root.ID)
	e.HideWidget(root.ID)
	if got := e.solver.Values()[root.Vars.Width()]; !near(got, 0) {
		t.Fatalf("double-hide left width = %v, want 0", got)
	}
	e.UnhideWidget(root.ID)
	e.UnhideWidget(root.ID)
	if got := e.solver.Values()[root.Vars.Width()]; !near(got, 20) {
		t.Fatalf("double-unhide left width = %v, want 20", got)
	}
}

func TestHideRecursesIntoChildren(t *testing.T) {
	e := New(nil)
	root := stage.New(stage.ID(1), "root")
	root.Add(constraintdsl.Dimensions(root.Vars, constraintdsl.Size{W: 100, H: 100}))
	e.UpdateLayout(root)

	child := stage.New(stage.ID(2), "child")
	child.Add(constraintdsl.Dimensions(child.Vars, constraintdsl.Size{W: 40, H: 40}))
	e.UpdateLayout(child)
	e.AddChild(root.ID, child.ID)

	e.HideWidget(root.ID)
	if got := e.solver.Values()[child.Vars.Width()]; !near(got, 0) {
		t.Fatalf("child not collapsed when ancestor hidden: %v", got)
	}

	e.UnhideWidget(root.ID)
	if got := e.solver.Values()[child.Vars.Width()]; !near(got, 40) {
		t.Fatalf("child not restored when ancestor unhidden: %v", got)
	}
}

func TestProperty_TopLeftAndDimensionsAlwaysSolve(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Float64Range(-1000, 1000).Draw(t, "x")
		y := rapid.Float64Range(-1000, 1000).Draw(t, "y")
		w := rapid.Float64Range(0, 1000).Draw(t, "w")
		h := rapid.Float64Range(0, 1000).Draw(t, "h")

		e := New(nil)
		root := stage.New(stage.ID(1), "root")
		root.Add(constraintdsl.TopLeft(root.Vars, constraintdsl.Point{X: x, Y: y}))
		root.Add(constraintdsl.Dimensions(root.Vars, constraintdsl.Size{W: w, H: h}))
		e.UpdateLayout(root)

		vals := e.solver.Values()
		if !near(vals[root.Vars.Left()], x) || !near(vals[root.Vars.Top()], y) {
			t.Fatalf("position mismatch: %+v", vals)
		}
		if !near(vals[root.Vars.Width()], w) || !near(vals[root.Vars.Height()], h) {
			t.Fatalf("size mismatch: %+v", vals)
		}
	})
}
