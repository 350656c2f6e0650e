package engine

import (
	"log"
	"math"
	"os"

	"github.com/dshills/limngo/pkg/engineconfig"
	"github.com/dshills/limngo/pkg/manager"
	"github.com/dshills/limngo/pkg/solver"
	"github.com/dshills/limngo/pkg/stage"
	"github.com/dshills/limngo/pkg/vars"
)

// LimnSolver orchestrates every mutation of the underlying solver. It is
// the only component that calls solver.Solver methods directly; everything
// else (DSL, Layout staging, LayoutManager indices) is plumbing that feeds
// it. It is single-threaded and not safe for concurrent use.
type LimnSolver struct {
	solver  *solver.Solver
	manager *manager.Manager
	logger  *log.Logger

	defaultEditStrength solver.Strength
}

// New returns an empty LimnSolver. A nil logger defaults to one writing to
// stderr.
func New(logger *log.Logger) *LimnSolver {
	if logger == nil {
		logger = log.New(os.Stderr, "limngo: ", log.LstdFlags)
	}
	return &LimnSolver{
		solver:              solver.NewSolver(),
		manager:             manager.New(),
		logger:              logger,
		defaultEditStrength: solver.Strong,
	}
}

// NewWithConfig applies cfg's tunables (solver epsilon) before constructing
// the engine, and remembers cfg.Strength() as the fallback edit strength
// EditVariable uses when a variable was never bound through a staged edit
// record or RememberEditStrength.
func NewWithConfig(logger *log.Logger, cfg *engineconfig.Config) *LimnSolver {
	cfg.Apply()
	e := New(logger)
	e.defaultEditStrength = cfg.Strength()
	return e
}

// AddChild records child as a child of parent for hide/unhide
// recursion. The widget tree is expected to call this once, when it
// attaches child under parent.
func (e *LimnSolver) AddChild(parent, child stage.ID) {
	e.manager.AddChild(parent, child)
}

// UpdateLayout drains l's staging area transactionally: visibility
// reconciliation, constraint removals, registration, constraint
// additions, then edit-variable suggestions, in that fixed order. It
// never returns an error; failures are logged and the engine continues.
func (e *LimnSolver) UpdateLayout(l *stage.Layout) {
	e.reconcileVisibility(l)
	e.applyRemovals(l)
	e.applyRegistration(l)
	e.applyAdditions(l)
	e.applyEditVars(l)
	l.DrainStaged()
}

func (e *LimnSolver) reconcileVisibility(l *stage.Layout) {
	hidden := e.manager.LayoutHidden(l.ID)
	if l.Hidden && !hidden {
		e.hideWidget(l.ID)
	} else if !l.Hidden && hidden {
		e.unhideWidget(l.ID)
	}
}

func (e *LimnSolver) applyRemovals(l *stage.Layout) {
	for _, c := range l.GetRemovedConstraints() {
		e.removeFromSolverAndForget(c)
	}
}

func (e *LimnSolver) applyRegistration(l *stage.Layout) {
	fresh := !e.manager.IsRegistered(l.ID)
	if fresh {
		e.manager.RegisterWidget(l)
	}
	// Always ingest: a node may declare associated variables (or change its
	// diagnostic name) long after it was first registered.
	e.manager.UpdateLayout(l)
	if fresh {
		for _, c := range vars.InitialConstraints(l.Vars) {
			e.addToSolver(c)
		}
	}
	for _, c := range e.manager.DequeueConstraints(l) {
		e.addPromoted(c)
	}
}

// addPromoted activates a constraint whose last deferred variable just
// registered. A participant node may have been removed while the
// constraint sat in the queue; such a constraint can never be satisfied
// meaningfully, so it is dropped with a diagnostic instead.
func (e *LimnSolver) addPromoted(c *solver.Constraint) {
	for _, term := range c.Expression.Terms {
		if e.manager.VariableRetired(term.Var) {
			e.logger.Printf("deferred constraint references removed widget, dropping: %s", e.manager.FmtConstraint(c))
			return
		}
	}
	e.addToSolver(c)
}

func (e *LimnSolver) applyAdditions(l *stage.Layout) {
	for _, c := range l.GetConstraints() {
		missing := e.missingVars(c)
		if len(missing) == 0 {
			e.addToSolver(c)
			continue
		}
		// A variable whose node was removed can never register again, so
		// deferring on it would queue the constraint forever.
		if retired := e.retiredVars(missing); len(retired) > 0 {
			e.logger.Printf("constraint references removed widget, dropping: %s", e.manager.FmtConstraint(c))
			continue
		}
		for _, v := range missing {
			e.manager.QueueConstraint(v, c)
		}
	}
}

func (e *LimnSolver) retiredVars(missing []solver.Variable) []solver.Variable {
	var retired []solver.Variable
	for _, v := range missing {
		if e.manager.VariableRetired(v) {
			retired = append(retired, v)
		}
	}
	return retired
}

func (e *LimnSolver) missingVars(c *solver.Constraint) []solver.Variable {
	var missing []solver.Variable
	for _, term := range c.Expression.Terms {
		if _, ok := e.manager.NodeIDFor(term.Var); !ok {
			missing = append(missing, term.Var)
		}
	}
	return missing
}

func (e *LimnSolver) applyEditVars(l *stage.Layout) {
	for _, rec := range l.GetEditVars() {
		if !rec.HasValue {
			e.manager.RememberEditStrength(rec.Var, rec.Strength)
			continue
		}
		if !e.solver.HasEditVariable(rec.Var) {
			if err := e.solver.AddEditVariable(rec.Var, rec.Strength); err != nil {
				e.logger.Printf("AddEditVariable(%s) failed: %v", e.manager.FmtVariable(rec.Var), err)
				continue
			}
		}
		if math.IsNaN(rec.Value) || math.IsInf(rec.Value, 0) {
			e.logger.Printf("suggested non-finite value for %s, skipping", e.manager.FmtVariable(rec.Var))
			continue
		}
		if err := e.solver.SuggestValue(rec.Var, rec.Value); err != nil {
			e.logger.Printf("SuggestValue(%s) failed: %v", e.manager.FmtVariable(rec.Var), err)
		}
	}
}

// addToSolver adds c to the solver and, on success, attributes it to
// every node one of its terms belongs to. On failure it logs a diagnostic
// dump and returns without propagating the error.
func (e *LimnSolver) addToSolver(c *solver.Constraint) {
	if err := e.solver.AddConstraint(c); err != nil {
		e.logger.Printf("constraint rejected (%v): %s", err, e.manager.FmtConstraint(c))
		e.DebugConstraints()
		return
	}
	seen := make(map[stage.ID]struct{})
	for _, term := range c.Expression.Terms {
		id, ok := e.manager.NodeIDFor(term.Var)
		if !ok {
			continue
		}
		if _, already := seen[id]; already {
			continue
		}
		seen[id] = struct{}{}
		e.manager.RecordConstraint(id, c)
	}
}

// removeFromSolverAndForget removes c from the solver and strips its
// attribution from every node that held it. Removing an absent constraint
// is a silent no-op.
func (e *LimnSolver) removeFromSolverAndForget(c *solver.Constraint) {
	if err := e.solver.RemoveConstraint(c); err != nil {
		return
	}
	for _, term := range c.Expression.Terms {
		if id, ok := e.manager.NodeIDFor(term.Var); ok {
			e.manager.ForgetConstraint(id, c)
		}
	}
}

// RemoveWidget drops id from the manager and every constraint it had
// attributed to itself from the solver, then forgets its variables.
// Cross-node constraints vanish with the first participant removed: the
// solver keys constraints by identity, so ending one node's attribution
// ends the constraint. This is an intended limitation.
func (e *LimnSolver) RemoveWidget(id stage.ID) {
	lv, cons := e.manager.RemoveNode(id)
	if lv == nil {
		return
	}
	for _, c := range cons {
		if err := e.solver.RemoveConstraint(c); err != nil && err != solver.ErrUnknownConstraint {
			e.logger.Printf("RemoveConstraint during RemoveWidget(%v) failed: %v", id, err)
		}
	}
	for _, v := range lv.AllVars() {
		e.solver.ForgetVariable(v)
	}
}

// HideWidget collapses id (and recursively every registered child) to
// width=0, height=0, saving its current constraints for UnhideWidget.
// Idempotent.
func (e *LimnSolver) HideWidget(id stage.ID) {
	e.hideWidget(id)
}

func (e *LimnSolver) hideWidget(id stage.ID) {
	if !e.manager.LayoutHidden(id) && e.manager.IsRegistered(id) {
		lv, _ := e.manager.NodeVars(id)
		saved := e.manager.NodeConstraints(id)
		for _, c := range saved {
			e.removeFromSolverAndForget(c)
		}
		collapsers := []*solver.Constraint{
			solver.NewConstraint(solver.VarExpr(lv.Width()), solver.Equal, solver.Required),
			solver.NewConstraint(solver.VarExpr(lv.Height()), solver.Equal, solver.Required),
		}
		for _, c := range collapsers {
			e.addToSolver(c)
		}
		e.manager.SetHidden(id, &manager.HiddenEntry{Collapsers: collapsers, Saved: saved})
	}
	for _, child := range e.manager.Children(id) {
		e.hideWidget(child)
	}
}

// UnhideWidget restores id's (and its children's) saved constraints and
// removes the collapsers. Idempotent.
func (e *LimnSolver) UnhideWidget(id stage.ID) {
	e.unhideWidget(id)
}

func (e *LimnSolver) unhideWidget(id stage.ID) {
	if entry := e.manager.ClearHidden(id); entry != nil {
		for _, c := range entry.Collapsers {
			e.removeFromSolverAndForget(c)
		}
		for _, c := range entry.Saved {
			if e.solver.HasConstraint(c) {
				continue
			}
			e.addToSolver(c)
		}
	}
	for _, child := range e.manager.Children(id) {
		e.unhideWidget(child)
	}
}

// EditVariable binds v as an edit variable if it is not already one (using
// the strength remembered by a prior strength-only edit record, or the
// engine's default edit strength if none: Strong, unless NewWithConfig set
// another) and suggests val. A non-finite val is logged and skipped.
func (e *LimnSolver) EditVariable(v solver.Variable, val float64) {
	if !e.solver.HasEditVariable(v) {
		strength, ok := e.manager.EditStrength(v)
		if !ok {
			strength = e.defaultEditStrength
		}
		if err := e.solver.AddEditVariable(v, strength); err != nil {
			e.logger.Printf("AddEditVariable(%s) failed: %v", e.manager.FmtVariable(v), err)
			return
		}
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		e.logger.Printf("suggested non-finite value for %s, skipping", e.manager.FmtVariable(v))
		return
	}
	if err := e.solver.SuggestValue(v, val); err != nil {
		e.logger.Printf("SuggestValue(%s) failed: %v", e.manager.FmtVariable(v), err)
	}
}

// FetchChanges polls the solver for variables that changed since the last
// call, filters out ones no longer mapped to a registered node (a
// remove may race a fetch), and classifies each by kind.
func (e *LimnSolver) FetchChanges() []Change {
	raw := e.solver.FetchChanges()
	out := make([]Change, 0, len(raw))
	for _, ch := range raw {
		id, ok := e.manager.NodeIDFor(ch.Var)
		if !ok {
			continue
		}
		lv, ok := e.manager.NodeVars(id)
		if !ok {
			continue
		}
		out = append(out, Change{ID: id, Kind: lv.VarType(ch.Var), Value: ch.Value})
	}
	return out
}

// DebugVariables writes every tracked variable's current value to the
// engine's logger.
func (e *LimnSolver) DebugVariables() {
	for v, val := range e.solver.Values() {
		e.logger.Printf("%s = %g", e.manager.FmtVariable(v), val)
	}
}

// DebugConstraints writes every active constraint to the engine's logger.
func (e *LimnSolver) DebugConstraints() {
	for _, c := range e.solver.GetConstraints() {
		e.logger.Printf("%s", e.manager.FmtConstraint(c))
	}
}
