package stage

import (
	"github.com/dshills/limngo/pkg/constraintdsl"
	"github.com/dshills/limngo/pkg/solver"
	"github.com/dshills/limngo/pkg/vars"
)

// EditVarRecord is a staged edit-variable suggestion: produced by one of
// Layout's scoped edit_<field>() calls, always pushed on scope release
// regardless of whether a value was set.
type EditVarRecord struct {
	Var      solver.Variable
	Kind     vars.Kind
	Value    float64
	HasValue bool
	Strength solver.Strength
}

type associatedVar struct {
	Name string
	Var  solver.Variable
}

// Layout is a node's scratch space: staged constraint additions/removals,
// edit-variable suggestions, newly declared associated variables, and the
// visibility flag. Nothing here is visible to the solver until the engine
// drains it; staging lists are emptied at each drain.
type Layout struct {
	ID     ID
	Name   string
	Vars   *vars.LayoutVars
	Hidden bool

	newConstraints     []*solver.Constraint
	removedConstraints []*solver.Constraint
	editVars           []EditVarRecord
	pendingAssociated  []associatedVar
}

// New returns a fresh Layout with its own freshly allocated LayoutVars.
func New(id ID, name string) *Layout {
	return &Layout{ID: id, Name: name, Vars: vars.New()}
}

// Add stages every constraint built by cs.
func (l *Layout) Add(cs *constraintdsl.ConstraintSet) *Layout {
	l.newConstraints = append(l.newConstraints, cs.Build()...)
	return l
}

// AddConstraint stages a single already-built constraint.
func (l *Layout) AddConstraint(c *solver.Constraint) *Layout {
	l.newConstraints = append(l.newConstraints, c)
	return l
}

// RemoveConstraint stages c for removal on the next drain.
func (l *Layout) RemoveConstraint(c *solver.Constraint) *Layout {
	l.removedConstraints = append(l.removedConstraints, c)
	return l
}

// SetHidden toggles the node's staged visibility flag.
func (l *Layout) SetHidden(hidden bool) *Layout {
	l.Hidden = hidden
	return l
}

// AddAssociatedVar allocates a new named auxiliary variable on this node
// and stages it for registration on the next drain.
func (l *Layout) AddAssociatedVar(name string) solver.Variable {
	v := solver.New()
	l.Vars.AddAssociated(name, v)
	l.pendingAssociated = append(l.pendingAssociated, associatedVar{Name: name, Var: v})
	return v
}

func (l *Layout) varForKind(kind vars.Kind) solver.Variable {
	switch kind {
	case vars.Left:
		return l.Vars.Left()
	case vars.Top:
		return l.Vars.Top()
	case vars.Right:
		return l.Vars.Right()
	case vars.Bottom:
		return l.Vars.Bottom()
	case vars.Width:
		return l.Vars.Width()
	case vars.Height:
		return l.Vars.Height()
	default:
		return solver.Variable{}
	}
}

// editScoped runs configure against a freshly created accessor for kind
// and stages the resulting record on release, via defer, so the record is
// pushed even if configure panics. Go has no destructors, so the scope is
// this function call.
func (l *Layout) editScoped(kind vars.Kind, configure func(*constraintdsl.EditAccessor)) {
	e := constraintdsl.NewEditAccessor(kind)
	defer func() {
		value, hasValue := e.Value()
		l.editVars = append(l.editVars, EditVarRecord{
			Var:      l.varForKind(kind),
			Kind:     kind,
			Value:    value,
			HasValue: hasValue,
			Strength: e.CurrentStrength(),
		})
	}()
	if configure != nil {
		configure(e)
	}
}

func (l *Layout) EditLeft(configure func(*constraintdsl.EditAccessor))   { l.editScoped(vars.Left, configure) }
func (l *Layout) EditTop(configure func(*constraintdsl.EditAccessor))    { l.editScoped(vars.Top, configure) }
func (l *Layout) EditRight(configure func(*constraintdsl.EditAccessor))  { l.editScoped(vars.Right, configure) }
func (l *Layout) EditBottom(configure func(*constraintdsl.EditAccessor)) { l.editScoped(vars.Bottom, configure) }
func (l *Layout) EditWidth(configure func(*constraintdsl.EditAccessor))  { l.editScoped(vars.Width, configure) }
func (l *Layout) EditHeight(configure func(*constraintdsl.EditAccessor)) { l.editScoped(vars.Height, configure) }

// GetConstraints returns the constraints staged for addition since the
// last drain.
func (l *Layout) GetConstraints() []*solver.Constraint { return l.newConstraints }

// GetRemovedConstraints returns the constraints staged for removal since
// the last drain.
func (l *Layout) GetRemovedConstraints() []*solver.Constraint { return l.removedConstraints }

// GetEditVars returns the edit-variable records staged since the last
// drain.
func (l *Layout) GetEditVars() []EditVarRecord { return l.editVars }

// DrainAssociatedVars returns and clears the associated variables declared
// since the last drain.
func (l *Layout) DrainAssociatedVars() []solver.Variable {
	out := make([]solver.Variable, len(l.pendingAssociated))
	for i, a := range l.pendingAssociated {
		out[i] = a.Var
	}
	l.pendingAssociated = nil
	return out
}

// DrainStaged empties every staging list. Called by the engine once it has
// processed a Layout's current batch.
func (l *Layout) DrainStaged() {
	l.newConstraints = nil
	l.removedConstraints = nil
	l.editVars = nil
	l.pendingAssociated = nil
}
