package vars

import (
	"sync"

	"github.com/dshills/limngo/pkg/solver"
)

// LayoutVars is the set of six geometric variables a layout node owns, plus
// any associated variables it has picked up since construction. The six
// core variables are stored in a fixed-order array so VarType is an O(1)
// map lookup rather than a linear scan.
type LayoutVars struct {
	core [6]solver.Variable

	kindOf map[solver.Variable]Kind

	associatedNames map[solver.Variable]string
	associatedOrder []solver.Variable
}

// New allocates a fresh LayoutVars: six new solver.Variables with no
// associated variables yet.
func New() *LayoutVars {
	lv := &LayoutVars{
		kindOf:          make(map[solver.Variable]Kind, 6),
		associatedNames: make(map[solver.Variable]string),
	}
	for k := Left; k <= Height; k++ {
		v := solver.New()
		lv.core[k] = v
		lv.kindOf[v] = k
	}
	return lv
}

func (lv *LayoutVars) Left() solver.Variable   { return lv.core[Left] }
func (lv *LayoutVars) Top() solver.Variable    { return lv.core[Top] }
func (lv *LayoutVars) Right() solver.Variable  { return lv.core[Right] }
func (lv *LayoutVars) Bottom() solver.Variable { return lv.core[Bottom] }
func (lv *LayoutVars) Width() solver.Variable  { return lv.core[Width] }
func (lv *LayoutVars) Height() solver.Variable { return lv.core[Height] }

// VarType classifies v relative to lv: one of the six core kinds, Other if
// v is an associated variable of lv, or Other if v belongs to some other
// node entirely (callers are expected to only classify variables they
// already know belong to this node via LayoutManager's var_ids index).
func (lv *LayoutVars) VarType(v solver.Variable) Kind {
	if k, ok := lv.kindOf[v]; ok {
		return k
	}
	return Other
}

// AddAssociated registers a new user-named auxiliary variable on this node.
func (lv *LayoutVars) AddAssociated(name string, v solver.Variable) {
	if _, exists := lv.associatedNames[v]; exists {
		return
	}
	lv.kindOf[v] = Other
	lv.associatedNames[v] = name
	lv.associatedOrder = append(lv.associatedOrder, v)
}

// AssociatedName returns the name given to v via AddAssociated, if any.
func (lv *LayoutVars) AssociatedName(v solver.Variable) (string, bool) {
	name, ok := lv.associatedNames[v]
	return name, ok
}

// AllVars returns every variable lv owns, core six first in fixed order
// then associated variables in insertion order. This ordering is what
// LayoutManager.DequeueConstraints iterates over to get deterministic
// promotion order.
func (lv *LayoutVars) AllVars() []solver.Variable {
	out := make([]solver.Variable, 0, 6+len(lv.associatedOrder))
	out = append(out, lv.core[:]...)
	out = append(out, lv.associatedOrder...)
	return out
}

// InitialConstraints returns the two REQUIRED constraints tying the six
// variables into four degrees of freedom: right-left=width,
// bottom-top=height. These are added once, at node construction. No
// non-negativity constraint is added: under partial constraint sets it
// would snap sizes to zero, so callers that need it add their own at a
// weaker strength.
func InitialConstraints(lv *LayoutVars) []*solver.Constraint {
	rightMinusLeftMinusWidth := solver.VarExpr(lv.Right()).MinusVar(lv.Left()).MinusVar(lv.Width())
	bottomMinusTopMinusHeight := solver.VarExpr(lv.Bottom()).MinusVar(lv.Top()).MinusVar(lv.Height())
	return []*solver.Constraint{
		solver.NewConstraint(rightMinusLeftMinusWidth, solver.Equal, solver.Required),
		solver.NewConstraint(bottomMinusTopMinusHeight, solver.Equal, solver.Required),
	}
}

var (
	defaultOnce sync.Once
	defaultVars *LayoutVars
)

// Default returns the process-wide default LayoutVars singleton. No
// combinator in pkg/constraintdsl uses it. It is lazily initialized on
// first use, never mutated after construction, and must never be passed to
// anything that could remove its variables from a solver (there is no
// owning node to remove it from).
func Default() *LayoutVars {
	defaultOnce.Do(func() {
		defaultVars = New()
	})
	return defaultVars
}
