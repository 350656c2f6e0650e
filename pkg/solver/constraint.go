package solver

// Operator is the relational operator of a Constraint.
type Operator int

const (
	LessEqual Operator = iota
	Equal
	GreaterEqual
)

// String renders the operator's mathematical symbol, used by fmt_constraint.
func (op Operator) String() string {
	switch op {
	case LessEqual:
		return "<="
	case Equal:
		return "="
	case GreaterEqual:
		return ">="
	default:
		return "?"
	}
}

// Constraint is a single linear equality/inequality with a strength. It is
// a value object conceptually, but Go has no built-in value-hashing for
// slice-bearing structs, so identity is by pointer: the same *Constraint
// returned by NewConstraint may be attributed to many nodes (a constraint
// relating two nodes belongs to both), exactly mirroring the reference
// semantics a refcounted constraint handle would give.
type Constraint struct {
	Expression Expression
	Op         Operator
	Strength   Strength
}

// NewConstraint allocates a new Constraint. Two calls with identical fields
// produce distinct identities: constraints are not compared by structure,
// so callers that want one constraint attributed to two nodes must share
// the same *Constraint value, not call NewConstraint twice.
func NewConstraint(expr Expression, op Operator, strength Strength) *Constraint {
	return &Constraint{Expression: expr, Op: op, Strength: Clip(strength)}
}

// WithStrength returns a new Constraint with the same expression and
// operator but a different strength. Used by change_strength.
func (c *Constraint) WithStrength(strength Strength) *Constraint {
	return NewConstraint(c.Expression, c.Op, strength)
}

// ChangeStrength rewrites the strength of every constraint in cons,
// preserving each one's expression and operator, producing new Constraint
// objects (never mutating the input). This is the DSL round-trip helper
// used by animation/interaction callers.
func ChangeStrength(cons []*Constraint, strength Strength) []*Constraint {
	out := make([]*Constraint, len(cons))
	for i, c := range cons {
		out[i] = c.WithStrength(strength)
	}
	return out
}
