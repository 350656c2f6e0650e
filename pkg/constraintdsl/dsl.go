package constraintdsl

import (
	"github.com/dshills/limngo/pkg/solver"
	"github.com/dshills/limngo/pkg/vars"
)

// entry is one not-yet-padded constraint: expr op 0 holds when padding is
// zero, and paddingCoeff*padding is added to expr's constant as padding is
// set, so entry{}.apply(p) always reflects the combinator's direction
// (e.g. align_left subtracts padding, align_right adds it).
type entry struct {
	expr         solver.Expression
	op           solver.Operator
	paddingCoeff float64
}

// ConstraintSet is a partially constructed group of constraints returned by
// a DSL combinator. Every combinator defaults to padding 0 and strength
// Required; Padding and Strength may be chained before the set is built.
type ConstraintSet struct {
	entries []entry
	cons    []*solver.Constraint
	padding float64
}

func newSet(entries ...entry) *ConstraintSet {
	cs := &ConstraintSet{entries: entries}
	cs.cons = make([]*solver.Constraint, len(entries))
	for i, e := range entries {
		cs.cons[i] = solver.NewConstraint(e.expr.Clone(), e.op, solver.Required)
	}
	return cs
}

// Padding sets the padding offset for every constraint in the group,
// replacing any previously set padding. Combinators with no padding term
// (MatchWidth, MatchHeight, Dimensions, TopLeft, Center) ignore it: their
// entries carry a zero paddingCoeff.
func (cs *ConstraintSet) Padding(p float64) *ConstraintSet {
	delta := p - cs.padding
	for i, e := range cs.entries {
		if e.paddingCoeff == 0 {
			continue
		}
		cs.cons[i].Expression.Constant += e.paddingCoeff * delta
	}
	cs.padding = p
	return cs
}

// Strength rewrites the strength of every constraint in the group.
func (cs *ConstraintSet) Strength(s solver.Strength) *ConstraintSet {
	s = solver.Clip(s)
	for _, c := range cs.cons {
		c.Strength = s
	}
	return cs
}

// Build returns the finished constraints.
func (cs *ConstraintSet) Build() []*solver.Constraint {
	return cs.cons
}

// ChangeStrength rewrites the strength of every constraint in cons,
// producing new Constraint objects. A thin wrapper over
// solver.ChangeStrength for DSL call sites.
func ChangeStrength(cons []*solver.Constraint, s solver.Strength) []*solver.Constraint {
	return solver.ChangeStrength(cons, s)
}

func eq(expr solver.Expression, coeff float64) entry {
	return entry{expr: expr, op: solver.Equal, paddingCoeff: coeff}
}

// AlignLeft: self.left = B.left + padding.
func AlignLeft(self, b *vars.LayoutVars) *ConstraintSet {
	return newSet(eq(solver.VarExpr(self.Left()).MinusVar(b.Left()), -1))
}

// AlignRight: self.right = B.right - padding.
func AlignRight(self, b *vars.LayoutVars) *ConstraintSet {
	return newSet(eq(solver.VarExpr(self.Right()).MinusVar(b.Right()), 1))
}

// AlignTop: self.top = B.top + padding.
func AlignTop(self, b *vars.LayoutVars) *ConstraintSet {
	return newSet(eq(solver.VarExpr(self.Top()).MinusVar(b.Top()), -1))
}

// AlignBottom: self.bottom = B.bottom - padding.
func AlignBottom(self, b *vars.LayoutVars) *ConstraintSet {
	return newSet(eq(solver.VarExpr(self.Bottom()).MinusVar(b.Bottom()), 1))
}

// Above: self.bottom + padding = B.top.
func Above(self, b *vars.LayoutVars) *ConstraintSet {
	return newSet(eq(solver.VarExpr(self.Bottom()).MinusVar(b.Top()), 1))
}

// Below: self.top = B.bottom + padding.
func Below(self, b *vars.LayoutVars) *ConstraintSet {
	return newSet(eq(solver.VarExpr(self.Top()).MinusVar(b.Bottom()), -1))
}

// ToLeftOf: self.right + padding = B.left.
func ToLeftOf(self, b *vars.LayoutVars) *ConstraintSet {
	return newSet(eq(solver.VarExpr(self.Right()).MinusVar(b.Left()), 1))
}

// ToRightOf: self.left = B.right + padding.
func ToRightOf(self, b *vars.LayoutVars) *ConstraintSet {
	return newSet(eq(solver.VarExpr(self.Left()).MinusVar(b.Right()), -1))
}

// MatchWidth: self.width = B.width.
func MatchWidth(self, b *vars.LayoutVars) *ConstraintSet {
	return newSet(eq(solver.VarExpr(self.Width()).MinusVar(b.Width()), 0))
}

// MatchHeight: self.height = B.height.
func MatchHeight(self, b *vars.LayoutVars) *ConstraintSet {
	return newSet(eq(solver.VarExpr(self.Height()).MinusVar(b.Height()), 0))
}

// BoundBy emits four inequalities keeping self inside B, inset by padding:
// self.left >= B.left+padding, self.top >= B.top+padding,
// self.right <= B.right-padding, self.bottom <= B.bottom-padding.
func BoundBy(self, b *vars.LayoutVars) *ConstraintSet {
	return newSet(
		entry{solver.VarExpr(self.Left()).MinusVar(b.Left()), solver.GreaterEqual, -1},
		entry{solver.VarExpr(self.Top()).MinusVar(b.Top()), solver.GreaterEqual, -1},
		entry{solver.VarExpr(self.Right()).MinusVar(b.Right()), solver.LessEqual, 1},
		entry{solver.VarExpr(self.Bottom()).MinusVar(b.Bottom()), solver.LessEqual, 1},
	)
}

// TopLeft: self.left = P.X, self.top = P.Y.
func TopLeft(self *vars.LayoutVars, p Point) *ConstraintSet {
	return newSet(
		eq(solver.VarExpr(self.Left()).PlusConst(-p.X), 0),
		eq(solver.VarExpr(self.Top()).PlusConst(-p.Y), 0),
	)
}

// Dimensions: self.width = S.W, self.height = S.H.
func Dimensions(self *vars.LayoutVars, s Size) *ConstraintSet {
	return newSet(
		eq(solver.VarExpr(self.Width()).PlusConst(-s.W), 0),
		eq(solver.VarExpr(self.Height()).PlusConst(-s.H), 0),
	)
}

// Center: self.left+self.width/2 = B.left+B.width/2, same vertically.
func Center(self, b *vars.LayoutVars) *ConstraintSet {
	horiz := solver.VarExpr(self.Left()).
		Plus(solver.VarExpr(self.Width()).Scale(0.5)).
		MinusVar(b.Left()).
		Minus(solver.VarExpr(b.Width()).Scale(0.5))
	vert := solver.VarExpr(self.Top()).
		Plus(solver.VarExpr(self.Height()).Scale(0.5)).
		MinusVar(b.Top()).
		Minus(solver.VarExpr(b.Height()).Scale(0.5))
	return newSet(eq(horiz, 0), eq(vert, 0))
}
