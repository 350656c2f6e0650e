package solver

// Term is one coefficient*variable summand of a linear Expression.
type Term struct {
	Var         Variable
	Coefficient float64
}

// Expression is a linear combination of Variables plus a constant:
// sum(Coefficient_i * Var_i) + Constant.
type Expression struct {
	Terms    []Term
	Constant float64
}

// VarExpr builds the expression "v" (coefficient 1, no constant).
func VarExpr(v Variable) Expression {
	return Expression{Terms: []Term{{Var: v, Coefficient: 1}}}
}

// ConstExpr builds the constant expression "c".
func ConstExpr(c float64) Expression {
	return Expression{Constant: c}
}

// Clone returns a deep copy so callers can mutate the result freely.
func (e Expression) Clone() Expression {
	terms := make([]Term, len(e.Terms))
	copy(terms, e.Terms)
	return Expression{Terms: terms, Constant: e.Constant}
}

// Scale multiplies every term and the constant by f.
func (e Expression) Scale(f float64) Expression {
	out := e.Clone()
	for i := range out.Terms {
		out.Terms[i].Coefficient *= f
	}
	out.Constant *= f
	return out
}

// Negate returns -e.
func (e Expression) Negate() Expression {
	return e.Scale(-1)
}

// Plus returns e + other.
func (e Expression) Plus(other Expression) Expression {
	out := e.Clone()
	out.Terms = append(out.Terms, other.Terms...)
	out.Constant += other.Constant
	return out
}

// PlusVar returns e + v.
func (e Expression) PlusVar(v Variable) Expression {
	return e.Plus(VarExpr(v))
}

// PlusConst returns e + c.
func (e Expression) PlusConst(c float64) Expression {
	out := e.Clone()
	out.Constant += c
	return out
}

// Minus returns e - other.
func (e Expression) Minus(other Expression) Expression {
	return e.Plus(other.Negate())
}

// MinusVar returns e - v.
func (e Expression) MinusVar(v Variable) Expression {
	return e.Minus(VarExpr(v))
}
