package solver

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Errors returned by Solver. None of these are meant to reach an end user
// directly — callers in pkg/engine log them and continue, per the "never
// abort the process" design note.
var (
	ErrDuplicateConstraint     = errors.New("solver: constraint already present")
	ErrUnknownConstraint       = errors.New("solver: constraint not present")
	ErrUnsatisfiableConstraint = errors.New("solver: constraint is unsatisfiable")
	ErrDuplicateEditVariable   = errors.New("solver: edit variable already present")
	ErrUnknownEditVariable     = errors.New("solver: edit variable not present")
	ErrBadRequiredStrength     = errors.New("solver: edit variable cannot have required strength")
)

type tag struct {
	marker symbol
	other  symbol
}

type editInfo struct {
	tag        tag
	constraint *Constraint
	constant   float64
}

// Change is one (Variable, new value) pair reported by FetchChanges.
type Change struct {
	Var   Variable
	Value float64
}

// Solver is an incremental Cassowary-style simplex solver. It is not safe
// for concurrent use — the whole engine above it is single-threaded by
// design.
type Solver struct {
	rows    map[symbol]*row
	vars    map[Variable]symbol
	varOf   map[symbol]Variable
	cns     map[*Constraint]tag
	cnOrder []*Constraint

	edits map[Variable]*editInfo

	objective  *row
	artificial *row

	nextSymbolID uint64

	lastValues map[Variable]float64
}

// NewSolver returns an empty solver.
func NewSolver() *Solver {
	return &Solver{
		rows:       make(map[symbol]*row),
		vars:       make(map[Variable]symbol),
		varOf:      make(map[symbol]Variable),
		cns:        make(map[*Constraint]tag),
		edits:      make(map[Variable]*editInfo),
		objective:  newRow(0),
		lastValues: make(map[Variable]float64),
	}
}

func (s *Solver) newSymbol(kind symbolKind) symbol {
	s.nextSymbolID++
	return symbol{id: s.nextSymbolID, kind: kind}
}

func (s *Solver) symbolFor(v Variable) symbol {
	if sym, ok := s.vars[v]; ok {
		return sym
	}
	sym := s.newSymbol(symbolExternal)
	s.vars[v] = sym
	s.varOf[sym] = v
	return sym
}

// HasConstraint reports whether c is currently active in the solver.
func (s *Solver) HasConstraint(c *Constraint) bool {
	_, ok := s.cns[c]
	return ok
}

// HasEditVariable reports whether v currently has an edit variable bound.
func (s *Solver) HasEditVariable(v Variable) bool {
	_, ok := s.edits[v]
	return ok
}

// GetConstraints returns all currently active constraints, in the order
// they were added (with removed constraints spliced out), for diagnostics.
func (s *Solver) GetConstraints() []*Constraint {
	out := make([]*Constraint, 0, len(s.cnOrder))
	for _, c := range s.cnOrder {
		if _, ok := s.cns[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// createRow builds the initial tableau row for c, resolving every term's
// variable to its (possibly freshly created) external symbol and
// substituting in any row that variable is already basic in.
func (s *Solver) createRow(c *Constraint) (*row, tag) {
	r := newRow(c.Expression.Constant)
	for _, term := range c.Expression.Terms {
		if nearZero(term.Coefficient) {
			continue
		}
		sym := s.symbolFor(term.Var)
		if basicRow, ok := s.rows[sym]; ok {
			r.insertRow(basicRow, term.Coefficient)
		} else {
			r.insertSymbolWithCoefficient(sym, term.Coefficient)
		}
	}

	var t tag
	switch c.Op {
	case LessEqual, GreaterEqual:
		coeff := 1.0
		if c.Op == GreaterEqual {
			coeff = -1.0
		}
		slack := s.newSymbol(symbolSlack)
		t.marker = slack
		r.insertSymbolWithCoefficient(slack, coeff)
		if !c.Strength.IsRequired() {
			errSym := s.newSymbol(symbolError)
			t.other = errSym
			r.insertSymbolWithCoefficient(errSym, -coeff)
			s.objective.insertSymbolWithCoefficient(errSym, float64(c.Strength))
		}
	case Equal:
		if c.Strength.IsRequired() {
			dummy := s.newSymbol(symbolDummy)
			t.marker = dummy
			r.insertSymbol(dummy)
		} else {
			errPlus := s.newSymbol(symbolError)
			errMinus := s.newSymbol(symbolError)
			t.marker = errPlus
			t.other = errMinus
			r.insertSymbolWithCoefficient(errPlus, -1.0)
			r.insertSymbolWithCoefficient(errMinus, 1.0)
			s.objective.insertSymbolWithCoefficient(errPlus, float64(c.Strength))
			s.objective.insertSymbolWithCoefficient(errMinus, float64(c.Strength))
		}
	}

	if r.constant < 0 {
		r.reverseSign()
	}
	return r, t
}

// chooseSubject picks the symbol that will become basic for a freshly
// created row, preferring an external variable (so the row directly
// defines that variable's value) and falling back to the constraint's own
// marker/error symbols when they have a negative coefficient.
func chooseSubject(r *row, t tag) symbol {
	for _, sym := range sortedSymbols(r.cells) {
		if sym.isExternal() {
			return sym
		}
	}
	if t.marker.kind == symbolSlack || t.marker.kind == symbolError {
		if r.coefficientFor(t.marker) < 0 {
			return t.marker
		}
	}
	if !t.other.isInvalid() && r.coefficientFor(t.other) < 0 {
		return t.other
	}
	return symbol{}
}

func sortedSymbols(cells map[symbol]float64) []symbol {
	out := make([]symbol, 0, len(cells))
	for sym := range cells {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].kind != out[j].kind {
			return out[i].kind < out[j].kind
		}
		return out[i].id < out[j].id
	})
	return out
}

// AddConstraint adds c to the solver. It returns ErrDuplicateConstraint if
// c is already active and ErrUnsatisfiableConstraint if c cannot be
// satisfied together with the existing Required constraints.
func (s *Solver) AddConstraint(c *Constraint) error {
	if c == nil {
		return fmt.Errorf("solver: nil constraint")
	}
	if s.HasConstraint(c) {
		return ErrDuplicateConstraint
	}

	r, t := s.createRow(c)
	subject := chooseSubject(r, t)

	if subject.isInvalid() && r.allDummies() {
		if !nearZero(r.constant) {
			return ErrUnsatisfiableConstraint
		}
		subject = t.marker
	}

	if subject.isInvalid() {
		if !s.addWithArtificialVariable(r) {
			return ErrUnsatisfiableConstraint
		}
	} else {
		r.solveForSymbol(subject)
		s.substitute(subject, r)
		s.rows[subject] = r
	}

	s.cns[c] = t
	s.cnOrder = append(s.cnOrder, c)
	return s.optimize(s.objective)
}

// addWithArtificialVariable runs phase-one simplex (minimize the
// artificial variable) to find a feasible starting row for a constraint
// whose row had no eligible subject symbol. Returns false if the
// constraint is unsatisfiable.
func (s *Solver) addWithArtificialVariable(r *row) bool {
	art := s.newSymbol(symbolSlack)
	s.rows[art] = r.clone()
	s.artificial = r.clone()

	s.optimize(s.artificial)
	success := nearZero(s.artificial.constant)
	s.artificial = nil

	rowPtr, ok := s.rows[art]
	if ok {
		delete(s.rows, art)
		if !success {
			return false
		}
		if len(rowPtr.cells) == 0 {
			return true
		}
		entering := rowPtr.anyPivotableSymbol()
		if entering.isInvalid() {
			return false
		}
		rowPtr.solveForSymbols(art, entering)
		s.substitute(entering, rowPtr)
		s.rows[entering] = rowPtr
	}

	for _, rr := range s.rows {
		rr.removeSymbol(art)
	}
	s.objective.removeSymbol(art)
	return success
}

// substitute replaces every occurrence of sym across all rows, the
// objective, and (if in progress) the phase-one artificial row with the
// expression held by replacement.
func (s *Solver) substitute(sym symbol, replacement *row) {
	for _, r := range s.rows {
		r.substitute(sym, replacement)
	}
	s.objective.substitute(sym, replacement)
	if s.artificial != nil {
		s.artificial.substitute(sym, replacement)
	}
}

// optimize runs the primal simplex method until objRow has no entering
// variable with a negative coefficient, i.e. until it is optimal.
func (s *Solver) optimize(objRow *row) error {
	for {
		entering := s.getEnteringSymbol(objRow)
		if entering.isInvalid() {
			return nil
		}
		leavingSym, leavingRow := s.getLeavingRow(entering)
		if leavingRow == nil {
			return fmt.Errorf("solver: objective function is unbounded")
		}
		leavingRow.solveForSymbols(leavingSym, entering)
		s.substitute(entering, leavingRow)
		delete(s.rows, leavingSym)
		s.rows[entering] = leavingRow
	}
}

// getEnteringSymbol returns the first (in deterministic symbol order)
// non-dummy symbol with a negative coefficient in objRow, or the zero
// symbol if the row is already optimal.
func (s *Solver) getEnteringSymbol(objRow *row) symbol {
	for _, sym := range sortedSymbols(objRow.cells) {
		if sym.isDummy() {
			continue
		}
		if objRow.cells[sym] < 0 {
			return sym
		}
	}
	return symbol{}
}

// getLeavingRow applies the standard min-ratio test to find which basic
// row must leave the basis when entering becomes basic.
func (s *Solver) getLeavingRow(entering symbol) (symbol, *row) {
	const inf = math.MaxFloat64

	ratio := inf
	var found symbol
	var foundRow *row

	for _, basic := range sortedBasics(s.rows) {
		if basic.isExternal() {
			continue
		}
		r := s.rows[basic]
		coeff := r.coefficientFor(entering)
		if coeff >= 0 {
			continue
		}
		candidate := -r.constant / coeff
		if candidate < ratio {
			ratio = candidate
			found = basic
			foundRow = r
		}
	}
	return found, foundRow
}

func sortedBasics(rows map[symbol]*row) []symbol {
	out := make([]symbol, 0, len(rows))
	for sym := range rows {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].kind != out[j].kind {
			return out[i].kind < out[j].kind
		}
		return out[i].id < out[j].id
	})
	return out
}

// RemoveConstraint removes c from the solver. Removing an absent
// constraint is reported as ErrUnknownConstraint so callers can choose to
// ignore it.
func (s *Solver) RemoveConstraint(c *Constraint) error {
	t, ok := s.cns[c]
	if !ok {
		return ErrUnknownConstraint
	}
	delete(s.cns, c)
	for i, cc := range s.cnOrder {
		if cc == c {
			s.cnOrder = append(s.cnOrder[:i], s.cnOrder[i+1:]...)
			break
		}
	}

	s.removeConstraintEffects(c, t)

	if _, ok := s.rows[t.marker]; ok {
		delete(s.rows, t.marker)
	} else {
		leaving := s.getMarkerLeavingSymbol(t.marker)
		if leaving.isInvalid() {
			return fmt.Errorf("solver: failed to remove constraint: no leaving row for marker")
		}
		r := s.rows[leaving]
		delete(s.rows, leaving)
		r.solveForSymbols(leaving, t.marker)
		s.substitute(t.marker, r)
	}

	return s.optimize(s.objective)
}

func (s *Solver) removeConstraintEffects(c *Constraint, t tag) {
	if t.marker.isError() {
		s.removeMarkerEffects(t.marker, c.Strength)
	}
	if t.other.isError() {
		s.removeMarkerEffects(t.other, c.Strength)
	}
}

func (s *Solver) removeMarkerEffects(marker symbol, strength Strength) {
	if r, ok := s.rows[marker]; ok {
		s.objective.insertRow(r, -float64(strength))
	} else {
		s.objective.insertSymbolWithCoefficient(marker, -float64(strength))
	}
}

// getMarkerLeavingSymbol finds which basic row to pivot out when a
// constraint's marker symbol is itself non-basic (has no row of its own),
// following Kiwi's three-bucket rule: prefer a restricted row with
// negative marker coefficient, then one with positive coefficient, then
// fall back to any row referencing an unrestricted (external) symbol.
func (s *Solver) getMarkerLeavingSymbol(marker symbol) symbol {
	const inf = math.MaxFloat64
	r1, r2 := inf, inf
	var first, second, third symbol

	for _, basic := range sortedBasics(s.rows) {
		r := s.rows[basic]
		c := r.coefficientFor(marker)
		if c == 0 {
			continue
		}
		if basic.isExternal() {
			third = basic
			continue
		}
		if c < 0 {
			ratio := -r.constant / c
			if ratio < r1 {
				r1 = ratio
				first = basic
			}
		} else {
			ratio := r.constant / c
			if ratio < r2 {
				r2 = ratio
				second = basic
			}
		}
	}
	if !first.isInvalid() {
		return first
	}
	if !second.isInvalid() {
		return second
	}
	return third
}

// AddEditVariable binds v as an edit variable at the given strength,
// suggestible via SuggestValue. Returns ErrDuplicateEditVariable if v is
// already bound, and ErrBadRequiredStrength if strength is Required: a
// required edit constraint has no error symbols for SuggestValue to
// perturb, so suggestions would silently misbehave.
func (s *Solver) AddEditVariable(v Variable, strength Strength) error {
	if s.HasEditVariable(v) {
		return ErrDuplicateEditVariable
	}
	strength = Clip(strength)
	if strength.IsRequired() {
		return ErrBadRequiredStrength
	}
	c := NewConstraint(VarExpr(v), Equal, strength)
	if err := s.AddConstraint(c); err != nil {
		return err
	}
	t := s.cns[c]
	s.edits[v] = &editInfo{tag: t, constraint: c, constant: 0}
	return nil
}

// RemoveEditVariable unbinds v. Returns ErrUnknownEditVariable if v has no
// edit variable bound.
func (s *Solver) RemoveEditVariable(v Variable) error {
	info, ok := s.edits[v]
	if !ok {
		return ErrUnknownEditVariable
	}
	delete(s.edits, v)
	return s.RemoveConstraint(info.constraint)
}

// SuggestValue suggests a new value for the edit variable bound to v. It
// is an error to call this before AddEditVariable. Non-finite values are
// the caller's responsibility to filter; SuggestValue itself rejects them
// rather than corrupting the tableau.
func (s *Solver) SuggestValue(v Variable, value float64) error {
	info, ok := s.edits[v]
	if !ok {
		return ErrUnknownEditVariable
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("solver: suggested value for %s is not finite", v)
	}

	delta := value - info.constant
	info.constant = value

	// Mirrors Kiwi's suggestValue: try the marker row, then the other
	// (error) row, and only fall back to scanning every row (by the
	// marker's coefficient) if neither is currently basic.
	if r, ok := s.rows[info.tag.marker]; ok {
		r.add(-delta)
		return s.dualOptimize()
	}
	if !info.tag.other.isInvalid() {
		if r, ok := s.rows[info.tag.other]; ok {
			r.add(delta)
			return s.dualOptimize()
		}
	}
	for _, r := range s.rows {
		coeff := r.coefficientFor(info.tag.marker)
		if coeff != 0 {
			r.add(delta * coeff)
		}
	}
	return s.dualOptimize()
}

// dualOptimize restores feasibility after SuggestValue perturbs the
// tableau's constants, using the dual simplex method (pivot on any
// infeasible basic row rather than re-deriving the whole tableau).
func (s *Solver) dualOptimize() error {
	for {
		leaving, leavingRow := s.firstInfeasibleRow()
		if leavingRow == nil {
			return nil
		}
		entering := s.dualEnteringSymbol(leavingRow)
		if entering.isInvalid() {
			return fmt.Errorf("solver: dual optimize found no entering symbol for infeasible row")
		}
		leavingRow.solveForSymbols(leaving, entering)
		s.substitute(entering, leavingRow)
		delete(s.rows, leaving)
		s.rows[entering] = leavingRow
	}
}

func (s *Solver) firstInfeasibleRow() (symbol, *row) {
	for _, basic := range sortedBasics(s.rows) {
		if basic.isExternal() {
			continue
		}
		r := s.rows[basic]
		if r.constant < -epsilon {
			return basic, r
		}
	}
	return symbol{}, nil
}

func (s *Solver) dualEnteringSymbol(leavingRow *row) symbol {
	const inf = math.MaxFloat64
	ratio := inf
	var entering symbol
	for _, sym := range sortedSymbols(leavingRow.cells) {
		c := leavingRow.cells[sym]
		if sym.isDummy() || c <= 0 {
			continue
		}
		objCoeff := s.objective.coefficientFor(sym)
		r := objCoeff / c
		if r < ratio {
			ratio = r
			entering = sym
		}
	}
	return entering
}

// Values returns every tracked Variable's current value, for diagnostics.
// Unlike FetchChanges, it reports every variable regardless of whether it
// changed since the last call.
func (s *Solver) Values() map[Variable]float64 {
	out := make(map[Variable]float64, len(s.vars))
	for v := range s.vars {
		out[v] = s.valueFor(v)
	}
	return out
}

// valueFor returns v's current value: if v's external symbol is basic, the
// row's constant; otherwise 0 (v is a free/non-basic parameter).
func (s *Solver) valueFor(v Variable) float64 {
	sym, ok := s.vars[v]
	if !ok {
		return 0
	}
	if r, ok := s.rows[sym]; ok {
		return r.constant
	}
	return 0
}

// FetchChanges returns every Variable whose value changed since the last
// call, in ascending order of variable identity for reproducibility.
// Calling it twice with no intervening mutation returns an empty slice.
func (s *Solver) FetchChanges() []Change {
	type kv struct {
		v Variable
		s symbol
	}
	entries := make([]kv, 0, len(s.vars))
	for v, sym := range s.vars {
		entries = append(entries, kv{v, sym})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].v.id < entries[j].v.id })

	var changes []Change
	for _, e := range entries {
		newVal := s.valueFor(e.v)
		old, known := s.lastValues[e.v]
		if !known || !nearEqual(old, newVal) {
			changes = append(changes, Change{Var: e.v, Value: newVal})
			s.lastValues[e.v] = newVal
		}
	}
	return changes
}

func nearEqual(a, b float64) bool {
	return nearZero(a - b)
}

// ForgetVariable drops all bookkeeping for v (used when the owning node is
// removed from the engine so a stale value never leaks into a later
// FetchChanges call for an unrelated, reused Variable id — Variables are
// never recycled, but lastValues would otherwise grow unboundedly).
func (s *Solver) ForgetVariable(v Variable) {
	sym, ok := s.vars[v]
	if !ok {
		return
	}
	delete(s.vars, v)
	delete(s.varOf, sym)
	delete(s.lastValues, v)
}
