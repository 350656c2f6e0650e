package manager

import (
	"sort"

	"github.com/dshills/limngo/pkg/solver"
	"github.com/dshills/limngo/pkg/stage"
	"github.com/dshills/limngo/pkg/vars"
)

type nodeRecord struct {
	vars        *vars.LayoutVars
	name        string
	constraints map[*solver.Constraint]struct{}
	children    []stage.ID
}

// HiddenEntry is what a hidden node's collapser and saved constraint sets
// are stored as while the node is hidden.
type HiddenEntry struct {
	Collapsers []*solver.Constraint
	Saved      []*solver.Constraint
}

// Manager owns the layout engine's global indices: the
// variable→node map, the node table, the deferred-constraint queues, the
// hidden-layout store, and the edit-variable strength memory.
type Manager struct {
	varIDs map[solver.Variable]stage.ID
	nodes  map[stage.ID]*nodeRecord

	pendingConstraints map[solver.Variable][]*solver.Constraint
	missingVars        map[*solver.Constraint]int

	hiddenLayouts map[stage.ID]*HiddenEntry
	editStrengths map[solver.Variable]solver.Strength

	retiredVars map[solver.Variable]struct{}
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{
		varIDs:             make(map[solver.Variable]stage.ID),
		nodes:              make(map[stage.ID]*nodeRecord),
		pendingConstraints: make(map[solver.Variable][]*solver.Constraint),
		missingVars:        make(map[*solver.Constraint]int),
		hiddenLayouts:      make(map[stage.ID]*HiddenEntry),
		editStrengths:      make(map[solver.Variable]solver.Strength),
		retiredVars:        make(map[solver.Variable]struct{}),
	}
}

// IsRegistered reports whether id has a node record.
func (m *Manager) IsRegistered(id stage.ID) bool {
	_, ok := m.nodes[id]
	return ok
}

// RegisterWidget records the variable→id mapping for l's six core
// variables and creates its internal node record. Associated variables
// are registered separately by UpdateLayout, since they may be declared
// after the node already exists.
func (m *Manager) RegisterWidget(l *stage.Layout) {
	rec := &nodeRecord{
		vars:        l.Vars,
		name:        l.Name,
		constraints: make(map[*solver.Constraint]struct{}),
	}
	m.nodes[l.ID] = rec
	for _, v := range [6]solver.Variable{
		l.Vars.Left(), l.Vars.Top(), l.Vars.Right(),
		l.Vars.Bottom(), l.Vars.Width(), l.Vars.Height(),
	} {
		m.varIDs[v] = l.ID
	}
}

// UpdateLayout ingests newly declared associated variables and refreshes
// the node's diagnostic name.
func (m *Manager) UpdateLayout(l *stage.Layout) {
	rec, ok := m.nodes[l.ID]
	if !ok {
		return
	}
	rec.name = l.Name
	for _, v := range l.DrainAssociatedVars() {
		m.varIDs[v] = l.ID
	}
}

// QueueConstraint places c in pending_constraints[v] and increments
// missing_vars[c]. A constraint with k missing variables is queued under
// k independent keys.
func (m *Manager) QueueConstraint(v solver.Variable, c *solver.Constraint) {
	m.pendingConstraints[v] = append(m.pendingConstraints[v], c)
	m.missingVars[c]++
}

// DequeueConstraints drains pending_constraints for every variable l owns
// (core six in fixed order, then associated variables in insertion order,
// which fixes promotion order), decrementing missing_vars for
// each drained constraint and returning those whose count reached zero.
func (m *Manager) DequeueConstraints(l *stage.Layout) []*solver.Constraint {
	var promoted []*solver.Constraint
	for _, v := range l.Vars.AllVars() {
		pending, ok := m.pendingConstraints[v]
		if !ok {
			continue
		}
		delete(m.pendingConstraints, v)
		for _, c := range pending {
			n, tracked := m.missingVars[c]
			if !tracked {
				// Cancelled: another participant was removed while c
				// was still deferred.
				continue
			}
			n--
			if n <= 0 {
				delete(m.missingVars, c)
				promoted = append(promoted, c)
			} else {
				m.missingVars[c] = n
			}
		}
	}
	return promoted
}

// LayoutHidden tests membership in hidden_layouts.
func (m *Manager) LayoutHidden(id stage.ID) bool {
	_, ok := m.hiddenLayouts[id]
	return ok
}

// SetHidden stores id's collapser/saved constraint sets while it is
// hidden.
func (m *Manager) SetHidden(id stage.ID, entry *HiddenEntry) {
	m.hiddenLayouts[id] = entry
}

// ClearHidden removes and returns id's hidden entry, or nil if absent.
func (m *Manager) ClearHidden(id stage.ID) *HiddenEntry {
	entry, ok := m.hiddenLayouts[id]
	if !ok {
		return nil
	}
	delete(m.hiddenLayouts, id)
	return entry
}

// RecordConstraint attributes c to id's internal constraint set.
func (m *Manager) RecordConstraint(id stage.ID, c *solver.Constraint) {
	if rec, ok := m.nodes[id]; ok {
		rec.constraints[c] = struct{}{}
	}
}

// ForgetConstraint removes c from id's internal constraint set.
func (m *Manager) ForgetConstraint(id stage.ID, c *solver.Constraint) {
	if rec, ok := m.nodes[id]; ok {
		delete(rec.constraints, c)
	}
}

// NodeConstraints returns every constraint currently attributed to id.
func (m *Manager) NodeConstraints(id stage.ID) []*solver.Constraint {
	rec, ok := m.nodes[id]
	if !ok {
		return nil
	}
	out := make([]*solver.Constraint, 0, len(rec.constraints))
	for c := range rec.constraints {
		out = append(out, c)
	}
	return out
}

// AddChild appends child to parent's children list, used by hide/unhide
// recursion.
func (m *Manager) AddChild(parent, child stage.ID) {
	if rec, ok := m.nodes[parent]; ok {
		rec.children = append(rec.children, child)
	}
}

// Children returns parent's recorded children, in the order AddChild was
// called.
func (m *Manager) Children(parent stage.ID) []stage.ID {
	rec, ok := m.nodes[parent]
	if !ok {
		return nil
	}
	return rec.children
}

// VariableRetired reports whether v belonged to a node that has since been
// removed. A new constraint referencing a retired variable would queue
// forever (the variable can never register again), so the engine rejects
// such additions instead of deferring them.
func (m *Manager) VariableRetired(v solver.Variable) bool {
	_, ok := m.retiredVars[v]
	return ok
}

// NodeIDFor returns the node id that owns v, if any.
func (m *Manager) NodeIDFor(v solver.Variable) (stage.ID, bool) {
	id, ok := m.varIDs[v]
	return id, ok
}

// AllNodeIDs returns every registered node id, sorted, for deterministic
// iteration by diagnostic tooling.
func (m *Manager) AllNodeIDs() []stage.ID {
	out := make([]stage.ID, 0, len(m.nodes))
	for id := range m.nodes {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NodeName returns id's diagnostic name.
func (m *Manager) NodeName(id stage.ID) (string, bool) {
	rec, ok := m.nodes[id]
	if !ok {
		return "", false
	}
	return rec.name, true
}

// NodeVars returns id's LayoutVars.
func (m *Manager) NodeVars(id stage.ID) (*vars.LayoutVars, bool) {
	rec, ok := m.nodes[id]
	if !ok {
		return nil, false
	}
	return rec.vars, true
}

// RememberEditStrength records the strength to lazily bind var's edit
// variable at when edit_variable(var, val) is eventually called without a
// prior staged edit record.
func (m *Manager) RememberEditStrength(v solver.Variable, s solver.Strength) {
	m.editStrengths[v] = s
}

// EditStrength returns the remembered strength for v, if any.
func (m *Manager) EditStrength(v solver.Variable) (solver.Strength, bool) {
	s, ok := m.editStrengths[v]
	return s, ok
}

// RemoveNode erases id's node record along with its core and associated
// variables from var_ids, and returns its LayoutVars and the constraints
// it had attributed to itself (so the caller can drop them from the
// solver and forget the variables). Returns (nil, nil) if id was never
// registered.
func (m *Manager) RemoveNode(id stage.ID) (*vars.LayoutVars, []*solver.Constraint) {
	rec, ok := m.nodes[id]
	if !ok {
		return nil, nil
	}
	for _, v := range rec.vars.AllVars() {
		delete(m.varIDs, v)
		delete(m.editStrengths, v)
		m.retiredVars[v] = struct{}{}
		// A constraint still deferred on one of this node's variables can
		// never be discharged now; cancel it outright.
		for _, c := range m.pendingConstraints[v] {
			delete(m.missingVars, c)
		}
		delete(m.pendingConstraints, v)
	}
	delete(m.nodes, id)
	delete(m.hiddenLayouts, id)

	out := make([]*solver.Constraint, 0, len(rec.constraints))
	for c := range rec.constraints {
		out = append(out, c)
	}
	return rec.vars, out
}
