package engine

import "github.com/dshills/limngo/pkg/stage"

// NodeBox is one node's current resolved geometry, for diagnostic export.
type NodeBox struct {
	ID     stage.ID
	Name   string
	X, Y   float64
	W, H   float64
	Hidden bool
}

// Snapshot returns every registered node's current box, in ascending id
// order, for consumption by pkg/debugsvg or any other read-only diagnostic
// tool.
func (e *LimnSolver) Snapshot() []NodeBox {
	values := e.solver.Values()
	ids := e.manager.AllNodeIDs()
	out := make([]NodeBox, 0, len(ids))
	for _, id := range ids {
		lv, ok := e.manager.NodeVars(id)
		if !ok {
			continue
		}
		name, _ := e.manager.NodeName(id)
		out = append(out, NodeBox{
			ID:     id,
			Name:   name,
			X:      values[lv.Left()],
			Y:      values[lv.Top()],
			W:      values[lv.Width()],
			H:      values[lv.Height()],
			Hidden: e.manager.LayoutHidden(id),
		})
	}
	return out
}
