package engine

import (
	"github.com/dshills/limngo/pkg/stage"
	"github.com/dshills/limngo/pkg/vars"
)

// Change is one (node id, variable kind, new value) tuple reported by
// FetchChanges, the only observable the layout engine offers a renderer.
type Change struct {
	ID    stage.ID
	Kind  vars.Kind
	Value float64
}
