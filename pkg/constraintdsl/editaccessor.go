package constraintdsl

import (
	"github.com/dshills/limngo/pkg/solver"
	"github.com/dshills/limngo/pkg/vars"
)

// EditAccessor is the scoped builder returned by a Layout's
// edit_{left,top,right,bottom,width,height}() methods. It is configured
// inside a callback and released deterministically (the callback's caller
// pushes the resulting record regardless of whether Set was called), the
// Go analogue of a destructor-based release.
type EditAccessor struct {
	kind     vars.Kind
	value    float64
	hasValue bool
	strength solver.Strength
}

// NewEditAccessor returns an accessor for kind, defaulting to Strong
// strength and no suggested value.
func NewEditAccessor(kind vars.Kind) *EditAccessor {
	return &EditAccessor{kind: kind, strength: solver.Strong}
}

// Set records the value to suggest once the edit variable is bound.
func (e *EditAccessor) Set(value float64) *EditAccessor {
	e.value = value
	e.hasValue = true
	return e
}

// Strength overrides the default (Strong) strength for the edit variable.
func (e *EditAccessor) Strength(s solver.Strength) *EditAccessor {
	e.strength = solver.Clip(s)
	return e
}

// Kind reports which of the node's six core variables this accessor edits.
func (e *EditAccessor) Kind() vars.Kind {
	return e.kind
}

// Value returns the suggested value and whether Set was ever called.
func (e *EditAccessor) Value() (float64, bool) {
	return e.value, e.hasValue
}

// CurrentStrength returns the strength the edit variable will be bound at.
func (e *EditAccessor) CurrentStrength() solver.Strength {
	return e.strength
}
