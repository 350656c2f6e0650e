package stage

import "fmt"

// ID is a stable monotonic identifier for a layout node.
type ID uint64

func (id ID) String() string {
	return fmt.Sprintf("#%d", uint64(id))
}

// IDGenerator hands out monotonically increasing IDs. The zero value is
// ready to use and starts at 1, so ID(0) can serve as a "no id" sentinel.
type IDGenerator struct {
	next uint64
}

// Next returns a fresh ID.
func (g *IDGenerator) Next() ID {
	g.next++
	return ID(g.next)
}
