package engine

import (
	"testing"

	"github.com/dshills/limngo/pkg/constraintdsl"
	"github.com/dshills/limngo/pkg/stage"
)

func TestSnapshotReportsBoxesAndHiddenFlag(t *testing.T) {
	e := New(nil)
	root := stage.New(stage.ID(1), "root")
	root.Add(constraintdsl.TopLeft(root.Vars, constraintdsl.Point{X: 1, Y: 2}))
	root.Add(constraintdsl.Dimensions(root.Vars, constraintdsl.Size{W: 30, H: 40}))
	e.UpdateLayout(root)

	snap := e.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("Snapshot() = %d boxes, want 1", len(snap))
	}
	box := snap[0]
	if box.Name != "root" || box.Hidden {
		t.Fatalf("unexpected box: %+v", box)
	}
	if !near(box.X, 1) || !near(box.Y, 2) || !near(box.W, 30) || !near(box.H, 40) {
		t.Fatalf("box geometry mismatch: %+v", box)
	}

	e.HideWidget(root.ID)
	snap = e.Snapshot()
	if !snap[0].Hidden {
		t.Errorf("Snapshot() did not report Hidden after HideWidget")
	}
}
