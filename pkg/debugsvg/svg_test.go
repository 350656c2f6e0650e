package debugsvg

import (
	"bytes"
	"testing"
)

func TestExportSVGProducesWellFormedDocument(t *testing.T) {
	rects := []Rect{
		{ID: "root", Name: "root", X: 0, Y: 0, W: 200, H: 100},
		{ID: "child", Name: "child", X: 10, Y: 10, W: 50, H: 30, Hidden: true},
	}
	data, err := ExportSVG(rects, DefaultOptions())
	if err != nil {
		t.Fatalf("ExportSVG() failed: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("output missing <svg> element")
	}
	if !bytes.Contains(data, []byte("</svg>")) {
		t.Errorf("output missing closing </svg>")
	}
	if !bytes.Contains(data, []byte("root")) || !bytes.Contains(data, []byte("child")) {
		t.Errorf("output missing node labels")
	}
}

func TestExportSVGHandlesNoRects(t *testing.T) {
	data, err := ExportSVG(nil, DefaultOptions())
	if err != nil {
		t.Fatalf("ExportSVG(nil) failed: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("output missing <svg> element for empty input")
	}
}

func TestExportSVGAppliesDefaultsForZeroOptions(t *testing.T) {
	rects := []Rect{{ID: "a", Name: "a", X: 0, Y: 0, W: 10, H: 10}}
	data, err := ExportSVG(rects, Options{})
	if err != nil {
		t.Fatalf("ExportSVG() with zero Options failed: %v", err)
	}
	if len(data) == 0 {
		t.Errorf("expected non-empty SVG output")
	}
}
