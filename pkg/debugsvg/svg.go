package debugsvg

import (
	"bytes"
	"os"
	"sort"

	svg "github.com/ajstarks/svgo"
)

// Rect is one node's box to draw: position and size in solver units, plus
// the diagnostic label and hidden flag. Callers (typically
// engine.LimnSolver.Snapshot) translate their own node representation into
// a slice of these.
type Rect struct {
	ID     string
	Name   string
	X, Y   float64
	W, H   float64
	Hidden bool
}

// Options configures SVG diagnostic export.
type Options struct {
	Width      int    // Canvas width in pixels
	Height     int    // Canvas height in pixels
	Margin     int    // Canvas margin in pixels (default: 40)
	ShowLabels bool   // Show node name labels
	ShowLegend bool   // Show legend explaining colors
	Title      string // Optional title for the visualization
}

// DefaultOptions returns sensible default SVG export options.
func DefaultOptions() Options {
	return Options{
		Width:      1000,
		Height:     800,
		Margin:     40,
		ShowLabels: true,
		ShowLegend: true,
		Title:      "Layout",
	}
}

// ExportSVG draws every rect, visible ones as solid blue boxes and hidden
// ones as dashed gray outlines, scaled to fit the canvas.
func ExportSVG(rects []Rect, opts Options) ([]byte, error) {
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}
	if opts.Margin <= 0 {
		opts.Margin = 40
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	scale, offsetX, offsetY := fitScale(rects, opts)

	sorted := make([]Rect, len(rects))
	copy(sorted, rects)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, r := range sorted {
		drawRect(canvas, r, scale, offsetX, offsetY, opts)
	}

	if opts.ShowLegend {
		drawLegend(canvas, opts)
	}
	if opts.Title != "" {
		canvas.Text(opts.Width/2, 20, opts.Title,
			"text-anchor:middle;font-size:18px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveSVGToFile generates the diagnostic SVG and writes it to path.
func SaveSVGToFile(rects []Rect, path string, opts Options) error {
	data, err := ExportSVG(rects, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// fitScale finds a uniform scale + offset mapping every rect's bounding
// box into the canvas, leaving opts.Margin free on each side.
func fitScale(rects []Rect, opts Options) (scale, offsetX, offsetY float64) {
	if len(rects) == 0 {
		return 1, float64(opts.Margin), float64(opts.Margin)
	}
	minX, minY := rects[0].X, rects[0].Y
	maxX, maxY := rects[0].X+rects[0].W, rects[0].Y+rects[0].H
	for _, r := range rects[1:] {
		minX = min(minX, r.X)
		minY = min(minY, r.Y)
		maxX = max(maxX, r.X+r.W)
		maxY = max(maxY, r.Y+r.H)
	}
	spanX := maxX - minX
	spanY := maxY - minY
	drawW := float64(opts.Width - 2*opts.Margin - 100)
	drawH := float64(opts.Height - 2*opts.Margin - 60)

	scale = 1
	if spanX > 0 {
		scale = drawW / spanX
	}
	if spanY > 0 {
		if s := drawH / spanY; s < scale {
			scale = s
		}
	}
	if scale <= 0 {
		scale = 1
	}
	offsetX = float64(opts.Margin) - minX*scale
	offsetY = float64(opts.Margin+40) - minY*scale
	return scale, offsetX, offsetY
}

func drawRect(canvas *svg.SVG, r Rect, scale, offsetX, offsetY float64, opts Options) {
	x := int(r.X*scale + offsetX)
	y := int(r.Y*scale + offsetY)
	w := int(r.W * scale)
	h := int(r.H * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	style := "fill:#4299e1;fill-opacity:0.35;stroke:#4299e1;stroke-width:2"
	if r.Hidden {
		style = "fill:none;stroke:#718096;stroke-width:1;stroke-dasharray:4,4"
	}
	canvas.Rect(x, y, w, h, style)

	if opts.ShowLabels && r.Name != "" {
		canvas.Text(x+4, y+14, r.Name,
			"font-size:11px;font-family:monospace;fill:#e2e8f0")
	}
}

func drawLegend(canvas *svg.SVG, opts Options) {
	legendX := opts.Width - opts.Margin - 140
	legendY := opts.Margin + 10

	canvas.Rect(legendX-10, legendY-15, 150, 70,
		"fill:#2d3748;stroke:#4a5568;stroke-width:1;opacity:0.95;rx:5")
	canvas.Text(legendX, legendY, "Legend",
		"font-size:12px;font-weight:bold;fill:#e2e8f0")

	legendY += 20
	canvas.Rect(legendX, legendY-8, 20, 12, "fill:#4299e1;fill-opacity:0.35;stroke:#4299e1;stroke-width:2")
	canvas.Text(legendX+28, legendY, "visible", "font-size:11px;fill:#cbd5e0")

	legendY += 18
	canvas.Rect(legendX, legendY-8, 20, 12, "fill:none;stroke:#718096;stroke-width:1;stroke-dasharray:4,4")
	canvas.Text(legendX+28, legendY, "hidden", "font-size:11px;fill:#cbd5e0")
}
