// Package debugsvg renders a snapshot of an engine.LimnSolver's current
// geometry as an SVG diagram: one rectangle per node, labeled with its
// name, colored by whether it is hidden, for visual inspection while
// debugging a layout.
package debugsvg
