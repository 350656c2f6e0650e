// Command limndemo runs one of limngo's canonical layout scenarios and
// reports the resolved geometry, optionally writing a diagnostic SVG.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dshills/limngo/pkg/constraintdsl"
	"github.com/dshills/limngo/pkg/debugsvg"
	"github.com/dshills/limngo/pkg/engine"
	"github.com/dshills/limngo/pkg/engineconfig"
	"github.com/dshills/limngo/pkg/solver"
	"github.com/dshills/limngo/pkg/stage"
)

const version = "0.1.0"

var (
	configPath = flag.String("config", "", "Path to YAML tuning configuration (optional)")
	scenario   = flag.String("scenario", "grid", "Scenario to run: single, grid, hide, edit")
	svgOut     = flag.String("svg", "", "Path to write a diagnostic SVG (optional)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	versionF   = flag.Bool("version", false, "Print version and exit")
	help       = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("limndemo version %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelp()
		os.Exit(0)
	}

	validScenarios := map[string]bool{"single": true, "grid": true, "hide": true, "edit": true}
	if !validScenarios[*scenario] {
		fmt.Fprintf(os.Stderr, "Error: invalid scenario %q, must be one of: single, grid, hide, edit\n", *scenario)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := engineconfig.Default()
	if *configPath != "" {
		if *verbose {
			fmt.Printf("Loading configuration from %s\n", *configPath)
		}
		loaded, err := engineconfig.Load(*configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	e := engine.NewWithConfig(nil, cfg)

	if *verbose {
		fmt.Printf("Running scenario: %s\n", *scenario)
	}
	switch *scenario {
	case "single":
		runSingle(e)
	case "grid":
		runGrid(e)
	case "hide":
		runHide(e)
	case "edit":
		runEdit(e)
	}

	printSnapshot(e)

	if *svgOut != "" {
		if err := exportSVG(e, *svgOut); err != nil {
			return err
		}
	}
	return nil
}

func runSingle(e *engine.LimnSolver) {
	root := stage.New(stage.ID(1), "root")
	root.Add(constraintdsl.TopLeft(root.Vars, constraintdsl.Point{X: 0, Y: 0}))
	root.Add(constraintdsl.Dimensions(root.Vars, constraintdsl.Size{W: 320, H: 240}))
	e.UpdateLayout(root)
}

func runGrid(e *engine.LimnSolver) (tl, tr, bl, br *stage.Layout) {
	root := stage.New(stage.ID(1), "root")
	root.Add(constraintdsl.TopLeft(root.Vars, constraintdsl.Point{X: 0, Y: 0}))
	root.Add(constraintdsl.Dimensions(root.Vars, constraintdsl.Size{W: 400, H: 300}))
	e.UpdateLayout(root)

	a := stage.New(stage.ID(2), "top_left")
	b := stage.New(stage.ID(3), "top_right")
	c := stage.New(stage.ID(4), "bottom_left")
	d := stage.New(stage.ID(5), "bottom_right")

	a.Add(constraintdsl.AlignLeft(a.Vars, root.Vars))
	a.Add(constraintdsl.AlignTop(a.Vars, root.Vars))
	a.Add(constraintdsl.MatchWidth(a.Vars, b.Vars))
	a.Add(constraintdsl.MatchHeight(a.Vars, c.Vars))
	a.AddConstraint(solver.NewConstraint(solver.VarExpr(a.Vars.Width()).PlusConst(-200), solver.Equal, solver.Required))
	a.AddConstraint(solver.NewConstraint(solver.VarExpr(a.Vars.Height()).PlusConst(-150), solver.Equal, solver.Required))

	b.Add(constraintdsl.ToRightOf(b.Vars, a.Vars))
	b.Add(constraintdsl.AlignTop(b.Vars, root.Vars))
	b.Add(constraintdsl.AlignRight(b.Vars, root.Vars))

	c.Add(constraintdsl.AlignLeft(c.Vars, root.Vars))
	c.Add(constraintdsl.Below(c.Vars, a.Vars))
	c.Add(constraintdsl.AlignBottom(c.Vars, root.Vars))

	d.Add(constraintdsl.ToRightOf(d.Vars, c.Vars))
	d.Add(constraintdsl.Below(d.Vars, b.Vars))
	d.Add(constraintdsl.AlignRight(d.Vars, root.Vars))
	d.Add(constraintdsl.AlignBottom(d.Vars, root.Vars))
	d.Add(constraintdsl.MatchWidth(d.Vars, b.Vars))
	d.Add(constraintdsl.MatchHeight(d.Vars, c.Vars))

	e.AddChild(root.ID, a.ID)
	e.AddChild(root.ID, b.ID)
	e.AddChild(root.ID, c.ID)
	e.AddChild(root.ID, d.ID)

	e.UpdateLayout(a)
	e.UpdateLayout(b)
	e.UpdateLayout(c)
	e.UpdateLayout(d)
	return a, b, c, d
}

func runHide(e *engine.LimnSolver) {
	_, tr, _, _ := runGrid(e)
	// Hide the top-right cell, leaving the rest of the grid in place.
	tr.SetHidden(true)
	e.UpdateLayout(tr)
}

func runEdit(e *engine.LimnSolver) {
	root := stage.New(stage.ID(1), "root")
	root.EditLeft(func(a *constraintdsl.EditAccessor) { a.Set(0).Strength(solver.Strong) })
	root.EditTop(func(a *constraintdsl.EditAccessor) { a.Set(0).Strength(solver.Strong) })
	root.Add(constraintdsl.Dimensions(root.Vars, constraintdsl.Size{W: 100, H: 100}))
	e.UpdateLayout(root)
	e.EditVariable(root.Vars.Left(), 50)
}

func printSnapshot(e *engine.LimnSolver) {
	fmt.Println("Resolved layout:")
	for _, box := range e.Snapshot() {
		state := ""
		if box.Hidden {
			state = " (hidden)"
		}
		fmt.Printf("  %-12s x=%.1f y=%.1f w=%.1f h=%.1f%s\n", box.Name, box.X, box.Y, box.W, box.H, state)
	}
}

func exportSVG(e *engine.LimnSolver, path string) error {
	rects := make([]debugsvg.Rect, 0)
	for _, box := range e.Snapshot() {
		rects = append(rects, debugsvg.Rect{
			ID: box.Name, Name: box.Name,
			X: box.X, Y: box.Y, W: box.W, H: box.H,
			Hidden: box.Hidden,
		})
	}
	opts := debugsvg.DefaultOptions()
	opts.Title = fmt.Sprintf("limndemo: %s", *scenario)

	if *verbose {
		fmt.Printf("Exporting SVG to %s\n", path)
	}
	if err := debugsvg.SaveSVGToFile(rects, path, opts); err != nil {
		return fmt.Errorf("failed to export SVG: %w", err)
	}
	return nil
}

func printHelp() {
	fmt.Printf("limndemo version %s\n\n", version)
	fmt.Println("Runs one of limngo's canonical constraint-layout scenarios.")
	fmt.Println("\nUsage:")
	fmt.Println("  limndemo [options]")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -scenario string")
	fmt.Println("        Scenario to run: single, grid, hide, edit (default: grid)")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML tuning configuration")
	fmt.Println("  -svg string")
	fmt.Println("        Path to write a diagnostic SVG")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  limndemo -scenario grid -svg grid.svg")
	fmt.Println("  limndemo -scenario hide -verbose")
}
