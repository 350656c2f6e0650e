// Package solver implements an incremental Cassowary-style simplex solver
// for linear equality and inequality constraints over weighted strengths.
// It has no knowledge of layout, widgets, or geometry: it solves systems of
// Variables, Expressions, and Constraints, and reports which Variables
// changed value after a batch of edits.
package solver
