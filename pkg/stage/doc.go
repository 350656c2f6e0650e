// Package stage implements Layout, the per-node staging buffer that DSL
// callers build up (constraints, removals, edit-variable suggestions,
// associated variables, visibility) and the engine drains atomically.
// A Layout never touches the solver directly; engine.LimnSolver is the
// only component that reads a Layout's staged lists and clears them.
package stage
