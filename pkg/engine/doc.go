// Package engine implements LimnSolver, the orchestrator that is the only
// component allowed to touch the underlying solver.Solver directly. It
// drains stage.Layout staging buffers transactionally, resolves deferred
// constraints through pkg/manager, manages widget visibility, and reports
// geometry changes back to callers.
package engine
