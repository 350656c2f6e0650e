// Package manager implements LayoutManager: the global indices tying
// solver variables to node ids, the deferred-constraint queues keyed by
// missing variable, hidden-layout saved-constraint storage, and the
// diagnostic formatters engine.LimnSolver uses when the solver rejects a
// constraint.
package manager
