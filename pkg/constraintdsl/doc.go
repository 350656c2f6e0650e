// Package constraintdsl is the constraint builder algebra: a set of
// relational combinators (align, adjacency, match, bound_by, ...) that
// compile a pair of vars.LayoutVars into weighted linear solver.Constraints,
// plus the scoped edit-variable accessor used by edit_{left,top,...}().
package constraintdsl
