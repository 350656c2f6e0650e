// Package engineconfig loads the tunable parameters for a LimnSolver from
// YAML: the near-equality epsilon used by the solver's dual optimization,
// the default strength bound to an edit variable when a caller never
// stages one, and a debug-logging flag that the engine does not read.
package engineconfig
