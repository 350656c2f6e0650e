// Package vars defines LayoutVars, the six geometric solver.Variables that
// every layout node owns (left, top, right, bottom, width, height), plus
// optional user-named associated variables, and the classifier used to map
// a changed solver.Variable back to the Kind a caller cares about.
package vars
