package constraintdsl

// Point is a fixed screen coordinate, used by TopLeft to anchor a node
// absolutely rather than relative to another node's variables.
type Point struct {
	X, Y float64
}

// Size is a fixed width/height pair, used by Dimensions.
type Size struct {
	W, H float64
}
