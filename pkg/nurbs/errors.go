package nurbs

import "errors"

var (
	// ErrDimension indicates a parametric dimension outside 1..3 or a
	// mismatched number of per-axis arguments.
	ErrDimension = errors.New("nurbs: invalid parametric dimension")

	// ErrDegree indicates a polynomial degree below 1.
	ErrDegree = errors.New("nurbs: invalid degree")

	// ErrKnotOrder indicates a decreasing knot vector.
	ErrKnotOrder = errors.New("nurbs: knot vector is not non-decreasing")

	// ErrGridSize indicates a knot vector too short for its degree: the
	// implied control grid needs at least two points per axis.
	ErrGridSize = errors.New("nurbs: control grid too small")

	// ErrControlShape indicates a control or field array whose shape does
	// not match the patch grid.
	ErrControlShape = errors.New("nurbs: array shape does not match grid")

	// ErrNoControl indicates an operation that needs control points on a
	// topology-only patch.
	ErrNoControl = errors.New("nurbs: patch has no control points")
)
