// Package nurbs represents tensor-product NURBS patches, the geometry
// objects carried by the PetIGA binary formats.
package nurbs

import (
	"fmt"

	"github.com/openspline/igaio/pkg/tensor"
)

// Patch is a tensor-product NURBS patch with 1 to 3 parametric axes.
// Control points, when present, are homogeneous: channels 0..2 hold the
// weighted spatial coordinates and channel 3 the weight.
//
// A Patch is immutable in its topology (degree, knots, grid shape); the
// control array is shared with the caller and may be mutated in place.
type Patch struct {
	degree  []int
	knots   [][]float64
	grid    []int
	control *tensor.Dense[float64]
}

// New validates and builds a patch. degree and knots carry one entry per
// parametric axis. Each knot vector must be non-decreasing, with enough
// entries that n = len(knots) - degree - 1 is at least 2; n is the number
// of control points along that axis. control may be nil for a
// topology-only patch, otherwise its shape must be (n_1, ..., n_d, 4).
func New(degree []int, knots [][]float64, control *tensor.Dense[float64]) (*Patch, error) {
	dim := len(degree)
	if dim < 1 || dim > 3 {
		return nil, fmt.Errorf("%w: %d parametric axes", ErrDimension, dim)
	}
	if len(knots) != dim {
		return nil, fmt.Errorf("%w: %d degrees but %d knot vectors", ErrDimension, dim, len(knots))
	}
	grid := make([]int, dim)
	for i := 0; i < dim; i++ {
		p := degree[i]
		if p < 1 {
			return nil, fmt.Errorf("%w: axis %d has degree %d", ErrDegree, i, p)
		}
		U := knots[i]
		n := len(U) - p - 1
		if n < 2 {
			return nil, fmt.Errorf("%w: axis %d has %d knots for degree %d, need at least %d",
				ErrGridSize, i, len(U), p, p+3)
		}
		for j := 1; j < len(U); j++ {
			if U[j] < U[j-1] {
				return nil, fmt.Errorf("%w: axis %d, knot %d", ErrKnotOrder, i, j)
			}
		}
		grid[i] = n
	}
	if control != nil {
		want := append(append([]int(nil), grid...), 4)
		if !equalInts(control.Shape(), want) {
			return nil, fmt.Errorf("%w: control shape %v, want %v", ErrControlShape, control.Shape(), want)
		}
	}
	return &Patch{
		degree:  append([]int(nil), degree...),
		knots:   copyKnots(knots),
		grid:    grid,
		control: control,
	}, nil
}

// Dimension returns the number of parametric axes.
func (p *Patch) Dimension() int { return len(p.degree) }

// Degree returns a copy of the per-axis polynomial degrees.
func (p *Patch) Degree() []int { return append([]int(nil), p.degree...) }

// Knots returns a copy of the per-axis knot vectors.
func (p *Patch) Knots() [][]float64 { return copyKnots(p.knots) }

// GridShape returns a copy of the control grid sizes (n_1, ..., n_d).
func (p *Patch) GridShape() []int { return append([]int(nil), p.grid...) }

// Control returns the homogeneous control array, or nil for a
// topology-only patch. The array is shared, not copied.
func (p *Patch) Control() *tensor.Dense[float64] { return p.control }

func copyKnots(knots [][]float64) [][]float64 {
	out := make([][]float64, len(knots))
	for i, U := range knots {
		out[i] = append([]float64(nil), U...)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
