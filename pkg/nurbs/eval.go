package nurbs

import (
	"fmt"

	"github.com/openspline/igaio/pkg/tensor"
)

// SpanBreaks returns the distinct knot values of an axis restricted to the
// closed parametric domain [U[p], U[m-1-p]]. These are the natural sample
// sites for visualising the patch.
func (p *Patch) SpanBreaks(axis int) []float64 {
	if axis < 0 || axis >= len(p.degree) {
		panic("axis out of range")
	}
	deg := p.degree[axis]
	U := p.knots[axis]
	interior := U[deg : len(U)-deg]
	out := make([]float64, 0, len(interior))
	for i, u := range interior {
		if i == 0 || u != out[len(out)-1] {
			out = append(out, u)
		}
	}
	return out
}

// Evaluate maps a grid of parametric sample points through the patch.
// params carries one slice of parameter values per axis; values outside
// the closed domain are clamped to it. The result has shape
// (len(params[0]), ..., len(params[d-1]), 3): spatial coordinates after
// the projective divide, with unused spatial channels zero.
func (p *Patch) Evaluate(params [][]float64) (*tensor.Dense[float64], error) {
	if p.control == nil {
		return nil, ErrNoControl
	}
	res, counts, err := p.evalCoeffs(params, p.control.Data(), 4)
	if err != nil {
		return nil, err
	}
	npts := len(res) / 4
	pts := make([]float64, npts*3)
	for i := 0; i < npts; i++ {
		w := res[i*4+3]
		pts[i*3+0] = res[i*4+0] / w
		pts[i*3+1] = res[i*4+1] / w
		pts[i*3+2] = res[i*4+2] / w
	}
	return tensor.FromSlice(pts, append(counts, 3)...), nil
}

// EvaluateFields evaluates a coefficient grid attached to the patch, such
// as a solution vector read back against the geometry, at the same sample
// points Evaluate accepts. fields must have shape (n_1, ..., n_d, nf) or
// (n_1, ..., n_d) for a single component; coefficients combine through the
// weighted (rational) basis of the patch. The result has shape
// (len(params[0]), ..., nf).
func (p *Patch) EvaluateFields(params [][]float64, fields *tensor.Dense[float64]) (*tensor.Dense[float64], error) {
	if p.control == nil {
		return nil, ErrNoControl
	}
	dim := len(p.degree)
	shape := fields.Shape()
	nf := 1
	switch {
	case len(shape) == dim+1 && equalInts(shape[:dim], p.grid):
		nf = shape[dim]
	case len(shape) == dim && equalInts(shape, p.grid):
		// single implicit component
	default:
		return nil, fmt.Errorf("%w: field shape %v for grid %v", ErrControlShape, shape, p.grid)
	}

	// Fold the weights in so the plain B-spline evaluation below yields
	// the rational numerator and denominator in one pass.
	gridLen := 1
	for _, n := range p.grid {
		gridLen *= n
	}
	ctl := p.control.Data()
	fld := fields.Data()
	aug := make([]float64, gridLen*(nf+1))
	for g := 0; g < gridLen; g++ {
		w := ctl[g*4+3]
		for c := 0; c < nf; c++ {
			aug[g*(nf+1)+c] = w * fld[g*nf+c]
		}
		aug[g*(nf+1)+nf] = w
	}

	res, counts, err := p.evalCoeffs(params, aug, nf+1)
	if err != nil {
		return nil, err
	}
	npts := len(res) / (nf + 1)
	out := make([]float64, npts*nf)
	for i := 0; i < npts; i++ {
		w := res[i*(nf+1)+nf]
		for c := 0; c < nf; c++ {
			out[i*nf+c] = res[i*(nf+1)+c] / w
		}
	}
	return tensor.FromSlice(out, append(counts, nf)...), nil
}

// evalCoeffs runs the tensor-product B-spline evaluation of a coefficient
// grid with nc channels at every combination of the per-axis parameter
// values. It returns the flat row-major result and the sample counts.
func (p *Patch) evalCoeffs(params [][]float64, coeffs []float64, nc int) ([]float64, []int, error) {
	dim := len(p.degree)
	if len(params) != dim {
		return nil, nil, fmt.Errorf("%w: %d parameter axes for a %d-axis patch", ErrDimension, len(params), dim)
	}
	counts := make([]int, dim)
	npts := 1
	for k := range params {
		if len(params[k]) == 0 {
			return nil, nil, fmt.Errorf("%w: no sample points on axis %d", ErrDimension, k)
		}
		counts[k] = len(params[k])
		npts *= counts[k]
	}

	// Per axis, resolve the knot span and the p+1 nonvanishing basis
	// values for every sample point once.
	spans := make([][]int, dim)
	bases := make([][]float64, dim)
	for k := 0; k < dim; k++ {
		deg := p.degree[k]
		U := p.knots[k]
		n := p.grid[k] - 1
		spans[k] = make([]int, counts[k])
		bases[k] = make([]float64, counts[k]*(deg+1))
		left := make([]float64, deg+1)
		right := make([]float64, deg+1)
		for s := range params[k] {
			u := clampDomain(deg, params[k][s], U)
			span := findSpan(n, deg, u, U)
			spans[k][s] = span
			basisFuns(span, deg, u, U, bases[k][s*(deg+1):(s+1)*(deg+1)], left, right)
		}
	}

	out := make([]float64, npts*nc)
	acc := make([]float64, nc)
	sidx := make([]int, dim)
	lidx := make([]int, dim)
	for o := 0; o < npts; o++ {
		for c := range acc {
			acc[c] = 0
		}
		for k := range lidx {
			lidx[k] = 0
		}
		for {
			w := 1.0
			off := 0
			for k := 0; k < dim; k++ {
				j := lidx[k]
				w *= bases[k][sidx[k]*(p.degree[k]+1)+j]
				off = off*p.grid[k] + (spans[k][sidx[k]] - p.degree[k] + j)
			}
			off *= nc
			for c := 0; c < nc; c++ {
				acc[c] += w * coeffs[off+c]
			}
			k := dim - 1
			for ; k >= 0; k-- {
				lidx[k]++
				if lidx[k] <= p.degree[k] {
					break
				}
				lidx[k] = 0
			}
			if k < 0 {
				break
			}
		}
		copy(out[o*nc:(o+1)*nc], acc)
		for k := dim - 1; k >= 0; k-- {
			sidx[k]++
			if sidx[k] < counts[k] {
				break
			}
			sidx[k] = 0
		}
	}
	return out, counts, nil
}

// findSpan locates the knot span index i with U[i] <= u < U[i+1] by
// binary search, clamping u to the closed domain. n is the index of the
// last control point along the axis.
func findSpan(n, p int, u float64, U []float64) int {
	if u >= U[n+1] {
		return n
	}
	if u <= U[p] {
		return p
	}
	lo, hi := p, n+1
	mid := (lo + hi) / 2
	for u < U[mid] || u >= U[mid+1] {
		if u < U[mid] {
			hi = mid
		} else {
			lo = mid
		}
		mid = (lo + hi) / 2
	}
	return mid
}

// basisFuns fills N with the p+1 nonvanishing basis function values at u
// on the given span (The NURBS Book, algorithm A2.2). left and right are
// scratch slices of length p+1.
func basisFuns(span, p int, u float64, U []float64, N, left, right []float64) {
	N[0] = 1
	for j := 1; j <= p; j++ {
		left[j] = u - U[span+1-j]
		right[j] = U[span+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			tmp := N[r] / (right[r+1] + left[j-r])
			N[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		N[j] = saved
	}
}

func clampDomain(p int, u float64, U []float64) float64 {
	if lo := U[p]; u < lo {
		return lo
	}
	if hi := U[len(U)-1-p]; u > hi {
		return hi
	}
	return u
}
