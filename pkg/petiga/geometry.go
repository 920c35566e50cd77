package petiga

import (
	"errors"
	"fmt"
	"io"

	"github.com/openspline/igaio/pkg/nurbs"
	"github.com/openspline/igaio/pkg/tensor"
)

// Geometry is the view of a patch the geometry codec works against: the
// parametric topology plus, optionally, a homogeneous control array of
// shape (n_1, ..., n_d, 4). *nurbs.Patch implements it.
type Geometry interface {
	Dimension() int
	Degree() []int
	Knots() [][]float64
	Control() *tensor.Dense[float64]
}

type geometryOptions struct {
	topologyOnly bool
	nsd          int // 0 means the parametric dimension
}

// GeometryOption customises how a geometry file is written.
type GeometryOption func(*geometryOptions)

// TopologyOnly writes only the parametric structure, omitting any control
// data the geometry carries.
func TopologyOnly() GeometryOption {
	return func(o *geometryOptions) { o.topologyOnly = true }
}

// WithSpatialDims embeds the control points into an nsd-dimensional
// space. nsd must lie between the parametric dimension and 3, and the
// geometry must carry control data.
func WithSpatialDims(nsd int) GeometryOption {
	return func(o *geometryOptions) { o.nsd = nsd }
}

// EncodeGeometry writes a geometry record: magic, a descriptor flag, the
// parametric dimension, one (degree, knot count, knots) block per axis,
// and, unless suppressed, the control section with the spatial channels
// 0..nsd-1 and the weight reordered into wire order.
func (c *Codec) EncodeGeometry(w io.Writer, g Geometry, opts ...GeometryOption) error {
	var o geometryOptions
	for _, opt := range opts {
		opt(&o)
	}

	degree, knots, grid, err := topologyOf(g)
	if err != nil {
		return err
	}
	dim := len(degree)
	control := g.Control()

	if o.nsd != 0 {
		if o.topologyOnly {
			return errors.New("petiga: WithSpatialDims conflicts with TopologyOnly")
		}
		if control == nil {
			return fmt.Errorf("%w: spatial dimensions requested", ErrNoControl)
		}
	}
	withControl := control != nil && !o.topologyOnly
	nsd := o.nsd
	if nsd == 0 {
		nsd = dim
	}

	var wire []float64
	if withControl {
		if nsd < dim || nsd > 3 {
			return fmt.Errorf("%w: %d spatial dimensions for a %d-axis patch", ErrDimension, nsd, dim)
		}
		want := append(append([]int(nil), grid...), 4)
		if !equalInts(control.Shape(), want) {
			return fmt.Errorf("%w: control shape %v, grid implies %v", ErrSizeMismatch, control.Shape(), want)
		}
		keep := make([]int, 0, nsd+1)
		for s := 0; s < nsd; s++ {
			keep = append(keep, s)
		}
		keep = append(keep, 3)
		wire = tensor.PackChannelMajor(control.Data(), grid, 4, keep)
	}

	descr := int64(0)
	if withControl {
		descr = 1
	}

	e := c.newEncoder(w)
	if err := e.indices([]int64{MagicGeometry, descr, int64(dim)}); err != nil {
		return err
	}
	for i := 0; i < dim; i++ {
		if err := e.indices([]int64{int64(degree[i]), int64(len(knots[i]))}); err != nil {
			return err
		}
		if err := e.reals(knots[i]); err != nil {
			return err
		}
	}
	if withControl {
		if err := e.indices([]int64{int64(nsd), MagicVector, int64(len(wire))}); err != nil {
			return err
		}
		if err := e.scalarsFloat(wire); err != nil {
			return err
		}
	}
	return nil
}

// DecodeGeometry reads a geometry record and rebuilds the patch. Any
// nonzero descriptor means control data follows; the control array is
// always widened back to 4 channels, with unused spatial slots zero and
// the weight in channel 3.
func (c *Codec) DecodeGeometry(r io.Reader) (*nurbs.Patch, error) {
	d := c.newDecoder(r)

	magic, err := d.index()
	if err != nil {
		return nil, err
	}
	if magic != MagicGeometry {
		return nil, fmt.Errorf("%w: %d is not a geometry classid", ErrBadMagic, magic)
	}
	descr, err := d.index()
	if err != nil {
		return nil, err
	}
	dim64, err := d.index()
	if err != nil {
		return nil, err
	}
	if dim64 < 1 || dim64 > 3 {
		return nil, fmt.Errorf("%w: parametric dimension %d", ErrDimension, dim64)
	}
	dim := int(dim64)

	degree := make([]int, dim)
	knots := make([][]float64, dim)
	grid := make([]int, dim)
	for i := 0; i < dim; i++ {
		p, err := d.index()
		if err != nil {
			return nil, err
		}
		if p < 1 {
			return nil, fmt.Errorf("%w: axis %d has degree %d", ErrDegree, i, p)
		}
		m, err := d.index()
		if err != nil {
			return nil, err
		}
		if n := m - p - 1; n < 2 {
			return nil, fmt.Errorf("%w: axis %d has %d knots for degree %d", ErrGridSize, i, m, p)
		}
		U, err := d.reals(m)
		if err != nil {
			return nil, err
		}
		degree[i] = int(p)
		knots[i] = U
		grid[i] = int(m - p - 1)
	}

	var control *tensor.Dense[float64]
	if descr != 0 {
		nsd64, err := d.index()
		if err != nil {
			return nil, err
		}
		if nsd64 < dim64 || nsd64 > 3 {
			return nil, fmt.Errorf("%w: %d spatial dimensions for a %d-axis patch", ErrDimension, nsd64, dim)
		}
		nsd := int(nsd64)
		vmagic, err := d.index()
		if err != nil {
			return nil, err
		}
		if vmagic != MagicVector {
			return nil, fmt.Errorf("%w: %d is not a vector classid in the control section", ErrBadMagic, vmagic)
		}
		count, err := d.index()
		if err != nil {
			return nil, err
		}
		expect := int64(nsd + 1)
		for _, n := range grid {
			expect *= int64(n)
		}
		if count != expect {
			return nil, fmt.Errorf("%w: control count %d, grid implies %d", ErrSizeMismatch, count, expect)
		}
		vals, err := d.controlScalars(count)
		if err != nil {
			return nil, err
		}
		unp, err := tensor.UnpackChannelMajor(vals, grid, nsd+1)
		if err != nil {
			return nil, err
		}

		gridLen := len(unp) / (nsd + 1)
		data := make([]float64, gridLen*4)
		for g := 0; g < gridLen; g++ {
			for s := 0; s < nsd; s++ {
				data[g*4+s] = unp[g*(nsd+1)+s]
			}
			data[g*4+3] = unp[g*(nsd+1)+nsd]
		}
		control = tensor.FromSlice(data, append(append([]int(nil), grid...), 4)...)
	}

	return nurbs.New(degree, knots, control)
}

// topologyOf validates the parametric structure of a geometry and derives
// its control grid sizes.
func topologyOf(g Geometry) (degree []int, knots [][]float64, grid []int, err error) {
	dim := g.Dimension()
	if dim < 1 || dim > 3 {
		return nil, nil, nil, fmt.Errorf("%w: %d parametric axes", ErrDimension, dim)
	}
	degree, knots = g.Degree(), g.Knots()
	if len(degree) != dim || len(knots) != dim {
		return nil, nil, nil, fmt.Errorf("%w: inconsistent axis counts", ErrDimension)
	}
	grid = make([]int, dim)
	for i := 0; i < dim; i++ {
		if degree[i] < 1 {
			return nil, nil, nil, fmt.Errorf("%w: axis %d has degree %d", ErrDegree, i, degree[i])
		}
		n := len(knots[i]) - degree[i] - 1
		if n < 2 {
			return nil, nil, nil, fmt.Errorf("%w: axis %d has %d knots for degree %d",
				ErrGridSize, i, len(knots[i]), degree[i])
		}
		grid[i] = n
	}
	return degree, knots, grid, nil
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
