package petiga

import (
	"fmt"
	"io"

	"github.com/openspline/igaio/pkg/tensor"
)

// EncodeVec writes a real-valued coefficient vector. With a non-nil
// geometry the values must form a row-major (n_1, ..., n_d, dof) grid
// over its control grid, dof inferred from the length; they are reordered
// into wire order before writing. A nil geometry writes the values as
// they are. Under a complex profile the values widen with zero imaginary
// parts.
func (c *Codec) EncodeVec(w io.Writer, vals []float64, g Geometry) error {
	wire, err := vecWire(vals, g)
	if err != nil {
		return err
	}
	e := c.newEncoder(w)
	if err := e.indices([]int64{MagicVector, int64(len(wire))}); err != nil {
		return err
	}
	return e.scalarsFloat(wire)
}

// EncodeVecComplex is EncodeVec for complex-valued coefficients. It fails
// with ErrScalarKind under a real profile.
func (c *Codec) EncodeVecComplex(w io.Writer, vals []complex128, g Geometry) error {
	wire, err := vecWire(vals, g)
	if err != nil {
		return err
	}
	e := c.newEncoder(w)
	if err := e.indices([]int64{MagicVector, int64(len(wire))}); err != nil {
		return err
	}
	return e.scalarsComplex(wire)
}

// DecodeVec reads a real-valued coefficient vector. With a non-nil
// geometry the values are reshaped against its control grid into a
// row-major (n_1, ..., n_d, dof) array; a dof axis of size 1 is dropped.
// A nil geometry yields a flat one-axis array. Complex-scalar streams
// fail with ErrScalarKind.
func (c *Codec) DecodeVec(r io.Reader, g Geometry) (*tensor.Dense[float64], error) {
	d := c.newDecoder(r)
	count, err := readVecHeader(d)
	if err != nil {
		return nil, err
	}
	vals, err := d.scalarsFloat(count)
	if err != nil {
		return nil, err
	}
	return vecShape(vals, g)
}

// DecodeVecComplex is DecodeVec for complex-valued coefficients.
// Real-scalar streams widen with zero imaginary parts.
func (c *Codec) DecodeVecComplex(r io.Reader, g Geometry) (*tensor.Dense[complex128], error) {
	d := c.newDecoder(r)
	count, err := readVecHeader(d)
	if err != nil {
		return nil, err
	}
	vals, err := d.scalarsComplex(count)
	if err != nil {
		return nil, err
	}
	return vecShape(vals, g)
}

func readVecHeader(d *decoder) (int64, error) {
	magic, err := d.index()
	if err != nil {
		return 0, err
	}
	if magic != MagicVector {
		return 0, fmt.Errorf("%w: %d is not a vector classid", ErrBadMagic, magic)
	}
	count, err := d.index()
	if err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, fmt.Errorf("%w: negative element count %d", ErrSizeMismatch, count)
	}
	return count, nil
}

// vecWire reorders grid-shaped values into wire order, or passes flat
// values through when no geometry is given.
func vecWire[T tensor.Elem](vals []T, g Geometry) ([]T, error) {
	if g == nil {
		return vals, nil
	}
	grid, gridLen, err := vecGrid(len(vals), g)
	if err != nil {
		return nil, err
	}
	return tensor.PackChannelMajor(vals, grid, len(vals)/gridLen, nil), nil
}

// vecShape is the inverse of vecWire, folding wire values back into a
// row-major array over the geometry's control grid.
func vecShape[T tensor.Elem](vals []T, g Geometry) (*tensor.Dense[T], error) {
	if g == nil {
		return tensor.FromSlice(vals, len(vals)), nil
	}
	grid, gridLen, err := vecGrid(len(vals), g)
	if err != nil {
		return nil, err
	}
	dof := len(vals) / gridLen
	data, err := tensor.UnpackChannelMajor(vals, grid, dof)
	if err != nil {
		return nil, err
	}
	if dof == 1 {
		return tensor.FromSlice(data, grid...), nil
	}
	return tensor.FromSlice(data, append(grid, dof)...), nil
}

func vecGrid(n int, g Geometry) ([]int, int, error) {
	_, _, grid, err := topologyOf(g)
	if err != nil {
		return nil, 0, err
	}
	gridLen := 1
	for _, s := range grid {
		gridLen *= s
	}
	if n%gridLen != 0 {
		return nil, 0, fmt.Errorf("%w: %d values over control grid %v", ErrSizeMismatch, n, grid)
	}
	return grid, gridLen, nil
}
