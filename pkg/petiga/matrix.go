package petiga

import (
	"fmt"
	"io"
)

// Scalar constrains the value types a sparse matrix can hold.
type Scalar interface {
	float64 | complex128
}

// CRS is a sparse matrix in compressed row storage. RowPtr has Rows+1
// entries starting at 0; row i owns ColIdx[RowPtr[i]:RowPtr[i+1]] and the
// matching Values range. Column indices are carried as found on the wire,
// they are not validated against Cols.
type CRS[S Scalar] struct {
	Rows, Cols int
	RowPtr     []int64
	ColIdx     []int64
	Values     []S
}

// NNZ returns the number of stored entries.
func (m *CRS[S]) NNZ() int { return len(m.Values) }

// DecodeMat reads a real-valued sparse matrix: magic, row and column
// counts, the nonzero count, per-row entry counts (folded into RowPtr),
// column indices, then values. Complex-scalar streams fail with
// ErrScalarKind.
func (c *Codec) DecodeMat(r io.Reader) (*CRS[float64], error) {
	d := c.newDecoder(r)
	s, err := readMatShape(d)
	if err != nil {
		return nil, err
	}
	vals, err := d.scalarsFloat(s.nz)
	if err != nil {
		return nil, err
	}
	return &CRS[float64]{Rows: s.rows, Cols: s.cols, RowPtr: s.rowPtr, ColIdx: s.colIdx, Values: vals}, nil
}

// DecodeMatComplex is DecodeMat for complex-valued matrices. Real-scalar
// streams widen with zero imaginary parts.
func (c *Codec) DecodeMatComplex(r io.Reader) (*CRS[complex128], error) {
	d := c.newDecoder(r)
	s, err := readMatShape(d)
	if err != nil {
		return nil, err
	}
	vals, err := d.scalarsComplex(s.nz)
	if err != nil {
		return nil, err
	}
	return &CRS[complex128]{Rows: s.rows, Cols: s.cols, RowPtr: s.rowPtr, ColIdx: s.colIdx, Values: vals}, nil
}

// EncodeMat writes a real-valued sparse matrix, deriving the on-disk
// per-row counts from RowPtr.
func (c *Codec) EncodeMat(w io.Writer, m *CRS[float64]) error {
	if err := validCRS(m); err != nil {
		return err
	}
	e := c.newEncoder(w)
	if err := e.crsPrefix(m.Rows, m.Cols, m.RowPtr, m.ColIdx); err != nil {
		return err
	}
	return e.scalarsFloat(m.Values)
}

// EncodeMatComplex is EncodeMat for complex-valued matrices. It fails
// with ErrScalarKind under a real profile.
func (c *Codec) EncodeMatComplex(w io.Writer, m *CRS[complex128]) error {
	if err := validCRS(m); err != nil {
		return err
	}
	e := c.newEncoder(w)
	if err := e.crsPrefix(m.Rows, m.Cols, m.RowPtr, m.ColIdx); err != nil {
		return err
	}
	return e.scalarsComplex(m.Values)
}

type matShape struct {
	rows, cols int
	nz         int64
	rowPtr     []int64
	colIdx     []int64
}

func readMatShape(d *decoder) (*matShape, error) {
	magic, err := d.index()
	if err != nil {
		return nil, err
	}
	if magic != MagicMatrix {
		return nil, fmt.Errorf("%w: %d is not a matrix classid", ErrBadMagic, magic)
	}
	hdr, err := d.indices(3)
	if err != nil {
		return nil, err
	}
	rows, cols, nz := hdr[0], hdr[1], hdr[2]
	if rows < 0 || cols < 0 || nz < 0 {
		return nil, fmt.Errorf("%w: matrix %dx%d with %d nonzeros", ErrSizeMismatch, rows, cols, nz)
	}

	rownz, err := d.indices(rows)
	if err != nil {
		return nil, err
	}
	rowPtr := make([]int64, rows+1)
	for i, v := range rownz {
		if v < 0 {
			return nil, fmt.Errorf("%w: row %d declares %d entries", ErrSizeMismatch, i, v)
		}
		rowPtr[i+1] = rowPtr[i] + v
	}
	if rowPtr[rows] != nz {
		return nil, fmt.Errorf("%w: row counts sum to %d, header declares %d nonzeros",
			ErrSizeMismatch, rowPtr[rows], nz)
	}

	colIdx, err := d.indices(nz)
	if err != nil {
		return nil, err
	}
	return &matShape{rows: int(rows), cols: int(cols), nz: nz, rowPtr: rowPtr, colIdx: colIdx}, nil
}

// crsPrefix writes everything up to the values: magic, shape, nonzero
// count, per-row counts, column indices.
func (e *encoder) crsPrefix(rows, cols int, rowPtr, colIdx []int64) error {
	nz := int64(len(colIdx))
	if err := e.indices([]int64{MagicMatrix, int64(rows), int64(cols), nz}); err != nil {
		return err
	}
	rownz := make([]int64, rows)
	for i := range rownz {
		rownz[i] = rowPtr[i+1] - rowPtr[i]
	}
	if err := e.indices(rownz); err != nil {
		return err
	}
	return e.indices(colIdx)
}

func validCRS[S Scalar](m *CRS[S]) error {
	if m.Rows < 0 || m.Cols < 0 {
		return fmt.Errorf("%w: matrix %dx%d", ErrSizeMismatch, m.Rows, m.Cols)
	}
	if len(m.RowPtr) != m.Rows+1 || m.RowPtr[0] != 0 {
		return fmt.Errorf("%w: row pointer has %d entries for %d rows", ErrSizeMismatch, len(m.RowPtr), m.Rows)
	}
	for i := 0; i < m.Rows; i++ {
		if m.RowPtr[i+1] < m.RowPtr[i] {
			return fmt.Errorf("%w: row pointer decreases at row %d", ErrSizeMismatch, i)
		}
	}
	if m.RowPtr[m.Rows] != int64(len(m.ColIdx)) || len(m.ColIdx) != len(m.Values) {
		return fmt.Errorf("%w: row pointer ends at %d with %d column indices and %d values",
			ErrSizeMismatch, m.RowPtr[m.Rows], len(m.ColIdx), len(m.Values))
	}
	return nil
}
