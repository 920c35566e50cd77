package petiga

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const maxBulkBytes = int64(int(^uint(0) >> 1))

// decoder reads big-endian wire elements from a stream, tracking its
// offset. When the total input size is known up front, bulk reads are
// checked against it before any allocation happens.
type decoder struct {
	r    io.Reader
	c    *Codec
	off  int64
	size int64 // total input size, or -1 when unknown
}

func (c *Codec) newDecoder(r io.Reader) *decoder {
	size := int64(-1)
	if l, ok := r.(interface{ Len() int }); ok {
		size = int64(l.Len())
	}
	return &decoder{r: r, c: c, size: size}
}

func (d *decoder) readN(n int64) ([]byte, error) {
	if d.size >= 0 && d.off+n > d.size {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, input has %d",
			ErrShortRead, n, d.off, d.size)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: offset %d", ErrShortRead, d.off)
		}
		return nil, err
	}
	d.off += n
	return buf, nil
}

// bulk reads count wire elements of the given width.
func (d *decoder) bulk(count int64, width int) ([]byte, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative element count %d", ErrSizeMismatch, count)
	}
	if count > maxBulkBytes/int64(width) {
		return nil, fmt.Errorf("%w: element count %d too large", ErrSizeMismatch, count)
	}
	return d.readN(count * int64(width))
}

func (d *decoder) index() (int64, error) {
	b, err := d.readN(int64(d.c.indexSize))
	if err != nil {
		return 0, err
	}
	if d.c.indexSize == 4 {
		return int64(int32(binary.BigEndian.Uint32(b))), nil
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (d *decoder) indices(count int64) ([]int64, error) {
	b, err := d.bulk(count, d.c.indexSize)
	if err != nil {
		return nil, err
	}
	out := make([]int64, count)
	if d.c.indexSize == 4 {
		for i := range out {
			out[i] = int64(int32(binary.BigEndian.Uint32(b[i*4:])))
		}
	} else {
		for i := range out {
			out[i] = int64(binary.BigEndian.Uint64(b[i*8:]))
		}
	}
	return out, nil
}

func (d *decoder) reals(count int64) ([]float64, error) {
	b, err := d.bulk(count, d.c.realSize)
	if err != nil {
		return nil, err
	}
	out := make([]float64, count)
	if d.c.realSize == 4 {
		for i := range out {
			out[i] = float64(math.Float32frombits(binary.BigEndian.Uint32(b[i*4:])))
		}
	} else {
		for i := range out {
			out[i] = math.Float64frombits(binary.BigEndian.Uint64(b[i*8:]))
		}
	}
	return out, nil
}

// scalarsFloat reads count wire scalars for a real-valued consumer. A
// complex-scalar stream cannot silently narrow, so it is rejected.
func (d *decoder) scalarsFloat(count int64) ([]float64, error) {
	if d.c.profile.Scalar == ScalarComplex {
		return nil, fmt.Errorf("%w: real-valued read from a complex-scalar stream", ErrScalarKind)
	}
	return d.reals(count)
}

// scalarsComplex reads count wire scalars for a complex-valued consumer,
// widening real-scalar streams with a zero imaginary part.
func (d *decoder) scalarsComplex(count int64) ([]complex128, error) {
	if d.c.profile.Scalar == ScalarReal {
		re, err := d.reals(count)
		if err != nil {
			return nil, err
		}
		out := make([]complex128, len(re))
		for i, v := range re {
			out[i] = complex(v, 0)
		}
		return out, nil
	}
	b, err := d.bulk(count, d.c.scalarSize)
	if err != nil {
		return nil, err
	}
	out := make([]complex128, count)
	if d.c.realSize == 4 {
		for i := range out {
			re := math.Float32frombits(binary.BigEndian.Uint32(b[i*8:]))
			im := math.Float32frombits(binary.BigEndian.Uint32(b[i*8+4:]))
			out[i] = complex(float64(re), float64(im))
		}
	} else {
		for i := range out {
			re := math.Float64frombits(binary.BigEndian.Uint64(b[i*16:]))
			im := math.Float64frombits(binary.BigEndian.Uint64(b[i*16+8:]))
			out[i] = complex(re, im)
		}
	}
	return out, nil
}

// controlScalars reads Scalar-typed control values as reals. Geometry
// coordinates are real-valued by contract, so a complex profile carries
// them in the real component.
func (d *decoder) controlScalars(count int64) ([]float64, error) {
	if d.c.profile.Scalar == ScalarComplex {
		vals, err := d.scalarsComplex(count)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(vals))
		for i, v := range vals {
			out[i] = real(v)
		}
		return out, nil
	}
	return d.reals(count)
}
