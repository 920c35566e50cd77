package petiga

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// encoder writes big-endian wire elements. Each operation converts into a
// single buffer and issues one write, so a failure never leaves a
// partially written element behind it on the stream.
type encoder struct {
	w io.Writer
	c *Codec
}

func (c *Codec) newEncoder(w io.Writer) *encoder {
	return &encoder{w: w, c: c}
}

func (e *encoder) index(v int64) error {
	return e.indices([]int64{v})
}

func (e *encoder) indices(vs []int64) error {
	buf := make([]byte, len(vs)*e.c.indexSize)
	if e.c.indexSize == 4 {
		for i, v := range vs {
			if v < math.MinInt32 || v > math.MaxInt32 {
				return fmt.Errorf("%w: %d", ErrIndexRange, v)
			}
			binary.BigEndian.PutUint32(buf[i*4:], uint32(int32(v)))
		}
	} else {
		for i, v := range vs {
			binary.BigEndian.PutUint64(buf[i*8:], uint64(v))
		}
	}
	return writeFull(e.w, buf)
}

func (e *encoder) reals(vs []float64) error {
	buf := make([]byte, len(vs)*e.c.realSize)
	if e.c.realSize == 4 {
		for i, v := range vs {
			binary.BigEndian.PutUint32(buf[i*4:], math.Float32bits(float32(v)))
		}
	} else {
		for i, v := range vs {
			binary.BigEndian.PutUint64(buf[i*8:], math.Float64bits(v))
		}
	}
	return writeFull(e.w, buf)
}

// scalarsFloat writes real values as wire scalars, widening them with a
// zero imaginary part under a complex profile.
func (e *encoder) scalarsFloat(vs []float64) error {
	if e.c.profile.Scalar == ScalarReal {
		return e.reals(vs)
	}
	buf := make([]byte, len(vs)*e.c.scalarSize)
	if e.c.realSize == 4 {
		for i, v := range vs {
			binary.BigEndian.PutUint32(buf[i*8:], math.Float32bits(float32(v)))
			binary.BigEndian.PutUint32(buf[i*8+4:], 0)
		}
	} else {
		for i, v := range vs {
			binary.BigEndian.PutUint64(buf[i*16:], math.Float64bits(v))
			binary.BigEndian.PutUint64(buf[i*16+8:], 0)
		}
	}
	return writeFull(e.w, buf)
}

// scalarsComplex writes complex values as wire scalars. A real profile
// cannot represent them, so the write fails rather than dropping the
// imaginary parts.
func (e *encoder) scalarsComplex(vs []complex128) error {
	if e.c.profile.Scalar == ScalarReal {
		return fmt.Errorf("%w: complex values in a real-scalar stream", ErrScalarKind)
	}
	buf := make([]byte, len(vs)*e.c.scalarSize)
	if e.c.realSize == 4 {
		for i, v := range vs {
			binary.BigEndian.PutUint32(buf[i*8:], math.Float32bits(float32(real(v))))
			binary.BigEndian.PutUint32(buf[i*8+4:], math.Float32bits(float32(imag(v))))
		}
	} else {
		for i, v := range vs {
			binary.BigEndian.PutUint64(buf[i*16:], math.Float64bits(real(v)))
			binary.BigEndian.PutUint64(buf[i*16+8:], math.Float64bits(imag(v)))
		}
	}
	return writeFull(e.w, buf)
}

func writeFull(w io.Writer, p []byte) error {
	n, err := w.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return io.ErrShortWrite
	}
	return nil
}
