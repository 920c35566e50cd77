package petiga

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/openspline/igaio/pkg/nurbs"
	"github.com/openspline/igaio/pkg/tensor"
)

// ReadGeometry decodes a geometry file from disk.
func (c *Codec) ReadGeometry(path string) (*nurbs.Patch, error) {
	data, release, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	defer release()
	return c.DecodeGeometry(bytes.NewReader(data))
}

// WriteGeometry encodes a geometry file to disk. A failed write may leave
// a truncated file behind; nothing is rolled back.
func (c *Codec) WriteGeometry(path string, g Geometry, opts ...GeometryOption) error {
	return writeFile(path, func(w io.Writer) error {
		return c.EncodeGeometry(w, g, opts...)
	})
}

// ReadVec decodes a real-valued vector file, reshaped against g when
// non-nil.
func (c *Codec) ReadVec(path string, g Geometry) (*tensor.Dense[float64], error) {
	data, release, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	defer release()
	return c.DecodeVec(bytes.NewReader(data), g)
}

// ReadVecComplex decodes a complex-valued vector file, reshaped against g
// when non-nil.
func (c *Codec) ReadVecComplex(path string, g Geometry) (*tensor.Dense[complex128], error) {
	data, release, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	defer release()
	return c.DecodeVecComplex(bytes.NewReader(data), g)
}

// WriteVec encodes a real-valued vector file.
func (c *Codec) WriteVec(path string, vals []float64, g Geometry) error {
	return writeFile(path, func(w io.Writer) error {
		return c.EncodeVec(w, vals, g)
	})
}

// WriteVecComplex encodes a complex-valued vector file.
func (c *Codec) WriteVecComplex(path string, vals []complex128, g Geometry) error {
	return writeFile(path, func(w io.Writer) error {
		return c.EncodeVecComplex(w, vals, g)
	})
}

// ReadMat decodes a real-valued sparse matrix file.
func (c *Codec) ReadMat(path string) (*CRS[float64], error) {
	data, release, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	defer release()
	return c.DecodeMat(bytes.NewReader(data))
}

// ReadMatComplex decodes a complex-valued sparse matrix file.
func (c *Codec) ReadMatComplex(path string) (*CRS[complex128], error) {
	data, release, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	defer release()
	return c.DecodeMatComplex(bytes.NewReader(data))
}

// WriteMat encodes a real-valued sparse matrix file.
func (c *Codec) WriteMat(path string, m *CRS[float64]) error {
	return writeFile(path, func(w io.Writer) error {
		return c.EncodeMat(w, m)
	})
}

// WriteMatComplex encodes a complex-valued sparse matrix file.
func (c *Codec) WriteMatComplex(path string, m *CRS[complex128]) error {
	return writeFile(path, func(w io.Writer) error {
		return c.EncodeMatComplex(w, m)
	})
}

// mapFile loads a whole file for decoding, preferring a read-only mmap
// and falling back to a plain read. release must be called after the
// decoded values have been copied out; decoders never retain the mapped
// bytes.
func mapFile(path string) (data []byte, release func(), err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size64 := stat.Size()
	if size64 < 0 || size64 > maxBulkBytes {
		return nil, nil, fmt.Errorf("%w: file size %d", ErrSizeMismatch, size64)
	}
	size := int(size64)

	if size > 0 {
		data, err = unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
		if err == nil {
			return data, func() { _ = unix.Munmap(data) }, nil
		}
	}

	data = make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, nil, err
	}
	return data, func() {}, nil
}

// writeFile creates (or truncates) path and streams one encoded record
// into it through a buffered writer.
func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := encode(bw); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
