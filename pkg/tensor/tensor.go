// Package tensor provides dense multi-dimensional arrays and the layout
// transforms between row-major memory order and the channel-major wire
// order used by the on-disk formats in this module.
package tensor

// Elem constrains the element types a Dense array can hold. In-memory
// values are always kept at full width; narrower on-disk encodings are a
// concern of the codecs, not of the arrays.
type Elem interface {
	float64 | complex128
}

// Dense is a dense array of arbitrary rank stored in row-major order: the
// last axis varies fastest in the backing slice.
//
// Dense does not perform any memory safety beyond the checks performed by
// Go's slice types; out-of-range indices panic.
type Dense[T Elem] struct {
	shape []int
	data  []T
}

// New allocates a zero-initialised array with the given shape.
func New[T Elem](shape ...int) *Dense[T] {
	n, ok := sizeOf(shape)
	if !ok {
		panic("invalid shape")
	}
	return &Dense[T]{
		shape: append([]int(nil), shape...),
		data:  make([]T, n),
	}
}

// FromSlice wraps an existing row-major slice as an array of the given
// shape. The slice is used directly, not copied. It panics if the slice
// length does not match the shape.
func FromSlice[T Elem](data []T, shape ...int) *Dense[T] {
	n, ok := sizeOf(shape)
	if !ok {
		panic("invalid shape")
	}
	if len(data) != n {
		panic("data length mismatch")
	}
	return &Dense[T]{
		shape: append([]int(nil), shape...),
		data:  data,
	}
}

// Rank returns the number of axes.
func (d *Dense[T]) Rank() int { return len(d.shape) }

// Len returns the total number of elements.
func (d *Dense[T]) Len() int { return len(d.data) }

// Shape returns a copy of the axis lengths.
func (d *Dense[T]) Shape() []int { return append([]int(nil), d.shape...) }

// Data returns the backing slice in row-major order. Mutations are visible
// to the array.
func (d *Dense[T]) Data() []T { return d.data }

// At returns the element at the given multi-index.
func (d *Dense[T]) At(idx ...int) T {
	return d.data[d.offset(idx)]
}

// Set stores v at the given multi-index.
func (d *Dense[T]) Set(v T, idx ...int) {
	d.data[d.offset(idx)] = v
}

// EqualShape reports whether both arrays have identical shapes.
func (d *Dense[T]) EqualShape(o *Dense[T]) bool {
	if len(d.shape) != len(o.shape) {
		return false
	}
	for k, n := range d.shape {
		if o.shape[k] != n {
			return false
		}
	}
	return true
}

func (d *Dense[T]) offset(idx []int) int {
	if len(idx) != len(d.shape) {
		panic("index rank mismatch")
	}
	off := 0
	for k, i := range idx {
		if i < 0 || i >= d.shape[k] {
			panic("index out of range")
		}
		off = off*d.shape[k] + i
	}
	return off
}

// sizeOf returns the element count of a shape, guarding against negative
// axes and overflow.
func sizeOf(shape []int) (int, bool) {
	n := 1
	for _, s := range shape {
		if s < 0 {
			return 0, false
		}
		if s != 0 && n*s/s != n {
			return 0, false
		}
		n *= s
	}
	return n, true
}
