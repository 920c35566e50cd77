package petiga

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/openspline/igaio/pkg/nurbs"
	"github.com/openspline/igaio/pkg/tensor"
)

// wireBuf hand-assembles streams in the default profile (32-bit indices,
// double reals) for decode tests.
type wireBuf struct {
	bytes.Buffer
}

func (w *wireBuf) i32(vs ...int64) {
	for _, v := range vs {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(int32(v)))
		w.Write(b[:])
	}
}

func (w *wireBuf) f64(vs ...float64) {
	for _, v := range vs {
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
		w.Write(b[:])
	}
}

func defaultCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := New(Profile{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// line returns a 1-D linear patch from (0,0,0) to (1,0,0) with unit
// weights.
func line(t *testing.T) *nurbs.Patch {
	t.Helper()
	control := tensor.New[float64](2, 4)
	control.Set(0, 0, 0)
	control.Set(1, 0, 3)
	control.Set(1, 1, 0)
	control.Set(1, 1, 3)
	p, err := nurbs.New([]int{1}, [][]float64{{0, 0, 1, 1}}, control)
	if err != nil {
		t.Fatalf("nurbs.New: %v", err)
	}
	return p
}

// surface returns a bilinear 2x2 patch whose control values identify
// their own grid position: x = i, y = 2j, w = 1.
func surface(t *testing.T) *nurbs.Patch {
	t.Helper()
	control := tensor.New[float64](2, 2, 4)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			control.Set(float64(i), i, j, 0)
			control.Set(float64(2*j), i, j, 1)
			control.Set(1, i, j, 3)
		}
	}
	p, err := nurbs.New([]int{1, 1}, [][]float64{{0, 0, 1, 1}, {0, 0, 1, 1}}, control)
	if err != nil {
		t.Fatalf("nurbs.New: %v", err)
	}
	return p
}

func TestEncodeGeometryWireBytes(t *testing.T) {
	t.Parallel()

	c := defaultCodec(t)
	var buf bytes.Buffer
	if err := c.EncodeGeometry(&buf, line(t)); err != nil {
		t.Fatalf("EncodeGeometry: %v", err)
	}

	// 8 index fields, 4 knots, 4 control scalars.
	if buf.Len() != 8*4+4*8+4*8 {
		t.Fatalf("encoded %d bytes, want 96", buf.Len())
	}
	raw := buf.Bytes()

	if !bytes.Equal(raw[0:4], []byte{0x00, 0x12, 0x7b, 0xa3}) {
		t.Fatalf("geometry magic is not big-endian 1211299: % x", raw[0:4])
	}
	if !bytes.Equal(raw[4:8], []byte{0, 0, 0, 1}) {
		t.Fatalf("descriptor: % x", raw[4:8])
	}
	if !bytes.Equal(raw[8:12], []byte{0, 0, 0, 1}) {
		t.Fatalf("dimension: % x", raw[8:12])
	}
	// degree=1, knot count=4 at offsets 12 and 16.
	if !bytes.Equal(raw[12:20], []byte{0, 0, 0, 1, 0, 0, 0, 4}) {
		t.Fatalf("axis header: % x", raw[12:20])
	}
	// Third knot (1.0) starts at 20 + 2*8.
	if !bytes.Equal(raw[36:44], []byte{0x3f, 0xf0, 0, 0, 0, 0, 0, 0}) {
		t.Fatalf("knot 1.0 is not big-endian: % x", raw[36:44])
	}
	// Control section: nsd, vector magic, count.
	if !bytes.Equal(raw[52:56], []byte{0, 0, 0, 1}) {
		t.Fatalf("nsd: % x", raw[52:56])
	}
	if !bytes.Equal(raw[56:60], []byte{0x00, 0x12, 0x7b, 0x4e}) {
		t.Fatalf("vector magic is not big-endian 1211214: % x", raw[56:60])
	}
	if !bytes.Equal(raw[60:64], []byte{0, 0, 0, 4}) {
		t.Fatalf("control count: % x", raw[60:64])
	}
	// Values interleave channel-fastest: x0 w0 x1 w1 = 0 1 1 1.
	for i, want := range []float64{0, 1, 1, 1} {
		got := math.Float64frombits(binary.BigEndian.Uint64(raw[64+8*i:]))
		if got != want {
			t.Fatalf("control scalar %d: got %v want %v", i, got, want)
		}
	}
}

func TestEncodeGeometryControlOrder2D(t *testing.T) {
	t.Parallel()

	c := defaultCodec(t)
	var buf bytes.Buffer
	if err := c.EncodeGeometry(&buf, surface(t)); err != nil {
		t.Fatalf("EncodeGeometry: %v", err)
	}
	raw := buf.Bytes()

	// Everything before the scalars: 10 index fields and 8 knots.
	off := 10*4 + 8*8
	got := make([]float64, 12)
	for i := range got {
		got[i] = math.Float64frombits(binary.BigEndian.Uint64(raw[off+8*i:]))
	}
	// (x, y, w) per point, points ordered with the first axis fastest:
	// (0,0), (1,0), (0,1), (1,1).
	want := []float64{
		0, 0, 1,
		1, 0, 1,
		0, 2, 1,
		1, 2, 1,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("control stream: got %v want %v", got, want)
		}
	}
}

func TestGeometryRoundTrip(t *testing.T) {
	t.Parallel()

	c := defaultCodec(t)
	orig := surface(t)

	var buf bytes.Buffer
	if err := c.EncodeGeometry(&buf, orig); err != nil {
		t.Fatalf("EncodeGeometry: %v", err)
	}
	got, err := c.DecodeGeometry(&buf)
	if err != nil {
		t.Fatalf("DecodeGeometry: %v", err)
	}

	if got.Dimension() != 2 {
		t.Fatalf("dimension: %d", got.Dimension())
	}
	if d := got.Degree(); d[0] != 1 || d[1] != 1 {
		t.Fatalf("degree: %v", d)
	}
	wantKnots := [][]float64{{0, 0, 1, 1}, {0, 0, 1, 1}}
	for i, U := range got.Knots() {
		for j := range U {
			if U[j] != wantKnots[i][j] {
				t.Fatalf("knots[%d]: %v", i, U)
			}
		}
	}
	a, b := orig.Control().Data(), got.Control().Data()
	if len(a) != len(b) {
		t.Fatalf("control length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("control[%d]: got %v want %v", i, b[i], a[i])
		}
	}
}

func TestGeometryQuadraticSurfaceRoundTrip(t *testing.T) {
	t.Parallel()

	// Biquadratic patch with a 3x3 grid over {0, 0.5, 1}^2, planar in z.
	control := tensor.New[float64](3, 3, 4)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			control.Set(float64(i)/2, i, j, 0)
			control.Set(float64(j)/2, i, j, 1)
			control.Set(1, i, j, 3)
		}
	}
	U := []float64{0, 0, 0, 1, 1, 1}
	orig, err := nurbs.New([]int{2, 2}, [][]float64{U, U}, control)
	if err != nil {
		t.Fatalf("nurbs.New: %v", err)
	}

	c := defaultCodec(t)
	var buf bytes.Buffer
	if err := c.EncodeGeometry(&buf, orig); err != nil {
		t.Fatalf("EncodeGeometry: %v", err)
	}
	got, err := c.DecodeGeometry(&buf)
	if err != nil {
		t.Fatalf("DecodeGeometry: %v", err)
	}

	if g := got.GridShape(); g[0] != 3 || g[1] != 3 {
		t.Fatalf("grid: %v", g)
	}
	for i, U := range got.Knots() {
		if len(U) != 6 {
			t.Fatalf("knots[%d]: %v", i, U)
		}
	}
	ctl := got.Control()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if x := ctl.At(i, j, 0); x != float64(i)/2 {
				t.Fatalf("x[%d,%d]: got %v", i, j, x)
			}
			if y := ctl.At(i, j, 1); y != float64(j)/2 {
				t.Fatalf("y[%d,%d]: got %v", i, j, y)
			}
			if z := ctl.At(i, j, 2); z != 0 {
				t.Fatalf("z[%d,%d]: got %v", i, j, z)
			}
			if w := ctl.At(i, j, 3); w != 1 {
				t.Fatalf("w[%d,%d]: got %v", i, j, w)
			}
		}
	}
}

func TestGeometryTopologyOnly(t *testing.T) {
	t.Parallel()

	c := defaultCodec(t)
	var buf bytes.Buffer
	if err := c.EncodeGeometry(&buf, line(t), TopologyOnly()); err != nil {
		t.Fatalf("EncodeGeometry: %v", err)
	}
	// No control section: 5 index fields plus 4 knots.
	if buf.Len() != 5*4+4*8 {
		t.Fatalf("encoded %d bytes, want %d", buf.Len(), 5*4+4*8)
	}
	got, err := c.DecodeGeometry(&buf)
	if err != nil {
		t.Fatalf("DecodeGeometry: %v", err)
	}
	if got.Control() != nil {
		t.Fatalf("topology-only decode carries control")
	}
}

func TestGeometryEmbedsInHigherSpatialDims(t *testing.T) {
	t.Parallel()

	c := defaultCodec(t)
	var buf bytes.Buffer
	if err := c.EncodeGeometry(&buf, line(t), WithSpatialDims(3)); err != nil {
		t.Fatalf("EncodeGeometry: %v", err)
	}
	// Count covers (nsd+1) channels per control point now.
	got, err := c.DecodeGeometry(&buf)
	if err != nil {
		t.Fatalf("DecodeGeometry: %v", err)
	}
	ctl := got.Control()
	if ctl == nil {
		t.Fatalf("missing control")
	}
	if ctl.At(1, 0) != 1 || ctl.At(1, 1) != 0 || ctl.At(1, 2) != 0 || ctl.At(1, 3) != 1 {
		t.Fatalf("embedded control row: %v", ctl.Data()[4:8])
	}
}

func TestGeometryOptionErrors(t *testing.T) {
	t.Parallel()

	c := defaultCodec(t)
	var buf bytes.Buffer

	if err := c.EncodeGeometry(&buf, line(t), TopologyOnly(), WithSpatialDims(2)); err == nil {
		t.Fatalf("conflicting options accepted")
	}

	topo, err := nurbs.New([]int{1}, [][]float64{{0, 0, 1, 1}}, nil)
	if err != nil {
		t.Fatalf("nurbs.New: %v", err)
	}
	if err := c.EncodeGeometry(&buf, topo, WithSpatialDims(2)); !errors.Is(err, ErrNoControl) {
		t.Fatalf("spatial dims without control: %v", err)
	}

	// nsd below the parametric dimension or above 3.
	if err := c.EncodeGeometry(&buf, surface(t), WithSpatialDims(1)); !errors.Is(err, ErrDimension) {
		t.Fatalf("nsd < dim: %v", err)
	}
	if err := c.EncodeGeometry(&buf, line(t), WithSpatialDims(4)); !errors.Is(err, ErrDimension) {
		t.Fatalf("nsd > 3: %v", err)
	}
}

func TestDecodeGeometryErrors(t *testing.T) {
	t.Parallel()

	c := defaultCodec(t)

	build := func(f func(*wireBuf)) *bytes.Reader {
		var w wireBuf
		f(&w)
		return bytes.NewReader(w.Bytes())
	}

	tests := []struct {
		name string
		in   *bytes.Reader
		want error
	}{
		{"BadMagic", build(func(w *wireBuf) {
			w.i32(1211214, 0, 1)
		}), ErrBadMagic},
		{"DimensionZero", build(func(w *wireBuf) {
			w.i32(1211299, 0, 0)
		}), ErrDimension},
		{"DimensionFour", build(func(w *wireBuf) {
			w.i32(1211299, 0, 4)
		}), ErrDimension},
		{"DegreeZero", build(func(w *wireBuf) {
			w.i32(1211299, 0, 1, 0, 4)
		}), ErrDegree},
		{"GridTooSmall", build(func(w *wireBuf) {
			// degree 1 with 3 knots leaves a single control point.
			w.i32(1211299, 0, 1, 1, 3)
			w.f64(0, 0.5, 1)
		}), ErrGridSize},
		{"TruncatedKnots", build(func(w *wireBuf) {
			w.i32(1211299, 0, 1, 1, 4)
			w.f64(0, 0)
		}), ErrShortRead},
		{"BadVectorMagic", build(func(w *wireBuf) {
			w.i32(1211299, 1, 1, 1, 4)
			w.f64(0, 0, 1, 1)
			w.i32(1, 1211299, 4)
		}), ErrBadMagic},
		{"ControlCountMismatch", build(func(w *wireBuf) {
			w.i32(1211299, 1, 1, 1, 4)
			w.f64(0, 0, 1, 1)
			w.i32(1, 1211214, 5)
			w.f64(0, 1, 1, 1, 9)
		}), ErrSizeMismatch},
		{"BadSpatialDims", build(func(w *wireBuf) {
			w.i32(1211299, 1, 1, 1, 4)
			w.f64(0, 0, 1, 1)
			w.i32(4, 1211214, 4)
		}), ErrDimension},
		{"TruncatedControl", build(func(w *wireBuf) {
			w.i32(1211299, 1, 1, 1, 4)
			w.f64(0, 0, 1, 1)
			w.i32(1, 1211214, 4)
			w.f64(0, 1)
		}), ErrShortRead},
		{"DecreasingKnots", build(func(w *wireBuf) {
			w.i32(1211299, 0, 1, 1, 4)
			w.f64(0, 1, 0.5, 1)
		}), nurbs.ErrKnotOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.DecodeGeometry(tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

// Any nonzero descriptor, including negative values, announces control
// data.
func TestDecodeGeometryDescriptorNonzero(t *testing.T) {
	t.Parallel()

	c := defaultCodec(t)
	var w wireBuf
	w.i32(1211299, -1, 1, 1, 4)
	w.f64(0, 0, 1, 1)
	w.i32(1, 1211214, 4)
	w.f64(0, 1, 1, 1)

	got, err := c.DecodeGeometry(bytes.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("DecodeGeometry: %v", err)
	}
	if got.Control() == nil {
		t.Fatalf("descriptor -1 decoded as topology-only")
	}
}

func TestGeometryComplexProfileKeepsRealPart(t *testing.T) {
	t.Parallel()

	c, err := New(Profile{Scalar: ScalarComplex})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var buf bytes.Buffer
	if err := c.EncodeGeometry(&buf, line(t)); err != nil {
		t.Fatalf("EncodeGeometry: %v", err)
	}
	// 8 index fields, 4 real knots, 4 complex control scalars.
	if buf.Len() != 8*4+4*8+4*16 {
		t.Fatalf("encoded %d bytes", buf.Len())
	}
	got, err := c.DecodeGeometry(&buf)
	if err != nil {
		t.Fatalf("DecodeGeometry: %v", err)
	}
	a, b := line(t).Control().Data(), got.Control().Data()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("control[%d]: got %v want %v", i, b[i], a[i])
		}
	}
}

func TestGeometrySinglePrecisionRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := New(Profile{Precision: PrecisionSingle})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// All values chosen representable in float32.
	var buf bytes.Buffer
	if err := c.EncodeGeometry(&buf, surface(t)); err != nil {
		t.Fatalf("EncodeGeometry: %v", err)
	}
	if buf.Len() != 10*4+8*4+12*4 {
		t.Fatalf("encoded %d bytes", buf.Len())
	}
	got, err := c.DecodeGeometry(&buf)
	if err != nil {
		t.Fatalf("DecodeGeometry: %v", err)
	}
	a, b := surface(t).Control().Data(), got.Control().Data()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("control[%d]: got %v want %v", i, b[i], a[i])
		}
	}
}
