package petiga

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileGeometryRoundTrip(t *testing.T) {
	t.Parallel()

	c := defaultCodec(t)
	path := filepath.Join(t.TempDir(), "patch.dat")

	if err := c.WriteGeometry(path, surface(t)); err != nil {
		t.Fatalf("WriteGeometry: %v", err)
	}
	p, err := c.ReadGeometry(path)
	if err != nil {
		t.Fatalf("ReadGeometry: %v", err)
	}
	if p.Dimension() != 2 {
		t.Fatalf("dimension %d", p.Dimension())
	}
	if got := p.Control().At(1, 1, 1); got != 2 {
		t.Fatalf("control y at (1,1): %v", got)
	}
}

func TestFileVecRoundTrip(t *testing.T) {
	t.Parallel()

	c := defaultCodec(t)
	dir := t.TempDir()
	g := surface(t)
	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	path := filepath.Join(dir, "state.vec")
	if err := c.WriteVec(path, vals, g); err != nil {
		t.Fatalf("WriteVec: %v", err)
	}
	v, err := c.ReadVec(path, g)
	if err != nil {
		t.Fatalf("ReadVec: %v", err)
	}
	if v.Rank() != 3 || v.At(1, 0, 1) != 6 {
		t.Fatalf("rank %d value %v", v.Rank(), v.Data())
	}

	// Without a grid the vector comes back flat.
	flat, err := c.ReadVec(path, nil)
	if err != nil {
		t.Fatalf("ReadVec flat: %v", err)
	}
	if flat.Rank() != 1 || flat.Len() != 8 {
		t.Fatalf("flat rank %d len %d", flat.Rank(), flat.Len())
	}
}

func TestFileMatRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := New(Profile{Precision: PrecisionSingle, Indices: Index64})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	path := filepath.Join(t.TempDir(), "stiffness.mat")

	if err := c.WriteMat(path, sampleCRS()); err != nil {
		t.Fatalf("WriteMat: %v", err)
	}
	m, err := c.ReadMat(path)
	if err != nil {
		t.Fatalf("ReadMat: %v", err)
	}
	if m.Rows != 3 || m.Cols != 4 || m.NNZ() != 4 {
		t.Fatalf("shape %dx%d nnz %d", m.Rows, m.Cols, m.NNZ())
	}
	if m.Values[3] != 4 {
		t.Fatalf("values %v", m.Values)
	}
}

func TestFileTruncated(t *testing.T) {
	t.Parallel()

	c := defaultCodec(t)
	path := filepath.Join(t.TempDir(), "cut.dat")
	if err := c.WriteGeometry(path, line(t)); err != nil {
		t.Fatalf("WriteGeometry: %v", err)
	}
	if err := os.Truncate(path, 20); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if _, err := c.ReadGeometry(path); !errors.Is(err, ErrShortRead) {
		t.Fatalf("got %v, want %v", err, ErrShortRead)
	}
}

func TestFileEmpty(t *testing.T) {
	t.Parallel()

	c := defaultCodec(t)
	path := filepath.Join(t.TempDir(), "empty.vec")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := c.ReadVec(path, nil); !errors.Is(err, ErrShortRead) {
		t.Fatalf("got %v, want %v", err, ErrShortRead)
	}
}

func TestFileMissing(t *testing.T) {
	t.Parallel()

	c := defaultCodec(t)
	if _, err := c.ReadMat(filepath.Join(t.TempDir(), "absent.mat")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
