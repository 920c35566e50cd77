package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openspline/igaio/pkg/nurbs"
	"github.com/openspline/igaio/pkg/petiga"
	"github.com/openspline/igaio/pkg/tensor"
)

func testLinePatch(t *testing.T) *nurbs.Patch {
	t.Helper()
	control := tensor.FromSlice([]float64{
		0, 0, 0, 1,
		1, 0, 0, 1,
	}, 2, 4)
	p, err := nurbs.New([]int{1}, [][]float64{{0, 0, 1, 1}}, control)
	if err != nil {
		t.Fatalf("nurbs.New returned error: %v", err)
	}
	return p
}

func TestOutputPath(t *testing.T) {
	t.Run("many files go under the out directory", func(t *testing.T) {
		got := outputPath("converted", "/data/line.dat", true)
		if want := filepath.Join("converted", "line.dat"); got != want {
			t.Fatalf("unexpected path: got %q want %q", got, want)
		}
	})

	t.Run("single file with directory out", func(t *testing.T) {
		dir := t.TempDir()
		got := outputPath(dir, "/data/line.dat", false)
		if want := filepath.Join(dir, "line.dat"); got != want {
			t.Fatalf("unexpected path: got %q want %q", got, want)
		}
	})

	t.Run("single file with file out", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "line.f32.dat")
		if got := outputPath(out, "line.dat", false); got != out {
			t.Fatalf("unexpected path: got %q want %q", got, out)
		}
	})
}

func TestConvertFile(t *testing.T) {
	in, err := petiga.New(petiga.Profile{})
	if err != nil {
		t.Fatalf("petiga.New returned error: %v", err)
	}
	out, err := petiga.New(petiga.Profile{Precision: petiga.PrecisionSingle})
	if err != nil {
		t.Fatalf("petiga.New returned error: %v", err)
	}
	dir := t.TempDir()

	t.Run("geometry", func(t *testing.T) {
		src := filepath.Join(dir, "line.dat")
		dst := filepath.Join(dir, "line.f32.dat")
		if err := in.WriteGeometry(src, testLinePatch(t)); err != nil {
			t.Fatalf("WriteGeometry returned error: %v", err)
		}

		kind, err := convertFile(in, out, src, dst, false, 0)
		if err != nil {
			t.Fatalf("convertFile returned error: %v", err)
		}
		if kind != "geometry" {
			t.Fatalf("unexpected kind: got %q want geometry", kind)
		}

		p, err := out.ReadGeometry(dst)
		if err != nil {
			t.Fatalf("ReadGeometry returned error: %v", err)
		}
		if got := p.GridShape(); len(got) != 1 || got[0] != 2 {
			t.Fatalf("unexpected grid shape: %v", got)
		}
		if got := p.Control().At(1, 0); got != 1 {
			t.Fatalf("unexpected control x: got %g want 1", got)
		}
	})

	t.Run("topology strip", func(t *testing.T) {
		src := filepath.Join(dir, "strip.dat")
		dst := filepath.Join(dir, "strip.out.dat")
		if err := in.WriteGeometry(src, testLinePatch(t)); err != nil {
			t.Fatalf("WriteGeometry returned error: %v", err)
		}

		if _, err := convertFile(in, out, src, dst, true, 0); err != nil {
			t.Fatalf("convertFile returned error: %v", err)
		}
		p, err := out.ReadGeometry(dst)
		if err != nil {
			t.Fatalf("ReadGeometry returned error: %v", err)
		}
		if p.Control() != nil {
			t.Fatalf("expected control points to be stripped")
		}
	})

	t.Run("vector", func(t *testing.T) {
		src := filepath.Join(dir, "sol.dat")
		dst := filepath.Join(dir, "sol.f32.dat")
		if err := in.WriteVec(src, []float64{1, 2, 3}, nil); err != nil {
			t.Fatalf("WriteVec returned error: %v", err)
		}

		kind, err := convertFile(in, out, src, dst, false, 0)
		if err != nil {
			t.Fatalf("convertFile returned error: %v", err)
		}
		if kind != "vec" {
			t.Fatalf("unexpected kind: got %q want vec", kind)
		}

		v, err := out.ReadVec(dst, nil)
		if err != nil {
			t.Fatalf("ReadVec returned error: %v", err)
		}
		if got := v.Data(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
			t.Fatalf("unexpected values: %v", got)
		}
	})

	t.Run("matrix", func(t *testing.T) {
		src := filepath.Join(dir, "stiff.dat")
		dst := filepath.Join(dir, "stiff.f32.dat")
		m := &petiga.CRS[float64]{
			Rows:   1,
			Cols:   1,
			RowPtr: []int64{0, 1},
			ColIdx: []int64{0},
			Values: []float64{2.5},
		}
		if err := in.WriteMat(src, m); err != nil {
			t.Fatalf("WriteMat returned error: %v", err)
		}

		kind, err := convertFile(in, out, src, dst, false, 0)
		if err != nil {
			t.Fatalf("convertFile returned error: %v", err)
		}
		if kind != "mat" {
			t.Fatalf("unexpected kind: got %q want mat", kind)
		}

		got, err := out.ReadMat(dst)
		if err != nil {
			t.Fatalf("ReadMat returned error: %v", err)
		}
		if got.Values[0] != 2.5 {
			t.Fatalf("unexpected value: got %g want 2.5", got.Values[0])
		}
	})

	t.Run("unrecognized file", func(t *testing.T) {
		src := filepath.Join(dir, "garbage.dat")
		if err := os.WriteFile(src, []byte("not a binary header"), 0o644); err != nil {
			t.Fatalf("WriteFile returned error: %v", err)
		}
		if _, err := convertFile(in, out, src, filepath.Join(dir, "garbage.out"), false, 0); err == nil {
			t.Fatalf("expected error for unrecognized file")
		}
	})
}
