package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/openspline/igaio/pkg/petiga"
)

func main() {
	var (
		kind      = flag.String("kind", "auto", "file kind (auto, geometry, vec, mat)")
		precision = flag.String("precision", "double", "wire precision (double, single)")
		scalar    = flag.String("scalar", "real", "scalar kind (real, complex)")
		indices   = flag.String("indices", "32bit", "index width (32bit, 64bit)")
		showKnots = flag.Bool("knots", false, "print full knot vectors")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: igadump [--kind K] [--precision P] [--scalar S] [--indices W] [--knots] <file>...")
		os.Exit(2)
	}

	codec, err := buildCodec(*precision, *scalar, *indices)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	for _, path := range flag.Args() {
		if err := dump(codec, path, *kind, *showKnots); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	}
}

func buildCodec(precision, scalar, indices string) (*petiga.Codec, error) {
	p, err := petiga.ParsePrecision(precision)
	if err != nil {
		return nil, err
	}
	s, err := petiga.ParseScalarKind(scalar)
	if err != nil {
		return nil, err
	}
	w, err := petiga.ParseIndexWidth(indices)
	if err != nil {
		return nil, err
	}
	return petiga.New(petiga.Profile{Precision: p, Scalar: s, Indices: w})
}

func dump(c *petiga.Codec, path, kind string, showKnots bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("File: %s (%d bytes, profile %s)\n", path, len(data), c.Profile())

	switch kind {
	case "geometry":
		return dumpGeometry(c, data, showKnots)
	case "vec":
		return dumpVec(c, data)
	case "mat":
		return dumpMat(c, data)
	case "auto":
		if err := dumpGeometry(c, data, showKnots); !errors.Is(err, petiga.ErrBadMagic) {
			return err
		}
		if err := dumpVec(c, data); !errors.Is(err, petiga.ErrBadMagic) {
			return err
		}
		return dumpMat(c, data)
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}
}

func dumpGeometry(c *petiga.Codec, data []byte, showKnots bool) error {
	p, err := c.DecodeGeometry(bytes.NewReader(data))
	if err != nil {
		return err
	}
	control := "yes"
	if p.Control() == nil {
		control = "no"
	}
	fmt.Printf("geometry | dim=%d | grid=%v | control=%s\n", p.Dimension(), p.GridShape(), control)
	knots := p.Knots()
	for axis, deg := range p.Degree() {
		U := knots[axis]
		fmt.Printf("  axis %d: degree %d, %d knots, domain [%g, %g]\n",
			axis, deg, len(U), U[deg], U[len(U)-1-deg])
		if showKnots {
			fmt.Printf("    knots: %v\n", U)
		}
	}
	return nil
}

func dumpVec(c *petiga.Codec, data []byte) error {
	if c.Profile().Scalar == petiga.ScalarComplex {
		v, err := c.DecodeVecComplex(bytes.NewReader(data), nil)
		if err != nil {
			return err
		}
		fmt.Printf("vec | length=%d | complex\n", v.Len())
		return nil
	}
	v, err := c.DecodeVec(bytes.NewReader(data), nil)
	if err != nil {
		return err
	}
	lo, hi := bounds(v.Data())
	fmt.Printf("vec | length=%d | min=%g | max=%g\n", v.Len(), lo, hi)
	return nil
}

func dumpMat(c *petiga.Codec, data []byte) error {
	if c.Profile().Scalar == petiga.ScalarComplex {
		m, err := c.DecodeMatComplex(bytes.NewReader(data))
		if err != nil {
			return err
		}
		fmt.Printf("mat | rows=%d | cols=%d | nnz=%d | complex\n", m.Rows, m.Cols, len(m.Values))
		return nil
	}
	m, err := c.DecodeMat(bytes.NewReader(data))
	if err != nil {
		return err
	}
	fmt.Printf("mat | rows=%d | cols=%d | nnz=%d\n", m.Rows, m.Cols, len(m.Values))
	return nil
}

func bounds(vals []float64) (float64, float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
