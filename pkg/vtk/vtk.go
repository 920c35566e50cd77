// Package vtk exports patches and attached solution fields in the legacy
// VTK 2.0 file format: ASCII header lines followed by big-endian float64
// payloads. Geometry exports sample the mapped surface onto a structured
// grid; parametric exports keep the knot axes as a rectilinear grid. The
// format is write-only, the files are meant for ParaView and friends.
package vtk

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/openspline/igaio/pkg/nurbs"
	"github.com/openspline/igaio/pkg/tensor"
)

var (
	// ErrNoFields means scalar or vector attributes were requested
	// without a field coefficient grid to evaluate them from.
	ErrNoFields = errors.New("vtk: attributes requested without field coefficients")

	// ErrComponent means an attribute addresses a field component that
	// the coefficient grid does not have.
	ErrComponent = errors.New("vtk: field component out of range")
)

// ScalarAttr selects one field component as a named SCALARS attribute.
type ScalarAttr struct {
	Name      string
	Component int
}

// VectorAttr bundles up to three field components as a named VECTORS
// attribute. Missing trailing components are written as zero.
type VectorAttr struct {
	Name       string
	Components []int
}

// Options controls a single export.
type Options struct {
	// Title is the second header line, truncated to 255 bytes.
	// Empty means "VTK Data".
	Title string

	// Parametric selects a RECTILINEAR_GRID over the knot axes instead
	// of sampling the mapped geometry. Works without control points as
	// long as no attributes are requested.
	Parametric bool

	// Sampler maps the distinct knots of an axis to the actual sample
	// sites, for example by subdividing each span. Nil keeps the knots.
	Sampler func(breaks []float64) []float64

	// Fields holds solution coefficients over the control grid, shaped
	// (n_1, ..., n_d, nf) or (n_1, ..., n_d). Only evaluated when
	// attributes ask for it.
	Fields  *tensor.Dense[float64]
	Scalars []ScalarAttr
	Vectors []VectorAttr
}

// Refine returns a sampler that splits every span between consecutive
// breaks into n equal segments. n <= 1 keeps the breaks unchanged.
func Refine(n int) func(breaks []float64) []float64 {
	return func(breaks []float64) []float64 {
		if n <= 1 || len(breaks) < 2 {
			return breaks
		}
		out := make([]float64, 0, (len(breaks)-1)*n+1)
		out = append(out, breaks[0])
		for i := 1; i < len(breaks); i++ {
			a, b := breaks[i-1], breaks[i]
			for j := 1; j < n; j++ {
				out = append(out, a+(b-a)*float64(j)/float64(n))
			}
			out = append(out, b)
		}
		return out
	}
}

// Write samples the patch and writes a complete legacy VTK dataset.
func Write(w io.Writer, p *nurbs.Patch, opts Options) error {
	dim := p.Dimension()
	sites := make([][]float64, dim)
	counts := make([]int, dim)
	total := 1
	for k := 0; k < dim; k++ {
		s := p.SpanBreaks(k)
		if opts.Sampler != nil {
			s = opts.Sampler(s)
		}
		if len(s) == 0 {
			return fmt.Errorf("vtk: no sample sites on axis %d", k)
		}
		sites[k] = s
		counts[k] = len(s)
		total *= len(s)
	}

	var fields *tensor.Dense[float64]
	nf := 0
	if len(opts.Scalars) > 0 || len(opts.Vectors) > 0 {
		if opts.Fields == nil {
			return ErrNoFields
		}
		f, err := p.EvaluateFields(sites, opts.Fields)
		if err != nil {
			return err
		}
		fields = f
		nf = f.Shape()[dim]
		if err := checkAttrs(opts, nf); err != nil {
			return err
		}
	}

	var points *tensor.Dense[float64]
	if !opts.Parametric {
		pts, err := p.Evaluate(sites)
		if err != nil {
			return err
		}
		points = pts
	}

	title := opts.Title
	if title == "" {
		title = "VTK Data"
	}
	if len(title) > 255 {
		title = title[:255]
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# vtk DataFile Version 2.0\n%s\nBINARY\n", title)

	dims := [3]int{1, 1, 1}
	copy(dims[:], counts)

	if opts.Parametric {
		fmt.Fprintf(bw, "DATASET RECTILINEAR_GRID\n")
		fmt.Fprintf(bw, "DIMENSIONS %d %d %d\n", dims[0], dims[1], dims[2])
		for k, label := range [...]string{"X_COORDINATES", "Y_COORDINATES", "Z_COORDINATES"} {
			axis := []float64{0}
			if k < dim {
				axis = sites[k]
			}
			fmt.Fprintf(bw, "%s %d double\n", label, len(axis))
			if err := payload(bw, axis); err != nil {
				return err
			}
		}
	} else {
		fmt.Fprintf(bw, "DATASET STRUCTURED_GRID\n")
		fmt.Fprintf(bw, "DIMENSIONS %d %d %d\n", dims[0], dims[1], dims[2])
		fmt.Fprintf(bw, "POINTS %d double\n", total)
		if err := payload(bw, tensor.PackChannelMajor(points.Data(), counts, 3, nil)); err != nil {
			return err
		}
	}

	if fields != nil {
		fmt.Fprintf(bw, "POINT_DATA %d\n", total)
		for i, a := range opts.Scalars {
			fmt.Fprintf(bw, "SCALARS %s double\nLOOKUP_TABLE default\n", attrName("scalars", i, a.Name))
			col := tensor.PackChannelMajor(fields.Data(), counts, nf, []int{a.Component})
			if err := payload(bw, col); err != nil {
				return err
			}
		}
		for i, a := range opts.Vectors {
			fmt.Fprintf(bw, "VECTORS %s double\n", attrName("vectors", i, a.Name))
			if err := payload(bw, vectorTriples(fields.Data(), counts, nf, a.Components, total)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteFile writes the export to a new file at path.
func WriteFile(path string, p *nurbs.Patch, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, p, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func checkAttrs(opts Options, nf int) error {
	for _, a := range opts.Scalars {
		if a.Component < 0 || a.Component >= nf {
			return fmt.Errorf("%w: scalar %q wants component %d of %d", ErrComponent, a.Name, a.Component, nf)
		}
	}
	for _, a := range opts.Vectors {
		if len(a.Components) == 0 || len(a.Components) > 3 {
			return fmt.Errorf("%w: vector %q lists %d components", ErrComponent, a.Name, len(a.Components))
		}
		for _, c := range a.Components {
			if c < 0 || c >= nf {
				return fmt.Errorf("%w: vector %q wants component %d of %d", ErrComponent, a.Name, c, nf)
			}
		}
	}
	return nil
}

// vectorTriples packs the selected components sample by sample and pads
// each sample to three values.
func vectorTriples(data []float64, counts []int, nf int, comps []int, total int) []float64 {
	packed := tensor.PackChannelMajor(data, counts, nf, comps)
	if len(comps) == 3 {
		return packed
	}
	out := make([]float64, total*3)
	for g := 0; g < total; g++ {
		copy(out[g*3:], packed[g*len(comps):(g+1)*len(comps)])
	}
	return out
}

func attrName(kind string, i int, name string) string {
	if name == "" {
		name = kind + strconv.Itoa(i)
	}
	return strings.ReplaceAll(name, " ", "_")
}

// payload writes values as big-endian float64 and the newline the legacy
// format expects after every binary section.
func payload(w *bufio.Writer, vals []float64) error {
	var b [8]byte
	for _, v := range vals {
		binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}
