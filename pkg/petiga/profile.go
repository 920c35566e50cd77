package petiga

import "fmt"

// Precision selects the width of real wire elements.
type Precision int

const (
	PrecisionDouble Precision = iota
	PrecisionSingle
)

func (p Precision) String() string {
	switch p {
	case PrecisionDouble:
		return "double"
	case PrecisionSingle:
		return "single"
	default:
		return fmt.Sprintf("precision(%d)", int(p))
	}
}

// ParsePrecision accepts the PetIGA spellings "double" and "single".
func ParsePrecision(s string) (Precision, error) {
	switch s {
	case "double":
		return PrecisionDouble, nil
	case "single":
		return PrecisionSingle, nil
	default:
		return 0, fmt.Errorf("%w: precision %q", ErrUnsupportedProfile, s)
	}
}

// ScalarKind selects whether wire scalars are real or complex values.
type ScalarKind int

const (
	ScalarReal ScalarKind = iota
	ScalarComplex
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarReal:
		return "real"
	case ScalarComplex:
		return "complex"
	default:
		return fmt.Sprintf("scalar(%d)", int(k))
	}
}

// ParseScalarKind accepts the PetIGA spellings "real" and "complex".
func ParseScalarKind(s string) (ScalarKind, error) {
	switch s {
	case "real":
		return ScalarReal, nil
	case "complex":
		return ScalarComplex, nil
	default:
		return 0, fmt.Errorf("%w: scalar kind %q", ErrUnsupportedProfile, s)
	}
}

// IndexWidth selects the width of index wire elements.
type IndexWidth int

const (
	Index32 IndexWidth = iota
	Index64
)

func (w IndexWidth) String() string {
	switch w {
	case Index32:
		return "32bit"
	case Index64:
		return "64bit"
	default:
		return fmt.Sprintf("indices(%d)", int(w))
	}
}

// ParseIndexWidth accepts the PetIGA spellings "32bit" and "64bit".
func ParseIndexWidth(s string) (IndexWidth, error) {
	switch s {
	case "32bit":
		return Index32, nil
	case "64bit":
		return Index64, nil
	default:
		return 0, fmt.Errorf("%w: index width %q", ErrUnsupportedProfile, s)
	}
}

// Profile names the numeric build configuration of the PetIGA installation
// that produced or will consume a set of files. The zero value matches the
// PetIGA defaults: double precision, real scalars, 32-bit indices.
type Profile struct {
	Precision Precision
	Scalar    ScalarKind
	Indices   IndexWidth
}

func (p Profile) String() string {
	return fmt.Sprintf("%s/%s/%s", p.Precision, p.Scalar, p.Indices)
}

// Codec encodes and decodes wire elements for one resolved Profile. It is
// immutable and safe for concurrent use.
type Codec struct {
	profile    Profile
	indexSize  int
	realSize   int
	scalarSize int
}

// New resolves a profile into a codec, rejecting enum values outside the
// supported sets.
func New(p Profile) (*Codec, error) {
	c := &Codec{profile: p}
	switch p.Indices {
	case Index32:
		c.indexSize = 4
	case Index64:
		c.indexSize = 8
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProfile, p.Indices)
	}
	switch p.Precision {
	case PrecisionDouble:
		c.realSize = 8
	case PrecisionSingle:
		c.realSize = 4
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProfile, p.Precision)
	}
	switch p.Scalar {
	case ScalarReal:
		c.scalarSize = c.realSize
	case ScalarComplex:
		c.scalarSize = 2 * c.realSize
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProfile, p.Scalar)
	}
	return c, nil
}

// Profile returns the profile the codec was built from.
func (c *Codec) Profile() Profile { return c.profile }
