package petiga

import "errors"

// Decode and encode failures wrap one of these sentinels; all of them are
// final, there is no recovery or resynchronisation mid-stream.
var (
	ErrBadMagic           = errors.New("invalid PetIGA magic")
	ErrDimension          = errors.New("dimension out of range")
	ErrDegree             = errors.New("invalid basis degree")
	ErrGridSize           = errors.New("control grid too small")
	ErrSizeMismatch       = errors.New("declared size does not match data")
	ErrShortRead          = errors.New("unexpected end of input")
	ErrUnsupportedProfile = errors.New("unsupported numeric profile")
	ErrScalarKind         = errors.New("scalar kind mismatch")
	ErrIndexRange         = errors.New("index value does not fit 32-bit indices")
	ErrNoControl          = errors.New("geometry has no control data")
)
