// Package petiga reads and writes the PetIGA binary formats: geometry
// files describing tensor-product NURBS patches, coefficient vectors, and
// sparse matrices in compressed row storage.
//
// Every format shares one wire convention: big-endian elements whose
// widths are fixed by a Profile, resolved once into a Codec. In-memory
// values always use the full-width Go types (int64, float64, complex128);
// the profile only governs the encoding on disk.
//
// A Codec holds no mutable state and decoded values are always copies, so
// a single Codec may be shared across goroutines. Concurrent access to
// the same file or stream still needs external coordination.
package petiga

// PETSc object classids, the magic numbers opening every file.
const (
	MagicGeometry = 1211299
	MagicVector   = 1211214
	MagicMatrix   = 1211216
)
