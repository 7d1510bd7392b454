// Package detect builds binary gene-detection matrices from raw single-cell
// count matrices and screens them for degeneracy.
//
// What & Why:
//
//	Downstream factor models (bfa, binpca) consume a genes×cells matrix D
//	with D[g,n] = 1 iff gene g has a nonzero count in cell n. Building D is
//	trivial; the value of this package is a single, canonical place for the
//	conversion and for the fail-fast screens both engines share:
//	binariness, and the "no constant row or column" invariant that every
//	decomposition downstream relies on.
//
// Inputs:
//
//   - Any gonum mat.Matrix (dense or sparse — a minimal CSR type is
//     provided for sparse in-memory counts).
//   - An experiment-container-style object exposing Counts() (see
//     CountSource), matching pipelines that wrap the raw matrix.
//
// Errors:
//
//	All failure modes are package-level sentinels (ErrBadShape,
//	ErrInvalidCount, ErrNotBinary, ErrDegenerateRow, ErrDegenerateColumn)
//	matched via errors.Is. Builders never panic on user input.
//
// Determinism & Performance:
//
//	All functions are pure and deterministic. Build and Screen run a single
//	O(G·N) pass; Summary reuses the same pass structure.
package detect
