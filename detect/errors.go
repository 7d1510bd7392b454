// Package detect: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the detect
// package. All functions MUST return these sentinels and tests MUST check
// them via errors.Is. No function panics on user-triggered conditions.

package detect

import "errors"

var (
	// ErrNilMatrix is returned when a nil matrix or nil CountSource is passed.
	ErrNilMatrix = errors.New("detect: nil matrix")

	// ErrBadShape is returned when the input matrix has zero rows or columns.
	ErrBadShape = errors.New("detect: empty shape")

	// ErrInvalidCount is returned when a count entry is negative, NaN or ±Inf.
	// Raw counts must be nonnegative finite numbers.
	ErrInvalidCount = errors.New("detect: invalid count entry")

	// ErrNotBinary is returned by Screen when an entry is neither 0 nor 1.
	ErrNotBinary = errors.New("detect: matrix is not binary")

	// ErrDegenerateRow is returned by Screen when a row (gene) is constant:
	// the gene is detected in every cell or in none.
	ErrDegenerateRow = errors.New("detect: constant row (degenerate gene)")

	// ErrDegenerateColumn is returned by Screen when a column (cell) is
	// constant: the cell detects every gene or none.
	ErrDegenerateColumn = errors.New("detect: constant column (degenerate cell)")

	// ErrBadTriplets is returned by NewCSR when the sparse triplets are
	// malformed (out-of-range indices, length mismatch, unsorted duplicates).
	ErrBadTriplets = errors.New("detect: malformed sparse triplets")
)
