// Package binpca: sentinel error set.
// All failure modes are package-level sentinels matched via errors.Is.
// Warnings are sentinels too, but they ride in Result.Warnings and never
// abort a fit.

package binpca

import "errors"

var (
	// ErrNilMatrix is returned when the detection matrix or options pointer
	// target is nil where required.
	ErrNilMatrix = errors.New("binpca: nil matrix")

	// ErrDimensionMismatch is returned on impossible shapes (empty matrix).
	ErrDimensionMismatch = errors.New("binpca: dimension mismatch")

	// ErrBadRank is returned when K is outside 1 <= K < min(N, G).
	ErrBadRank = errors.New("binpca: rank out of range")

	// ErrNotBinary is returned when the input contains entries other than 0 and 1.
	ErrNotBinary = errors.New("binpca: input is not a binary detection matrix")

	// ErrDegenerateInput is returned when a row or column of the detection
	// matrix is constant; zero variance breaks the residual transform.
	ErrDegenerateInput = errors.New("binpca: degenerate input (constant row or column)")

	// ErrDecompositionFailed is returned when the SVD does not converge.
	ErrDecompositionFailed = errors.New("binpca: singular value decomposition failed")

	// ErrBadOptions is returned when option fields are outside their
	// documented ranges.
	ErrBadOptions = errors.New("binpca: invalid options")

	// WarnVarianceClipped reports that one or more detection frequencies sat
	// within VarFloor of 0 or 1 and were clipped before the transform.
	// Attached to Result.Warnings; never fatal.
	WarnVarianceClipped = errors.New("binpca: near-zero variance frequencies clipped")
)
