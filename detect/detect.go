// Package detect - DetectionMatrixBuilder.
//
// This file holds the builder itself (Build, BuildFrom), the shared
// degeneracy screen (Screen) and the detection-frequency summary (Summary).
//
// Design principles:
//   - Deterministic, side-effect free functions.
//   - No logging, no panics on user input - only sentinel errors from errors.go.
//   - Single O(G·N) pass per function; no hidden allocations beyond results.

package detect

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// CountSource is the minimal experiment-container surface the builder
// understands: anything that can hand over its raw count matrix. Container
// objects in single-cell pipelines wrap the counts together with metadata;
// only the matrix is of interest here.
type CountSource interface {
	// Counts returns the raw count matrix (rows = genes, columns = cells).
	Counts() mat.Matrix
}

// Build converts a raw count matrix into a binary detection matrix.
//
// Contract:
//   - counts must be non-nil with positive dimensions.
//   - Entries must be nonnegative and finite; violations return
//     ErrInvalidCount wrapped with the offending position.
//   - D[i,j] = 1 iff counts[i,j] > 0, else 0.
//
// Complexity: O(G·N) time, O(G·N) result memory.
func Build(counts mat.Matrix) (*mat.Dense, error) {
	if counts == nil {
		return nil, ErrNilMatrix
	}
	r, c := counts.Dims()
	if r == 0 || c == 0 {
		return nil, ErrBadShape
	}

	d := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := counts.At(i, j)
			// Counts are nonnegative by construction; reject anything else
			// before it can silently poison a downstream fit.
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return nil, fmt.Errorf("entry (%d,%d)=%v: %w", i, j, v, ErrInvalidCount)
			}
			if v > 0 {
				d.Set(i, j, 1)
			}
		}
	}

	return d, nil
}

// BuildFrom unwraps an experiment-container-style source and builds the
// detection matrix from its counts. Equivalent to Build(src.Counts()).
func BuildFrom(src CountSource) (*mat.Dense, error) {
	if src == nil {
		return nil, ErrNilMatrix
	}

	return Build(src.Counts())
}

// Screen verifies that d is a valid detection matrix for factor fitting:
// strictly binary, with no constant row (gene) and no constant column (cell).
//
// The engines call Screen before any decomposition; a constant row or column
// has zero variance and breaks both the logit transform and the IRLS weights.
//
// Errors: ErrNilMatrix, ErrBadShape, ErrNotBinary, ErrDegenerateRow,
// ErrDegenerateColumn — each wrapped with the offending index.
// Complexity: O(G·N) time, O(N) extra space for column accumulators.
func Screen(d mat.Matrix) error {
	if d == nil {
		return ErrNilMatrix
	}
	r, c := d.Dims()
	if r == 0 || c == 0 {
		return ErrBadShape
	}

	// Column sums accumulate during the row pass so a single sweep covers
	// both directions.
	colSum := make([]float64, c)
	for i := 0; i < r; i++ {
		rowSum := 0.0
		for j := 0; j < c; j++ {
			v := d.At(i, j)
			if v != 0 && v != 1 {
				return fmt.Errorf("entry (%d,%d)=%v: %w", i, j, v, ErrNotBinary)
			}
			rowSum += v
			colSum[j] += v
		}
		if rowSum == 0 || rowSum == float64(c) {
			return fmt.Errorf("row %d: %w", i, ErrDegenerateRow)
		}
	}
	for j := 0; j < c; j++ {
		if colSum[j] == 0 || colSum[j] == float64(r) {
			return fmt.Errorf("column %d: %w", j, ErrDegenerateColumn)
		}
	}

	return nil
}

// Summary returns per-gene and per-cell detection frequencies of a binary
// detection matrix: rowFreq[g] is the fraction of cells detecting gene g,
// colFreq[n] is the fraction of genes detected in cell n.
//
// Summary validates binariness but not degeneracy; QC inspection of
// frequencies is legitimate on matrices that Screen would reject.
// Complexity: O(G·N).
func Summary(d mat.Matrix) (rowFreq, colFreq []float64, err error) {
	if d == nil {
		return nil, nil, ErrNilMatrix
	}
	r, c := d.Dims()
	if r == 0 || c == 0 {
		return nil, nil, ErrBadShape
	}

	rowFreq = make([]float64, r)
	colFreq = make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := d.At(i, j)
			if v != 0 && v != 1 {
				return nil, nil, fmt.Errorf("entry (%d,%d)=%v: %w", i, j, v, ErrNotBinary)
			}
			rowFreq[i] += v
			colFreq[j] += v
		}
	}
	for i := range rowFreq {
		rowFreq[i] /= float64(c)
	}
	for j := range colFreq {
		colFreq[j] /= float64(r)
	}

	return rowFreq, colFreq, nil
}
