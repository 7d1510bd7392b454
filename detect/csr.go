// Package detect - minimal CSR (compressed sparse row) count matrix.
//
// Single-cell count matrices are routinely sparse; this immutable read-only
// view satisfies gonum's mat.Matrix so sparse counts flow straight into
// Build without densification of the source data.

package detect

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// CSR is an immutable compressed-sparse-row matrix of nonnegative counts.
// Zero entries are implicit. It implements mat.Matrix and is safe for
// concurrent readers.
type CSR struct {
	rows, cols int
	rowPtr     []int     // length rows+1; rowPtr[i]..rowPtr[i+1] indexes cols/vals
	colIdx     []int     // column index per stored entry, sorted within a row
	vals       []float64 // stored (structurally nonzero) values
}

// NewCSR builds a CSR matrix from triplets (rowIdx[k], colIdx[k], vals[k]).
//
// Contract:
//   - rows, cols > 0; the three slices share one length.
//   - Indices must be in range; duplicates within a row are rejected.
//   - Triplet order is irrelevant; entries are sorted internally.
//
// Errors: ErrBadShape, ErrBadTriplets (wrapped with the offending position).
// Complexity: O(nnz log nnz) time for the sort, O(nnz) memory.
func NewCSR(rows, cols int, rowIdx, colIdx []int, vals []float64) (*CSR, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrBadShape
	}
	if len(rowIdx) != len(colIdx) || len(rowIdx) != len(vals) {
		return nil, fmt.Errorf("triplet lengths %d/%d/%d: %w",
			len(rowIdx), len(colIdx), len(vals), ErrBadTriplets)
	}

	nnz := len(vals)
	order := make([]int, nnz)
	for k := range order {
		order[k] = k
	}
	// Row-major order; ties broken by column so duplicates become adjacent.
	sort.Slice(order, func(a, b int) bool {
		ka, kb := order[a], order[b]
		if rowIdx[ka] != rowIdx[kb] {
			return rowIdx[ka] < rowIdx[kb]
		}
		return colIdx[ka] < colIdx[kb]
	})

	m := &CSR{
		rows:   rows,
		cols:   cols,
		rowPtr: make([]int, rows+1),
		colIdx: make([]int, 0, nnz),
		vals:   make([]float64, 0, nnz),
	}
	prevRow, prevCol := -1, -1
	for _, k := range order {
		i, j := rowIdx[k], colIdx[k]
		if i < 0 || i >= rows || j < 0 || j >= cols {
			return nil, fmt.Errorf("triplet (%d,%d): %w", i, j, ErrBadTriplets)
		}
		if i == prevRow && j == prevCol {
			return nil, fmt.Errorf("duplicate triplet (%d,%d): %w", i, j, ErrBadTriplets)
		}
		for r := prevRow + 1; r <= i; r++ {
			m.rowPtr[r] = len(m.vals)
		}
		m.colIdx = append(m.colIdx, j)
		m.vals = append(m.vals, vals[k])
		prevRow, prevCol = i, j
	}
	for r := prevRow + 1; r <= rows; r++ {
		m.rowPtr[r] = len(m.vals)
	}

	return m, nil
}

// Dims returns the matrix dimensions.
func (m *CSR) Dims() (r, c int) { return m.rows, m.cols }

// At returns the value at (i, j); implicit zeros for unstored positions.
// Out-of-range indices panic, matching gonum's mat.Matrix contract.
func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic("detect: CSR index out of range")
	}
	lo, hi := m.rowPtr[i], m.rowPtr[i+1]
	seg := m.colIdx[lo:hi]
	k := sort.SearchInts(seg, j)
	if k < len(seg) && seg[k] == j {
		return m.vals[lo+k]
	}

	return 0
}

// T returns the transpose view, per the mat.Matrix contract.
func (m *CSR) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.vals) }
