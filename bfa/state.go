// Package bfa - fit state construction and fail-fast validation.
//
// newFitState performs every input check the contract promises BEFORE any
// optimization work: scalar options, detection-matrix screening, covariate
// conformance. A fitState that survives construction can only fail later
// with ErrIllConditioned.

package bfa

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/binfa/converge"
	"github.com/katalvlaran/binfa/detect"
)

// fitState carries everything one Fit call mutates. Nothing here is shared
// across calls; the input matrices are read, never written.
type fitState struct {
	opts *Options
	ctrl converge.Controller

	nGenes, nCells, rank int

	y *mat.Dense // N×G detection values, cells as rows (transposed copy of D)
	x *mat.Dense // N×P cell covariates (ones column when absent)
	w *mat.Dense // G×Q gene covariates (ones column when absent)

	v      *mat.Dense // N×K effective coordinates, V = Z + X·β
	a      *mat.Dense // G×K loadings
	offset []float64  // per-gene offset u_g = W[g,:]·γ[g,:]

	// wRowInvSq[g] = 1/‖W[g,:]‖², used by the minimum-norm γ split.
	wRowInvSq []float64

	logLik       []float64
	warnings     []error
	warnDecrease bool // WarnLogLikDecrease recorded at most once
}

// newFitState validates all inputs and assembles the working state.
// Error order: options → D shape/rank → D screening → covariate shapes.
func newFitState(d mat.Matrix, k int, o *Options) (*fitState, error) {
	if err := validateOptions(o); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNilMatrix
	}

	g, n := d.Dims()
	if g < 2 || n < 2 {
		return nil, fmt.Errorf("shape %dx%d: %w", g, n, ErrDimensionMismatch)
	}
	minDim := g
	if n < g {
		minDim = n
	}
	if k < 1 || k >= minDim {
		return nil, fmt.Errorf("K=%d with min(N,G)=%d: %w", k, minDim, ErrBadRank)
	}

	if err := detect.Screen(d); err != nil {
		switch {
		case errors.Is(err, detect.ErrNotBinary):
			return nil, fmt.Errorf("%w: %v", ErrNotBinary, err)
		case errors.Is(err, detect.ErrDegenerateRow), errors.Is(err, detect.ErrDegenerateColumn):
			return nil, fmt.Errorf("%w: %v", ErrDegenerateInput, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrDimensionMismatch, err)
		}
	}

	s := &fitState{
		opts:   o,
		ctrl:   o.controller(),
		nGenes: g,
		nCells: n,
		rank:   k,
	}

	// Transposed working copy: cells as rows keeps both sweeps row-major.
	s.y = mat.NewDense(n, g, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < g; j++ {
			s.y.Set(i, j, d.At(j, i))
		}
	}

	var err error
	if s.x, err = conformCovariates(o.CellCovariates, n, "cell"); err != nil {
		return nil, err
	}
	if s.w, err = conformCovariates(o.GeneCovariates, g, "gene"); err != nil {
		return nil, err
	}
	if _, p := s.x.Dims(); p >= n {
		return nil, fmt.Errorf("cell covariates: %d columns for %d cells: %w", p, n, ErrDimensionMismatch)
	}

	// The γ split needs every gene-covariate row to have nonzero norm.
	_, q := s.w.Dims()
	s.wRowInvSq = make([]float64, g)
	for i := 0; i < g; i++ {
		norm := 0.0
		for j := 0; j < q; j++ {
			wv := s.w.At(i, j)
			norm += wv * wv
		}
		if norm == 0 {
			return nil, fmt.Errorf("gene covariate row %d is zero: %w", i, ErrDegenerateInput)
		}
		s.wRowInvSq[i] = 1 / norm
	}

	return s, nil
}

// conformCovariates returns the given covariate matrix after shape and
// finiteness checks, or the intercept-only ones column when cov is nil.
func conformCovariates(cov *mat.Dense, rows int, kind string) (*mat.Dense, error) {
	if cov == nil {
		ones := mat.NewDense(rows, 1, nil)
		for i := 0; i < rows; i++ {
			ones.Set(i, 0, 1)
		}

		return ones, nil
	}

	r, c := cov.Dims()
	if r != rows || c < 1 {
		return nil, fmt.Errorf("%s covariates %dx%d, want %d rows: %w", kind, r, c, rows, ErrDimensionMismatch)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := cov.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%s covariate (%d,%d)=%v: %w", kind, i, j, v, ErrDimensionMismatch)
			}
		}
	}

	return cov, nil
}

// warn appends a non-fatal sentinel to the warning list.
func (s *fitState) warn(w error) {
	s.warnings = append(s.warnings, w)
}
