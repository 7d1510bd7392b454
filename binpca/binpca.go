// Package binpca - BinaryPCA engine.
//
// Algorithm outline:
//  1. Validate shape and rank; screen the detection matrix (fail fast,
//     before any numeric work).
//  2. Compute per-gene detection frequencies p_g; clip frequencies within
//     VarFloor of {0,1} and record WarnVarianceClipped.
//  3. Build the standardized residual surrogate
//     Y[n,g] = (D[g,n] − p_g) / √(p_g·(1−p_g)), cells as rows.
//  4. Thin SVD of Y; keep the top K components.
//  5. Scores = U_K·diag(s_K) (N×K), Loadings = V_K (G×K),
//     ExplainedVariance[k] = s_k² / Σ_i s_i².
//
// Complexity: O(G·N) for the transform plus one thin SVD of an N×G matrix.
// Deterministic; no state survives the call.

package binpca

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/binfa/detect"
)

// DefaultVarFloor is the default clip distance from {0,1} for detection
// frequencies. Frequencies closer than this to a boundary would blow up the
// 1/√(p(1−p)) standardization.
const DefaultVarFloor = 1e-8

// Options configures a BinaryPCA fit.
type Options struct {
	// VarFloor clips detection frequencies into [VarFloor, 1−VarFloor]
	// before standardization. Must be in (0, 0.5).
	VarFloor float64

	// Logger receives per-fit debug events. Defaults to a no-op logger;
	// the engine never prints on its own.
	Logger zerolog.Logger
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		VarFloor: DefaultVarFloor,
		Logger:   zerolog.Nop(),
	}
}

// Result holds the outcome of a BinaryPCA fit.
type Result struct {
	// Scores is the N×K cell embedding: left singular vectors scaled by
	// singular values, one row per cell.
	Scores *mat.Dense

	// Loadings is the G×K gene loading matrix: right singular vectors.
	Loadings *mat.Dense

	// ExplainedVariance holds, per component, the fraction of total
	// variance of the transformed matrix captured by that component.
	ExplainedVariance []float64

	// Warnings carries non-fatal sentinels (WarnVarianceClipped).
	Warnings []error
}

// Fit computes the rank-K BinaryPCA embedding of the G×N detection matrix d.
//
// Contract:
//   - d binary with no constant row or column (ErrNotBinary,
//     ErrDegenerateInput otherwise — checked before the decomposition).
//   - 1 <= k < min(N, G) (ErrBadRank otherwise).
//   - opts may be nil; defaults apply.
//
// The call is idempotent: identical inputs yield identical outputs.
func Fit(d mat.Matrix, k int, opts *Options) (*Result, error) {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if math.IsNaN(o.VarFloor) || o.VarFloor <= 0 || o.VarFloor >= 0.5 {
		return nil, fmt.Errorf("VarFloor=%v: %w", o.VarFloor, ErrBadOptions)
	}

	g, n, err := validate(d, k)
	if err != nil {
		return nil, err
	}

	res := &Result{}

	// Stage 1: per-gene detection frequencies, clipped away from {0,1}.
	freq, _, err := detect.Summary(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotBinary, err)
	}
	clipped := 0
	for i, p := range freq {
		if p < o.VarFloor {
			freq[i] = o.VarFloor
			clipped++
		} else if p > 1-o.VarFloor {
			freq[i] = 1 - o.VarFloor
			clipped++
		}
	}
	if clipped > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Errorf("%d frequencies: %w", clipped, WarnVarianceClipped))
	}

	// Stage 2: standardized residual surrogate, cells as rows.
	y := mat.NewDense(n, g, nil)
	for j := 0; j < g; j++ {
		p := freq[j]
		inv := 1 / math.Sqrt(p*(1-p))
		for i := 0; i < n; i++ {
			y.Set(i, j, (d.At(j, i)-p)*inv)
		}
	}

	// Stage 3: thin SVD and truncation.
	var svd mat.SVD
	if ok := svd.Factorize(y, mat.SVDThin); !ok {
		return nil, ErrDecompositionFailed
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	scores := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			scores.Set(i, j, u.At(i, j)*s[j])
		}
	}
	loadings := mat.NewDense(g, k, nil)
	for i := 0; i < g; i++ {
		for j := 0; j < k; j++ {
			loadings.Set(i, j, v.At(i, j))
		}
	}

	total := 0.0
	for _, sv := range s {
		total += sv * sv
	}
	explained := make([]float64, k)
	for j := 0; j < k; j++ {
		explained[j] = s[j] * s[j] / total
	}

	res.Scores = scores
	res.Loadings = loadings
	res.ExplainedVariance = explained

	o.Logger.Debug().
		Int("genes", g).
		Int("cells", n).
		Int("rank", k).
		Int("clipped", clipped).
		Float64("explained_total", floats.Sum(explained)).
		Msg("binpca fit complete")

	return res, nil
}

// validate runs the fail-fast guards: shape, rank range, binariness and
// degeneracy — all before any decomposition work. Returns (G, N) on success.
func validate(d mat.Matrix, k int) (g, n int, err error) {
	if d == nil {
		return 0, 0, ErrNilMatrix
	}
	g, n = d.Dims()
	if g < 2 || n < 2 {
		return 0, 0, fmt.Errorf("shape %dx%d: %w", g, n, ErrDimensionMismatch)
	}
	minDim := g
	if n < g {
		minDim = n
	}
	if k < 1 || k >= minDim {
		return 0, 0, fmt.Errorf("K=%d with min(N,G)=%d: %w", k, minDim, ErrBadRank)
	}

	if err = detect.Screen(d); err != nil {
		switch {
		case errors.Is(err, detect.ErrNotBinary):
			return 0, 0, fmt.Errorf("%w: %v", ErrNotBinary, err)
		case errors.Is(err, detect.ErrDegenerateRow), errors.Is(err, detect.ErrDegenerateColumn):
			return 0, 0, fmt.Errorf("%w: %v", ErrDegenerateInput, err)
		default:
			return 0, 0, fmt.Errorf("%w: %v", ErrDimensionMismatch, err)
		}
	}

	return g, n, nil
}
