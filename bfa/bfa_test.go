package bfa_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/binfa/bfa"
)

// exampleDetection is the 4 genes × 3 cells matrix shared across the engine
// tests.
func exampleDetection() *mat.Dense {
	return mat.NewDense(4, 3, []float64{
		1, 0, 1,
		0, 1, 1,
		1, 1, 0,
		0, 0, 1,
	})
}

// syntheticDetection builds a larger deterministic detection matrix with
// planted two-factor structure (no randomness: thresholded harmonics).
func syntheticDetection(genes, cells int) *mat.Dense {
	d := mat.NewDense(genes, cells, nil)
	for g := 0; g < genes; g++ {
		ones := 0
		for n := 0; n < cells; n++ {
			v := 0.0
			if (g*7+n*3)%5 < 2 != ((g+2*n)%3 == 0) {
				v = 1
			}
			d.Set(g, n, v)
			ones += int(v)
		}
		// Repair constant rows so the screen accepts the matrix.
		if ones == 0 {
			d.Set(g, g%cells, 1)
		} else if ones == cells {
			d.Set(g, g%cells, 0)
		}
	}
	// Repair constant columns likewise.
	for n := 0; n < cells; n++ {
		ones := 0
		for g := 0; g < genes; g++ {
			ones += int(d.At(g, n))
		}
		if ones == 0 {
			d.Set(n%genes, n, 1)
		} else if ones == genes {
			d.Set(n%genes, n, 0)
		}
	}

	return d
}

// TestFit_ShapeContract verifies the dimension semantics of every returned
// component for D of size G×N with K factors.
func TestFit_ShapeContract(t *testing.T) {
	d := syntheticDetection(12, 9) // G=12, N=9
	const k = 2

	opts := bfa.DefaultOptions()
	opts.MaxIter = 5 // shapes do not depend on convergence
	res, err := bfa.Fit(d, k, &opts)
	require.NoError(t, err)

	zr, zc := res.Z.Dims()
	assert.Equal(t, 9, zr, "Z rows = cells")
	assert.Equal(t, k, zc, "Z cols = rank")

	ar, ac := res.A.Dims()
	assert.Equal(t, 12, ar, "A rows = genes")
	assert.Equal(t, k, ac, "A cols = rank")

	br, bc := res.Beta.Dims()
	assert.Equal(t, 1, br, "default X is intercept-only")
	assert.Equal(t, k, bc)

	gr, gc := res.Gamma.Dims()
	assert.Equal(t, 12, gr, "Gamma rows = genes")
	assert.Equal(t, 1, gc, "default W is intercept-only")

	assert.Equal(t, len(res.LogLik), res.Iterations)
}

// TestFit_ConvergesOnExample checks the documented scenario: the 4×3 matrix
// with K=1, MaxIter=50, Tol=1e-4 terminates converged within the cap.
func TestFit_ConvergesOnExample(t *testing.T) {
	opts := bfa.DefaultOptions()
	opts.MaxIter = 50
	opts.Tol = 1e-4

	res, err := bfa.Fit(exampleDetection(), 1, &opts)
	require.NoError(t, err)

	assert.True(t, res.Converged, "well-conditioned example must converge")
	assert.LessOrEqual(t, res.Iterations, 50)
	assert.NotContains(t, res.Warnings, bfa.WarnMaxIter)
}

// TestFit_LogLikMonotoneOrWarned verifies the ascent property: the
// log-likelihood trace is non-decreasing up to the noise tolerance, and any
// larger decrease is surfaced as WarnLogLikDecrease.
func TestFit_LogLikMonotoneOrWarned(t *testing.T) {
	opts := bfa.DefaultOptions()
	opts.MaxIter = 30

	res, err := bfa.Fit(syntheticDetection(15, 11), 2, &opts)
	require.NoError(t, err)
	require.NotEmpty(t, res.LogLik)

	warned := false
	for _, w := range res.Warnings {
		if errors.Is(w, bfa.WarnLogLikDecrease) {
			warned = true
		}
	}
	for i := 1; i < len(res.LogLik); i++ {
		drop := res.LogLik[i-1] - res.LogLik[i]
		if drop > opts.NoiseTol*(1+absf(res.LogLik[i-1])) {
			assert.True(t, warned,
				"decrease at sweep %d (%v -> %v) must carry WarnLogLikDecrease",
				i, res.LogLik[i-1], res.LogLik[i])
		}
	}
}

// TestFit_DeterministicWithSeed verifies that a fixed seed and fixed inputs
// reproduce identical Z, A, Beta, Gamma.
func TestFit_DeterministicWithSeed(t *testing.T) {
	d := syntheticDetection(10, 8)

	opts := bfa.DefaultOptions()
	opts.RandomInit = true
	opts.Seed = 42
	opts.MaxIter = 15

	a, err := bfa.Fit(d, 2, &opts)
	require.NoError(t, err)
	b, err := bfa.Fit(d, 2, &opts)
	require.NoError(t, err)

	assert.True(t, mat.Equal(a.Z, b.Z), "Z must be bit-identical")
	assert.True(t, mat.Equal(a.A, b.A), "A must be bit-identical")
	assert.True(t, mat.Equal(a.Beta, b.Beta), "Beta must be bit-identical")
	assert.True(t, mat.Equal(a.Gamma, b.Gamma), "Gamma must be bit-identical")
	assert.Equal(t, a.LogLik, b.LogLik)
}

// TestFit_WorkersDoNotChangeResult verifies that the parallel sweeps produce
// exactly the sequential result (disjoint rows, identical arithmetic).
func TestFit_WorkersDoNotChangeResult(t *testing.T) {
	d := syntheticDetection(14, 10)

	seq := bfa.DefaultOptions()
	seq.MaxIter = 10
	par := seq
	par.Workers = 4

	a, err := bfa.Fit(d, 2, &seq)
	require.NoError(t, err)
	b, err := bfa.Fit(d, 2, &par)
	require.NoError(t, err)

	assert.True(t, mat.Equal(a.Z, b.Z), "parallel Z must match sequential")
	assert.True(t, mat.Equal(a.A, b.A), "parallel A must match sequential")
	assert.Equal(t, a.LogLik, b.LogLik)
}

// TestFit_MaxIterWarnsWithoutConvergence verifies the cap path: Converged
// false, WarnMaxIter attached, best estimate still returned.
func TestFit_MaxIterWarnsWithoutConvergence(t *testing.T) {
	opts := bfa.DefaultOptions()
	opts.MaxIter = 1
	opts.Tol = 1e-14

	res, err := bfa.Fit(syntheticDetection(12, 9), 2, &opts)
	require.NoError(t, err, "hitting the cap is not an error")

	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
	found := false
	for _, w := range res.Warnings {
		if errors.Is(w, bfa.WarnMaxIter) {
			found = true
		}
	}
	assert.True(t, found, "WarnMaxIter must be attached")
}

// TestFit_CellCovariates verifies Beta picks up the covariate dimension and
// the fitted Z excludes the covariate-explained part (Z columns orthogonal
// to X is not required; only shapes and finiteness are contractual).
func TestFit_CellCovariates(t *testing.T) {
	d := syntheticDetection(12, 9)

	// Two covariates: intercept and an alternating batch indicator.
	x := mat.NewDense(9, 2, nil)
	for i := 0; i < 9; i++ {
		x.Set(i, 0, 1)
		x.Set(i, 1, float64(i%2))
	}

	opts := bfa.DefaultOptions()
	opts.MaxIter = 10
	opts.CellCovariates = x

	res, err := bfa.Fit(d, 2, &opts)
	require.NoError(t, err)

	br, bc := res.Beta.Dims()
	assert.Equal(t, 2, br, "Beta rows = covariate count")
	assert.Equal(t, 2, bc, "Beta cols = rank")
}

// TestFit_GeneCovariates verifies Gamma carries per-gene coefficients for a
// two-column W, distributed as the minimum-norm split: each Gamma row is
// proportional to its W row.
func TestFit_GeneCovariates(t *testing.T) {
	d := syntheticDetection(12, 9)

	w := mat.NewDense(12, 2, nil)
	for g := 0; g < 12; g++ {
		w.Set(g, 0, 1)
		w.Set(g, 1, float64(g)/12) // a QC-like gene score
	}

	opts := bfa.DefaultOptions()
	opts.MaxIter = 10
	opts.GeneCovariates = w

	res, err := bfa.Fit(d, 2, &opts)
	require.NoError(t, err)

	gr, gc := res.Gamma.Dims()
	assert.Equal(t, 12, gr)
	assert.Equal(t, 2, gc)

	for g := 0; g < gr; g++ {
		cross := res.Gamma.At(g, 0)*w.At(g, 1) - res.Gamma.At(g, 1)*w.At(g, 0)
		assert.InDelta(t, 0, cross, 1e-10,
			"Gamma row %d must be proportional to its covariate row", g)
	}
}

// TestFit_RejectsDegenerateInput ensures constant columns and rows fail with
// ErrDegenerateInput before any fitting.
func TestFit_RejectsDegenerateInput(t *testing.T) {
	constCol := mat.NewDense(3, 3, []float64{
		1, 1, 0,
		1, 0, 1,
		1, 1, 0,
	})
	_, err := bfa.Fit(constCol, 1, nil)
	assert.ErrorIs(t, err, bfa.ErrDegenerateInput, "constant column must be rejected")

	constRow := mat.NewDense(3, 3, []float64{
		0, 0, 0,
		1, 0, 1,
		0, 1, 1,
	})
	_, err = bfa.Fit(constRow, 1, nil)
	assert.ErrorIs(t, err, bfa.ErrDegenerateInput, "constant row must be rejected")
}

// TestFit_RejectsBadInputs covers nil, rank range, binariness, covariate
// shape mismatches and option validation.
func TestFit_RejectsBadInputs(t *testing.T) {
	d := exampleDetection() // G=4, N=3

	_, err := bfa.Fit(nil, 1, nil)
	assert.ErrorIs(t, err, bfa.ErrNilMatrix)

	_, err = bfa.Fit(d, 0, nil)
	assert.ErrorIs(t, err, bfa.ErrBadRank)

	_, err = bfa.Fit(d, 3, nil)
	assert.ErrorIs(t, err, bfa.ErrBadRank, "K must stay below min(N,G)")

	nb := mat.NewDense(2, 2, []float64{1, 0, 2, 1})
	_, err = bfa.Fit(nb, 1, nil)
	assert.ErrorIs(t, err, bfa.ErrNotBinary)

	badX := bfa.DefaultOptions()
	badX.CellCovariates = mat.NewDense(5, 1, nil) // 5 rows, 3 cells
	_, err = bfa.Fit(d, 1, &badX)
	assert.ErrorIs(t, err, bfa.ErrDimensionMismatch)

	badW := bfa.DefaultOptions()
	badW.GeneCovariates = mat.NewDense(3, 1, nil) // 3 rows, 4 genes
	_, err = bfa.Fit(d, 1, &badW)
	assert.ErrorIs(t, err, bfa.ErrDimensionMismatch)

	zeroW := bfa.DefaultOptions()
	zeroW.GeneCovariates = mat.NewDense(4, 1, nil) // all-zero covariate row
	_, err = bfa.Fit(d, 1, &zeroW)
	assert.ErrorIs(t, err, bfa.ErrDegenerateInput)

	badOpts := bfa.DefaultOptions()
	badOpts.Tol = 0
	_, err = bfa.Fit(d, 1, &badOpts)
	assert.ErrorIs(t, err, bfa.ErrBadOptions)

	badOpts = bfa.DefaultOptions()
	badOpts.Workers = 0
	_, err = bfa.Fit(d, 1, &badOpts)
	assert.ErrorIs(t, err, bfa.ErrBadOptions)
}

// absf is a local float abs to keep math out of the assertions.
func absf(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
