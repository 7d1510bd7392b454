package bfa_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/binfa/bfa"
)

// //////////////////////////////////////////////////////////////////////////////
// ExampleFit
// //////////////////////////////////////////////////////////////////////////////
//
// Scenario:
//
//	Fit a single latent factor to a tiny 4 genes × 3 cells detection matrix.
//
// Options:
//   - MaxIter = 50 (generous cap for a well-conditioned toy problem)
//   - Tol = 1e-4   (relative log-likelihood improvement threshold)
//
// Use case:
//
//	The minimal end-to-end call: binarized detection in, latent cell
//	coordinates and gene loadings out.
//
// Complexity: O(MaxIter · N·G·K²) time, O(N·G) memory
func ExampleFit() {
	d := mat.NewDense(4, 3, []float64{
		1, 0, 1,
		0, 1, 1,
		1, 1, 0,
		0, 0, 1,
	})

	opts := bfa.DefaultOptions()
	opts.MaxIter = 50
	opts.Tol = 1e-4

	res, err := bfa.Fit(d, 1, &opts)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	zr, zc := res.Z.Dims()
	ar, ac := res.A.Dims()
	fmt.Printf("Z %dx%d A %dx%d converged=%v\n", zr, zc, ar, ac, res.Converged)
	// Output:
	// Z 3x1 A 4x1 converged=true
}

// //////////////////////////////////////////////////////////////////////////////
// ExampleFit_cellCovariates
// //////////////////////////////////////////////////////////////////////////////
//
// Scenario:
//
//	Same toy matrix, but each cell carries a known batch indicator. The
//	covariate effect is estimated as Beta and removed from the latent Z.
//
// Use case:
//
//	Batch-aware embeddings: technical structure goes into X·Beta, biology
//	stays in Z.
func ExampleFit_cellCovariates() {
	d := mat.NewDense(4, 3, []float64{
		1, 0, 1,
		0, 1, 1,
		1, 1, 0,
		0, 0, 1,
	})

	// Intercept plus a batch flag for the third cell.
	x := mat.NewDense(3, 2, []float64{
		1, 0,
		1, 0,
		1, 1,
	})

	opts := bfa.DefaultOptions()
	opts.MaxIter = 50
	opts.CellCovariates = x

	res, err := bfa.Fit(d, 1, &opts)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	br, bc := res.Beta.Dims()
	fmt.Printf("Beta %dx%d\n", br, bc)
	// Output:
	// Beta 2x1
}
