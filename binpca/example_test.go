package binpca_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/binfa/binpca"
)

// ExampleFit embeds a 4-gene × 3-cell detection matrix into one latent
// dimension and reports the shapes of the returned components.
func ExampleFit() {
	d := mat.NewDense(4, 3, []float64{
		1, 0, 1,
		0, 1, 1,
		1, 1, 0,
		0, 0, 1,
	})

	res, err := binpca.Fit(d, 1, nil)
	if err != nil {
		fmt.Println("fit failed:", err)
		return
	}

	sr, sc := res.Scores.Dims()
	lr, lc := res.Loadings.Dims()
	fmt.Printf("scores %dx%d loadings %dx%d components %d\n",
		sr, sc, lr, lc, len(res.ExplainedVariance))
	// Output:
	// scores 3x1 loadings 4x1 components 1
}
