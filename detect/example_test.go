package detect_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/binfa/detect"
)

// ExampleBuild converts a small raw count matrix into its binary detection
// matrix: any nonzero count becomes 1.
func ExampleBuild() {
	counts := mat.NewDense(3, 4, []float64{
		5, 0, 2, 0,
		0, 1, 0, 9,
		3, 0, 0, 1,
	})

	d, err := detect.Build(counts)
	if err != nil {
		fmt.Println("build failed:", err)
		return
	}

	fmt.Printf("%v\n", mat.Formatted(d))
	// Output:
	// ⎡1  0  1  0⎤
	// ⎢0  1  0  1⎥
	// ⎣1  0  0  1⎦
}

// ExampleScreen shows the fail-fast degeneracy screen rejecting a gene that
// is detected in every cell.
func ExampleScreen() {
	d := mat.NewDense(2, 3, []float64{
		1, 1, 1,
		0, 1, 0,
	})

	err := detect.Screen(d)
	fmt.Println(err != nil)
	// Output:
	// true
}
