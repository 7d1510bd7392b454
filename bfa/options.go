// Package bfa - fit configuration.
//
// Defaults are named constants (single source of truth); DefaultOptions
// mirrors them exactly. Options are validated once at the top of Fit; no
// field is re-checked in hot loops.

package bfa

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/binfa/converge"
)

// Defaults - single source of truth for zero-value behavior.
const (
	// DefaultMaxIter caps the number of full (cell + gene) sweeps.
	DefaultMaxIter = converge.DefaultMaxIter

	// DefaultTol is the relative log-likelihood improvement below which the
	// fit counts as converged.
	DefaultTol = converge.DefaultTol

	// DefaultRidge is the base Tikhonov term added to every block's weighted
	// normal equations.
	DefaultRidge = 1e-8

	// DefaultWeightFloor is the ε added to every IRLS working weight
	// σ(η)(1−σ(η)). Without it a saturated probability zeroes the weight
	// and the working response divides by zero. Required stabilization.
	DefaultWeightFloor = 1e-6

	// DefaultWorkers runs the sweeps sequentially.
	DefaultWorkers = 1

	// logitClip is the δ used by the warm start: detection values are moved
	// to δ and 1−δ before the logit so the transform stays finite.
	logitClip = 1e-2

	// ridgeEscalation multiplies the ridge after each failed factorization.
	ridgeEscalation = 10

	// maxRidge is the hard regularization cap. A system that is singular
	// even at this ridge is reported via ErrIllConditioned, not papered over.
	maxRidge = 1e-2
)

// Options configures a BFA fit. The zero value is NOT usable; start from
// DefaultOptions and override fields.
type Options struct {
	// MaxIter is the maximum number of full sweeps (>= 1).
	MaxIter int

	// Tol is the relative log-likelihood convergence tolerance (> 0).
	Tol float64

	// NoiseTol is the allowance for floating-point log-likelihood decreases
	// (>= 0); larger decreases surface as WarnLogLikDecrease.
	NoiseTol float64

	// CellCovariates is the optional N×P matrix X (rows = cells). Nil means
	// an intercept-only column of ones.
	CellCovariates *mat.Dense

	// GeneCovariates is the optional G×Q matrix W (rows = genes). Nil means
	// an intercept-only column of ones.
	GeneCovariates *mat.Dense

	// Ridge is the base regularization added to every block solve (>= 0).
	Ridge float64

	// WeightFloor is the ε guard on IRLS working weights (> 0).
	WeightFloor float64

	// RandomInit selects a seeded normal warm start instead of the default
	// logit-SVD warm start.
	RandomInit bool

	// Seed drives the random warm start. Zero maps to a fixed default seed
	// so the default is still deterministic.
	Seed uint64

	// Workers is the fan-out for the per-cell and per-gene sweeps (>= 1).
	// Block alternation stays strict regardless: a full cell sweep always
	// completes before the gene sweep begins.
	Workers int

	// Logger receives per-sweep debug events. Defaults to a no-op logger;
	// the engine never prints on its own.
	Logger zerolog.Logger
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxIter:     DefaultMaxIter,
		Tol:         DefaultTol,
		NoiseTol:    converge.DefaultNoiseTol,
		Ridge:       DefaultRidge,
		WeightFloor: DefaultWeightFloor,
		Workers:     DefaultWorkers,
		Logger:      zerolog.Nop(),
	}
}

// controller assembles the converge policy from the options. Validity is
// checked by validateOptions.
func (o *Options) controller() converge.Controller {
	return converge.Controller{MaxIter: o.MaxIter, Tol: o.Tol, NoiseTol: o.NoiseTol}
}

// validateOptions checks scalar option fields against their documented
// ranges. Covariate shapes are validated against the data in newFitState.
func validateOptions(o *Options) error {
	if err := o.controller().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrBadOptions, err)
	}
	if math.IsNaN(o.Ridge) || o.Ridge < 0 || o.Ridge > maxRidge {
		return fmt.Errorf("Ridge=%v: %w", o.Ridge, ErrBadOptions)
	}
	if math.IsNaN(o.WeightFloor) || o.WeightFloor <= 0 {
		return fmt.Errorf("WeightFloor=%v: %w", o.WeightFloor, ErrBadOptions)
	}
	if o.Workers < 1 {
		return fmt.Errorf("Workers=%d: %w", o.Workers, ErrBadOptions)
	}

	return nil
}

// Result holds the outcome of a BFA fit.
type Result struct {
	// Z is the N×K latent cell embedding (one row per cell).
	Z *mat.Dense

	// A is the G×K gene loading matrix.
	A *mat.Dense

	// Beta is the P×K coefficient matrix linking cell covariates to the
	// latent space.
	Beta *mat.Dense

	// Gamma is the G×Q coefficient matrix linking gene covariates to each
	// gene's detection-propensity offset.
	Gamma *mat.Dense

	// LogLik is the log-likelihood trace, one entry per completed sweep.
	LogLik []float64

	// Converged reports whether the relative-improvement criterion was met
	// before the iteration cap.
	Converged bool

	// Iterations is the number of completed sweeps.
	Iterations int

	// Warnings carries non-fatal sentinels (WarnMaxIter,
	// WarnLogLikDecrease).
	Warnings []error
}
