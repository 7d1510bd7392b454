// Package converge - ConvergenceController.
//
// Design principles:
//   - Deterministic, side-effect free, allocation free.
//   - Only sentinel errors; no logging, no panics on user input.
//   - The controller judges; the engine acts. Warnings stay with the engine.

package converge

import (
	"errors"
	"math"
)

// Defaults - single source of truth for zero-value behavior.
const (
	// DefaultMaxIter caps the number of full sweeps when the caller does not
	// choose one.
	DefaultMaxIter = 100

	// DefaultTol is the relative log-likelihood improvement below which the
	// fit counts as converged.
	DefaultTol = 1e-6

	// DefaultNoiseTol is the allowance for tiny log-likelihood decreases
	// caused by floating-point noise. Decreases beyond
	// NoiseTol·(1+|previous|) are reported via Decision.Decreased.
	DefaultNoiseTol = 1e-8
)

var (
	// ErrBadMaxIter is returned by Validate when MaxIter < 1.
	ErrBadMaxIter = errors.New("converge: MaxIter must be >= 1")

	// ErrBadTol is returned by Validate when Tol <= 0 or NoiseTol < 0,
	// or when either is NaN.
	ErrBadTol = errors.New("converge: tolerance out of range")
)

// Controller holds the termination policy for an iterative fit.
type Controller struct {
	// MaxIter is the maximum number of completed sweeps.
	MaxIter int

	// Tol is the relative improvement threshold: stop as converged when
	// (ll[t]-ll[t-1]) / |ll[t-1]| < Tol.
	Tol float64

	// NoiseTol is the decrease allowance; see Decision.Decreased.
	NoiseTol float64
}

// DefaultController returns a Controller with the given cap and tolerance
// and the default noise allowance. Zero maxIter or tol fall back to the
// package defaults.
func DefaultController(maxIter int, tol float64) Controller {
	if maxIter == 0 {
		maxIter = DefaultMaxIter
	}
	if tol == 0 {
		tol = DefaultTol
	}

	return Controller{MaxIter: maxIter, Tol: tol, NoiseTol: DefaultNoiseTol}
}

// Validate checks the policy fields against their documented ranges.
// Returns ErrBadMaxIter or ErrBadTol; nil when the policy is usable.
func (c Controller) Validate() error {
	if c.MaxIter < 1 {
		return ErrBadMaxIter
	}
	if math.IsNaN(c.Tol) || c.Tol <= 0 {
		return ErrBadTol
	}
	if math.IsNaN(c.NoiseTol) || c.NoiseTol < 0 {
		return ErrBadTol
	}

	return nil
}

// Decision is the outcome of assessing a log-likelihood history.
type Decision struct {
	// Stop is true when the fit should terminate (either cause).
	Stop bool

	// Converged is true when the relative-improvement criterion was met.
	// Stop && !Converged means the iteration cap was hit.
	Converged bool

	// Decreased is true when the last step lowered the log-likelihood
	// beyond the noise allowance. Diagnostic only; never forces Stop.
	Decreased bool

	// RelImprovement is the relative improvement of the last step, or NaN
	// when fewer than two sweeps completed.
	RelImprovement float64
}

// Assess judges a log-likelihood history, one entry per completed sweep.
//
// Policy (in order):
//  1. Fewer than two entries: continue unless the cap is already reached.
//  2. Decrease beyond NoiseTol·(1+|previous|): flag Decision.Decreased.
//  3. Relative improvement below Tol: stop, converged.
//  4. len(history) >= MaxIter: stop, not converged.
//
// Complexity: O(1); Assess inspects only the last two entries.
func (c Controller) Assess(history []float64) Decision {
	dec := Decision{RelImprovement: math.NaN()}

	t := len(history)
	if t >= 2 {
		prev, cur := history[t-2], history[t-1]
		delta := cur - prev
		if delta < -c.NoiseTol*(1+math.Abs(prev)) {
			dec.Decreased = true
		}
		// Guard |prev|==0: treat the improvement as absolute in that case.
		scale := math.Abs(prev)
		if scale == 0 {
			scale = 1
		}
		dec.RelImprovement = delta / scale
		if math.Abs(dec.RelImprovement) < c.Tol {
			dec.Stop = true
			dec.Converged = true
		}
	}
	if !dec.Stop && t >= c.MaxIter {
		dec.Stop = true
	}

	return dec
}
