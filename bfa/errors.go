// Package bfa: sentinel error set.
// This file defines ONLY package-level sentinel errors and warnings. All
// entry points return these sentinels (possibly wrapped with context) and
// tests check them via errors.Is. Warnings ride in Result.Warnings and
// never abort a fit.

package bfa

import "errors"

var (
	// ErrNilMatrix is returned when the detection matrix is nil.
	ErrNilMatrix = errors.New("bfa: nil matrix")

	// ErrDimensionMismatch is returned when D, X, W shapes are inconsistent
	// (covariate rows must match cells/genes, covariates must be finite and
	// fewer than the observations they are fit against).
	ErrDimensionMismatch = errors.New("bfa: dimension mismatch")

	// ErrBadRank is returned when K is outside 1 <= K < min(N, G).
	ErrBadRank = errors.New("bfa: rank out of range")

	// ErrNotBinary is returned when D contains entries other than 0 and 1.
	ErrNotBinary = errors.New("bfa: input is not a binary detection matrix")

	// ErrDegenerateInput is returned when a row or column of D is constant,
	// or when a gene-covariate row is entirely zero. Raised before any
	// optimization work begins.
	ErrDegenerateInput = errors.New("bfa: degenerate input")

	// ErrIllConditioned is returned when a block's weighted normal equations
	// stay singular after ridge escalation up to the hard cap, or when the
	// covariate projection is rank deficient. The fit aborts and returns no
	// partial state.
	ErrIllConditioned = errors.New("bfa: ill-conditioned linear system")

	// ErrBadOptions is returned when option fields are outside their
	// documented ranges.
	ErrBadOptions = errors.New("bfa: invalid options")

	// WarnMaxIter reports that the iteration cap was reached before the
	// convergence tolerance was met. The returned estimate is the best
	// available; acceptance is the caller's decision.
	WarnMaxIter = errors.New("bfa: maximum iterations reached without convergence")

	// WarnLogLikDecrease reports a log-likelihood decrease beyond the noise
	// allowance during the fit — a sign of a linearization overshoot.
	WarnLogLikDecrease = errors.New("bfa: log-likelihood decreased beyond noise tolerance")
)
