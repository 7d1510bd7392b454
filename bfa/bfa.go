// Package bfa - fit entry point.
//
// Fit drives the explicit sweep state machine:
//
//	stateInit ─▶ stateUpdateZ ─▶ stateUpdateA ─▶ stateCheckConvergence
//	                  ▲                                   │
//	                  └──────────── continue ─────────────┤
//	                                                      ▼
//	                                                  stateDone
//
// Transitions out of stateCheckConvergence are driven solely by the
// converge.Controller decision. Finalization splits the effective
// coordinates into Z and β and distributes the gene offsets into γ.

package bfa

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// sweepState enumerates the fit state machine.
type sweepState int

const (
	stateInit sweepState = iota
	stateUpdateZ
	stateUpdateA
	stateCheckConvergence
	stateDone
)

// Fit estimates the Binary Factor Analysis model for the G×N detection
// matrix d with k latent factors.
//
// Contract:
//   - d binary with no constant row or column; shapes of the optional
//     covariate matrices in opts must conform (ErrNotBinary,
//     ErrDegenerateInput, ErrDimensionMismatch — all raised before any
//     optimization work).
//   - 1 <= k < min(N, G) (ErrBadRank).
//   - opts may be nil; DefaultOptions apply.
//
// Returns the fitted Result, or ErrIllConditioned (no partial state) when a
// block system stays singular past the regularization cap. Reaching MaxIter
// without meeting Tol is NOT an error: the Result carries Converged=false
// and WarnMaxIter, and acceptance is the caller's decision.
func Fit(d mat.Matrix, k int, opts *Options) (*Result, error) {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}

	s, err := newFitState(d, k, &o)
	if err != nil {
		return nil, err
	}

	state := stateInit
	for state != stateDone {
		switch state {
		case stateInit:
			if err = s.initialize(); err != nil {
				return nil, err
			}
			state = stateUpdateZ

		case stateUpdateZ:
			if err = s.cellSweep(); err != nil {
				return nil, fmt.Errorf("cell block: %w", err)
			}
			state = stateUpdateA

		case stateUpdateA:
			if err = s.geneSweep(); err != nil {
				return nil, fmt.Errorf("gene block: %w", err)
			}
			if err = s.renormalize(); err != nil {
				return nil, err
			}
			s.logLik = append(s.logLik, s.logLikelihood())
			o.Logger.Debug().
				Int("iter", len(s.logLik)).
				Float64("loglik", s.logLik[len(s.logLik)-1]).
				Msg("sweep complete")
			state = stateCheckConvergence

		case stateCheckConvergence:
			dec := s.ctrl.Assess(s.logLik)
			if dec.Decreased && !s.warnDecrease {
				s.warnDecrease = true
				s.warn(fmt.Errorf("iteration %d: %w", len(s.logLik), WarnLogLikDecrease))
			}
			if dec.Stop {
				state = stateDone
				if !dec.Converged {
					s.warn(WarnMaxIter)
				}

				return s.finalize(dec.Converged)
			}
			state = stateUpdateZ
		}
	}

	// Unreachable: stateCheckConvergence is the only exit and it returns.
	return s.finalize(false)
}

// finalize splits the effective coordinates V = Z + X·β into the returned
// Z and β (least-squares projection of V onto the cell covariates) and
// distributes each gene offset over its covariate row as the minimum-norm
// γ[g,:] = u_g · W[g,:] / ‖W[g,:]‖². Both are gauge choices: the fitted
// probabilities depend on V and the offsets only.
func (s *fitState) finalize(converged bool) (*Result, error) {
	var beta mat.Dense
	if err := beta.Solve(s.x, s.v); err != nil {
		return nil, fmt.Errorf("covariate projection: %w: %v", ErrIllConditioned, err)
	}

	var xb mat.Dense
	xb.Mul(s.x, &beta)
	z := mat.NewDense(s.nCells, s.rank, nil)
	z.Sub(s.v, &xb)

	_, q := s.w.Dims()
	gamma := mat.NewDense(s.nGenes, q, nil)
	for g := 0; g < s.nGenes; g++ {
		scale := s.offset[g] * s.wRowInvSq[g]
		for j := 0; j < q; j++ {
			gamma.Set(g, j, scale*s.w.At(g, j))
		}
	}

	return &Result{
		Z:          z,
		A:          s.a,
		Beta:       &beta,
		Gamma:      gamma,
		LogLik:     s.logLik,
		Converged:  converged,
		Iterations: len(s.logLik),
		Warnings:   s.warnings,
	}, nil
}
