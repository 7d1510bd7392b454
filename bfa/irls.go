// Package bfa - IRLS block updates.
//
// Each sweep alternates two blocks of iteratively reweighted least squares:
//
//	Cell block: hold A and the gene offsets fixed; for every cell solve the
//	K-dimensional weighted normal equations of the linearized logistic
//	model for its effective coordinates V[n,:].
//
//	Gene block: hold V fixed; for every gene solve the (K+1)-dimensional
//	system for its loadings A[g,:] and scalar offset jointly.
//
// The linearization is standard: μ = σ(η), working weight w = μ(1−μ)+ε,
// working response r = η + (d−μ)/w. The ε floor is a required stabilization
// — saturated probabilities would otherwise zero the weight and divide the
// residual by zero.
//
// Rows within one block are independent given the other block's values, so
// the loops fan out across Workers goroutines over disjoint row ranges; the
// strict block alternation (cells, then genes) is preserved regardless.

package bfa

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// etaClamp bounds |η| in the likelihood evaluation; the logistic link is
// numerically saturated far before 30.
const etaClamp = 30.0

// sigmoid is the logistic inverse link, branch-stable at both tails.
func sigmoid(x float64) float64 {
	if x >= 0 {
		e := math.Exp(-x)

		return 1 / (1 + e)
	}
	e := math.Exp(x)

	return e / (1 + e)
}

// softplus computes log(1+exp(x)) without overflow.
func softplus(x float64) float64 {
	if x > etaClamp {
		return x
	}
	if x < -etaClamp {
		return math.Exp(x)
	}

	return math.Log1p(math.Exp(x))
}

// eta evaluates the linear predictor for one (cell, gene) pair.
func (s *fitState) eta(cell, gene int) float64 {
	acc := s.offset[gene]
	for j := 0; j < s.rank; j++ {
		acc += s.v.At(cell, j) * s.a.At(gene, j)
	}

	return acc
}

// logLikelihood computes the Bernoulli log-likelihood of the current state.
func (s *fitState) logLikelihood() float64 {
	ll := 0.0
	for i := 0; i < s.nCells; i++ {
		for g := 0; g < s.nGenes; g++ {
			e := s.eta(i, g)
			ll += s.y.At(i, g)*e - softplus(e)
		}
	}

	return ll
}

// cellSweep updates every cell's effective coordinates V[n,:] by one IRLS
// step against the fixed loadings and offsets.
func (s *fitState) cellSweep() error {
	return s.parallelRows(s.nCells, func(lo, hi int) error {
		k := s.rank
		m := mat.NewSymDense(k, nil)
		b := mat.NewVecDense(k, nil)
		sol := mat.NewVecDense(k, nil)

		for i := lo; i < hi; i++ {
			m.Zero()
			b.Zero()
			for g := 0; g < s.nGenes; g++ {
				e := s.eta(i, g)
				mu := sigmoid(e)
				wgt := mu*(1-mu) + s.opts.WeightFloor
				// Working response with the fixed gene offset removed:
				// the solve only sees the factor part of the predictor.
				tgt := e + (s.y.At(i, g)-mu)/wgt - s.offset[g]
				for p := 0; p < k; p++ {
					ap := s.a.At(g, p)
					b.SetVec(p, b.AtVec(p)+wgt*ap*tgt)
					for q := p; q < k; q++ {
						m.SetSym(p, q, m.At(p, q)+wgt*ap*s.a.At(g, q))
					}
				}
			}
			if err := s.solveSPD(m, b, sol); err != nil {
				return fmt.Errorf("cell %d: %w", i, err)
			}
			for p := 0; p < k; p++ {
				s.v.Set(i, p, sol.AtVec(p))
			}
		}

		return nil
	})
}

// geneSweep updates every gene's loadings A[g,:] and scalar offset by one
// IRLS step against the fixed coordinates.
func (s *fitState) geneSweep() error {
	return s.parallelRows(s.nGenes, func(lo, hi int) error {
		k := s.rank
		dim := k + 1 // loadings plus the offset column
		m := mat.NewSymDense(dim, nil)
		b := mat.NewVecDense(dim, nil)
		sol := mat.NewVecDense(dim, nil)
		row := make([]float64, dim)

		for g := lo; g < hi; g++ {
			m.Zero()
			b.Zero()
			for i := 0; i < s.nCells; i++ {
				e := s.eta(i, g)
				mu := sigmoid(e)
				wgt := mu*(1-mu) + s.opts.WeightFloor
				r := e + (s.y.At(i, g)-mu)/wgt
				for p := 0; p < k; p++ {
					row[p] = s.v.At(i, p)
				}
				row[k] = 1
				for p := 0; p < dim; p++ {
					b.SetVec(p, b.AtVec(p)+wgt*row[p]*r)
					for q := p; q < dim; q++ {
						m.SetSym(p, q, m.At(p, q)+wgt*row[p]*row[q])
					}
				}
			}
			if err := s.solveSPD(m, b, sol); err != nil {
				return fmt.Errorf("gene %d: %w", g, err)
			}
			for p := 0; p < k; p++ {
				s.a.Set(g, p, sol.AtVec(p))
			}
			s.offset[g] = sol.AtVec(k)
		}

		return nil
	})
}

// solveSPD solves (m + ridge·I)·sol = b with escalating ridge. The base
// ridge is a tolerated stabilization; escalation stops at the hard cap and
// surfaces ErrIllConditioned instead of silently over-regularizing.
func (s *fitState) solveSPD(m *mat.SymDense, b, sol *mat.VecDense) error {
	dim, _ := m.Dims()
	reg := mat.NewSymDense(dim, nil)
	ridge := s.opts.Ridge

	for {
		reg.CopySym(m)
		if ridge > 0 {
			for i := 0; i < dim; i++ {
				reg.SetSym(i, i, reg.At(i, i)+ridge)
			}
		}

		var chol mat.Cholesky
		if chol.Factorize(reg) {
			if err := chol.SolveVecTo(sol, b); err != nil {
				return fmt.Errorf("%w: %v", ErrIllConditioned, err)
			}

			return nil
		}

		if ridge == 0 {
			ridge = DefaultRidge

			continue
		}
		ridge *= ridgeEscalation
		if ridge > maxRidge {
			return ErrIllConditioned
		}
	}
}

// parallelRows splits [0, total) into Workers contiguous chunks and runs fn
// on each. Writes stay within each chunk's rows, so no synchronization is
// needed; per-row arithmetic is identical at any worker count, keeping
// results deterministic.
func (s *fitState) parallelRows(total int, fn func(lo, hi int) error) error {
	workers := s.opts.Workers
	if workers > total {
		workers = total
	}
	if workers <= 1 {
		return fn(0, total)
	}

	chunk := (total + workers - 1) / workers
	var eg errgroup.Group
	for lo := 0; lo < total; lo += chunk {
		hi := lo + chunk
		if hi > total {
			hi = total
		}
		lo, hi := lo, hi
		eg.Go(func() error { return fn(lo, hi) })
	}

	return eg.Wait()
}

// renormalize re-orthogonalizes the effective coordinates by SVD
// re-projection: V = U·S·Wᵗ becomes V ← U, A ← A·W·S. The product V·Aᵗ —
// and with it every fitted probability — is unchanged; only the redundant
// rotation/scale directions of the bilinear parameterization are pinned.
func (s *fitState) renormalize() error {
	var svd mat.SVD
	if ok := svd.Factorize(s.v, mat.SVDThin); !ok {
		return fmt.Errorf("renormalize: %w", ErrIllConditioned)
	}

	var u, w mat.Dense
	svd.UTo(&u)
	svd.VTo(&w)
	sv := svd.Values(nil)

	var aw mat.Dense
	aw.Mul(s.a, &w) // G×K
	for j := 0; j < s.rank; j++ {
		for i := 0; i < s.nGenes; i++ {
			s.a.Set(i, j, aw.At(i, j)*sv[j])
		}
	}
	s.v.Copy(&u)

	return nil
}
