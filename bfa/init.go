// Package bfa - warm starts.
//
// Two initializations, both deterministic:
//   - warmStartSVD (default): truncated SVD of the column-centered, clipped
//     logit transform of the detection values. Clipping (0→δ, 1→1−δ) keeps
//     the logit finite; centering moves each gene's mean logit into the
//     offset where it belongs.
//   - warmStartRandom: seeded N(0, initSigma) draws in a fixed fill order.
//
// β starts at zero in both cases (it is recovered from the effective
// coordinates at finalization); the gene offsets start at the logit of each
// gene's detection frequency.

package bfa

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// initialize dispatches to the configured warm start and seeds the offsets.
func (s *fitState) initialize() error {
	s.initOffsets()

	if s.opts.RandomInit {
		s.warmStartRandom()

		return nil
	}

	return s.warmStartSVD()
}

// initOffsets sets each gene's offset to the logit of its clipped detection
// frequency — the exact intercept-only maximum-likelihood solution.
func (s *fitState) initOffsets() {
	s.offset = make([]float64, s.nGenes)
	for g := 0; g < s.nGenes; g++ {
		p := 0.0
		for i := 0; i < s.nCells; i++ {
			p += s.y.At(i, g)
		}
		p /= float64(s.nCells)
		p = clip(p, logitClip, 1-logitClip)
		s.offset[g] = math.Log(p / (1 - p))
	}
}

// warmStartSVD builds V and A from the top-K singular triplets of the
// centered logit surrogate.
func (s *fitState) warmStartSVD() error {
	l := mat.NewDense(s.nCells, s.nGenes, nil)
	for g := 0; g < s.nGenes; g++ {
		colMean := 0.0
		for i := 0; i < s.nCells; i++ {
			p := clip(s.y.At(i, g), logitClip, 1-logitClip)
			lv := math.Log(p / (1 - p))
			l.Set(i, g, lv)
			colMean += lv
		}
		colMean /= float64(s.nCells)
		for i := 0; i < s.nCells; i++ {
			l.Set(i, g, l.At(i, g)-colMean)
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(l, mat.SVDThin); !ok {
		return fmt.Errorf("warm start: %w", ErrIllConditioned)
	}
	var u, rv mat.Dense
	svd.UTo(&u)
	svd.VTo(&rv)
	sv := svd.Values(nil)

	s.v = mat.NewDense(s.nCells, s.rank, nil)
	for i := 0; i < s.nCells; i++ {
		for j := 0; j < s.rank; j++ {
			s.v.Set(i, j, u.At(i, j)*sv[j])
		}
	}
	s.a = mat.NewDense(s.nGenes, s.rank, nil)
	for i := 0; i < s.nGenes; i++ {
		for j := 0; j < s.rank; j++ {
			s.a.Set(i, j, rv.At(i, j))
		}
	}

	return nil
}

// warmStartRandom fills V then A with seeded normal draws, row-major, so a
// fixed seed reproduces the exact initial state.
func (s *fitState) warmStartRandom() {
	src := normalSource(s.opts.Seed)

	s.v = mat.NewDense(s.nCells, s.rank, nil)
	for i := 0; i < s.nCells; i++ {
		for j := 0; j < s.rank; j++ {
			s.v.Set(i, j, src.Rand())
		}
	}
	s.a = mat.NewDense(s.nGenes, s.rank, nil)
	for i := 0; i < s.nGenes; i++ {
		for j := 0; j < s.rank; j++ {
			s.a.Set(i, j, src.Rand())
		}
	}
}

// clip bounds v into [lo, hi].
func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
