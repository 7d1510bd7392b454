// Package bfa - deterministic random generation for the warm start.
//
// Goals:
//   - Determinism: same seed ⇒ identical results across platforms.
//   - Encapsulation: a single source factory; no time-based sources and no
//     global random state hidden anywhere.
//   - The distribution machinery comes from gonum's distuv over an explicit
//     PCG source.

package bfa

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// defaultSeed is the fixed “zero” seed used when callers pass Seed==0.
// The value is arbitrary but stable to keep reproducible defaults.
const defaultSeed uint64 = 1

// initSigma is the standard deviation of the random warm start. Small on
// purpose: initial logits should stay in the responsive region of the
// sigmoid rather than start saturated.
const initSigma = 0.1

// seedStream decorrelates the two PCG state words. SplitMix64 increment
// constant; any fixed odd constant with good bit diffusion would do.
const seedStream uint64 = 0x9e3779b97f4a7c15

// normalSource returns a deterministic N(0, initSigma) sampler.
// Policy: seed==0 ⇒ defaultSeed; otherwise the seed is used verbatim.
func normalSource(seed uint64) distuv.Normal {
	if seed == 0 {
		seed = defaultSeed
	}

	return distuv.Normal{
		Mu:    0,
		Sigma: initSigma,
		Src:   rand.NewPCG(seed, seed^seedStream),
	}
}
