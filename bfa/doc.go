// Package bfa fits a Binary Factor Analysis model to a gene-detection
// matrix by maximum likelihood.
//
// Model:
//
//	Each detection indicator D[g,n] ∈ {0,1} is Bernoulli with success
//	probability σ(η[n,g]), where σ is the logistic sigmoid and
//
//	  η[n,g] = (Z + X·β)[n,:] · A[g,:] + W[g,:] · γ[g,:]
//
//	Z (N×K) is the latent cell embedding, A (G×K) the gene loadings,
//	X (N×P) optional cell-level covariates with coefficients β (P×K), and
//	W (G×Q) optional gene-level covariates with per-gene coefficients γ
//	(G×Q) forming a scalar detection-propensity offset per gene. When a
//	covariate matrix is absent an intercept-only column of ones is used.
//
// Fitting:
//
//	Block coordinate ascent on the Bernoulli log-likelihood. Each sweep
//	alternates two IRLS blocks: per cell, the effective coordinates
//	(Z + X·β)[n,:] solve a weighted least-squares problem against the fixed
//	loadings; per gene, the loadings and offset solve the symmetric problem
//	against the fixed coordinates. Working weights carry an explicit floor
//	so saturated probabilities cannot zero out the normal equations, and
//	every solve adds a ridge term that escalates to a hard cap before the
//	fit aborts with ErrIllConditioned.
//
//	The bilinear Z·Aᵗ parameterization is rotation- and scale-degenerate,
//	so after each full sweep the coordinates are re-orthogonalized by an
//	SVD re-projection — a pure normalization that leaves the fitted
//	probabilities unchanged.
//
//	Termination is delegated to converge.Controller: relative
//	log-likelihood improvement below Tol (converged) or the iteration cap
//	(returned with Converged=false and WarnMaxIter — acceptance is the
//	caller's call). A log-likelihood decrease beyond the noise allowance
//	adds WarnLogLikDecrease without aborting.
//
// Determinism:
//
//	Initialization is a truncated SVD of the clipped logit transform of D,
//	or a seeded normal draw (RandomInit). All randomness flows through an
//	explicit seed; a zero seed maps to a fixed default. Identical inputs
//	and seeds reproduce identical results, with any Workers setting.
//
// The engine holds no state between calls; independent fits may run
// concurrently on the same read-only input.
package bfa
