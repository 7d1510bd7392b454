// Package binfa fits low-dimensional latent-factor embeddings to binary
// gene-detection matrices derived from single-cell RNA sequencing counts.
//
// 🚀 What is binfa?
//
//	A small, deterministic statistical core that brings together:
//		• Detection matrices: turn raw (dense or sparse) count matrices
//		  into binary gene×cell detection matrices
//		• Binary Factor Analysis: a logistic latent-factor model fit by
//		  IRLS block coordinate ascent, with cell- and gene-level covariates
//		• Binary PCA: a closed-form approximation via a variance-stabilized
//		  transform and truncated SVD
//		• Convergence control: relative log-likelihood stopping with an
//		  explicit noise allowance
//
// ✨ Why choose binfa?
//
//   - Deterministic – seeded initialization, no global random state
//   - Fail-fast – shape and degeneracy screens run before any numeric work
//   - Sentinel errors – every failure mode is a package-level sentinel
//     matched with errors.Is; warnings never abort a fit
//   - Built on gonum – SVD, Cholesky and least squares from the standard
//     Go numeric stack
//
// Under the hood, everything is organized under four subpackages:
//
//	detect/   — DetectionMatrixBuilder: counts → binary detection matrix
//	converge/ — ConvergenceController: iteration-termination policy
//	bfa/      — BinaryFactorAnalysis engine (iterative, maximum likelihood)
//	binpca/   — BinaryPCA engine (one-shot, transformed truncated SVD)
//
// Data flow:
//
//	counts ──detect──▶ D (genes×cells, {0,1}) ──bfa / binpca──▶ Z, A, β, γ / scores
//
// The embeddings and loadings are plain gonum matrices, ready for external
// visualization or clustering code. No plotting, persistence, or I/O lives
// here; those stay with the caller.
//
//	go get github.com/katalvlaran/binfa
package binfa
