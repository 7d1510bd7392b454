// Package binpca computes a closed-form approximate embedding of a binary
// gene-detection matrix.
//
// Instead of the iterative likelihood ascent in package bfa, binpca applies
// a variance-stabilizing transform to the detection matrix — each entry
// becomes a standardized Bernoulli residual against its gene's detection
// frequency — and takes the truncated singular value decomposition of the
// result. Under a Gaussian surrogate for the Bernoulli likelihood this is
// the exact maximum-likelihood factor solution, so binpca trades model
// fidelity for the cost of a single decomposition.
//
// Outputs follow the same orientation contract as bfa: for a G×N detection
// matrix and rank K, scores are N×K (one row per cell, scaled by singular
// values), loadings are G×K, and ExplainedVariance holds the K variance
// fractions.
//
// The engine holds no state between calls; fitting the same input twice
// yields identical outputs.
package binpca
