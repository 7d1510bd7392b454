// Package converge decides when an iterative maximum-likelihood fit should
// stop.
//
// The controller watches a log-likelihood history and stops on either of two
// conditions: the relative improvement between consecutive sweeps falls
// below a tolerance (converged), or the iteration cap is reached (not
// converged — the engine reports this as a warning, never a failure).
//
// A third signal is diagnostic: a log-likelihood decrease beyond a small
// noise allowance. Exact block-ascent steps cannot decrease the objective;
// a real decrease indicates a linearization overshoot and is surfaced to the
// caller as a warning so the fit can still complete.
//
// The controller is a plain value with no internal state; the same
// Controller may assess any number of independent histories.
package converge
