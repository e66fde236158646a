// Package distribution provides parametric probability distributions
// that support batched, weighted, incremental parameter estimation.
//
// Every distribution follows the same two-phase protocol: Summarize
// folds a validated batch of data into running sufficient statistics,
// and FromSummaries converts the accumulated statistics into an
// inertia-blended parameter update before resetting them. Distributions
// may be constructed with explicit parameters or left uninitialized, in
// which case the feature dimensionality is inferred from the first batch
// seen by Summarize.
//
// A distribution instance owns its parameter and accumulator tensors
// exclusively. Calls to Summarize and FromSummaries against the same
// instance must be serialized by the caller; LogProbability is safe for
// any number of concurrent callers against a quiescent instance.
package distribution

import (
	"fmt"
	"math"

	"gorgonia.org/tensor"
)

// Distribution is a probability distribution over fixed-width rows of
// data. All data-facing methods take a rank-2 tensor of shape (n, d)
// where d is the number of features the distribution models.
type Distribution interface {
	Name() string

	// Dims returns the number of features the distribution models, or
	// 0 if the dimensionality has not been fixed yet.
	Dims() int
	Initialized() bool
	Frozen() bool
	Inertia() float64

	// LogProbability returns the log probability of each example as a
	// vector of length n. It is a pure read of the current parameters.
	LogProbability(X tensor.Tensor) (*tensor.Dense, error)

	// Summarize folds a batch of optionally weighted examples into the
	// running sufficient statistics. Weights may be nil, a length-n
	// vector, an (n, 1) matrix or an (n, d) matrix. A frozen
	// distribution ignores the call.
	Summarize(X, sampleWeight tensor.Tensor) error

	// FromSummaries converts the accumulated statistics into new
	// parameter values, blending them against the old values by the
	// distribution's inertia, then resets the statistics. A frozen
	// distribution ignores the call.
	FromSummaries() error
}

// Fit folds a single batch into d and immediately updates its
// parameters: exactly one Summarize followed by one FromSummaries.
func Fit(d Distribution, X, sampleWeight tensor.Tensor) error {
	if err := d.Summarize(X, sampleWeight); err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	if err := d.FromSummaries(); err != nil {
		return fmt.Errorf("fit: %w", err)
	}

	return nil
}

// Probability returns the probability of each example under d, which is
// the exponential of its log probability.
func Probability(d Distribution, X tensor.Tensor) (*tensor.Dense, error) {
	logp, err := d.LogProbability(X)
	if err != nil {
		return nil, fmt.Errorf("probability: %w", err)
	}

	data := logp.Data().([]float64)
	for i, v := range data {
		data[i] = math.Exp(v)
	}

	return logp, nil
}
