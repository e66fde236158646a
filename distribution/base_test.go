package distribution_test

import (
	"testing"

	"github.com/gomegranate/gomegranate"
	"github.com/gomegranate/gomegranate/distribution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func matrix(n, d int, backing []float64) *tensor.Dense {
	return tensor.NewDense(tensor.Float64, []int{n, d},
		tensor.WithBacking(backing))
}

// TestLazyInitialization verifies the uninitialized -> initialized
// transition on the first batch seen by Summarize.
func TestLazyInitialization(t *testing.T) {
	p, err := distribution.NewPoisson(nil, 0, false)
	require.NoError(t, err)
	assert.False(t, p.Initialized())
	assert.Equal(t, 0, p.Dims())
	assert.Nil(t, p.Lambdas())

	X := matrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, p.Summarize(X, nil))

	assert.True(t, p.Initialized())
	assert.Equal(t, 3, p.Dims())
	require.NotNil(t, p.Lambdas())
	assert.Equal(t, tensor.Shape{3}, p.Lambdas().Tensor().Shape())
}

// TestLogProbabilityBeforeInitialization verifies that a pure read
// before any initialization path has run fails with
// ErrNotInitialized.
func TestLogProbabilityBeforeInitialization(t *testing.T) {
	p, err := distribution.NewPoisson(nil, 0, false)
	require.NoError(t, err)

	_, err = p.LogProbability(matrix(1, 2, []float64{0, 1}))
	assert.ErrorIs(t, err, distribution.ErrNotInitialized)
}

// TestShapeMismatch verifies that data of the wrong width fails with a
// shape error and mutates nothing.
func TestShapeMismatch(t *testing.T) {
	p, err := distribution.NewPoisson([]float64{1, 2}, 0, false)
	require.NoError(t, err)

	before := append([]float64(nil), p.Lambdas().Data()...)

	var serr *gomegranate.ShapeError
	_, err = p.LogProbability(matrix(1, 3, []float64{0, 1, 2}))
	assert.ErrorAs(t, err, &serr)

	err = p.Summarize(matrix(1, 3, []float64{0, 1, 2}), nil)
	assert.ErrorAs(t, err, &serr)

	// The typed error must survive the driver's wrapping too.
	err = distribution.Fit(p, matrix(1, 3, []float64{0, 1, 2}), nil)
	assert.ErrorAs(t, err, &serr)

	// A failed call must not have touched the parameters.
	assert.Equal(t, before, p.Lambdas().Data())
}

// TestFailedSummarizeDoesNotAccumulate verifies that a batch rejected
// by validation contributes nothing to the statistics even when the
// shape matches.
func TestFailedSummarizeDoesNotAccumulate(t *testing.T) {
	p, err := distribution.NewPoisson([]float64{1, 1}, 0, false)
	require.NoError(t, err)

	require.NoError(t, p.Summarize(matrix(1, 2, []float64{2, 4}), nil))

	// Negative counts are invalid; the whole call must be rejected.
	err = p.Summarize(matrix(1, 2, []float64{-1, 3}), nil)
	require.Error(t, err)

	require.NoError(t, p.FromSummaries())
	assert.Equal(t, []float64{2, 4}, p.Lambdas().Data())
}

// TestInertiaLaw verifies that inertia 1.0 leaves parameters exactly
// unchanged regardless of the accumulated statistics, and that an
// intermediate inertia blends old and new estimates.
func TestInertiaLaw(t *testing.T) {
	p, err := distribution.NewPoisson([]float64{1, 2}, 1.0, false)
	require.NoError(t, err)

	require.NoError(t, distribution.Fit(p,
		matrix(2, 2, []float64{5, 5, 7, 7}), nil))
	assert.Equal(t, []float64{1, 2}, p.Lambdas().Data(),
		"inertia 1.0 must never update")

	p, err = distribution.NewPoisson([]float64{1, 2}, 0.5, false)
	require.NoError(t, err)
	require.NoError(t, distribution.Fit(p,
		matrix(2, 2, []float64{5, 5, 7, 7}), nil))
	// Estimate is the column mean (6, 6); blend is 0.5*old + 0.5*new.
	assert.InDelta(t, 3.5, p.Lambdas().Data()[0], 1e-12)
	assert.InDelta(t, 4.0, p.Lambdas().Data()[1], 1e-12)
}

// TestFrozenLaw verifies that a frozen distribution never changes
// under any sequence of Summarize and FromSummaries calls.
func TestFrozenLaw(t *testing.T) {
	p, err := distribution.NewPoisson([]float64{1, 2}, 0, true)
	require.NoError(t, err)

	X := matrix(2, 2, []float64{5, 5, 7, 7})
	require.NoError(t, p.Summarize(X, nil))
	require.NoError(t, p.FromSummaries())
	require.NoError(t, distribution.Fit(p, X, nil))

	assert.Equal(t, []float64{1, 2}, p.Lambdas().Data())
}

// TestElementFrozen verifies that individually frozen elements are
// excluded from the blend while the rest update.
func TestElementFrozen(t *testing.T) {
	p, err := distribution.NewPoisson([]float64{1, 2}, 0, false)
	require.NoError(t, err)
	require.NoError(t, p.Lambdas().SetFrozen([]bool{true, false}))

	require.NoError(t, distribution.Fit(p,
		matrix(2, 2, []float64{5, 5, 7, 7}), nil))

	assert.Equal(t, 1.0, p.Lambdas().Data()[0], "frozen element kept")
	assert.InDelta(t, 6.0, p.Lambdas().Data()[1], 1e-12)
}

// TestBadInertia verifies that inertia outside [0, 1] is rejected at
// construction.
func TestBadInertia(t *testing.T) {
	_, err := distribution.NewPoisson(nil, -0.1, false)
	var verr *gomegranate.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "inertia", verr.Param)

	_, err = distribution.NewPoisson(nil, 1.1, false)
	assert.Error(t, err)
}

// TestLogProbabilityIsPure verifies that repeated reads return the
// same values and leave statistics untouched.
func TestLogProbabilityIsPure(t *testing.T) {
	p, err := distribution.NewPoisson([]float64{1, 2}, 0, false)
	require.NoError(t, err)

	X := matrix(2, 2, []float64{0, 2, 1, 2})
	first, err := p.LogProbability(X)
	require.NoError(t, err)
	second, err := p.LogProbability(X)
	require.NoError(t, err)
	assert.Equal(t, first.Data(), second.Data())

	// No statistics were accumulated by reads: an immediate update
	// divides zero by zero and the estimate is NaN for every feature,
	// but reads never contribute.
	require.NoError(t, p.Summarize(X, nil))
	require.NoError(t, p.FromSummaries())
	assert.InDelta(t, 0.5, p.Lambdas().Data()[0], 1e-12)
	assert.InDelta(t, 2.0, p.Lambdas().Data()[1], 1e-12)
}

// TestProbability verifies the Probability driver is the exponential
// of LogProbability.
func TestProbability(t *testing.T) {
	d, err := distribution.NewDiracDelta([]float64{0.5, 0.25}, 0, false)
	require.NoError(t, err)

	prob, err := distribution.Probability(d,
		matrix(2, 2, []float64{0, 0, 0, 1}))
	require.NoError(t, err)

	got := prob.Data().([]float64)
	assert.InDelta(t, 0.125, got[0], 1e-12)
	assert.Equal(t, 0.0, got[1])
}
