package distribution_test

import (
	"math"
	"testing"

	"github.com/gomegranate/gomegranate/distribution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBernoulliLogProbability verifies the likelihood against the
// direct formula x*ln(p) + (1-x)*ln(1-p) summed across features.
func TestBernoulliLogProbability(t *testing.T) {
	probs := []float64{0.25, 0.75}
	b, err := distribution.NewBernoulli(probs, 0, false)
	require.NoError(t, err)

	logp, err := b.LogProbability(matrix(2, 2, []float64{1, 0, 0, 1}))
	require.NoError(t, err)

	got := logp.Data().([]float64)
	assert.InDelta(t, math.Log(0.25)+math.Log(0.25), got[0], 1e-12)
	assert.InDelta(t, math.Log(0.75)+math.Log(0.75), got[1], 1e-12)
}

// TestBernoulliValueSet verifies that data outside {0, 1} is rejected
// on both the read and the update paths.
func TestBernoulliValueSet(t *testing.T) {
	b, err := distribution.NewBernoulli([]float64{0.5}, 0, false)
	require.NoError(t, err)

	X := matrix(1, 1, []float64{2})
	_, err = b.LogProbability(X)
	assert.Error(t, err)
	assert.Error(t, b.Summarize(X, nil))
}

// TestBernoulliFit verifies the closed-form MLE: the weighted success
// rate per feature.
func TestBernoulliFit(t *testing.T) {
	b, err := distribution.NewBernoulli(nil, 0, false)
	require.NoError(t, err)

	X := matrix(4, 2, []float64{
		1, 0,
		1, 0,
		1, 1,
		0, 1,
	})
	require.NoError(t, distribution.Fit(b, X, nil))

	assert.InDelta(t, 0.75, b.Probs().Data()[0], 1e-12)
	assert.InDelta(t, 0.5, b.Probs().Data()[1], 1e-12)
}

// TestBernoulliBadProbs verifies construction-time range validation.
func TestBernoulliBadProbs(t *testing.T) {
	_, err := distribution.NewBernoulli([]float64{0.5, 1.5}, 0, false)
	assert.Error(t, err)

	_, err = distribution.NewBernoulli([]float64{-0.5}, 0, false)
	assert.Error(t, err)
}
