package distribution_test

import (
	"math"
	"testing"

	"github.com/gomegranate/gomegranate/distribution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

// TestNormalAgainstGonum verifies the likelihood against the gonum
// reference implementation, summed across independent features.
func TestNormalAgainstGonum(t *testing.T) {
	means := []float64{0, 2}
	covs := []float64{1, 4}
	n, err := distribution.NewNormal(means, covs, 0, false)
	require.NoError(t, err)

	X := [][]float64{{0, 2}, {1, -1}, {-2.5, 3}}
	logp, err := n.LogProbability(
		matrix(3, 2, []float64{0, 2, 1, -1, -2.5, 3}))
	require.NoError(t, err)

	got := logp.Data().([]float64)
	for i, row := range X {
		want := 0.0
		for j, x := range row {
			want += distuv.Normal{
				Mu:    means[j],
				Sigma: math.Sqrt(covs[j]),
			}.LogProb(x)
		}
		assert.InDelta(t, want, got[i], 1e-10)
	}
}

// TestNormalFit verifies the closed-form weighted mean and variance.
func TestNormalFit(t *testing.T) {
	n, err := distribution.NewNormal(nil, nil, 0, false)
	require.NoError(t, err)

	X := matrix(4, 1, []float64{1, 3, 5, 7})
	require.NoError(t, distribution.Fit(n, X, nil))

	assert.InDelta(t, 4.0, n.Means().Data()[0], 1e-12)
	assert.InDelta(t, 5.0, n.Covs().Data()[0], 1e-12)
}

// TestNormalMismatchedParameters verifies that means and covs must
// agree in length and must be given together.
func TestNormalMismatchedParameters(t *testing.T) {
	_, err := distribution.NewNormal([]float64{0, 1}, []float64{1}, 0,
		false)
	assert.Error(t, err)

	_, err = distribution.NewNormal([]float64{0}, nil, 0, false)
	assert.Error(t, err)
}

// TestNormalNegativeCovs verifies construction-time validation of the
// variances.
func TestNormalNegativeCovs(t *testing.T) {
	_, err := distribution.NewNormal([]float64{0}, []float64{-1}, 0, false)
	assert.Error(t, err)
}

// TestNormalEntropy verifies the per-feature differential entropy.
func TestNormalEntropy(t *testing.T) {
	n, err := distribution.NewNormal([]float64{0}, []float64{1}, 0, false)
	require.NoError(t, err)

	ent, err := n.Entropy()
	require.NoError(t, err)
	assert.InDelta(t, distuv.Normal{Mu: 0, Sigma: 1}.Entropy(), ent[0],
		1e-12)
}
