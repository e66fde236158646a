package distribution_test

import (
	"testing"

	"github.com/gomegranate/gomegranate/distribution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

// roundTrip marshals and unmarshals a distribution, requiring both
// halves to succeed.
func roundTrip(t *testing.T, d distribution.Distribution) distribution.Distribution {
	t.Helper()

	b, err := distribution.Marshal(d)
	require.NoError(t, err)

	out, err := distribution.Unmarshal(b)
	require.NoError(t, err)

	return out
}

// TestRoundTripLogProbabilities verifies that every distribution in
// the family produces bit-identical log probabilities after a
// serialization round trip.
func TestRoundTripLogProbabilities(t *testing.T) {
	X := matrix(2, 2, []float64{0, 1, 1, 0})

	dists := []distribution.Distribution{}

	dd, err := distribution.NewDiracDelta([]float64{0.5, 0.25}, 0.1, false)
	require.NoError(t, err)
	dists = append(dists, dd)

	p, err := distribution.NewPoisson([]float64{1.5, 2.5}, 0, false)
	require.NoError(t, err)
	dists = append(dists, p)

	e, err := distribution.NewExponential([]float64{0.5, 3}, 0.5, true)
	require.NoError(t, err)
	dists = append(dists, e)

	br, err := distribution.NewBernoulli([]float64{0.25, 0.75}, 0, false)
	require.NoError(t, err)
	dists = append(dists, br)

	n, err := distribution.NewNormal([]float64{0, 1}, []float64{1, 2},
		0, false)
	require.NoError(t, err)
	dists = append(dists, n)

	u, err := distribution.NewUniform([]float64{-1, -1}, []float64{2, 2},
		0, false)
	require.NoError(t, err)
	dists = append(dists, u)

	c, err := distribution.NewCategorical([][]float64{
		{0.1, 0.9},
		{0.5, 0.5},
	}, 0, 0, false)
	require.NoError(t, err)
	dists = append(dists, c)

	for _, d := range dists {
		out := roundTrip(t, d)

		assert.Equal(t, d.Name(), out.Name())
		assert.Equal(t, d.Dims(), out.Dims())
		assert.Equal(t, d.Inertia(), out.Inertia())
		assert.Equal(t, d.Frozen(), out.Frozen())

		want, err := d.LogProbability(X)
		require.NoError(t, err, d.Name())
		got, err := out.LogProbability(X)
		require.NoError(t, err, d.Name())
		assert.Equal(t, want.Data(), got.Data(),
			"%v must round-trip bit-identically", d.Name())
	}
}

// TestRoundTripUninitialized verifies that an uninitialized
// distribution survives a round trip and still lazily initializes.
func TestRoundTripUninitialized(t *testing.T) {
	p, err := distribution.NewPoisson(nil, 0.5, false)
	require.NoError(t, err)

	out := roundTrip(t, p)
	assert.False(t, out.Initialized())
	assert.Equal(t, 0.5, out.Inertia())

	require.NoError(t, out.Summarize(matrix(1, 2, []float64{1, 2}), nil))
	assert.Equal(t, 2, out.Dims())
}

// TestRoundTripCategoricalShape verifies that the matrix-valued
// parameter keeps its (d, k) shape through a round trip.
func TestRoundTripCategoricalShape(t *testing.T) {
	c, err := distribution.NewCategorical([][]float64{
		{0.2, 0.3, 0.5},
	}, 0, 0, false)
	require.NoError(t, err)

	out := roundTrip(t, c).(*distribution.Categorical)
	assert.Equal(t, 3, out.Keys())
	assert.Equal(t, tensor.Shape{1, 3}, out.Probs().Tensor().Shape())
}

// TestUnmarshalUnknown verifies the error on an unknown distribution
// name.
func TestUnmarshalUnknown(t *testing.T) {
	_, err := distribution.Unmarshal([]byte(`{"name":"NoSuch","d":1}`))
	assert.Error(t, err)
}
