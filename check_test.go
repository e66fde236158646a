package gomegranate_test

import (
	"errors"
	"testing"

	"github.com/gomegranate/gomegranate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func vec(backing ...float64) *tensor.Dense {
	return tensor.NewDense(
		tensor.Float64,
		[]int{len(backing)},
		tensor.WithBacking(backing),
	)
}

// TestCheckParameterNil verifies that a nil parameter short-circuits to
// a pass regardless of the constraints.
func TestCheckParameterNil(t *testing.T) {
	out, err := gomegranate.CheckParameter(nil, "p", gomegranate.Constraints{
		MinValue: gomegranate.F64(0),
		NDim:     gomegranate.I(1),
	})
	assert.NoError(t, err)
	assert.Nil(t, out)
}

// TestCheckParameterBounds exercises the elementwise min and max
// constraints and the error they report.
func TestCheckParameterBounds(t *testing.T) {
	p := vec(0, 0.5, 1)

	_, err := gomegranate.CheckParameter(p, "p", gomegranate.Constraints{
		MinValue: gomegranate.F64(0),
		MaxValue: gomegranate.F64(1),
	})
	assert.NoError(t, err)

	_, err = gomegranate.CheckParameter(p, "p", gomegranate.Constraints{
		MinValue: gomegranate.F64(0.25),
	})
	var verr *gomegranate.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "p", verr.Param)

	_, err = gomegranate.CheckParameter(p, "p", gomegranate.Constraints{
		MaxValue: gomegranate.F64(0.75),
	})
	assert.ErrorAs(t, err, &verr)
}

// TestCheckParameterValueSum verifies the aggregate sum constraint and
// its default absolute tolerance.
func TestCheckParameterValueSum(t *testing.T) {
	p := vec(0.25, 0.25, 0.5)

	_, err := gomegranate.CheckParameter(p, "p", gomegranate.Constraints{
		ValueSum: gomegranate.F64(1),
	})
	assert.NoError(t, err)

	// Within the default 1e-6 absolute tolerance.
	_, err = gomegranate.CheckParameter(vec(0.5, 0.5+5e-7), "p",
		gomegranate.Constraints{ValueSum: gomegranate.F64(1)})
	assert.NoError(t, err)

	_, err = gomegranate.CheckParameter(vec(0.5, 0.51), "p",
		gomegranate.Constraints{ValueSum: gomegranate.F64(1)})
	assert.Error(t, err)
}

// TestCheckParameterValueSet verifies the set membership constraint.
func TestCheckParameterValueSet(t *testing.T) {
	_, err := gomegranate.CheckParameter(vec(0, 1, 1, 0), "p",
		gomegranate.Constraints{ValueSet: []float64{0, 1}})
	assert.NoError(t, err)

	_, err = gomegranate.CheckParameter(vec(0, 2), "p",
		gomegranate.Constraints{ValueSet: []float64{0, 1}})
	assert.Error(t, err)
}

// TestCheckParameterDtypes verifies the data type constraint.
func TestCheckParameterDtypes(t *testing.T) {
	p := vec(1, 2)

	_, err := gomegranate.CheckParameter(p, "p", gomegranate.Constraints{
		Dtypes: []tensor.Dtype{tensor.Float64},
	})
	assert.NoError(t, err)

	_, err = gomegranate.CheckParameter(p, "p", gomegranate.Constraints{
		Dtypes: []tensor.Dtype{tensor.Float32},
	})
	assert.Error(t, err)
}

// TestCheckParameterNDimAndShape verifies the rank and shape
// constraints, including the -1 wildcard axis.
func TestCheckParameterNDimAndShape(t *testing.T) {
	m := tensor.NewDense(
		tensor.Float64,
		[]int{2, 3},
		tensor.WithBacking([]float64{1, 2, 3, 4, 5, 6}),
	)

	_, err := gomegranate.CheckParameter(m, "m", gomegranate.Constraints{
		NDim: gomegranate.I(2),
	})
	assert.NoError(t, err)

	var serr *gomegranate.ShapeError
	_, err = gomegranate.CheckParameter(m, "m", gomegranate.Constraints{
		NDim: gomegranate.I(1),
	})
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "m", serr.Param)

	_, err = gomegranate.CheckParameter(m, "m", gomegranate.Constraints{
		Shape: []int{-1, 3},
	})
	assert.NoError(t, err)

	_, err = gomegranate.CheckParameter(m, "m", gomegranate.Constraints{
		Shape: []int{-1, 2},
	})
	assert.ErrorAs(t, err, &serr)
}

// TestCheckParameterOrder verifies that the dtype check runs before the
// value checks: a parameter violating both reports the dtype.
func TestCheckParameterOrder(t *testing.T) {
	p := vec(-1)

	_, err := gomegranate.CheckParameter(p, "p", gomegranate.Constraints{
		MinValue: gomegranate.F64(0),
		Dtypes:   []tensor.Dtype{tensor.Float32},
	})
	var verr *gomegranate.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Constraint, "dtype")
}

// TestCheckShapes verifies pairwise length agreement between paired
// parameters.
func TestCheckShapes(t *testing.T) {
	a, b := vec(1, 2), vec(3, 4)
	assert.NoError(t, gomegranate.CheckShapes(
		[]*tensor.Dense{a, b}, []string{"a", "b"}))

	assert.NoError(t, gomegranate.CheckShapes(
		[]*tensor.Dense{a, nil}, []string{"a", "b"}),
		"nil entries are skipped")

	err := gomegranate.CheckShapes(
		[]*tensor.Dense{a, vec(1, 2, 3)}, []string{"a", "c"})
	var serr *gomegranate.ShapeError
	assert.True(t, errors.As(err, &serr))
}
