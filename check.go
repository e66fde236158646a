package gomegranate

import (
	"fmt"
	"math"

	"gorgonia.org/tensor"
)

// DefaultEpsilon is the absolute tolerance used by the ValueSum
// constraint when Constraints.Epsilon is left zero.
const DefaultEpsilon = 1e-6

// Constraints describes the optional conditions that CheckParameter
// enforces. Fields left nil (or empty) are not checked. Constraints are
// independent of one another and are checked in a fixed order: dtype,
// min, max, sum, set, ndim, shape.
type Constraints struct {
	// MinValue and MaxValue bound every element of the parameter.
	MinValue *float64
	MaxValue *float64

	// ValueSum requires the elements to sum to the given value within
	// Epsilon, treated as an absolute tolerance.
	ValueSum *float64
	Epsilon  float64

	// ValueSet requires every element to be a member of the given set.
	ValueSet []float64

	// Dtypes requires the parameter's data type to be one of the given
	// set.
	Dtypes []tensor.Dtype

	// NDim requires the parameter to have exactly this rank.
	NDim *int

	// Shape requires the parameter to have exactly this shape; -1
	// accepts any size at that axis.
	Shape []int
}

// F64 returns a pointer to v for use in a Constraints literal.
func F64(v float64) *float64 { return &v }

// I returns a pointer to n for use in a Constraints literal.
func I(n int) *int { return &n }

// CheckParameter ensures that a parameter tensor satisfies the given
// constraints, returning the parameter unchanged on success. A nil
// parameter short-circuits to a pass so that optional parameters can be
// validated unconditionally. Violations are reported as *ValidationError
// or, for the rank and shape constraints, *ShapeError.
func CheckParameter(p *tensor.Dense, name string, c Constraints) (
	*tensor.Dense, error) {
	if p == nil {
		return nil, nil
	}

	if len(c.Dtypes) > 0 {
		ok := false
		for _, dt := range c.Dtypes {
			if p.Dtype() == dt {
				ok = true
				break
			}
		}
		if !ok {
			return nil, &ValidationError{name, fmt.Sprintf("dtype must be "+
				"one of %v but got %v", c.Dtypes, p.Dtype())}
		}
	}

	if c.MinValue != nil || c.MaxValue != nil || c.ValueSum != nil ||
		c.ValueSet != nil {
		data, err := denseFloat64s(p)
		if err != nil {
			return nil, fmt.Errorf("checkParameter: %v", err)
		}

		if c.MinValue != nil {
			for _, v := range data {
				if v < *c.MinValue {
					return nil, &ValidationError{name, fmt.Sprintf("must "+
						"have a minimum value above %v", *c.MinValue)}
				}
			}
		}

		if c.MaxValue != nil {
			for _, v := range data {
				if v > *c.MaxValue {
					return nil, &ValidationError{name, fmt.Sprintf("must "+
						"have a maximum value below %v", *c.MaxValue)}
				}
			}
		}

		if c.ValueSum != nil {
			eps := c.Epsilon
			if eps == 0 {
				eps = DefaultEpsilon
			}

			sum := 0.0
			for _, v := range data {
				sum += v
			}
			if math.Abs(sum-*c.ValueSum) > eps {
				return nil, &ValidationError{name, fmt.Sprintf("must sum "+
					"to %v", *c.ValueSum)}
			}
		}

		if c.ValueSet != nil {
			for _, v := range data {
				member := false
				for _, s := range c.ValueSet {
					if v == s {
						member = true
						break
					}
				}
				if !member {
					return nil, &ValidationError{name, fmt.Sprintf("must "+
						"contain values in set %v", c.ValueSet)}
				}
			}
		}
	}

	if c.NDim != nil && p.Dims() != *c.NDim {
		return nil, &ShapeError{
			Param:    name,
			Got:      p.Shape().Clone(),
			WantDims: *c.NDim,
		}
	}

	if c.Shape != nil {
		shape := p.Shape()
		if len(shape) != len(c.Shape) {
			return nil, &ShapeError{
				Param: name,
				Want:  tensor.Shape(c.Shape),
				Got:   shape.Clone(),
			}
		}

		for i := range c.Shape {
			if c.Shape[i] != -1 && c.Shape[i] != shape[i] {
				return nil, &ShapeError{
					Param: name,
					Want:  tensor.Shape(c.Shape),
					Got:   shape.Clone(),
				}
			}
		}
	}

	return p, nil
}

// CheckShapes ensures that paired parameter tensors agree in length
// along their first axis, skipping nil entries. names holds the
// parameter name for each entry of params for error reporting.
func CheckShapes(params []*tensor.Dense, names []string) error {
	for i := range params {
		for j := i + 1; j < len(params); j++ {
			if params[i] == nil || params[j] == nil {
				continue
			}

			if params[i].Shape()[0] != params[j].Shape()[0] {
				return &ShapeError{
					Param: fmt.Sprintf("%v and %v", names[i], names[j]),
					Want:  params[i].Shape().Clone(),
					Got:   params[j].Shape().Clone(),
				}
			}
		}
	}

	return nil
}
