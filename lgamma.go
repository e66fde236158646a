package gomegranate

import (
	"fmt"
	"math"

	"gorgonia.org/tensor"
)

// LgammaDense computes the element-wise log-gamma function of t into a
// new tensor, for callers working eagerly rather than through a graph.
// Only float64 tensors are supported.
func LgammaDense(t *tensor.Dense) (*tensor.Dense, error) {
	if t == nil {
		return nil, fmt.Errorf("lgammaDense: nil tensor")
	}
	if t.Dtype() != tensor.Float64 {
		return nil, fmt.Errorf("lgammaDense: data type %v unsupported",
			t.Dtype())
	}

	switch data := t.Data().(type) {
	case []float64:
		backing := make([]float64, len(data))
		for i, v := range data {
			backing[i], _ = math.Lgamma(v)
		}
		return tensor.New(
			tensor.WithShape(t.Shape().Clone()...),
			tensor.WithBacking(backing),
		), nil

	case float64:
		lg, _ := math.Lgamma(data)
		return tensor.New(tensor.FromScalar(lg)), nil

	default:
		return nil, fmt.Errorf("lgammaDense: cannot compute lgamma on "+
			"data of type %T", data)
	}
}
