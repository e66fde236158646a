// Package gomegranate provides the numeric glue used by its distribution
// subpackage: casting arbitrary numeric input into dense tensors,
// validating parameter tensors against declared constraints, normalizing
// sample weights, and extended operations that the underlying tensor
// library lacks.
package gomegranate

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Cast converts an arbitrary numeric value into a dense tensor of the
// given data type. A nil value stays nil so that optional parameters can
// flow through unchanged. Tensors that already have the target data type
// are returned as-is; tensors of another data type are converted
// element-wise into a new tensor. Go scalars, slices and nested slices
// are converted to tensors of the corresponding rank.
//
// Only tensor.Float64 and tensor.Float32 are supported as target data
// types.
func Cast(value interface{}, dtype tensor.Dtype) (*tensor.Dense, error) {
	if value == nil {
		return nil, nil
	}

	switch v := value.(type) {
	case *tensor.Dense:
		if v == nil {
			return nil, nil
		}
		return castDense(v, dtype)

	case tensor.Tensor:
		dense, ok := v.(*tensor.Dense)
		if !ok {
			return nil, fmt.Errorf("cast: unsupported tensor type %T", value)
		}
		return castDense(dense, dtype)

	case float64:
		return scalarDense(v, dtype)

	case float32:
		return scalarDense(float64(v), dtype)

	case int:
		return scalarDense(float64(v), dtype)

	case []float64:
		backing := make([]float64, len(v))
		copy(backing, v)
		return denseOf(backing, []int{len(v)}, dtype)

	case []float32:
		backing := make([]float64, len(v))
		for i, e := range v {
			backing[i] = float64(e)
		}
		return denseOf(backing, []int{len(v)}, dtype)

	case []int:
		backing := make([]float64, len(v))
		for i, e := range v {
			backing[i] = float64(e)
		}
		return denseOf(backing, []int{len(v)}, dtype)

	case [][]float64:
		backing, shape, err := flatten(len(v), func(i int) []float64 {
			return v[i]
		})
		if err != nil {
			return nil, err
		}
		return denseOf(backing, shape, dtype)

	case [][]int:
		backing, shape, err := flatten(len(v), func(i int) []float64 {
			row := make([]float64, len(v[i]))
			for j, e := range v[i] {
				row[j] = float64(e)
			}
			return row
		})
		if err != nil {
			return nil, err
		}
		return denseOf(backing, shape, dtype)

	default:
		return nil, fmt.Errorf("cast: cannot convert %T to a tensor", value)
	}
}

// flatten row-majors a nested slice into a flat backing and its shape,
// rejecting ragged rows.
func flatten(rows int, row func(i int) []float64) ([]float64, []int, error) {
	if rows == 0 {
		return nil, []int{0, 0}, nil
	}

	cols := len(row(0))
	backing := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		r := row(i)
		if len(r) != cols {
			return nil, nil, fmt.Errorf("cast: ragged input, row 0 has %v "+
				"columns but row %v has %v", cols, i, len(r))
		}
		backing = append(backing, r...)
	}

	return backing, []int{rows, cols}, nil
}

// denseOf builds a dense tensor of the target dtype from float64 data.
func denseOf(data []float64, shape []int, dtype tensor.Dtype) (*tensor.Dense,
	error) {
	switch dtype {
	case tensor.Float64:
		return tensor.New(
			tensor.WithShape(shape...),
			tensor.WithBacking(data),
		), nil

	case tensor.Float32:
		backing := make([]float32, len(data))
		for i, e := range data {
			backing[i] = float32(e)
		}
		return tensor.New(
			tensor.WithShape(shape...),
			tensor.WithBacking(backing),
		), nil

	default:
		return nil, fmt.Errorf("cast: unsupported data type %v", dtype)
	}
}

func scalarDense(v float64, dtype tensor.Dtype) (*tensor.Dense, error) {
	switch dtype {
	case tensor.Float64:
		return tensor.New(tensor.FromScalar(v)), nil

	case tensor.Float32:
		return tensor.New(tensor.FromScalar(float32(v))), nil

	default:
		return nil, fmt.Errorf("cast: unsupported data type %v", dtype)
	}
}

func castDense(t *tensor.Dense, dtype tensor.Dtype) (*tensor.Dense, error) {
	if t.Dtype() == dtype {
		return t, nil
	}

	data, err := denseFloat64s(t)
	if err != nil {
		return nil, err
	}

	return denseOf(data, t.Shape().Clone(), dtype)
}

// denseFloat64s copies the contents of a dense tensor into a flat
// float64 slice, converting from the tensor's data type.
func denseFloat64s(t *tensor.Dense) ([]float64, error) {
	switch data := t.Data().(type) {
	case []float64:
		out := make([]float64, len(data))
		copy(out, data)
		return out, nil

	case []float32:
		out := make([]float64, len(data))
		for i, e := range data {
			out[i] = float64(e)
		}
		return out, nil

	case []int:
		out := make([]float64, len(data))
		for i, e := range data {
			out[i] = float64(e)
		}
		return out, nil

	case float64:
		return []float64{data}, nil

	case float32:
		return []float64{float64(data)}, nil

	case int:
		return []float64{float64(data)}, nil

	default:
		return nil, fmt.Errorf("cast: cannot convert tensor data of type "+
			"%T", data)
	}
}
