package gomegranate

import (
	"fmt"

	"gorgonia.org/tensor"
)

// ReshapeWeights expands a sample weight specification into a full
// per-example per-feature weight matrix matching the shape of X, which
// must be rank 2. A nil weight becomes a matrix of ones. A length-n
// vector or an (n, 1) matrix is replicated across the feature columns.
// An (n, d) matrix passes through unchanged. The result is validated to
// be non-negative, rank 2 and shaped exactly like X.
//
// This is the single place weight-shape ambiguity is resolved; every
// distribution's Summarize delegates to it.
func ReshapeWeights(X *tensor.Dense, sampleWeight tensor.Tensor) (
	*tensor.Dense, error) {
	if X == nil {
		return nil, &ValidationError{"X", "must not be nil"}
	}
	if X.Dims() != 2 {
		return nil, &ShapeError{Param: "X", Got: X.Shape().Clone(),
			WantDims: 2}
	}

	n, d := X.Shape()[0], X.Shape()[1]

	var w *tensor.Dense
	if sampleWeight == nil {
		w = tensor.Ones(tensor.Float64, n, d)
	} else {
		var err error
		w, err = Cast(sampleWeight, tensor.Float64)
		if err != nil {
			return nil, fmt.Errorf("reshapeWeights: %v", err)
		}

		switch {
		case w.Dims() == 1:
			w, err = tileColumns(w, d)

		case w.Dims() == 2 && w.Shape()[1] == 1 && d != 1:
			w, err = tileColumns(w, d)
		}
		if err != nil {
			return nil, fmt.Errorf("reshapeWeights: %v", err)
		}
	}

	_, err := CheckParameter(w, "sample_weight", Constraints{
		MinValue: F64(0),
		NDim:     I(2),
		Shape:    []int{n, d},
	})
	if err != nil {
		return nil, err
	}

	return w, nil
}

// tileColumns replicates a per-example weight across d feature columns,
// producing an (n, d) matrix from n weights.
func tileColumns(w *tensor.Dense, d int) (*tensor.Dense, error) {
	data, err := denseFloat64s(w)
	if err != nil {
		return nil, err
	}

	backing := make([]float64, len(data)*d)
	for i, v := range data {
		for j := 0; j < d; j++ {
			backing[i*d+j] = v
		}
	}

	return tensor.New(
		tensor.WithShape(len(data), d),
		tensor.WithBacking(backing),
	), nil
}
