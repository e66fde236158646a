package distribution

import (
	"errors"
	"fmt"
	"math"

	"github.com/gomegranate/gomegranate"
	"gorgonia.org/tensor"
)

// ErrNotInitialized is returned when an operation that needs parameters
// runs before the distribution has seen either explicit parameters or
// any data.
var ErrNotInitialized = errors.New("distribution has not been initialized")

// base carries the state shared by every distribution: feature
// dimensionality, lifecycle flags, and the update policy.
type base struct {
	name        string
	d           int
	initialized bool
	frozen      bool
	inertia     float64
}

func newBase(name string, inertia float64, frozen bool) (base, error) {
	if inertia < 0 || inertia > 1 {
		return base{}, &gomegranate.ValidationError{
			Param:      "inertia",
			Constraint: fmt.Sprintf("must be in [0, 1] but got %v", inertia),
		}
	}

	return base{name: name, inertia: inertia, frozen: frozen}, nil
}

func (b *base) Name() string { return b.name }

func (b *base) Dims() int { return b.d }

func (b *base) Initialized() bool { return b.initialized }

func (b *base) Frozen() bool { return b.frozen }

func (b *base) Inertia() float64 { return b.inertia }

// checkData casts X to a float64 tensor and verifies it is a rank-2
// batch whose width matches the distribution, lazily initializing the
// distribution against the observed width through init. A nil init
// means lazy initialization is not available on this path and an
// uninitialized distribution is an error.
func (b *base) checkData(X tensor.Tensor, init func(d int) error) (
	*tensor.Dense, error) {
	Xd, err := gomegranate.Cast(X, tensor.Float64)
	if err != nil {
		return nil, err
	}
	if Xd == nil {
		return nil, &gomegranate.ValidationError{
			Param:      "X",
			Constraint: "must not be nil",
		}
	}

	if _, err := gomegranate.CheckParameter(Xd, "X", gomegranate.Constraints{
		NDim: gomegranate.I(2),
	}); err != nil {
		return nil, err
	}

	if !b.initialized {
		if init == nil {
			return nil, ErrNotInitialized
		}
		if err := init(Xd.Shape()[1]); err != nil {
			return nil, err
		}
	}

	if _, err := gomegranate.CheckParameter(Xd, "X", gomegranate.Constraints{
		Shape: []int{-1, b.d},
	}); err != nil {
		return nil, err
	}

	return Xd, nil
}

// summarize runs the shared half of the two-phase update: data
// validation, lazy initialization and weight normalization. Concrete
// distributions fold the returned batch into their accumulators.
func (b *base) summarize(X, sampleWeight tensor.Tensor,
	init func(d int) error) (*tensor.Dense, *tensor.Dense, error) {
	Xd, err := b.checkData(X, init)
	if err != nil {
		return nil, nil, err
	}

	w, err := gomegranate.ReshapeWeights(Xd, sampleWeight)
	if err != nil {
		return nil, nil, err
	}

	return Xd, w, nil
}

// update replaces the value held by p with the inertia blend of the old
// value and the estimate, elementwise. Individually frozen elements
// keep their old value.
func (b *base) update(p *Parameter, estimate []float64) {
	cur := p.value.Data().([]float64)
	for i := range cur {
		if p.frozen != nil && p.frozen[i] {
			continue
		}
		cur[i] = b.inertia*cur[i] + (1-b.inertia)*estimate[i]
	}
}

// colSums returns the per-column sums of a rank-2 tensor.
func colSums(t tensor.Tensor) ([]float64, error) {
	s, err := tensor.Sum(t, 0)
	if err != nil {
		return nil, fmt.Errorf("colSums: %v", err)
	}

	switch data := s.Data().(type) {
	case []float64:
		return data, nil
	case float64:
		return []float64{data}, nil
	default:
		return nil, fmt.Errorf("colSums: unexpected data type %T", data)
	}
}

// zeros and logs are small kernels used when resetting accumulators and
// recomputing caches.
func zeros(n int) []float64 { return make([]float64, n) }

func logs(data []float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = math.Log(v)
	}
	return out
}
