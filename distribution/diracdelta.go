package distribution

import (
	"fmt"
	"math"

	"github.com/gomegranate/gomegranate"
	"gorgonia.org/tensor"
)

// DiracDelta is a distribution with its entire mass at zero. Each
// feature is independent of the others, so any example with a non-zero
// value in any feature is assigned zero probability. Each alpha is the
// probability returned when the corresponding feature is exactly zero.
//
// There is nothing to learn for a DiracDelta: Summarize validates its
// inputs but accumulates no statistics, and FromSummaries never changes
// the alphas. It exists as the degenerate end of the family.
type DiracDelta struct {
	base

	alphas    *Parameter
	logAlphas []float64
}

// NewDiracDelta returns a DiracDelta with the given per-feature alphas,
// which may be any numeric array-like accepted by gomegranate.Cast, or
// nil to defer initialization until the first batch of data is seen.
func NewDiracDelta(alphas interface{}, inertia float64, frozen bool) (
	*DiracDelta, error) {
	b, err := newBase("DiracDelta", inertia, frozen)
	if err != nil {
		return nil, err
	}

	at, err := gomegranate.Cast(alphas, tensor.Float64)
	if err != nil {
		return nil, fmt.Errorf("newDiracDelta: %w", err)
	}
	at, err = gomegranate.CheckParameter(at, "alphas", gomegranate.Constraints{
		MinValue: gomegranate.F64(0),
		NDim:     gomegranate.I(1),
	})
	if err != nil {
		return nil, err
	}

	d := &DiracDelta{base: b}
	if at != nil {
		d.alphas = newParameter(at)
		d.d = at.Shape()[0]
		d.initialized = true
		d.resetCache()
	}

	return d, nil
}

// Alphas returns the alpha parameter slot, or nil before initialization.
func (d *DiracDelta) Alphas() *Parameter { return d.alphas }

func (d *DiracDelta) initialize(dims int) error {
	backing := make([]float64, dims)
	for i := range backing {
		backing[i] = 1
	}

	d.alphas = newParameter(tensor.New(
		tensor.WithShape(dims),
		tensor.WithBacking(backing),
	))
	d.d = dims
	d.initialized = true
	d.resetCache()

	return nil
}

func (d *DiracDelta) resetCache() {
	if !d.initialized {
		return
	}

	d.logAlphas = logs(d.alphas.Data())
}

// LogProbability returns the log probability of each example. A row
// contributes log(alphas[j]) for every feature j that is exactly zero
// and -Inf otherwise, summed across features.
func (d *DiracDelta) LogProbability(X tensor.Tensor) (*tensor.Dense, error) {
	if !d.initialized {
		return nil, ErrNotInitialized
	}

	Xd, err := d.checkData(X, nil)
	if err != nil {
		return nil, fmt.Errorf("logProbability: %w", err)
	}

	data := Xd.Data().([]float64)
	n := Xd.Shape()[0]
	logp := make([]float64, n)
	for i := 0; i < n; i++ {
		total := 0.0
		for j := 0; j < d.d; j++ {
			if data[i*d.d+j] == 0 {
				total += d.logAlphas[j]
			} else {
				total = math.Inf(-1)
			}
		}
		logp[i] = total
	}

	return tensor.New(tensor.WithShape(n), tensor.WithBacking(logp)), nil
}

// Summarize validates the batch and its weights but accumulates
// nothing: a DiracDelta has no free statistic to learn.
func (d *DiracDelta) Summarize(X, sampleWeight tensor.Tensor) error {
	if d.frozen {
		return nil
	}

	if _, _, err := d.summarize(X, sampleWeight, d.initialize); err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	return nil
}

// FromSummaries is a no-op: there is nothing to update.
func (d *DiracDelta) FromSummaries() error {
	return nil
}
