package distribution

import (
	"fmt"

	"github.com/gomegranate/gomegranate"
	"gorgonia.org/tensor"
)

// Categorical models each feature as a draw from an independent
// categorical distribution over the keys 0..k-1, with a (d, k)
// probability matrix whose rows each sum to one. It is the
// matrix-parameter member of the family: the frozen mask and the
// inertia blend apply to the flattened (d, k) parameter.
type Categorical struct {
	base

	nKeys    int
	probs    *Parameter
	logProbs []float64

	counts []float64
}

// NewCategorical returns a Categorical over nKeys keys per feature.
// probs may be a (d, k) numeric array-like accepted by
// gomegranate.Cast, in which case nKeys must be 0 or equal to k, or nil
// to defer initialization until the first batch of data is seen; a nil
// probs requires nKeys > 0 since the key count cannot be inferred
// reliably from data.
func NewCategorical(probs interface{}, nKeys int, inertia float64,
	frozen bool) (*Categorical, error) {
	b, err := newBase("Categorical", inertia, frozen)
	if err != nil {
		return nil, err
	}

	pt, err := gomegranate.Cast(probs, tensor.Float64)
	if err != nil {
		return nil, fmt.Errorf("newCategorical: %w", err)
	}
	pt, err = gomegranate.CheckParameter(pt, "probs", gomegranate.Constraints{
		MinValue: gomegranate.F64(0),
		MaxValue: gomegranate.F64(1),
		NDim:     gomegranate.I(2),
	})
	if err != nil {
		return nil, err
	}

	c := &Categorical{base: b}
	if pt == nil {
		if nKeys <= 0 {
			return nil, &gomegranate.ValidationError{
				Param:      "nKeys",
				Constraint: "must be positive when probs is nil",
			}
		}
		c.nKeys = nKeys
		return c, nil
	}

	k := pt.Shape()[1]
	if nKeys != 0 && nKeys != k {
		return nil, &gomegranate.ValidationError{
			Param: "nKeys",
			Constraint: fmt.Sprintf("must match the %v columns of probs "+
				"but got %v", k, nKeys),
		}
	}

	// Each feature's row must be a probability distribution over keys.
	data := pt.Data().([]float64)
	for j := 0; j < pt.Shape()[0]; j++ {
		row := tensor.New(
			tensor.WithShape(k),
			tensor.WithBacking(data[j*k:(j+1)*k]),
		)
		if _, err := gomegranate.CheckParameter(row,
			fmt.Sprintf("probs[%v]", j), gomegranate.Constraints{
				ValueSum: gomegranate.F64(1),
			}); err != nil {
			return nil, err
		}
	}

	c.nKeys = k
	c.probs = newParameter(pt)
	c.d = pt.Shape()[0]
	c.initialized = true
	c.resetCache()

	return c, nil
}

// Probs returns the (d, k) probability parameter slot, or nil before
// initialization.
func (c *Categorical) Probs() *Parameter { return c.probs }

// Keys returns the number of keys each feature can take.
func (c *Categorical) Keys() int { return c.nKeys }

func (c *Categorical) initialize(d int) error {
	backing := make([]float64, d*c.nKeys)
	for i := range backing {
		backing[i] = 1 / float64(c.nKeys)
	}

	c.probs = newParameter(tensor.New(
		tensor.WithShape(d, c.nKeys),
		tensor.WithBacking(backing),
	))
	c.d = d
	c.initialized = true
	c.resetCache()

	return nil
}

// keySet returns the valid keys 0..k-1 as float64 values, the form the
// data arrives in.
func (c *Categorical) keySet() []float64 {
	set := make([]float64, c.nKeys)
	for k := range set {
		set[k] = float64(k)
	}
	return set
}

func (c *Categorical) resetCache() {
	if !c.initialized {
		return
	}

	c.counts = zeros(c.d * c.nKeys)

	c.logProbs = logs(c.probs.Data())
}

// LogProbability returns the log probability of each example. Every
// entry of X must be a key in [0, k-1]. A row's log probability is the
// sum across features of the log probability of the observed key.
func (c *Categorical) LogProbability(X tensor.Tensor) (*tensor.Dense, error) {
	if !c.initialized {
		return nil, ErrNotInitialized
	}

	Xd, err := c.checkData(X, nil)
	if err != nil {
		return nil, fmt.Errorf("logProbability: %w", err)
	}
	// Membership rather than a range check: non-integer entries would
	// otherwise truncate into the wrong bucket.
	if _, err := gomegranate.CheckParameter(Xd, "X", gomegranate.Constraints{
		ValueSet: c.keySet(),
	}); err != nil {
		return nil, fmt.Errorf("logProbability: %w", err)
	}

	data := Xd.Data().([]float64)
	n := Xd.Shape()[0]
	logp := make([]float64, n)
	for i := 0; i < n; i++ {
		total := 0.0
		for j := 0; j < c.d; j++ {
			key := int(data[i*c.d+j])
			total += c.logProbs[j*c.nKeys+key]
		}
		logp[i] = total
	}

	return tensor.New(tensor.WithShape(n), tensor.WithBacking(logp)), nil
}

// Summarize folds a batch into the running weighted key counts per
// feature.
func (c *Categorical) Summarize(X, sampleWeight tensor.Tensor) error {
	if c.frozen {
		return nil
	}

	Xd, w, err := c.summarize(X, sampleWeight, c.initialize)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	if _, err := gomegranate.CheckParameter(Xd, "X", gomegranate.Constraints{
		ValueSet: c.keySet(),
	}); err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	data := Xd.Data().([]float64)
	weights := w.Data().([]float64)
	n := Xd.Shape()[0]
	for i := 0; i < n; i++ {
		for j := 0; j < c.d; j++ {
			key := int(data[i*c.d+j])
			c.counts[j*c.nKeys+key] += weights[i*c.d+j]
		}
	}

	return nil
}

// FromSummaries updates the probabilities by normalizing the weighted
// key counts per feature. A feature that accumulated zero weight
// produces non-finite probabilities, which propagate rather than being
// guarded here.
func (c *Categorical) FromSummaries() error {
	if c.frozen {
		return nil
	}
	if !c.initialized {
		return ErrNotInitialized
	}

	estimate := make([]float64, c.d*c.nKeys)
	for j := 0; j < c.d; j++ {
		total := 0.0
		for key := 0; key < c.nKeys; key++ {
			total += c.counts[j*c.nKeys+key]
		}
		for key := 0; key < c.nKeys; key++ {
			estimate[j*c.nKeys+key] = c.counts[j*c.nKeys+key] / total
		}
	}

	c.update(c.probs, estimate)
	c.resetCache()

	return nil
}
