package distribution

import (
	"fmt"
	"math"

	"github.com/gomegranate/gomegranate"
	"gorgonia.org/tensor"
)

// Bernoulli models binary features with an independent success
// probability per feature. Data must consist of 0s and 1s.
type Bernoulli struct {
	base

	probs       *Parameter
	logProbs    []float64
	logInvProbs []float64

	wSum  []float64
	xwSum []float64
}

// NewBernoulli returns a Bernoulli with the given per-feature success
// probabilities, which may be any numeric array-like accepted by
// gomegranate.Cast, or nil to defer initialization until the first
// batch of data is seen.
func NewBernoulli(probs interface{}, inertia float64, frozen bool) (
	*Bernoulli, error) {
	b, err := newBase("Bernoulli", inertia, frozen)
	if err != nil {
		return nil, err
	}

	pt, err := gomegranate.Cast(probs, tensor.Float64)
	if err != nil {
		return nil, fmt.Errorf("newBernoulli: %w", err)
	}
	pt, err = gomegranate.CheckParameter(pt, "probs", gomegranate.Constraints{
		MinValue: gomegranate.F64(0),
		MaxValue: gomegranate.F64(1),
		NDim:     gomegranate.I(1),
	})
	if err != nil {
		return nil, err
	}

	br := &Bernoulli{base: b}
	if pt != nil {
		br.probs = newParameter(pt)
		br.d = pt.Shape()[0]
		br.initialized = true
		br.resetCache()
	}

	return br, nil
}

// Probs returns the success probability parameter slot, or nil before
// initialization.
func (br *Bernoulli) Probs() *Parameter { return br.probs }

func (br *Bernoulli) initialize(d int) error {
	br.probs = newParameter(tensor.New(
		tensor.WithShape(d),
		tensor.Of(tensor.Float64),
	))
	br.d = d
	br.initialized = true
	br.resetCache()

	return nil
}

func (br *Bernoulli) resetCache() {
	if !br.initialized {
		return
	}

	br.wSum = zeros(br.d)
	br.xwSum = zeros(br.d)

	probs := br.probs.Data()
	br.logProbs = logs(probs)
	br.logInvProbs = make([]float64, br.d)
	for j, p := range probs {
		br.logInvProbs[j] = math.Log(1 - p)
	}
}

// LogProbability returns the log probability of each example. Every
// entry of X must be 0 or 1. Per feature the contribution is
// x*log(p) + (1-x)*log(1-p), summed across features per example.
func (br *Bernoulli) LogProbability(X tensor.Tensor) (*tensor.Dense, error) {
	if !br.initialized {
		return nil, ErrNotInitialized
	}

	Xd, err := br.checkData(X, nil)
	if err != nil {
		return nil, fmt.Errorf("logProbability: %w", err)
	}
	if _, err := gomegranate.CheckParameter(Xd, "X", gomegranate.Constraints{
		ValueSet: []float64{0, 1},
	}); err != nil {
		return nil, fmt.Errorf("logProbability: %w", err)
	}

	data := Xd.Data().([]float64)
	n := Xd.Shape()[0]
	logp := make([]float64, n)
	for i := 0; i < n; i++ {
		total := 0.0
		for j := 0; j < br.d; j++ {
			x := data[i*br.d+j]
			total += x*br.logProbs[j] + (1-x)*br.logInvProbs[j]
		}
		logp[i] = total
	}

	return tensor.New(tensor.WithShape(n), tensor.WithBacking(logp)), nil
}

// Summarize folds a batch into the running statistics: the column sums
// of the weights and of the weighted successes.
func (br *Bernoulli) Summarize(X, sampleWeight tensor.Tensor) error {
	if br.frozen {
		return nil
	}

	Xd, w, err := br.summarize(X, sampleWeight, br.initialize)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	if _, err := gomegranate.CheckParameter(Xd, "X", gomegranate.Constraints{
		ValueSet: []float64{0, 1},
	}); err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	wCol, err := colSums(w)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	xw, err := tensor.Mul(Xd, w)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	xwCol, err := colSums(xw)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	for j := 0; j < br.d; j++ {
		br.wSum[j] += wCol[j]
		br.xwSum[j] += xwCol[j]
	}

	return nil
}

// FromSummaries updates the success probabilities with the closed-form
// MLE, the weighted success rate per feature.
func (br *Bernoulli) FromSummaries() error {
	if br.frozen {
		return nil
	}
	if !br.initialized {
		return ErrNotInitialized
	}

	estimate := make([]float64, br.d)
	for j := range estimate {
		estimate[j] = br.xwSum[j] / br.wSum[j]
	}

	br.update(br.probs, estimate)
	br.resetCache()

	return nil
}
