package distribution

import (
	"fmt"

	"github.com/gomegranate/gomegranate"
	"gorgonia.org/tensor"
)

// Exponential models the time between independent events, with an
// independent scale (mean waiting time) per feature. The sufficient
// statistics and the closed-form update are the same weighted
// per-feature mean as the Poisson's; only the likelihood differs.
type Exponential struct {
	base

	scales    *Parameter
	logScales []float64

	wSum  []float64
	xwSum []float64
}

// NewExponential returns an Exponential with the given per-feature
// scales, which may be any numeric array-like accepted by
// gomegranate.Cast, or nil to defer initialization until the first
// batch of data is seen.
func NewExponential(scales interface{}, inertia float64, frozen bool) (
	*Exponential, error) {
	b, err := newBase("Exponential", inertia, frozen)
	if err != nil {
		return nil, err
	}

	st, err := gomegranate.Cast(scales, tensor.Float64)
	if err != nil {
		return nil, fmt.Errorf("newExponential: %w", err)
	}
	st, err = gomegranate.CheckParameter(st, "scales",
		gomegranate.Constraints{
			MinValue: gomegranate.F64(0),
			NDim:     gomegranate.I(1),
		})
	if err != nil {
		return nil, err
	}

	e := &Exponential{base: b}
	if st != nil {
		e.scales = newParameter(st)
		e.d = st.Shape()[0]
		e.initialized = true
		e.resetCache()
	}

	return e, nil
}

// Scales returns the scale parameter slot, or nil before
// initialization.
func (e *Exponential) Scales() *Parameter { return e.scales }

func (e *Exponential) initialize(d int) error {
	e.scales = newParameter(tensor.New(
		tensor.WithShape(d),
		tensor.Of(tensor.Float64),
	))
	e.d = d
	e.initialized = true
	e.resetCache()

	return nil
}

func (e *Exponential) resetCache() {
	if !e.initialized {
		return
	}

	e.wSum = zeros(e.d)
	e.xwSum = zeros(e.d)

	e.logScales = logs(e.scales.Data())
}

// LogProbability returns the log probability of each example. Every
// entry of X must be non-negative. Per feature the contribution is
// -log(scale) - x/scale, summed across features per example.
func (e *Exponential) LogProbability(X tensor.Tensor) (*tensor.Dense, error) {
	if !e.initialized {
		return nil, ErrNotInitialized
	}

	Xd, err := e.checkData(X, nil)
	if err != nil {
		return nil, fmt.Errorf("logProbability: %w", err)
	}
	if _, err := gomegranate.CheckParameter(Xd, "X", gomegranate.Constraints{
		MinValue: gomegranate.F64(0),
	}); err != nil {
		return nil, fmt.Errorf("logProbability: %w", err)
	}

	scales := e.scales.Data()
	data := Xd.Data().([]float64)
	n := Xd.Shape()[0]
	logp := make([]float64, n)
	for i := 0; i < n; i++ {
		total := 0.0
		for j := 0; j < e.d; j++ {
			total += -e.logScales[j] - data[i*e.d+j]/scales[j]
		}
		logp[i] = total
	}

	return tensor.New(tensor.WithShape(n), tensor.WithBacking(logp)), nil
}

// Summarize folds a batch into the running statistics: the column sums
// of the weights and of the weighted observations.
func (e *Exponential) Summarize(X, sampleWeight tensor.Tensor) error {
	if e.frozen {
		return nil
	}

	Xd, w, err := e.summarize(X, sampleWeight, e.initialize)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	if _, err := gomegranate.CheckParameter(Xd, "X", gomegranate.Constraints{
		MinValue: gomegranate.F64(0),
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

	for j := 0; j < e.d; j++ {
		e.wSum[j] += wCol[j]
		e.xwSum[j] += xwCol[j]
	}

	return nil
}

// FromSummaries updates the scales with the closed-form MLE, the
// weighted mean per feature.
func (e *Exponential) FromSummaries() error {
	if e.frozen {
		return nil
	}
	if !e.initialized {
		return ErrNotInitialized
	}

	estimate := make([]float64, e.d)
	for j := range estimate {
		estimate[j] = e.xwSum[j] / e.wSum[j]
	}

	e.update(e.scales, estimate)
	e.resetCache()

	return nil
}
