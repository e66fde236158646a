package distribution

import (
	"fmt"
	"math"

	"github.com/gomegranate/gomegranate"
	"gorgonia.org/tensor"
)

// Poisson models counts of events occurring in a fixed span, with an
// independent rate per feature. The sufficient statistics are the total
// accumulated weight and the weighted sum of observed counts per
// feature, and the closed-form update is the weighted per-feature mean.
//
// There are two ways to initialize a Poisson. The first is to pass in
// the tensor of lambda parameters, at which point it can immediately be
// used. The second is to pass nil lambdas and then call either Fit or
// Summarize + FromSummaries, at which point the lambda parameters are
// learned from data.
type Poisson struct {
	base

	lambdas    *Parameter
	logLambdas []float64

	wSum  []float64
	xwSum []float64
}

// NewPoisson returns a Poisson with the given per-feature rates, which
// may be any numeric array-like accepted by gomegranate.Cast, or nil to
// defer initialization until the first batch of data is seen.
func NewPoisson(lambdas interface{}, inertia float64, frozen bool) (
	*Poisson, error) {
	b, err := newBase("Poisson", inertia, frozen)
	if err != nil {
		return nil, err
	}

	lt, err := gomegranate.Cast(lambdas, tensor.Float64)
	if err != nil {
		return nil, fmt.Errorf("newPoisson: %w", err)
	}
	lt, err = gomegranate.CheckParameter(lt, "lambdas",
		gomegranate.Constraints{
			MinValue: gomegranate.F64(0),
			NDim:     gomegranate.I(1),
		})
	if err != nil {
		return nil, err
	}

	p := &Poisson{base: b}
	if lt != nil {
		p.lambdas = newParameter(lt)
		p.d = lt.Shape()[0]
		p.initialized = true
		p.resetCache()
	}

	return p, nil
}

// Lambdas returns the rate parameter slot, or nil before
// initialization.
func (p *Poisson) Lambdas() *Parameter { return p.lambdas }

func (p *Poisson) initialize(d int) error {
	p.lambdas = newParameter(tensor.New(
		tensor.WithShape(d),
		tensor.Of(tensor.Float64),
	))
	p.d = d
	p.initialized = true
	p.resetCache()

	return nil
}

// resetCache zeroes the accumulators and recomputes the log rates used
// on the log probability hot path.
func (p *Poisson) resetCache() {
	if !p.initialized {
		return
	}

	p.wSum = zeros(p.d)
	p.xwSum = zeros(p.d)

	p.logLambdas = logs(p.lambdas.Data())
}

// LogProbability returns the log probability of each example. Every
// entry of X must be non-negative. Per feature the contribution is
// x*log(lambda) - lambda - lgamma(x+1), summed across features per
// example; lgamma generalizes the factorial to real-valued counts.
func (p *Poisson) LogProbability(X tensor.Tensor) (*tensor.Dense, error) {
	if !p.initialized {
		return nil, ErrNotInitialized
	}

	Xd, err := p.checkData(X, nil)
	if err != nil {
		return nil, fmt.Errorf("logProbability: %w", err)
	}
	if _, err := gomegranate.CheckParameter(Xd, "X", gomegranate.Constraints{
		MinValue: gomegranate.F64(0),
	}); err != nil {
		return nil, fmt.Errorf("logProbability: %w", err)
	}

	lambdas := p.lambdas.Data()
	data := Xd.Data().([]float64)
	n := Xd.Shape()[0]
	logp := make([]float64, n)
	for i := 0; i < n; i++ {
		total := 0.0
		for j := 0; j < p.d; j++ {
			x := data[i*p.d+j]
			lg, _ := math.Lgamma(x + 1)
			total += x*p.logLambdas[j] - lambdas[j] - lg
		}
		logp[i] = total
	}

	return tensor.New(tensor.WithShape(n), tensor.WithBacking(logp)), nil
}

// Summarize folds a batch into the running statistics: the column sums
// of the weights and of the weighted counts.
func (p *Poisson) Summarize(X, sampleWeight tensor.Tensor) error {
	if p.frozen {
		return nil
	}

	Xd, w, err := p.summarize(X, sampleWeight, p.initialize)
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

	for j := 0; j < p.d; j++ {
		p.wSum[j] += wCol[j]
		p.xwSum[j] += xwCol[j]
	}

	return nil
}

// FromSummaries updates the rates with the closed-form MLE, the
// weighted mean count per feature. A feature that accumulated zero
// weight produces a non-finite rate; this propagates to later log
// probabilities rather than being guarded here.
func (p *Poisson) FromSummaries() error {
	if p.frozen {
		return nil
	}
	if !p.initialized {
		return ErrNotInitialized
	}

	estimate := make([]float64, p.d)
	for j := range estimate {
		estimate[j] = p.xwSum[j] / p.wSum[j]
	}

	p.update(p.lambdas, estimate)
	p.resetCache()

	return nil
}
