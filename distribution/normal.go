package distribution

import (
	"fmt"
	"math"

	"github.com/gomegranate/gomegranate"
	"gorgonia.org/tensor"
)

const log2Pi = 1.8378770664093453 // log(2*pi)

// Normal is a normal distribution with a diagonal covariance: an
// independent mean and variance per feature. The sufficient statistics
// are the accumulated weight, the weighted sum and the weighted sum of
// squares per feature, giving the closed-form weighted mean and
// variance.
type Normal struct {
	base

	means   *Parameter
	covs    *Parameter
	logCovs []float64

	wSum   []float64
	xwSum  []float64
	xxwSum []float64
}

// NewNormal returns a Normal with the given per-feature means and
// variances, which may be any numeric array-likes accepted by
// gomegranate.Cast. Both must be given or both nil; nil defers
// initialization until the first batch of data is seen.
func NewNormal(means, covs interface{}, inertia float64, frozen bool) (
	*Normal, error) {
	b, err := newBase("Normal", inertia, frozen)
	if err != nil {
		return nil, err
	}

	mt, err := gomegranate.Cast(means, tensor.Float64)
	if err != nil {
		return nil, fmt.Errorf("newNormal: %w", err)
	}
	mt, err = gomegranate.CheckParameter(mt, "means", gomegranate.Constraints{
		NDim: gomegranate.I(1),
	})
	if err != nil {
		return nil, err
	}

	ct, err := gomegranate.Cast(covs, tensor.Float64)
	if err != nil {
		return nil, fmt.Errorf("newNormal: %w", err)
	}
	ct, err = gomegranate.CheckParameter(ct, "covs", gomegranate.Constraints{
		MinValue: gomegranate.F64(0),
		NDim:     gomegranate.I(1),
	})
	if err != nil {
		return nil, err
	}

	if (mt == nil) != (ct == nil) {
		return nil, &gomegranate.ValidationError{
			Param:      "means and covs",
			Constraint: "must both be given or both be nil",
		}
	}
	if err := gomegranate.CheckShapes([]*tensor.Dense{mt, ct},
		[]string{"means", "covs"}); err != nil {
		return nil, err
	}

	n := &Normal{base: b}
	if mt != nil {
		n.means = newParameter(mt)
		n.covs = newParameter(ct)
		n.d = mt.Shape()[0]
		n.initialized = true
		n.resetCache()
	}

	return n, nil
}

// Means returns the mean parameter slot, or nil before initialization.
func (n *Normal) Means() *Parameter { return n.means }

// Covs returns the variance parameter slot, or nil before
// initialization.
func (n *Normal) Covs() *Parameter { return n.covs }

func (n *Normal) initialize(d int) error {
	n.means = newParameter(tensor.New(
		tensor.WithShape(d),
		tensor.Of(tensor.Float64),
	))
	n.covs = newParameter(tensor.New(
		tensor.WithShape(d),
		tensor.Of(tensor.Float64),
	))
	n.d = d
	n.initialized = true
	n.resetCache()

	return nil
}

func (n *Normal) resetCache() {
	if !n.initialized {
		return
	}

	n.wSum = zeros(n.d)
	n.xwSum = zeros(n.d)
	n.xxwSum = zeros(n.d)

	n.logCovs = logs(n.covs.Data())
}

// LogProbability returns the log probability of each example. Per
// feature the contribution is
// -0.5*(log(2*pi) + log(cov)) - (x-mean)^2/(2*cov), summed across
// features per example.
func (n *Normal) LogProbability(X tensor.Tensor) (*tensor.Dense, error) {
	if !n.initialized {
		return nil, ErrNotInitialized
	}

	Xd, err := n.checkData(X, nil)
	if err != nil {
		return nil, fmt.Errorf("logProbability: %w", err)
	}

	means := n.means.Data()
	covs := n.covs.Data()
	data := Xd.Data().([]float64)
	rows := Xd.Shape()[0]
	logp := make([]float64, rows)
	for i := 0; i < rows; i++ {
		total := 0.0
		for j := 0; j < n.d; j++ {
			diff := data[i*n.d+j] - means[j]
			total += -0.5*(log2Pi+n.logCovs[j]) - diff*diff/(2*covs[j])
		}
		logp[i] = total
	}

	return tensor.New(tensor.WithShape(rows), tensor.WithBacking(logp)), nil
}

// Summarize folds a batch into the running statistics: the column sums
// of the weights, the weighted observations and the weighted squared
// observations.
func (n *Normal) Summarize(X, sampleWeight tensor.Tensor) error {
	if n.frozen {
		return nil
	}

	Xd, w, err := n.summarize(X, sampleWeight, n.initialize)
	if err != nil {
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
	xxw, err := tensor.Mul(Xd, xw)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	xxwCol, err := colSums(xxw)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	for j := 0; j < n.d; j++ {
		n.wSum[j] += wCol[j]
		n.xwSum[j] += xwCol[j]
		n.xxwSum[j] += xxwCol[j]
	}

	return nil
}

// FromSummaries updates the means and variances with the closed-form
// weighted MLE: mean = xw/w and cov = xxw/w - mean^2, where the raw
// mean estimate is used for the variance before either parameter is
// blended.
func (n *Normal) FromSummaries() error {
	if n.frozen {
		return nil
	}
	if !n.initialized {
		return ErrNotInitialized
	}

	meanEst := make([]float64, n.d)
	covEst := make([]float64, n.d)
	for j := 0; j < n.d; j++ {
		meanEst[j] = n.xwSum[j] / n.wSum[j]
		covEst[j] = n.xxwSum[j]/n.wSum[j] - meanEst[j]*meanEst[j]
	}

	n.update(n.means, meanEst)
	n.update(n.covs, covEst)
	n.resetCache()

	return nil
}

// Entropy returns the differential entropy of each feature's marginal,
// 0.5*log(2*pi*e*cov).
func (n *Normal) Entropy() ([]float64, error) {
	if !n.initialized {
		return nil, ErrNotInitialized
	}

	out := make([]float64, n.d)
	for j, c := range n.covs.Data() {
		out[j] = 0.5 * math.Log(2*math.Pi*math.E*c)
	}

	return out, nil
}
