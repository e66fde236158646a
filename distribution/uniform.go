package distribution

import (
	"fmt"
	"math"

	"github.com/gomegranate/gomegranate"
	"gorgonia.org/tensor"
)

// Uniform models each feature as uniformly distributed over an
// independent interval [min, max]. The sufficient statistics are the
// running per-feature extrema of the observed data; weights are
// validated but do not move the support.
type Uniform struct {
	base

	mins      *Parameter
	maxs      *Parameter
	logRanges []float64

	xMins []float64
	xMaxs []float64
}

// NewUniform returns a Uniform with the given per-feature interval
// bounds, which may be any numeric array-likes accepted by
// gomegranate.Cast. Both must be given or both nil; nil defers
// initialization until the first batch of data is seen.
func NewUniform(mins, maxs interface{}, inertia float64, frozen bool) (
	*Uniform, error) {
	b, err := newBase("Uniform", inertia, frozen)
	if err != nil {
		return nil, err
	}

	lo, err := gomegranate.Cast(mins, tensor.Float64)
	if err != nil {
		return nil, fmt.Errorf("newUniform: %w", err)
	}
	lo, err = gomegranate.CheckParameter(lo, "mins", gomegranate.Constraints{
		NDim: gomegranate.I(1),
	})
	if err != nil {
		return nil, err
	}

	hi, err := gomegranate.Cast(maxs, tensor.Float64)
	if err != nil {
		return nil, fmt.Errorf("newUniform: %w", err)
	}
	hi, err = gomegranate.CheckParameter(hi, "maxs", gomegranate.Constraints{
		NDim: gomegranate.I(1),
	})
	if err != nil {
		return nil, err
	}

	if (lo == nil) != (hi == nil) {
		return nil, &gomegranate.ValidationError{
			Param:      "mins and maxs",
			Constraint: "must both be given or both be nil",
		}
	}
	if err := gomegranate.CheckShapes([]*tensor.Dense{lo, hi},
		[]string{"mins", "maxs"}); err != nil {
		return nil, err
	}

	u := &Uniform{base: b}
	if lo != nil {
		for j, m := range lo.Data().([]float64) {
			if hi.Data().([]float64)[j] < m {
				return nil, &gomegranate.ValidationError{
					Param:      "maxs",
					Constraint: "must be elementwise at least mins",
				}
			}
		}

		u.mins = newParameter(lo)
		u.maxs = newParameter(hi)
		u.d = lo.Shape()[0]
		u.initialized = true
		u.resetCache()
	}

	return u, nil
}

// Mins returns the lower bound parameter slot, or nil before
// initialization.
func (u *Uniform) Mins() *Parameter { return u.mins }

// Maxs returns the upper bound parameter slot, or nil before
// initialization.
func (u *Uniform) Maxs() *Parameter { return u.maxs }

func (u *Uniform) initialize(d int) error {
	u.mins = newParameter(tensor.New(
		tensor.WithShape(d),
		tensor.Of(tensor.Float64),
	))
	u.maxs = newParameter(tensor.New(
		tensor.WithShape(d),
		tensor.Of(tensor.Float64),
	))
	u.d = d
	u.initialized = true
	u.resetCache()

	return nil
}

func (u *Uniform) resetCache() {
	if !u.initialized {
		return
	}

	u.xMins = make([]float64, u.d)
	u.xMaxs = make([]float64, u.d)
	for j := 0; j < u.d; j++ {
		u.xMins[j] = math.Inf(1)
		u.xMaxs[j] = math.Inf(-1)
	}

	mins := u.mins.Data()
	maxs := u.maxs.Data()
	u.logRanges = make([]float64, u.d)
	for j := 0; j < u.d; j++ {
		u.logRanges[j] = math.Log(maxs[j] - mins[j])
	}
}

// LogProbability returns the log probability of each example. A row
// contributes -log(max-min) for every feature inside its interval and
// -Inf otherwise, summed across features.
func (u *Uniform) LogProbability(X tensor.Tensor) (*tensor.Dense, error) {
	if !u.initialized {
		return nil, ErrNotInitialized
	}

	Xd, err := u.checkData(X, nil)
	if err != nil {
		return nil, fmt.Errorf("logProbability: %w", err)
	}

	mins := u.mins.Data()
	maxs := u.maxs.Data()
	data := Xd.Data().([]float64)
	n := Xd.Shape()[0]
	logp := make([]float64, n)
	for i := 0; i < n; i++ {
		total := 0.0
		for j := 0; j < u.d; j++ {
			x := data[i*u.d+j]
			if x < mins[j] || x > maxs[j] {
				total = math.Inf(-1)
			} else {
				total -= u.logRanges[j]
			}
		}
		logp[i] = total
	}

	return tensor.New(tensor.WithShape(n), tensor.WithBacking(logp)), nil
}

// Summarize folds a batch into the running per-feature extrema.
func (u *Uniform) Summarize(X, sampleWeight tensor.Tensor) error {
	if u.frozen {
		return nil
	}

	Xd, _, err := u.summarize(X, sampleWeight, u.initialize)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	data := Xd.Data().([]float64)
	n := Xd.Shape()[0]
	for i := 0; i < n; i++ {
		for j := 0; j < u.d; j++ {
			x := data[i*u.d+j]
			if x < u.xMins[j] {
				u.xMins[j] = x
			}
			if x > u.xMaxs[j] {
				u.xMaxs[j] = x
			}
		}
	}

	return nil
}

// FromSummaries updates the interval bounds with the observed extrema.
// Bounds estimated from no data are non-finite and propagate as such.
func (u *Uniform) FromSummaries() error {
	if u.frozen {
		return nil
	}
	if !u.initialized {
		return ErrNotInitialized
	}

	u.update(u.mins, u.xMins)
	u.update(u.maxs, u.xMaxs)
	u.resetCache()

	return nil
}
