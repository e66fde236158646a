package distribution

import (
	"fmt"

	"github.com/gomegranate/gomegranate"
	"gorgonia.org/tensor"
)

// Parameter is an owned parameter slot. It pairs the current value with
// an optional per-element frozen mask that every update honours:
// elements marked frozen keep their value across any sequence of
// Summarize and FromSummaries calls, regardless of the accumulated
// statistics.
type Parameter struct {
	value  *tensor.Dense
	frozen []bool
}

func newParameter(value *tensor.Dense) *Parameter {
	return &Parameter{value: value}
}

// Tensor returns the current value of the parameter. The tensor is
// owned by the distribution; callers must not mutate it.
func (p *Parameter) Tensor() *tensor.Dense { return p.value }

// Data returns the backing data of the parameter as a flat float64
// slice, in row-major order. The slice aliases the parameter storage.
func (p *Parameter) Data() []float64 { return p.value.Data().([]float64) }

// SetFrozen marks individual elements of the parameter as frozen. The
// mask must have one entry per element in row-major order. A nil mask
// thaws every element.
func (p *Parameter) SetFrozen(mask []bool) error {
	if mask == nil {
		p.frozen = nil
		return nil
	}

	if len(mask) != p.value.Size() {
		return &gomegranate.ValidationError{
			Param: "mask",
			Constraint: fmt.Sprintf("must have %v elements but got %v",
				p.value.Size(), len(mask)),
		}
	}

	p.frozen = make([]bool, len(mask))
	copy(p.frozen, mask)
	return nil
}

// FrozenMask returns the per-element frozen mask, or nil when no
// element is frozen.
func (p *Parameter) FrozenMask() []bool { return p.frozen }
