package distribution

import (
	"fmt"

	json "github.com/goccy/go-json"
	"gorgonia.org/tensor"
)

// record is the wire form of a distribution: enough state to rebuild an
// identical distribution. Partially accumulated statistics are not
// carried; serialize between FromSummaries calls.
type record struct {
	Name    string               `json:"name"`
	D       int                  `json:"d"`
	Inertia float64              `json:"inertia"`
	Frozen  bool                 `json:"frozen"`
	Keys    int                  `json:"keys,omitempty"`
	Params  map[string]paramJSON `json:"parameters,omitempty"`
}

type paramJSON struct {
	Shape  []int     `json:"shape"`
	Values []float64 `json:"values"`
}

// marshaler is implemented by every distribution in this package; it
// exposes the parameter slots by name for serialization.
type marshaler interface {
	Distribution
	parameters() map[string]*Parameter
}

func (d *DiracDelta) parameters() map[string]*Parameter {
	return map[string]*Parameter{"alphas": d.alphas}
}

func (p *Poisson) parameters() map[string]*Parameter {
	return map[string]*Parameter{"lambdas": p.lambdas}
}

func (e *Exponential) parameters() map[string]*Parameter {
	return map[string]*Parameter{"scales": e.scales}
}

func (br *Bernoulli) parameters() map[string]*Parameter {
	return map[string]*Parameter{"probs": br.probs}
}

func (n *Normal) parameters() map[string]*Parameter {
	return map[string]*Parameter{"means": n.means, "covs": n.covs}
}

func (u *Uniform) parameters() map[string]*Parameter {
	return map[string]*Parameter{"mins": u.mins, "maxs": u.maxs}
}

func (c *Categorical) parameters() map[string]*Parameter {
	return map[string]*Parameter{"probs": c.probs}
}

// Marshal encodes a distribution into JSON carrying its name,
// dimensionality, inertia, frozen flag and parameter values. An
// uninitialized distribution encodes without parameters. The encoding
// round-trips through Unmarshal to a distribution with bit-identical
// log probabilities.
func Marshal(d Distribution) ([]byte, error) {
	m, ok := d.(marshaler)
	if !ok {
		return nil, fmt.Errorf("marshal: %T does not support serialization",
			d)
	}

	rec := record{
		Name:    d.Name(),
		D:       d.Dims(),
		Inertia: d.Inertia(),
		Frozen:  d.Frozen(),
	}
	if c, ok := d.(*Categorical); ok {
		rec.Keys = c.nKeys
	}

	if d.Initialized() {
		rec.Params = make(map[string]paramJSON)
		for name, p := range m.parameters() {
			t := p.Tensor()
			values := make([]float64, len(p.Data()))
			copy(values, p.Data())
			rec.Params[name] = paramJSON{
				Shape:  t.Shape().Clone(),
				Values: values,
			}
		}
	}

	return json.Marshal(rec)
}

// Unmarshal decodes a distribution previously encoded by Marshal.
func Unmarshal(b []byte) (Distribution, error) {
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal: %v", err)
	}

	factory, ok := factories[rec.Name]
	if !ok {
		return nil, fmt.Errorf("unmarshal: unknown distribution %q",
			rec.Name)
	}

	d, err := factory(&rec)
	if err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	return d, nil
}

var factories = map[string]func(*record) (Distribution, error){
	"DiracDelta": func(r *record) (Distribution, error) {
		return NewDiracDelta(r.param("alphas"), r.Inertia, r.Frozen)
	},
	"Poisson": func(r *record) (Distribution, error) {
		return NewPoisson(r.param("lambdas"), r.Inertia, r.Frozen)
	},
	"Exponential": func(r *record) (Distribution, error) {
		return NewExponential(r.param("scales"), r.Inertia, r.Frozen)
	},
	"Bernoulli": func(r *record) (Distribution, error) {
		return NewBernoulli(r.param("probs"), r.Inertia, r.Frozen)
	},
	"Normal": func(r *record) (Distribution, error) {
		return NewNormal(r.param("means"), r.param("covs"), r.Inertia,
			r.Frozen)
	},
	"Uniform": func(r *record) (Distribution, error) {
		return NewUniform(r.param("mins"), r.param("maxs"), r.Inertia,
			r.Frozen)
	},
	"Categorical": func(r *record) (Distribution, error) {
		return NewCategorical(r.param("probs"), r.Keys, r.Inertia, r.Frozen)
	},
}

// param rebuilds the named parameter tensor, or returns nil when the
// record carries no value for it.
func (r *record) param(name string) interface{} {
	p, ok := r.Params[name]
	if !ok {
		return nil
	}

	backing := make([]float64, len(p.Values))
	copy(backing, p.Values)

	return tensor.New(
		tensor.WithShape(p.Shape...),
		tensor.WithBacking(backing),
	)
}
