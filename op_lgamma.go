package gomegranate

import (
	"fmt"
	"hash"
	"math"

	"github.com/chewxy/hm"
	"gonum.org/v1/gonum/mathext"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// LgammaOp is the log-gamma function
type LgammaOp struct{}

func newLgammaOp() G.Op {
	return &LgammaOp{}
}

func (l *LgammaOp) Arity() int {
	return 1
}

func (l *LgammaOp) Type() hm.Type {
	// All pointwise unary operations have this type:
	// op :: (Arithable a) => a -> a
	a := hm.TypeVariable('a')
	return hm.NewFnType(a, a)
}

func (l *LgammaOp) Do(values ...G.Value) (G.Value, error) {
	err := l.checkInputs(values...)
	if err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	if values[0] == nil {
		return nil, fmt.Errorf("do: no input")
	}

	value := values[0]

	// Compute lgamma based on type, overwriting the input
	return computeLgamma(value)
}

func (l *LgammaOp) ReturnsPtr() bool { return true }

func (l *LgammaOp) CallsExtern() bool { return false }

func (l *LgammaOp) OverwritesInput() int { return 0 }

// String returns the string representation of the struct
func (l *LgammaOp) String() string {
	return "Lgamma"
}

// InferShape returns the output shape as a function of the inputs
func (l *LgammaOp) InferShape(inputs ...G.DimSizer) (tensor.Shape, error) {
	err := CheckArity(l, len(inputs))
	if err != nil {
		return nil, fmt.Errorf("inferShape: %v", err)
	}
	if inputs[0] == nil {
		return nil, fmt.Errorf("inferShape: nil input")
	}

	return inputs[0].(tensor.Shape), nil
}

// WriteHash writes the hash of the receiver to a hash struct
func (l *LgammaOp) WriteHash(h hash.Hash) { fmt.Fprintf(h, "Lgamma()") }

// Hashcode returns the hash code of the receiver
func (l *LgammaOp) Hashcode() uint32 { return SimpleHash(l) }

func (l *LgammaOp) SymDiff(inputs G.Nodes, output,
	grad *G.Node) (G.Nodes, error) {
	err := CheckArity(l, len(inputs))
	if err != nil {
		return nil, fmt.Errorf("symDiff: %v", err)
	}

	diffOp := &LgammaDiffOp{}
	nodes := make(G.Nodes, 1)

	nodes[0], err = G.ApplyOp(diffOp, inputs[0], grad)

	return nodes, err
}

func (l *LgammaOp) DiffWRT(inputs int) []bool {
	if inputs != 1 {
		panic(fmt.Sprintf("lgamma operator only supports one input, got %d "+
			"instead", inputs))
	}
	return []bool{true}
}

// checkInputs returns an error if the input to this Op is invalid
func (l *LgammaOp) checkInputs(inputs ...G.Value) error {
	if err := CheckArity(l, len(inputs)); err != nil {
		return err
	}

	_, okF64 := inputs[0].(*G.F64)
	_, okF32 := inputs[0].(*G.F32)
	_, okTensor := inputs[0].(tensor.Tensor)

	if !(okF64 || okF32 || okTensor) {
		return fmt.Errorf("expected input to be a tensor, got %T", inputs[0])
	}

	return nil
}

// LgammaDiffOp is the derivative of the log-gamma function, which is
// the digamma function
type LgammaDiffOp struct{}

func (l *LgammaDiffOp) Arity() int { return 2 }

func (l *LgammaDiffOp) ReturnsPtr() bool { return true }

func (l *LgammaDiffOp) CallsExtern() bool { return false }

func (l *LgammaDiffOp) WriteHash(h hash.Hash) { fmt.Fprint(h, l.String()) }

func (l *LgammaDiffOp) Hashcode() uint32 { return SimpleHash(l) }

func (l *LgammaDiffOp) String() string { return "LgammaDiff()" }

func (l *LgammaDiffOp) InferShape(inputs ...G.DimSizer) (tensor.Shape, error) {
	err := CheckArity(l, len(inputs))
	if err != nil {
		return nil, fmt.Errorf("inferShape: %v", err)
	}
	if inputs[0] == nil {
		return nil, fmt.Errorf("inferShape: nil input")
	}

	return inputs[0].(tensor.Shape), nil
}

func (l *LgammaDiffOp) Type() hm.Type {
	// All pointwise unary operations have this type:
	// op :: (Arithable a) => a -> a
	a := hm.TypeVariable('a')
	return hm.NewFnType(a, a)
}

func (l *LgammaDiffOp) OverwritesInput() int { return -1 }

// checkInputs returns an error if the input to this Op is invalid
func (l *LgammaDiffOp) checkInputs(inputs ...G.Value) error {
	if err := CheckArity(l, len(inputs)); err != nil {
		return err
	}

	_, okTensor := inputs[0].(tensor.Tensor)
	_, okGrad := inputs[1].(tensor.Tensor)

	if !(okTensor || okGrad) {
		return fmt.Errorf("expected input to be a tensor, got %T", inputs[0])
	}

	return nil
}

func (l *LgammaDiffOp) Do(inputs ...G.Value) (G.Value, error) {
	err := l.checkInputs(inputs...)
	if err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	x := inputs[0].(tensor.Tensor)
	grad := inputs[1].(tensor.Tensor)

	var ret *tensor.Dense
	switch x.Dtype() {
	case tensor.Float64:
		ret = l.f64Kernel(x.Shape().Clone(), x, grad)

	case tensor.Float32:
		ret = l.f32Kernel(x.Shape().Clone(), x, grad)
	}

	return ret, nil
}

func (l *LgammaDiffOp) f64Kernel(shape tensor.Shape, inputData,
	gradData tensor.Tensor) *tensor.Dense {
	x := inputData.Data().([]float64)
	grad := gradData.Data().([]float64)

	ret := tensor.New(
		tensor.WithShape(shape...),
		tensor.Of(inputData.Dtype()),
	)

	for i, elem := range x {
		newGrad := grad[i] * mathext.Digamma(elem)
		ret.Set(i, newGrad)
	}

	return ret
}

func (l *LgammaDiffOp) f32Kernel(shape tensor.Shape, inputData,
	gradData tensor.Tensor) *tensor.Dense {
	x := inputData.Data().([]float32)
	grad := gradData.Data().([]float32)

	ret := tensor.New(
		tensor.WithShape(shape...),
		tensor.Of(inputData.Dtype()),
	)

	for i, elem := range x {
		newGrad := grad[i] * float32(mathext.Digamma(float64(elem)))
		ret.Set(i, newGrad)
	}

	return ret
}

// f32Lgamma computes the lgamma on a float32 input value
func f32Lgamma(val float32) float32 {
	lg, _ := math.Lgamma(float64(val))
	return float32(lg)
}

// computeLgamma computes the element-wise lgamma on a value
func computeLgamma(value G.Value) (G.Value, error) {
	// Compute lgamma based on type, overwriting the input
	switch v := value.(type) {
	case *G.F64:
		lg, _ := math.Lgamma(float64(*v))
		*v = *G.NewF64(lg)
		return v, nil

	case *G.F32:
		*v = *G.NewF32(f32Lgamma(float32(*v)))
		return v, nil

	case tensor.Tensor:
		if len(v.Shape()) == 0 {
			return nil, fmt.Errorf("do: cannot compute lgamma on empty " +
				"tensor")
		}

		// Walk the tensor by the flat index the iterator yields, which
		// indexes directly into the backing data. The iterator signals
		// exhaustion through its returned error.
		switch data := v.Data().(type) {
		case []float64:
			iter := v.Iterator()
			for i, err := iter.Start(); err == nil; i, _, err = iter.NextValid() {
				data[i], _ = math.Lgamma(data[i])
			}

		case []float32:
			iter := v.Iterator()
			for i, err := iter.Start(); err == nil; i, _, err = iter.NextValid() {
				data[i] = f32Lgamma(data[i])
			}

		default:
			return nil, fmt.Errorf("do: unable to compute lgamma on tensor "+
				"data of type %T", data)
		}

	default:
		return nil, fmt.Errorf("do: unable to compute lgamma on type %T", v)
	}

	return value, nil
}
