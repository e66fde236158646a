package gomegranate

import (
	"fmt"
	"hash/fnv"

	"gorgonia.org/gorgonia"
)

// SimpleHash returns the 32-bit FNV-1a hash of an op, built from
// whatever the op writes through WriteHash. Ops here carry no state,
// so the hash identifies the operation alone.
func SimpleHash(op gorgonia.Op) uint32 {
	h := fnv.New32a()
	op.WriteHash(h)
	return h.Sum32()
}

// CheckArity returns an error when the number of inputs does not match
// the op's arity. A negative arity accepts any number of inputs.
func CheckArity(op gorgonia.Op, inputs int) error {
	if inputs != op.Arity() && op.Arity() >= 0 {
		return fmt.Errorf("%v expects %d inputs but got %d", op,
			op.Arity(), inputs)
	}
	return nil
}
