package gomegranate

import (
	"fmt"

	"gorgonia.org/tensor"
)

// ValidationError reports a parameter whose values violate one of the
// constraints given to CheckParameter. It always names the offending
// parameter and the constraint it broke.
type ValidationError struct {
	Param      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("parameter %v %v", e.Param, e.Constraint)
}

// ShapeError reports a parameter whose rank or shape disagrees with what
// was expected. When only the rank was checked, Want is nil and WantDims
// holds the expected rank. Want may contain -1 at axes that accept any
// size.
type ShapeError struct {
	Param    string
	Want     tensor.Shape
	Got      tensor.Shape
	WantDims int
}

func (e *ShapeError) Error() string {
	if e.Want == nil {
		return fmt.Sprintf("parameter %v must have %v dims but got shape %v",
			e.Param, e.WantDims, e.Got)
	}

	return fmt.Sprintf("parameter %v must have shape %v but got %v",
		e.Param, e.Want, e.Got)
}
