package gomegranate

import (
	G "gorgonia.org/gorgonia"
)

// Lgamma computes the element-wise natural log of the absolute value
// of the gamma function. Applied to x+1 it generalizes log(x!) to
// real-valued x, the normalizing term of count likelihoods.
func Lgamma(x *G.Node) (*G.Node, error) {
	op := newLgammaOp()

	return G.ApplyOp(op, x)
}
