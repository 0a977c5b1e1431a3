package scale

import "math"

// Sqrt is a power scale with exponent 0.5: equal domain steps change the
// area of a circle sized by the output, not its radius, linearly.
type Sqrt struct {
	domain [2]float64
	lin    Linear
}

func signedSqrt(x float64) float64 {
	if x < 0 {
		return -math.Sqrt(-x)
	}
	return math.Sqrt(x)
}

func signedSquare(x float64) float64 {
	if x < 0 {
		return -x * x
	}
	return x * x
}

func NewSqrt(domain, rng [2]float64) Sqrt {
	return Sqrt{
		domain: domain,
		lin:    NewLinear([2]float64{signedSqrt(domain[0]), signedSqrt(domain[1])}, rng),
	}
}

func (s Sqrt) Apply(x float64) float64 { return s.lin.Apply(signedSqrt(x)) }

func (s Sqrt) Invert(y float64) float64 { return signedSquare(s.lin.Invert(y)) }

func (s Sqrt) Domain() [2]float64 { return s.domain }

func (s Sqrt) Range() [2]float64 { return s.lin.Range() }
