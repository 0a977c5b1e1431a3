package scale

// Sequential maps a continuous domain onto an interpolator's [0, 1] input.
type Sequential struct {
	d0, d1 float64
	interp Interpolator
}

func NewSequential(domain [2]float64, interp Interpolator) Sequential {
	return Sequential{d0: domain[0], d1: domain[1], interp: interp}
}

// Apply returns the colour for x. A degenerate domain yields the
// interpolator's midpoint.
func (s Sequential) Apply(x float64) string {
	if s.d0 == s.d1 {
		return s.interp(0.5)
	}
	return s.interp((x - s.d0) / (s.d1 - s.d0))
}

func (s Sequential) Domain() [2]float64 { return [2]float64{s.d0, s.d1} }

// Stops samples the interpolator at n evenly spaced offsets in [0, 1], for
// building gradients.
func (s Sequential) Stops(n int) []string {
	if n < 2 {
		return []string{s.interp(0)}
	}
	out := make([]string, n)
	for i := range out {
		out[i] = s.interp(float64(i) / float64(n-1))
	}
	return out
}
