package scale

// Linear maps a continuous domain onto a continuous range. A zero value is
// not useful; build one with NewLinear. Linear values are immutable: Nice
// returns a new scale.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

func NewLinear(domain, rng [2]float64) Linear {
	return Linear{d0: domain[0], d1: domain[1], r0: rng[0], r1: rng[1]}
}

// normalize maps x from [a, b] to [0, 1]. A degenerate interval maps
// everything to its midpoint.
func normalize(a, b, x float64) float64 {
	if b == a {
		return 0.5
	}
	return (x - a) / (b - a)
}

func interpolate(a, b, t float64) float64 {
	if a == b {
		return a
	}
	return a*(1-t) + b*t
}

// Apply maps a domain value to the range. Values outside the domain
// extrapolate.
func (s Linear) Apply(x float64) float64 {
	return interpolate(s.r0, s.r1, normalize(s.d0, s.d1, x))
}

// Invert maps a range value back to the domain.
func (s Linear) Invert(y float64) float64 {
	return interpolate(s.d0, s.d1, normalize(s.r0, s.r1, y))
}

func (s Linear) Domain() [2]float64 { return [2]float64{s.d0, s.d1} }

func (s Linear) Range() [2]float64 { return [2]float64{s.r0, s.r1} }

// Nice returns a copy whose domain is extended outward to round tick
// boundaries for roughly count ticks.
func (s Linear) Nice(count int) Linear {
	s.d0, s.d1 = niceExtent(s.d0, s.d1, count)
	return s
}

// Ticks returns about count round values inside the domain.
func (s Linear) Ticks(count int) []float64 {
	return Ticks(s.d0, s.d1, count)
}
