package scale

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Interpolator maps t in [0, 1] to a CSS hex colour.
type Interpolator func(t float64) string

// ylOrRd is the 9-class ColorBrewer YlOrRd scheme.
var ylOrRd = []string{
	"#ffffcc", "#ffeda0", "#fed976", "#feb24c", "#fd8d3c",
	"#fc4e2a", "#e31a1c", "#bd0026", "#800026",
}

// InterpolateYlOrRd runs from pale yellow at 0 to dark red at 1.
var InterpolateYlOrRd = RGBBasis(ylOrRd...)

// RGBBasis returns an interpolator through the given hex colours using a
// uniform cubic B-spline per channel. The curve passes exactly through the
// first and last colours. It panics on an unparsable colour.
func RGBBasis(hexes ...string) Interpolator {
	if len(hexes) < 2 {
		panic("scale: RGBBasis needs at least two colours")
	}
	rs := make([]float64, len(hexes))
	gs := make([]float64, len(hexes))
	bs := make([]float64, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(fmt.Sprintf("scale: bad colour %q: %v", h, err))
		}
		rs[i], gs[i], bs[i] = c.R, c.G, c.B
	}
	r, g, b := basisSpline(rs), basisSpline(gs), basisSpline(bs)

	return func(t float64) string {
		return colorful.Color{R: r(t), G: g(t), B: b(t)}.Clamped().Hex()
	}
}

func basis(t1, v0, v1, v2, v3 float64) float64 {
	t2 := t1 * t1
	t3 := t2 * t1
	return ((1-3*t1+3*t2-t3)*v0 +
		(4-6*t2+3*t3)*v1 +
		(1+3*t1+3*t2-3*t3)*v2 +
		t3*v3) / 6
}

func basisSpline(values []float64) func(float64) float64 {
	n := len(values) - 1
	return func(t float64) float64 {
		var i int
		switch {
		case t <= 0 || math.IsNaN(t):
			t = 0
			i = 0
		case t >= 1:
			t = 1
			i = n - 1
		default:
			i = int(math.Floor(t * float64(n)))
		}
		v1, v2 := values[i], values[i+1]
		v0 := 2*v1 - v2
		if i > 0 {
			v0 = values[i-1]
		}
		v3 := 2*v2 - v1
		if i < n-1 {
			v3 = values[i+2]
		}
		return basis((t-float64(i)/float64(n))*float64(n), v0, v1, v2, v3)
	}
}
