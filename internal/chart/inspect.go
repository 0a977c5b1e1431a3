package chart

import (
	"math"
	"time"

	"github.com/i474232898/weather-radial-chart/internal/weather"
)

// indicatorHalfWidth is half the angular width of the hover wedge.
const indicatorHalfWidth = 0.015

// Wedge is the radial hover indicator drawn at the resolved angle.
type Wedge struct {
	StartAngle  float64  `json:"startAngle"`
	EndAngle    float64  `json:"endAngle"`
	OuterRadius float64  `json:"outerRadius"`
	Corners     [3]Point `json:"corners"`
}

// Resolution is the outcome of inverting one pointer position. Record is nil
// when the resolved day has no record; that is not an error.
type Resolution struct {
	Pointer   Point                  `json:"pointer"`
	Angle     float64                `json:"angle"`
	Date      time.Time              `json:"date"`
	DateKey   string                 `json:"dateKey"`
	Record    *weather.WeatherRecord `json:"record"`
	Indicator Wedge                  `json:"indicator"`
	Anchor    TooltipAnchor          `json:"anchor"`
	Tooltip   *Tooltip               `json:"tooltip,omitempty"`
}

// Found reports whether the pointer resolved to a record.
func (r Resolution) Found() bool { return r.Record != nil }

// NormalizeAngle converts an atan2 angle (east = 0, counter-clockwise in
// maths orientation, clockwise on screen) into the chart frame (north = 0)
// on the half-open interval [0, 2π).
func NormalizeAngle(raw float64) float64 {
	angle := raw + math.Pi/2
	if angle < 0 {
		angle += 2 * math.Pi
	}
	if angle >= 2*math.Pi {
		angle -= 2 * math.Pi
	}
	return angle
}

// AngleAt returns the chart angle of a chart-local position. The origin has
// no direction; it resolves to angle 0, as does any non-finite position.
func AngleAt(x, y float64) float64 {
	if !isFinite(x) || !isFinite(y) || (x == 0 && y == 0) {
		return 0
	}
	return NormalizeAngle(math.Atan2(y, x))
}

// wrapAngle reduces a chart angle to [0, 2π); non-finite angles become 0.
func wrapAngle(a float64) float64 {
	if !isFinite(a) {
		return 0
	}
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// nearestDay rounds an instant to the closest calendar day; a tie at noon
// rounds forward.
func nearestDay(t time.Time) weather.Day {
	return weather.DayOf(t.Add(12 * time.Hour))
}

// Resolve inverts a chart-local pointer position into an angle, a date and,
// when the dataset has that day, its record and tooltip. The date is the
// nearest calendar day to the inverted instant rather than the day the
// instant falls in, so an instant past noon picks the following day.
// It never fails and has no side effects; repeated calls with the same
// input return equal results.
func (c *Context) Resolve(x, y float64) Resolution {
	res := c.ResolveAngle(AngleAt(x, y))
	res.Pointer = Point{X: x, Y: y}
	return res
}

// ResolveAngle is Resolve for a pointer already reduced to a chart angle.
// The angle is wrapped into [0, 2π) and Pointer is set to the point on the
// record ring.
func (c *Context) ResolveAngle(angle float64) Resolution {
	angle = wrapAngle(angle)
	date := c.Scales.Angle.Invert(angle)
	day := nearestDay(date)

	res := Resolution{
		Pointer:   c.ToCartesian(angle, RecordOffset),
		Angle:     angle,
		Date:      date,
		DateKey:   day.Key(),
		Indicator: c.indicator(angle),
		Anchor:    c.tooltipAnchor(angle),
	}
	if rec, ok := c.Dataset.Lookup(res.DateKey); ok {
		res.Record = &rec
		tip := c.TooltipFor(rec)
		res.Tooltip = &tip
	}
	return res
}

func (c *Context) indicator(angle float64) Wedge {
	start, end := angle-indicatorHalfWidth, angle+indicatorHalfWidth
	return Wedge{
		StartAngle:  start,
		EndAngle:    end,
		OuterRadius: c.Dimensions.BoundedRadius * OuterOffset,
		Corners: [3]Point{
			c.ToCartesian(start, 0),
			c.ToCartesian(start, OuterOffset),
			c.ToCartesian(end, OuterOffset),
		},
	}
}
