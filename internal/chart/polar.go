package chart

import (
	"math"

	"github.com/i474232898/weather-radial-chart/internal/weather"
)

// Ring offsets, as fractions of the bounded radius.
const (
	RecordOffset        = 1.4
	OuterOffset         = 1.6
	MonthLabelOffset    = 1.38
	CloudOffset         = 1.27
	PrecipitationOffset = 1.14
	UVOffset            = 0.95
	UVLineLength        = 0.1
	TemperatureOffset   = 0.5
)

// Point is a chart-local coordinate; the origin is the chart centre and Y
// grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add translates p by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// ToCartesian projects an angle onto the ring at offset × bounded radius.
// Angle 0 points north and angles grow clockwise on screen.
func (d Dimensions) ToCartesian(angle, offset float64) Point {
	r := d.BoundedRadius * offset
	return Point{
		X: math.Cos(angle-math.Pi/2) * r,
		Y: math.Sin(angle-math.Pi/2) * r,
	}
}

// ToCartesian projects angle at offset using the context's layout.
func (c *Context) ToCartesian(angle, offset float64) Point {
	return c.Dimensions.ToCartesian(angle, offset)
}

// AngleForRecord is the angle of the record's date.
func (c *Context) AngleForRecord(r weather.WeatherRecord) float64 {
	return c.Scales.Angle.Apply(weather.Date(r))
}

// PointForRecord places a record on the ring at offset.
func (c *Context) PointForRecord(r weather.WeatherRecord, offset float64) Point {
	return c.ToCartesian(c.AngleForRecord(r), offset)
}

// XFromRecord is the x coordinate of PointForRecord.
func (c *Context) XFromRecord(r weather.WeatherRecord, offset float64) float64 {
	return c.PointForRecord(r, offset).X
}

// YFromRecord is the y coordinate of PointForRecord.
func (c *Context) YFromRecord(r weather.WeatherRecord, offset float64) float64 {
	return c.PointForRecord(r, offset).Y
}

// OffsetForTemperature expresses a temperature's radius as a fraction of the
// bounded radius, so temperature rings go through ToCartesian as well.
func (c *Context) OffsetForTemperature(t float64) float64 {
	if c.Dimensions.BoundedRadius == 0 {
		return 0
	}
	return c.Scales.Radius.Apply(t) / c.Dimensions.BoundedRadius
}
