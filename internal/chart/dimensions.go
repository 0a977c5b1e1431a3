package chart

import (
	"errors"
	"fmt"
)

// ErrInvalidDimensions is returned when margins leave no drawable area.
var ErrInvalidDimensions = errors.New("invalid chart dimensions")

// Margin is the space reserved around the bounded drawing area.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Dimensions is the fixed geometric layout of a chart. Build it with
// NewDimensions; the bounded fields are derived and never set directly.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Radius float64 `json:"radius"`
	Margin Margin  `json:"margin"`

	BoundedWidth  float64 `json:"boundedWidth"`
	BoundedHeight float64 `json:"boundedHeight"`
	BoundedRadius float64 `json:"boundedRadius"`
}

const (
	DefaultWidth  = 600
	DefaultMargin = 120
)

// NewDimensions lays out a square chart of the given width.
func NewDimensions(width float64, margin Margin) (Dimensions, error) {
	if width <= 0 {
		return Dimensions{}, fmt.Errorf("%w: width must be positive, got %g", ErrInvalidDimensions, width)
	}
	if margin.Top < 0 || margin.Right < 0 || margin.Bottom < 0 || margin.Left < 0 {
		return Dimensions{}, fmt.Errorf("%w: negative margin %+v", ErrInvalidDimensions, margin)
	}

	d := Dimensions{
		Width:  width,
		Height: width,
		Radius: width / 2,
		Margin: margin,
	}
	d.BoundedWidth = d.Width - margin.Left - margin.Right
	d.BoundedHeight = d.Height - margin.Top - margin.Bottom
	d.BoundedRadius = d.Radius - (margin.Left+margin.Right)/2

	if d.BoundedWidth < 0 || d.BoundedHeight < 0 || d.BoundedRadius < 0 {
		return Dimensions{}, fmt.Errorf("%w: margins %+v exceed width %g", ErrInvalidDimensions, margin, width)
	}
	return d, nil
}

// UniformMargin returns a margin of m on every side.
func UniformMargin(m float64) Margin {
	return Margin{Top: m, Right: m, Bottom: m, Left: m}
}

// DefaultDimensions is the 600px layout with 120px margins (bounded radius 180).
func DefaultDimensions() Dimensions {
	d, err := NewDimensions(DefaultWidth, UniformMargin(DefaultMargin))
	if err != nil {
		panic(err)
	}
	return d
}

// Center is the canvas position of the chart's visual centre, the origin of
// every chart-local coordinate.
func (d Dimensions) Center() Point {
	return Point{X: d.Margin.Left + d.BoundedRadius, Y: d.Margin.Top + d.BoundedRadius}
}
