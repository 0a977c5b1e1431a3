package chart

import (
	"fmt"
	"math"

	"github.com/i474232898/weather-radial-chart/internal/weather"
)

// UVIndexThreshold marks the days that get a UV line.
const UVIndexThreshold = 8

// FreezingPoint is the freezing temperature in °F.
const FreezingPoint = 32

const annotationLabelGap = 6

// Annotation is a labelled call-out line running from a ring out to the
// outer annotation ring.
type Annotation struct {
	Label       string  `json:"label"`
	Angle       float64 `json:"angle"`
	Offset      float64 `json:"offset"`
	Start       Point   `json:"start"`
	End         Point   `json:"end"`
	LabelAnchor Point   `json:"labelAnchor"`
}

// Annotate computes the call-out for label at angle, starting at offset.
func (c *Context) Annotate(angle, offset float64, label string) Annotation {
	end := c.ToCartesian(angle, OuterOffset)
	return Annotation{
		Label:       label,
		Angle:       angle,
		Offset:      offset,
		Start:       c.ToCartesian(angle, offset),
		End:         end,
		LabelAnchor: end.Add(annotationLabelGap, 0),
	}
}

// FreezingOffset is the freezing point's ring as a fraction of the bounded
// radius. It follows the radius scale's domain.
func (c *Context) FreezingOffset() float64 {
	return c.OffsetForTemperature(FreezingPoint)
}

var (
	cloudAnnotationAngle         = math.Pi * 0.23
	precipitationAnnotationAngle = math.Pi * 0.26
	uvAnnotationAngle            = math.Pi * 0.734
	temperatureAnnotationAngle   = math.Pi * 0.7
	freezingAnnotationAngle      = math.Pi * 0.9
)

// Annotations returns the five standard call-outs.
func (c *Context) Annotations() []Annotation {
	return []Annotation{
		c.Annotate(cloudAnnotationAngle, CloudOffset, "Cloud Cover"),
		c.Annotate(precipitationAnnotationAngle, PrecipitationOffset, "Precipitation"),
		c.Annotate(uvAnnotationAngle, UVOffset, fmt.Sprintf("UV Index over %d", UVIndexThreshold)),
		c.Annotate(temperatureAnnotationAngle, TemperatureOffset, "Temperature"),
		c.Annotate(freezingAnnotationAngle, c.FreezingOffset(), "Freezing Temperature"),
	}
}

// LegendEntry is one precipitation type swatch under the precipitation
// call-out.
type LegendEntry struct {
	Type         weather.PrecipType `json:"type"`
	Color        string             `json:"color"`
	Swatch       Point              `json:"swatch"`
	SwatchRadius float64            `json:"swatchRadius"`
	LabelAnchor  Point              `json:"labelAnchor"`
}

const (
	legendSwatchRadius = 4
	legendSwatchX      = 15
	legendLabelX       = 25
	legendRowHeight    = 16
)

// PrecipitationLegend stacks one entry per precipitation type below the far
// end of the precipitation call-out.
func (c *Context) PrecipitationLegend() []LegendEntry {
	origin := c.ToCartesian(precipitationAnnotationAngle, OuterOffset)
	out := make([]LegendEntry, 0, len(weather.PrecipTypes))
	for i, t := range weather.PrecipTypes {
		dy := float64(legendRowHeight * (i + 1))
		out = append(out, LegendEntry{
			Type:         t,
			Color:        c.Scales.PrecipitationTypeColor.Apply(t),
			Swatch:       origin.Add(legendSwatchX, dy),
			SwatchRadius: legendSwatchRadius,
			LabelAnchor:  origin.Add(legendLabelX, dy),
		})
	}
	return out
}
