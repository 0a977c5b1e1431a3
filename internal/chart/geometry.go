package chart

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/i474232898/weather-radial-chart/internal/weather"
)

// Text anchors, matching SVG text-anchor values.
const (
	AnchorStart  = "start"
	AnchorMiddle = "middle"
	AnchorEnd    = "end"
)

// MonthSpoke is a grid line from the centre to the first day of a month.
type MonthSpoke struct {
	Month       time.Time `json:"month"`
	Angle       float64   `json:"angle"`
	End         Point     `json:"end"`
	Label       string    `json:"label"`
	LabelAnchor Point     `json:"labelAnchor"`
	TextAnchor  string    `json:"textAnchor"`
}

// Rect is an axis-aligned box in chart-local coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TemperatureRing is a concentric grid circle at a temperature tick.
type TemperatureRing struct {
	Value       float64 `json:"value"`
	Radius      float64 `json:"radius"`
	Labeled     bool    `json:"labeled"`
	Label       string  `json:"label,omitempty"`
	LabelAnchor Point   `json:"labelAnchor"`
	Background  Rect    `json:"background"`
}

// BandVertex is one day of the temperature band.
type BandVertex struct {
	Date  weather.Day `json:"date"`
	Inner Point       `json:"inner"`
	Outer Point       `json:"outer"`
}

// UVMarker is a short radial line for a day with a high UV index.
type UVMarker struct {
	Date  weather.Day `json:"date"`
	Start Point       `json:"start"`
	End   Point       `json:"end"`
}

// Dot is a circular marker for one day.
type Dot struct {
	Date   weather.Day `json:"date"`
	Center Point       `json:"center"`
	Radius float64     `json:"radius"`
	Color  string      `json:"color,omitempty"`
}

// GradientStop is one stop of the temperature band's radial gradient.
type GradientStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// Geometry is everything a drawing surface needs to paint the static chart.
type Geometry struct {
	Dimensions          Dimensions        `json:"dimensions"`
	Center              Point             `json:"center"`
	Months              []MonthSpoke      `json:"months"`
	TemperatureRings    []TemperatureRing `json:"temperatureRings"`
	FreezingRadius      float64           `json:"freezingRadius"`
	Gradient            []GradientStop    `json:"gradient"`
	Band                []BandVertex      `json:"band"`
	UVMarkers           []UVMarker        `json:"uvMarkers"`
	CloudDots           []Dot             `json:"cloudDots"`
	PrecipitationDots   []Dot             `json:"precipitationDots"`
	Annotations         []Annotation      `json:"annotations"`
	PrecipitationLegend []LegendEntry     `json:"precipitationLegend"`
	ListenerRadius      float64           `json:"listenerRadius"`
}

const (
	gradientStopCount   = 10
	ringLabelX          = 4
	ringLabelBoxWidth   = 40
	ringLabelBoxHeight  = 20
	monthLabelCenterBox = 5
)

// Geometry computes the static layout of the whole chart.
func (c *Context) Geometry() Geometry {
	records := c.chronological()

	g := Geometry{
		Dimensions:          c.Dimensions,
		Center:              c.Dimensions.Center(),
		Months:              c.MonthSpokes(),
		TemperatureRings:    c.TemperatureRings(),
		FreezingRadius:      c.Scales.Radius.Apply(FreezingPoint),
		Gradient:            gradientStops(c.Scales.TemperatureColor.Stops(gradientStopCount)),
		Annotations:         c.Annotations(),
		PrecipitationLegend: c.PrecipitationLegend(),
		ListenerRadius:      c.Dimensions.Width / 2,
	}

	g.Band = make([]BandVertex, 0, len(records))
	g.CloudDots = make([]Dot, 0, len(records))
	g.PrecipitationDots = make([]Dot, 0, len(records))
	for _, r := range records {
		angle := c.AngleForRecord(r)
		g.Band = append(g.Band, BandVertex{
			Date:  r.Date,
			Inner: c.ToCartesian(angle, c.OffsetForTemperature(r.TemperatureMin)),
			Outer: c.ToCartesian(angle, c.OffsetForTemperature(r.TemperatureMax)),
		})
		if r.UVIndex > UVIndexThreshold {
			g.UVMarkers = append(g.UVMarkers, UVMarker{
				Date:  r.Date,
				Start: c.ToCartesian(angle, UVOffset),
				End:   c.ToCartesian(angle, UVOffset+UVLineLength),
			})
		}
		g.CloudDots = append(g.CloudDots, Dot{
			Date:   r.Date,
			Center: c.ToCartesian(angle, CloudOffset),
			Radius: c.Scales.CloudRadius.Apply(r.CloudCover),
		})
		g.PrecipitationDots = append(g.PrecipitationDots, Dot{
			Date:   r.Date,
			Center: c.ToCartesian(angle, PrecipitationOffset),
			Radius: c.Scales.PrecipitationRadius.Apply(r.PrecipProbability),
			Color:  c.Scales.PrecipitationTypeColor.Apply(r.PrecipType),
		})
	}
	return g
}

// MonthSpokes returns one spoke per month start inside the angle domain.
func (c *Context) MonthSpokes() []MonthSpoke {
	months := c.Scales.Angle.Months()
	out := make([]MonthSpoke, 0, len(months))
	for _, m := range months {
		angle := c.Scales.Angle.Apply(m)
		label := c.ToCartesian(angle, MonthLabelOffset)
		out = append(out, MonthSpoke{
			Month:       m,
			Angle:       angle,
			End:         c.ToCartesian(angle, 1),
			Label:       m.Format("Jan"),
			LabelAnchor: label,
			TextAnchor:  textAnchorFor(label.X),
		})
	}
	return out
}

func textAnchorFor(x float64) string {
	switch {
	case math.Abs(x) < monthLabelCenterBox:
		return AnchorMiddle
	case x > 0:
		return AnchorStart
	default:
		return AnchorEnd
	}
}

// TemperatureRings returns the grid circles. Ticks below 1° are drawn but
// not labelled.
func (c *Context) TemperatureRings() []TemperatureRing {
	ticks := c.Scales.TemperatureTicks()
	out := make([]TemperatureRing, 0, len(ticks))
	for _, t := range ticks {
		r := c.Scales.Radius.Apply(t)
		top := c.ToCartesian(0, c.OffsetForTemperature(t))
		ring := TemperatureRing{
			Value:       t,
			Radius:      r,
			LabelAnchor: top.Add(ringLabelX, 0),
			Background: Rect{
				X:      top.X,
				Y:      top.Y - ringLabelBoxHeight/2,
				Width:  ringLabelBoxWidth,
				Height: ringLabelBoxHeight,
			},
		}
		if t >= 1 {
			ring.Labeled = true
			ring.Label = fmt.Sprintf("%.0f°F", t)
		}
		out = append(out, ring)
	}
	return out
}

func (c *Context) chronological() []weather.WeatherRecord {
	records := c.Dataset.Records()
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Time().Before(records[j].Date.Time())
	})
	return records
}

func gradientStops(colors []string) []GradientStop {
	out := make([]GradientStop, len(colors))
	for i, col := range colors {
		var offset float64
		if len(colors) > 1 {
			offset = float64(i) / float64(len(colors)-1)
		}
		out[i] = GradientStop{Offset: offset, Color: col}
	}
	return out
}
