package chart

import (
	"fmt"
	"strconv"

	"github.com/i474232898/weather-radial-chart/internal/weather"
)

// Tooltip is the structured content of the hover panel for one record.
type Tooltip struct {
	DateLabel    string `json:"dateLabel"`
	TempMin      string `json:"tempMin"`
	TempMax      string `json:"tempMax"`
	TempMinColor string `json:"tempMinColor"`
	TempMaxColor string `json:"tempMaxColor"`
	UV           string `json:"uv"`
	Cloud        string `json:"cloud"`
	PrecipPct    string `json:"precipPct"`
	PrecipType   string `json:"precipType"`
	PrecipColor  string `json:"precipColor"`
}

// TooltipFor formats a record for the hover panel.
func (c *Context) TooltipFor(r weather.WeatherRecord) Tooltip {
	precipColor := MissingPrecipitationColor
	if r.PrecipType != weather.PrecipNone {
		precipColor = c.Scales.PrecipitationTypeColor.Apply(r.PrecipType)
	}
	return Tooltip{
		DateLabel:    r.Date.Time().Format("January 2"),
		TempMin:      formatTemperature(r.TemperatureMin),
		TempMax:      formatTemperature(r.TemperatureMax),
		TempMinColor: c.Scales.TemperatureColor.Apply(r.TemperatureMin),
		TempMaxColor: c.Scales.TemperatureColor.Apply(r.TemperatureMax),
		UV:           strconv.FormatFloat(r.UVIndex, 'f', -1, 64),
		Cloud:        strconv.FormatFloat(r.CloudCover, 'f', -1, 64),
		PrecipPct:    fmt.Sprintf("%.0f%%", r.PrecipProbability*100),
		PrecipType:   string(r.PrecipType),
		PrecipColor:  precipColor,
	}
}

func formatTemperature(t float64) string {
	return fmt.Sprintf("%.1f°F", t)
}

// Placement of the tooltip panel relative to its anchor on one axis.
const (
	PlaceBefore = "before"
	PlaceCenter = "center"
	PlaceAfter  = "after"
)

const tooltipPlacementBand = 50

// TooltipAnchor is where the hover panel attaches: the outer-ring point at
// the hovered angle, in chart-local and canvas coordinates, with the side
// the panel should extend to on each axis.
type TooltipAnchor struct {
	Local      Point  `json:"local"`
	Canvas     Point  `json:"canvas"`
	Horizontal string `json:"horizontal"`
	Vertical   string `json:"vertical"`
}

func placementFor(v float64) string {
	switch {
	case v < -tooltipPlacementBand:
		return PlaceBefore
	case v > tooltipPlacementBand:
		return PlaceAfter
	default:
		return PlaceCenter
	}
}

func (c *Context) tooltipAnchor(angle float64) TooltipAnchor {
	local := c.ToCartesian(angle, OuterOffset)
	center := c.Dimensions.Center()
	return TooltipAnchor{
		Local:      local,
		Canvas:     local.Add(center.X, center.Y),
		Horizontal: placementFor(local.X),
		Vertical:   placementFor(local.Y),
	}
}
