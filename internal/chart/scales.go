package chart

import (
	"errors"
	"math"

	"github.com/i474232898/weather-radial-chart/internal/scale"
	"github.com/i474232898/weather-radial-chart/internal/weather"
)

// ErrEmptyDataset is returned when a dataset has no records to derive scale
// domains from.
var ErrEmptyDataset = errors.New("dataset has no records")

// MissingPrecipitationColor is used for records without a known
// precipitation type.
const MissingPrecipitationColor = "#dadadd"

var precipitationColors = []string{"#54a0ff", "#636e72", "#b2bec3"}

const (
	radiusTickCount  = 10
	cloudRadiusMin   = 1
	cloudRadiusMax   = 10
	precipRadiusMin  = 0
	precipRadiusMax  = 8
	temperatureTicks = 4
)

// ScaleSet holds every scale of a chart. Domains come from the whole dataset
// and are fixed once built.
type ScaleSet struct {
	Angle                  scale.Time
	Radius                 scale.Linear
	CloudRadius            scale.Sqrt
	PrecipitationRadius    scale.Sqrt
	PrecipitationTypeColor scale.Ordinal[weather.PrecipType, string]
	TemperatureColor       scale.Sequential
}

// BuildScales derives all scales from ds. It fails with ErrEmptyDataset
// before computing any extent.
func BuildScales(ds weather.Dataset, dims Dimensions) (ScaleSet, error) {
	if ds.Len() == 0 {
		return ScaleSet{}, ErrEmptyDataset
	}

	first, last, _ := weather.DateExtent(ds)
	tMin, tMax, _ := weather.Extent(ds, weather.TemperatureMin, weather.TemperatureMax)
	cMin, cMax, _ := weather.Extent(ds, weather.CloudCover)
	pMin, pMax, _ := weather.Extent(ds, weather.PrecipProbability)

	return ScaleSet{
		Angle: scale.NewTime(first, last, [2]float64{0, 2 * math.Pi}),
		Radius: scale.NewLinear([2]float64{tMin, tMax}, [2]float64{0, dims.BoundedRadius}).
			Nice(radiusTickCount),
		CloudRadius:         scale.NewSqrt([2]float64{cMin, cMax}, [2]float64{cloudRadiusMin, cloudRadiusMax}),
		PrecipitationRadius: scale.NewSqrt([2]float64{pMin, pMax}, [2]float64{precipRadiusMin, precipRadiusMax}),
		PrecipitationTypeColor: scale.NewOrdinal(
			weather.PrecipTypes,
			precipitationColors,
			MissingPrecipitationColor,
		),
		TemperatureColor: scale.NewSequential([2]float64{tMin, tMax}, scale.InterpolateYlOrRd),
	}, nil
}

// TemperatureTicks are the grid circle values of the radius scale.
func (s ScaleSet) TemperatureTicks() []float64 {
	return s.Radius.Ticks(temperatureTicks)
}
