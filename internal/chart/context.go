// Package chart is the radial weather chart engine: it maps a dataset onto
// polar coordinates (one revolution per year, radius by temperature), lays
// out annotations and markers, and inverts pointer positions back into
// records.
//
// Everything hangs off an immutable Context built once by Initialize. Every
// Cartesian coordinate the package produces comes from Context.ToCartesian,
// so all layers share one frame whose origin is the chart centre.
package chart

import (
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-radial-chart/internal/weather"
)

// Context is an initialised chart: dataset, layout and scales. It is never
// mutated after Initialize and may be shared between goroutines.
type Context struct {
	Generation string
	LoadedAt   time.Time
	Dataset    weather.Dataset
	Dimensions Dimensions
	Scales     ScaleSet
}

// Initialize builds the scales for ds. It returns ErrEmptyDataset for a
// dataset with no records.
func Initialize(ds weather.Dataset, dims Dimensions) (*Context, error) {
	scales, err := BuildScales(ds, dims)
	if err != nil {
		return nil, err
	}
	return &Context{
		Generation: uuid.NewString(),
		LoadedAt:   time.Now().UTC(),
		Dataset:    ds,
		Dimensions: dims,
		Scales:     scales,
	}, nil
}
