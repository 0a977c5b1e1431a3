package weather

import "time"

// Accessor extracts one numeric field from a record.
type Accessor func(WeatherRecord) float64

var (
	TemperatureMin    Accessor = func(r WeatherRecord) float64 { return r.TemperatureMin }
	TemperatureMax    Accessor = func(r WeatherRecord) float64 { return r.TemperatureMax }
	UVIndex           Accessor = func(r WeatherRecord) float64 { return r.UVIndex }
	PrecipProbability Accessor = func(r WeatherRecord) float64 { return r.PrecipProbability }
	CloudCover        Accessor = func(r WeatherRecord) float64 { return r.CloudCover }
)

// PrecipitationType returns the record's precipitation type.
func PrecipitationType(r WeatherRecord) PrecipType { return r.PrecipType }

// Date returns the record's calendar day as a time.
func Date(r WeatherRecord) time.Time { return r.Date.Time() }
