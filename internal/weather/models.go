package weather

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day layout used by dataset documents and lookups.
const DateLayout = "2006-01-02"

// PrecipType represents the kind of precipitation recorded for a day.
type PrecipType string

const (
	PrecipNone  PrecipType = ""
	PrecipRain  PrecipType = "rain"
	PrecipSleet PrecipType = "sleet"
	PrecipSnow  PrecipType = "snow"
)

// PrecipTypes lists the known precipitation types in legend order.
var PrecipTypes = []PrecipType{PrecipRain, PrecipSleet, PrecipSnow}

// Day is a calendar date stored as UTC midnight.
type Day time.Time

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return Day{}, err
	}
	return Day(t), nil
}

// DayOf truncates t to its calendar day in UTC.
func DayOf(t time.Time) Day {
	t = t.UTC()
	return Day(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

func (d Day) Time() time.Time { return time.Time(d) }

// Key returns the YYYY-MM-DD form used for exact lookups.
func (d Day) Key() string { return time.Time(d).Format(DateLayout) }

func (d Day) String() string { return d.Key() }

func (d *Day) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid date format: %s", b)
	}
	parsed, err := ParseDay(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Key() + `"`), nil
}

// WeatherRecord is one calendar day of observations.
type WeatherRecord struct {
	Date              Day        `json:"date"`
	TemperatureMin    float64    `json:"temperatureMin"`
	TemperatureMax    float64    `json:"temperatureMax"`
	UVIndex           float64    `json:"uvIndex"`
	PrecipProbability float64    `json:"precipProbability"`
	PrecipType        PrecipType `json:"precipType,omitempty"`
	CloudCover        float64    `json:"cloudCover"`
}

// Dataset is an immutable sequence of records indexed by date key.
type Dataset struct {
	name    string
	records []WeatherRecord
	byDate  map[string]int
}

// NewDataset builds a dataset from records. Duplicate dates are rejected.
func NewDataset(name string, records []WeatherRecord) (Dataset, error) {
	byDate := make(map[string]int, len(records))
	for i, r := range records {
		key := r.Date.Key()
		if _, dup := byDate[key]; dup {
			return Dataset{}, &InvalidFieldError{Index: i, Date: key, Field: "date", Reason: "duplicate date"}
		}
		byDate[key] = i
	}
	out := make([]WeatherRecord, len(records))
	copy(out, records)
	return Dataset{name: name, records: out, byDate: byDate}, nil
}

func (d Dataset) Name() string { return d.name }

func (d Dataset) Len() int { return len(d.records) }

// Records returns a copy of the records in load order.
func (d Dataset) Records() []WeatherRecord {
	out := make([]WeatherRecord, len(d.records))
	copy(out, d.records)
	return out
}

// At returns the i-th record in load order.
func (d Dataset) At(i int) WeatherRecord { return d.records[i] }

// Lookup finds the record whose date key matches exactly.
func (d Dataset) Lookup(key string) (WeatherRecord, bool) {
	i, ok := d.byDate[key]
	if !ok {
		return WeatherRecord{}, false
	}
	return d.records[i], true
}
