package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report document field names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// rawRecord mirrors one object of the input document. Numeric fields are
// pointers so that a missing field can be told apart from a zero value.
type rawRecord struct {
	Date              string   `json:"date" validate:"required,datetime=2006-01-02"`
	TemperatureMin    *float64 `json:"temperatureMin" validate:"required"`
	TemperatureMax    *float64 `json:"temperatureMax" validate:"required"`
	UVIndex           *float64 `json:"uvIndex" validate:"required,gte=0"`
	PrecipProbability *float64 `json:"precipProbability" validate:"required,gte=0,lte=1"`
	PrecipType        string   `json:"precipType" validate:"omitempty,oneof=rain sleet snow"`
	CloudCover        *float64 `json:"cloudCover" validate:"required,gte=0,lte=1"`
}

// DecodeDataset parses and validates a dataset document. Any invalid record
// rejects the whole document: the returned DataLoadError wraps every
// InvalidFieldError found.
func DecodeDataset(source string, data []byte) (Dataset, error) {
	var raw []rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return Dataset{}, &DataLoadError{Source: source, Err: fmt.Errorf("malformed document: %w", err)}
	}

	records := make([]WeatherRecord, 0, len(raw))
	var errs []error
	for i, r := range raw {
		rec, recErrs := r.toRecord(i)
		if len(recErrs) > 0 {
			errs = append(errs, recErrs...)
			continue
		}
		records = append(records, rec)
	}
	if len(errs) > 0 {
		return Dataset{}, &DataLoadError{Source: source, Err: errors.Join(errs...)}
	}

	ds, err := NewDataset(source, records)
	if err != nil {
		return Dataset{}, &DataLoadError{Source: source, Err: err}
	}
	return ds, nil
}

func (r rawRecord) toRecord(index int) (WeatherRecord, []error) {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return WeatherRecord{}, []error{err}
		}
		out := make([]error, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, &InvalidFieldError{
				Index:  index,
				Date:   r.Date,
				Field:  fe.Field(),
				Reason: describeTag(fe),
			})
		}
		return WeatherRecord{}, out
	}

	if *r.TemperatureMin > *r.TemperatureMax {
		return WeatherRecord{}, []error{&InvalidFieldError{
			Index:  index,
			Date:   r.Date,
			Field:  "temperatureMin",
			Reason: fmt.Sprintf("greater than temperatureMax (%g > %g)", *r.TemperatureMin, *r.TemperatureMax),
		}}
	}

	day, err := ParseDay(r.Date)
	if err != nil {
		return WeatherRecord{}, []error{&InvalidFieldError{Index: index, Date: r.Date, Field: "date", Reason: err.Error()}}
	}

	return WeatherRecord{
		Date:              day,
		TemperatureMin:    *r.TemperatureMin,
		TemperatureMax:    *r.TemperatureMax,
		UVIndex:           *r.UVIndex,
		PrecipProbability: *r.PrecipProbability,
		PrecipType:        PrecipType(r.PrecipType),
		CloudCover:        *r.CloudCover,
	}, nil
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "missing"
	case "datetime":
		return "not a YYYY-MM-DD date"
	case "oneof":
		return "must be one of rain, sleet, snow"
	default:
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	}
}
