package weather

import (
	"math"
	"time"
)

// Extent returns the minimum and maximum of every accessor applied to every
// record. ok is false for an empty dataset.
func Extent(ds Dataset, accessors ...Accessor) (lo, hi float64, ok bool) {
	lo = math.MaxFloat64
	hi = -math.MaxFloat64

	for _, r := range ds.records {
		for _, acc := range accessors {
			v := acc(r)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// DateExtent returns the earliest and latest record dates.
func DateExtent(ds Dataset) (first, last time.Time, ok bool) {
	for i, r := range ds.records {
		t := Date(r)
		if i == 0 || t.Before(first) {
			first = t
		}
		if i == 0 || t.After(last) {
			last = t
		}
	}
	return first, last, len(ds.records) > 0
}

// Filter returns the records for which keep reports true, in load order.
func Filter(ds Dataset, keep func(WeatherRecord) bool) []WeatherRecord {
	var out []WeatherRecord
	for _, r := range ds.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
