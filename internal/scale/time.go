package scale

import (
	"math"
	"time"
)

// Time is a linear scale over instants. It works in milliseconds since the
// Unix epoch, so equal durations map to equal range steps.
type Time struct {
	start, end time.Time
	lin        Linear
}

func millis(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1000
}

func NewTime(start, end time.Time, rng [2]float64) Time {
	return Time{
		start: start.UTC(),
		end:   end.UTC(),
		lin:   NewLinear([2]float64{millis(start), millis(end)}, rng),
	}
}

func (s Time) Apply(t time.Time) float64 { return s.lin.Apply(millis(t)) }

// Invert returns the instant for a range value. The result is continuous and
// usually falls between calendar days. With a single-instant domain every
// value inverts to that instant.
func (s Time) Invert(y float64) time.Time {
	ms := s.lin.Invert(y)
	return time.UnixMicro(int64(math.Round(ms * 1000))).UTC()
}

func (s Time) Domain() (time.Time, time.Time) { return s.start, s.end }

func (s Time) Range() [2]float64 { return s.lin.Range() }

// Months returns the first instant of every UTC calendar month m with
// start <= m < end.
func (s Time) Months() []time.Time {
	lo, hi := s.start, s.end
	if hi.Before(lo) {
		lo, hi = hi, lo
	}

	m := time.Date(lo.Year(), lo.Month(), 1, 0, 0, 0, 0, time.UTC)
	if m.Before(lo) {
		m = m.AddDate(0, 1, 0)
	}

	var out []time.Time
	for ; m.Before(hi); m = m.AddDate(0, 1, 0) {
		out = append(out, m)
	}
	return out
}
