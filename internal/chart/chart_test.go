package chart

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/i474232898/weather-radial-chart/internal/weather"
)

const eps = 1e-6

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func day(t *testing.T, s string) weather.Day {
	t.Helper()
	d, err := weather.ParseDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

var precipCycle = []weather.PrecipType{
	weather.PrecipNone, weather.PrecipRain, weather.PrecipSleet, weather.PrecipSnow,
}

// yearOfRecords returns one record per day of 2018.
func yearOfRecords(t *testing.T) []weather.WeatherRecord {
	t.Helper()
	start := day(t, "2018-01-01").Time()
	var out []weather.WeatherRecord
	for i := 0; i < 365; i++ {
		lo := 20 + float64(i%50)
		out = append(out, weather.WeatherRecord{
			Date:              weather.DayOf(start.AddDate(0, 0, i)),
			TemperatureMin:    lo,
			TemperatureMax:    lo + 15,
			UVIndex:           float64(i % 12),
			PrecipProbability: float64(i%10) / 10,
			PrecipType:        precipCycle[i%len(precipCycle)],
			CloudCover:        float64(i%7) / 6,
		})
	}
	return out
}

func newContext(t *testing.T, records []weather.WeatherRecord) *Context {
	t.Helper()
	ds, err := weather.NewDataset("test", records)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	c, err := Initialize(ds, DefaultDimensions())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return c
}

func TestDefaultDimensions(t *testing.T) {
	d := DefaultDimensions()
	if d.BoundedRadius != 180 {
		t.Fatalf("expected bounded radius 180, got %v", d.BoundedRadius)
	}
	if d.BoundedWidth != 360 || d.BoundedHeight != 360 {
		t.Fatalf("unexpected bounded size %vx%v", d.BoundedWidth, d.BoundedHeight)
	}
	if c := d.Center(); c.X != 300 || c.Y != 300 {
		t.Fatalf("expected centre (300,300), got %+v", c)
	}
}

func TestNewDimensionsRejectsOversizedMargins(t *testing.T) {
	if _, err := NewDimensions(100, UniformMargin(60)); !errors.Is(err, ErrInvalidDimensions) {
		t.Fatalf("expected ErrInvalidDimensions, got %v", err)
	}
	if _, err := NewDimensions(0, UniformMargin(0)); !errors.Is(err, ErrInvalidDimensions) {
		t.Fatalf("expected ErrInvalidDimensions for zero width, got %v", err)
	}
}

func TestInitializeEmptyDataset(t *testing.T) {
	ds, err := weather.NewDataset("empty", nil)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	if _, err := Initialize(ds, DefaultDimensions()); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestToCartesian(t *testing.T) {
	d := DefaultDimensions()

	if p := d.ToCartesian(1.234, 0); !almostEqual(p.X, 0) || !almostEqual(p.Y, 0) {
		t.Fatalf("offset 0 should map to origin, got %+v", p)
	}
	if p := d.ToCartesian(0, 1); !almostEqual(p.X, 0) || !almostEqual(p.Y, -180) {
		t.Fatalf("angle 0 should point north, got %+v", p)
	}
	if p := d.ToCartesian(math.Pi/2, 1); !almostEqual(p.X, 180) || !almostEqual(p.Y, 0) {
		t.Fatalf("angle π/2 should point east, got %+v", p)
	}

	a, b := d.ToCartesian(0, 1.4), d.ToCartesian(2*math.Pi, 1.4)
	if !almostEqual(a.X, b.X) || !almostEqual(a.Y, b.Y) {
		t.Fatalf("angles 0 and 2π should coincide: %+v vs %+v", a, b)
	}
}

func TestAngleScaleCoversFullTurn(t *testing.T) {
	records := yearOfRecords(t)
	c := newContext(t, records)

	if got := c.AngleForRecord(records[0]); !almostEqual(got, 0) {
		t.Fatalf("first record angle = %v, want 0", got)
	}
	if got := c.AngleForRecord(records[len(records)-1]); !almostEqual(got, 2*math.Pi) {
		t.Fatalf("last record angle = %v, want 2π", got)
	}
}

func TestAngleScaleRoundTrip(t *testing.T) {
	records := yearOfRecords(t)
	c := newContext(t, records)

	for _, r := range records {
		back := c.Scales.Angle.Invert(c.AngleForRecord(r))
		if diff := back.Sub(r.Date.Time()); diff > time.Millisecond || diff < -time.Millisecond {
			t.Fatalf("round trip of %s drifted by %v", r.Date, diff)
		}
		if got := nearestDay(back).Key(); got != r.Date.Key() {
			t.Fatalf("round trip of %s resolved to %s", r.Date, got)
		}
	}
}

func TestRadiusOrdersMinBelowMax(t *testing.T) {
	records := yearOfRecords(t)
	c := newContext(t, records)

	for _, r := range records {
		if c.Scales.Radius.Apply(r.TemperatureMin) > c.Scales.Radius.Apply(r.TemperatureMax) {
			t.Fatalf("radius(min) > radius(max) for %s", r.Date)
		}
	}
}

func TestRadiusScaleIsMonotone(t *testing.T) {
	c := newContext(t, yearOfRecords(t))

	ticks := c.Scales.TemperatureTicks()
	if len(ticks) < 2 {
		t.Fatalf("expected several temperature ticks, got %v", ticks)
	}
	prev := math.Inf(-1)
	for _, tick := range ticks {
		r := c.Scales.Radius.Apply(tick)
		if r <= prev {
			t.Fatalf("radius not increasing at tick %v: %v <= %v", tick, r, prev)
		}
		prev = r
	}

	dom := c.Scales.Radius.Domain()
	if !almostEqual(c.Scales.Radius.Apply(dom[1]), 180) {
		t.Fatalf("top of domain should map to bounded radius")
	}
}

func TestResolveNorthIsEarliestDate(t *testing.T) {
	c := newContext(t, yearOfRecords(t))

	res := c.Resolve(0, -180)
	if !almostEqual(res.Angle, 0) {
		t.Fatalf("expected angle 0, got %v", res.Angle)
	}
	if res.DateKey != "2018-01-01" {
		t.Fatalf("expected 2018-01-01, got %s", res.DateKey)
	}
	if !res.Found() || res.Tooltip == nil {
		t.Fatalf("expected a record and tooltip")
	}
}

func TestResolveJustBeforeSeamIsLatestDate(t *testing.T) {
	c := newContext(t, yearOfRecords(t))

	res := c.Resolve(-0.001, -180)
	if res.Angle < 6.28 || res.Angle >= 2*math.Pi {
		t.Fatalf("expected angle just under 2π, got %v", res.Angle)
	}
	if res.DateKey != "2018-12-31" {
		t.Fatalf("expected 2018-12-31, got %s", res.DateKey)
	}
}

func TestResolveEastIsQuarterYear(t *testing.T) {
	c := newContext(t, yearOfRecords(t))

	res := c.Resolve(180, 0)
	if !almostEqual(res.Angle, math.Pi/2) {
		t.Fatalf("expected angle π/2, got %v", res.Angle)
	}
	if res.DateKey != "2018-04-02" {
		t.Fatalf("expected 2018-04-02, got %s", res.DateKey)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	c := newContext(t, yearOfRecords(t))

	for _, p := range []Point{{0, -180}, {37, 12}, {-150, 90}, {0, 0}} {
		a, b := c.Resolve(p.X, p.Y), c.Resolve(p.X, p.Y)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("Resolve(%v, %v) not idempotent:\n%+v\n%+v", p.X, p.Y, a, b)
		}
	}
}

func TestResolveDegeneratePointers(t *testing.T) {
	c := newContext(t, yearOfRecords(t))

	for _, p := range [][2]float64{{0, 0}, {math.NaN(), 1}, {1, math.Inf(1)}} {
		res := c.Resolve(p[0], p[1])
		if res.Angle != 0 || res.DateKey != "2018-01-01" {
			t.Fatalf("pointer %v resolved to angle %v date %s", p, res.Angle, res.DateKey)
		}
	}
}

func TestResolveMissingDayHasNoRecord(t *testing.T) {
	records := []weather.WeatherRecord{
		{Date: day(t, "2018-01-01"), TemperatureMin: 30, TemperatureMax: 40},
		{Date: day(t, "2018-01-03"), TemperatureMin: 31, TemperatureMax: 41},
		{Date: day(t, "2018-01-04"), TemperatureMin: 32, TemperatureMax: 42},
		{Date: day(t, "2018-01-05"), TemperatureMin: 33, TemperatureMax: 43},
	}
	c := newContext(t, records)

	// Four days across the turn: the east point is 2018-01-02.
	res := c.Resolve(180, 0)
	if res.DateKey != "2018-01-02" {
		t.Fatalf("expected 2018-01-02, got %s", res.DateKey)
	}
	if res.Found() || res.Tooltip != nil {
		t.Fatalf("expected no record for a missing day, got %+v", res.Record)
	}
}

func TestSingleRecordDataset(t *testing.T) {
	rec := weather.WeatherRecord{
		Date:              day(t, "2018-06-01"),
		TemperatureMin:    60,
		TemperatureMax:    75,
		UVIndex:           9,
		PrecipProbability: 0.4,
		PrecipType:        weather.PrecipRain,
		CloudCover:        0.5,
	}
	c := newContext(t, []weather.WeatherRecord{rec})

	first, last := c.Scales.Angle.Domain()
	if !first.Equal(last) || weather.DayOf(first).Key() != "2018-06-01" {
		t.Fatalf("expected a degenerate angle domain, got [%v, %v]", first, last)
	}
	if dom := c.Scales.Radius.Domain(); dom[0] > 60 || dom[1] < 75 {
		t.Fatalf("radius domain %v should contain [60, 75]", dom)
	}
	if got := c.AngleForRecord(rec); !almostEqual(got, math.Pi) {
		t.Fatalf("single record angle = %v, want π", got)
	}
	for _, p := range []Point{{0, -180}, {100, 100}, {-20, 5}} {
		res := c.Resolve(p.X, p.Y)
		if res.DateKey != "2018-06-01" || !res.Found() {
			t.Fatalf("Resolve(%v) = %s found=%v", p, res.DateKey, res.Found())
		}
	}

	g := c.Geometry()
	if len(g.Band) != 1 || len(g.UVMarkers) != 1 {
		t.Fatalf("expected one band vertex and one UV marker, got %d and %d", len(g.Band), len(g.UVMarkers))
	}
}

func TestTooltipFormatting(t *testing.T) {
	c := newContext(t, yearOfRecords(t))

	tip := c.TooltipFor(weather.WeatherRecord{
		Date:              day(t, "2018-03-05"),
		TemperatureMin:    32.14,
		TemperatureMax:    50,
		UVIndex:           8,
		PrecipProbability: 0.37,
		PrecipType:        weather.PrecipSnow,
		CloudCover:        0.5,
	})

	want := Tooltip{
		DateLabel:    "March 5",
		TempMin:      "32.1°F",
		TempMax:      "50.0°F",
		TempMinColor: c.Scales.TemperatureColor.Apply(32.14),
		TempMaxColor: c.Scales.TemperatureColor.Apply(50),
		UV:           "8",
		Cloud:        "0.5",
		PrecipPct:    "37%",
		PrecipType:   "snow",
		PrecipColor:  "#b2bec3",
	}
	if tip != want {
		t.Fatalf("unexpected tooltip:\n got %+v\nwant %+v", tip, want)
	}
}

func TestMissingPrecipitationTypeColor(t *testing.T) {
	c := newContext(t, yearOfRecords(t))

	tip := c.TooltipFor(weather.WeatherRecord{Date: day(t, "2018-01-01")})
	if tip.PrecipColor != MissingPrecipitationColor || tip.PrecipType != "" {
		t.Fatalf("expected %s for no precipitation type, got %q/%s", MissingPrecipitationColor, tip.PrecipType, tip.PrecipColor)
	}

	g := c.Geometry()
	for _, dot := range g.PrecipitationDots {
		rec, _ := c.Dataset.Lookup(dot.Date.Key())
		if rec.PrecipType == weather.PrecipNone && dot.Color != MissingPrecipitationColor {
			t.Fatalf("dot for %s has colour %s", dot.Date, dot.Color)
		}
	}
}

func TestTooltipAnchorPlacement(t *testing.T) {
	c := newContext(t, yearOfRecords(t))

	north := c.Resolve(0, -180).Anchor
	if north.Horizontal != PlaceCenter || north.Vertical != PlaceBefore {
		t.Fatalf("north anchor placed %s/%s", north.Horizontal, north.Vertical)
	}
	if !almostEqual(north.Canvas.X, 300) || !almostEqual(north.Canvas.Y, 300-288) {
		t.Fatalf("north anchor canvas position %+v", north.Canvas)
	}

	east := c.Resolve(180, 0).Anchor
	if east.Horizontal != PlaceAfter || east.Vertical != PlaceCenter {
		t.Fatalf("east anchor placed %s/%s", east.Horizontal, east.Vertical)
	}
}

func TestIndicatorWedge(t *testing.T) {
	c := newContext(t, yearOfRecords(t))

	w := c.Resolve(0, -180).Indicator
	if !almostEqual(w.EndAngle-w.StartAngle, 0.03) {
		t.Fatalf("unexpected wedge width %v", w.EndAngle-w.StartAngle)
	}
	if !almostEqual(w.OuterRadius, 288) {
		t.Fatalf("unexpected outer radius %v", w.OuterRadius)
	}
	if p := w.Corners[0]; !almostEqual(p.X, 0) || !almostEqual(p.Y, 0) {
		t.Fatalf("wedge should start at the origin, got %+v", p)
	}
}

func TestGeometry(t *testing.T) {
	records := yearOfRecords(t)
	c := newContext(t, records)
	g := c.Geometry()

	if len(g.Months) != 12 {
		t.Fatalf("expected 12 month spokes, got %d", len(g.Months))
	}
	if first := g.Months[0]; first.Label != "Jan" || !almostEqual(first.Angle, 0) || first.TextAnchor != AnchorMiddle {
		t.Fatalf("unexpected first spoke %+v", first)
	}
	if g.Months[3].TextAnchor != AnchorStart || g.Months[8].TextAnchor != AnchorEnd {
		t.Fatalf("unexpected text anchors %s/%s", g.Months[3].TextAnchor, g.Months[8].TextAnchor)
	}

	var highUV int
	for _, r := range records {
		if r.UVIndex > UVIndexThreshold {
			highUV++
		}
	}
	if len(g.UVMarkers) != highUV {
		t.Fatalf("expected %d UV markers, got %d", highUV, len(g.UVMarkers))
	}
	if len(g.Band) != len(records) || len(g.CloudDots) != len(records) {
		t.Fatalf("expected a band vertex and cloud dot per record")
	}

	for _, dot := range g.CloudDots {
		if dot.Radius < cloudRadiusMin-eps || dot.Radius > cloudRadiusMax+eps {
			t.Fatalf("cloud dot radius %v out of range", dot.Radius)
		}
	}

	if len(g.Gradient) != gradientStopCount || g.Gradient[0].Offset != 0 || g.Gradient[len(g.Gradient)-1].Offset != 1 {
		t.Fatalf("unexpected gradient %+v", g.Gradient)
	}
	if len(g.Annotations) != 5 || len(g.PrecipitationLegend) != len(weather.PrecipTypes) {
		t.Fatalf("expected 5 annotations and a legend entry per precipitation type")
	}
	if g.ListenerRadius != 300 {
		t.Fatalf("expected listener radius 300, got %v", g.ListenerRadius)
	}
}

func TestTemperatureRingLabels(t *testing.T) {
	records := []weather.WeatherRecord{
		{Date: day(t, "2018-01-01"), TemperatureMin: -3.5, TemperatureMax: 40},
		{Date: day(t, "2018-07-01"), TemperatureMin: 60, TemperatureMax: 97.2},
	}
	c := newContext(t, records)

	for _, ring := range c.TemperatureRings() {
		if ring.Value < 1 && ring.Labeled {
			t.Fatalf("ring %v should not be labelled", ring.Value)
		}
		if ring.Value >= 1 && (!ring.Labeled || ring.Label == "") {
			t.Fatalf("ring %v should be labelled", ring.Value)
		}
	}
}

func TestAnnotate(t *testing.T) {
	c := newContext(t, yearOfRecords(t))

	a := c.Annotate(0, 1, "Test")
	if !almostEqual(a.Start.Y, -180) || !almostEqual(a.End.Y, -288) {
		t.Fatalf("unexpected call-out line %+v -> %+v", a.Start, a.End)
	}
	if !almostEqual(a.LabelAnchor.X, a.End.X+6) || !almostEqual(a.LabelAnchor.Y, a.End.Y) {
		t.Fatalf("label should sit 6px right of the line end, got %+v", a.LabelAnchor)
	}
}

// coldRecords spans temperatures well below freezing, so the radius domain
// differs from yearOfRecords.
func coldRecords(t *testing.T) []weather.WeatherRecord {
	t.Helper()
	start := day(t, "2018-01-01").Time()
	var out []weather.WeatherRecord
	for i := 0; i < 30; i++ {
		lo := -25 + float64(i)
		out = append(out, weather.WeatherRecord{
			Date:           weather.DayOf(start.AddDate(0, 0, i)),
			TemperatureMin: lo,
			TemperatureMax: lo + 20,
		})
	}
	return out
}

func TestAnnotations(t *testing.T) {
	datasets := map[string][]weather.WeatherRecord{
		"year": yearOfRecords(t),
		"cold": coldRecords(t),
	}

	freezing := map[string]float64{}
	for name, records := range datasets {
		t.Run(name, func(t *testing.T) {
			c := newContext(t, records)
			wantFreezing := c.Scales.Radius.Apply(FreezingPoint) / c.Dimensions.BoundedRadius
			if got := c.FreezingOffset(); !almostEqual(got, wantFreezing) {
				t.Fatalf("FreezingOffset() = %v, want %v", got, wantFreezing)
			}
			freezing[name] = wantFreezing

			want := []struct {
				label  string
				angle  float64
				offset float64
			}{
				{"Cloud Cover", math.Pi * 0.23, CloudOffset},
				{"Precipitation", math.Pi * 0.26, PrecipitationOffset},
				{"UV Index over 8", math.Pi * 0.734, UVOffset},
				{"Temperature", math.Pi * 0.7, TemperatureOffset},
				{"Freezing Temperature", math.Pi * 0.9, wantFreezing},
			}
			got := c.Annotations()
			if len(got) != len(want) {
				t.Fatalf("expected %d annotations, got %d", len(want), len(got))
			}
			for i, w := range want {
				a := got[i]
				if a.Label != w.label || !almostEqual(a.Angle, w.angle) || !almostEqual(a.Offset, w.offset) {
					t.Fatalf("annotation %d = %s@%v/%v, want %s@%v/%v", i, a.Label, a.Angle, a.Offset, w.label, w.angle, w.offset)
				}
				start := c.ToCartesian(w.angle, w.offset)
				end := c.ToCartesian(w.angle, OuterOffset)
				if !almostEqual(a.Start.X, start.X) || !almostEqual(a.Start.Y, start.Y) ||
					!almostEqual(a.End.X, end.X) || !almostEqual(a.End.Y, end.Y) {
					t.Fatalf("annotation %q runs %+v -> %+v, want %+v -> %+v", a.Label, a.Start, a.End, start, end)
				}
			}
		})
	}

	if almostEqual(freezing["year"], freezing["cold"]) {
		t.Fatalf("freezing offset should follow the radius domain, got %v for both", freezing["year"])
	}
}

func TestPrecipitationLegend(t *testing.T) {
	c := newContext(t, yearOfRecords(t))
	origin := c.ToCartesian(math.Pi*0.26, OuterOffset)

	legend := c.PrecipitationLegend()
	if len(legend) != len(weather.PrecipTypes) {
		t.Fatalf("expected %d legend entries, got %d", len(weather.PrecipTypes), len(legend))
	}
	for i, e := range legend {
		dy := float64(16 * (i + 1))
		if e.Type != weather.PrecipTypes[i] {
			t.Fatalf("entry %d is %q, want %q", i, e.Type, weather.PrecipTypes[i])
		}
		if !almostEqual(e.Swatch.X, origin.X+15) || !almostEqual(e.Swatch.Y, origin.Y+dy) {
			t.Fatalf("entry %d swatch at %+v, want (%v, %v)", i, e.Swatch, origin.X+15, origin.Y+dy)
		}
		if !almostEqual(e.LabelAnchor.X, origin.X+25) || !almostEqual(e.LabelAnchor.Y, origin.Y+dy) {
			t.Fatalf("entry %d label at %+v, want (%v, %v)", i, e.LabelAnchor, origin.X+25, origin.Y+dy)
		}
		if e.SwatchRadius != 4 || e.Color != c.Scales.PrecipitationTypeColor.Apply(e.Type) {
			t.Fatalf("entry %d has unexpected swatch %+v", i, e)
		}
	}
}

func TestResolveAngleMatchesResolve(t *testing.T) {
	c := newContext(t, yearOfRecords(t))

	byPointer := c.Resolve(100, 0)
	byAngle := c.ResolveAngle(math.Pi / 2)
	if byAngle.DateKey != byPointer.DateKey || !almostEqual(byAngle.Angle, byPointer.Angle) {
		t.Fatalf("ResolveAngle(π/2) = %s, Resolve(east) = %s", byAngle.DateKey, byPointer.DateKey)
	}

	// Angles outside one turn wrap; non-finite angles resolve like the origin.
	if got := c.ResolveAngle(math.Pi/2 + 2*math.Pi).DateKey; got != byPointer.DateKey {
		t.Fatalf("expected a full extra turn to wrap to %s, got %s", byPointer.DateKey, got)
	}
	if got := c.ResolveAngle(-math.Pi / 2); !almostEqual(got.Angle, 3*math.Pi/2) {
		t.Fatalf("expected -π/2 to wrap to 3π/2, got %v", got.Angle)
	}
	if got := c.ResolveAngle(math.NaN()).DateKey; got != "2018-01-01" {
		t.Fatalf("expected NaN to resolve to the first day, got %s", got)
	}
}

func TestRecordCoordinates(t *testing.T) {
	records := yearOfRecords(t)
	c := newContext(t, records)

	for _, r := range []weather.WeatherRecord{records[0], records[90], records[364]} {
		p := c.PointForRecord(r, RecordOffset)
		if c.XFromRecord(r, RecordOffset) != p.X || c.YFromRecord(r, RecordOffset) != p.Y {
			t.Fatalf("%s: x/y helpers disagree with PointForRecord %+v", r.Date.Key(), p)
		}
	}
	if y := c.YFromRecord(records[0], 1); !almostEqual(y, -180) {
		t.Fatalf("the first day should sit due north, got y=%v", y)
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct{ raw, want float64 }{
		{-math.Pi / 2, 0},
		{0, math.Pi / 2},
		{math.Pi, 3 * math.Pi / 2},
		{-math.Pi, math.Pi / 2 * 3},
		{-3 * math.Pi / 4, 7 * math.Pi / 4},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.raw); !almostEqual(got, tt.want) {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestNearestDay(t *testing.T) {
	base := time.Date(2018, 5, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		offset time.Duration
		want   string
	}{
		{0, "2018-05-10"},
		{11 * time.Hour, "2018-05-10"},
		{12 * time.Hour, "2018-05-11"},
		{-1 * time.Hour, "2018-05-10"},
		{-13 * time.Hour, "2018-05-09"},
	}
	for _, tt := range tests {
		if got := nearestDay(base.Add(tt.offset)).Key(); got != tt.want {
			t.Errorf("nearestDay(+%v) = %s, want %s", tt.offset, got, tt.want)
		}
	}
}
