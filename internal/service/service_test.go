package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/weather-radial-chart/internal/chart"
	"github.com/i474232898/weather-radial-chart/internal/store"
	"github.com/i474232898/weather-radial-chart/internal/telemetry"
	"github.com/i474232898/weather-radial-chart/internal/weather"
)

const document = `[
  {"date":"2018-01-01","temperatureMin":28,"temperatureMax":39,"uvIndex":2,"precipProbability":0.1,"precipType":"snow","cloudCover":0.8},
  {"date":"2018-07-01","temperatureMin":65,"temperatureMax":88,"uvIndex":10,"precipProbability":0.3,"precipType":"rain","cloudCover":0.2},
  {"date":"2018-12-31","temperatureMin":25,"temperatureMax":37,"uvIndex":1,"precipProbability":0,"cloudCover":0.5}
]`

// stubSource serves a fixed document, or fails when err is set.
type stubSource struct {
	name string
	doc  string
	err  error
}

func (s *stubSource) Name() string     { return s.name }
func (s *stubSource) Location() string { return "stub://" + s.name }

func (s *stubSource) Fetch(ctx context.Context) (weather.Dataset, error) {
	if s.err != nil {
		return weather.Dataset{}, &weather.DataLoadError{Source: s.name, Err: s.err}
	}
	return weather.DecodeDataset(s.name, []byte(s.doc))
}

func newService(sources ...weather.Source) *Service {
	logger := zap.NewNop().Sugar()
	return New(
		store.NewMemoryStore(5, 0),
		sources,
		chart.DefaultDimensions(),
		time.Minute,
		telemetry.New("", logger),
		logger,
	)
}

func TestReloadAllKeepsLastGoodChart(t *testing.T) {
	src := &stubSource{name: "weather", doc: document}
	svc := newService(src)

	if err := svc.ReloadAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	good, err := svc.Latest("weather")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.err = errors.New("connection refused")
	err = svc.ReloadAll(context.Background())
	var loadErr *weather.DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected DataLoadError, got %v", err)
	}

	latest, err := svc.Latest("weather")
	if err != nil || latest != good {
		t.Fatalf("a failed reload should keep the last good chart")
	}
}

func TestReloadAllPartialFailure(t *testing.T) {
	svc := newService(
		&stubSource{name: "good", doc: document},
		&stubSource{name: "empty", doc: `[]`},
	)

	err := svc.ReloadAll(context.Background())
	if !errors.Is(err, chart.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}

	charts := svc.Charts()
	if len(charts) != 2 || charts[0].Name != "empty" || charts[0].Loaded || !charts[1].Loaded {
		t.Fatalf("unexpected summaries %+v", charts)
	}
	if charts[1].First != "2018-01-01" || charts[1].Last != "2018-12-31" || charts[1].Records != 3 {
		t.Fatalf("unexpected summary %+v", charts[1])
	}
}

func TestInspect(t *testing.T) {
	svc := newService(&stubSource{name: "weather", doc: document})
	if err := svc.ReloadAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := svc.Inspect("weather", 0, -50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found() || res.DateKey != "2018-01-01" {
		t.Fatalf("expected 2018-01-01, got %s (found=%v)", res.DateKey, res.Found())
	}

	if _, err := svc.Inspect("missing", 0, 0); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestImageIsCachedPerGeneration(t *testing.T) {
	svc := newService(&stubSource{name: "weather", doc: document})
	if err := svc.ReloadAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, err := svc.Image("weather", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := svc.Image("weather", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b || a.ETag == "" {
		t.Fatalf("expected the cached render to be reused")
	}

	hover, err := svc.Image("weather", &chart.Point{X: 0, Y: -50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hover.ETag == a.ETag {
		t.Fatalf("hover render should differ from the plain render")
	}

	if err := svc.ReloadAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err := svc.Image("weather", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Generation == a.Generation {
		t.Fatalf("a reload should produce a new generation")
	}
}

func TestHoverImagesAreBounded(t *testing.T) {
	svc := newService(&stubSource{name: "weather", doc: document})
	if err := svc.ReloadAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Pointers within a fraction of a pixel of north snap to one angle.
	for i := 0; i < 200; i++ {
		if _, err := svc.Image("weather", &chart.Point{X: float64(i) / 1000, Y: -100}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if n := svc.images.Len(); n != 1 {
		t.Fatalf("expected nearby pointers to share renders, got %d cached images", n)
	}

	// Pointers all around the chart never grow the cache past its cap.
	for i := 0; i < maxCachedImages+50; i++ {
		a := float64(i) * 2 * math.Pi / float64(maxCachedImages+50)
		if _, err := svc.Image("weather", &chart.Point{X: 100 * math.Cos(a), Y: 100 * math.Sin(a)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if n := svc.images.Len(); n > maxCachedImages {
		t.Fatalf("expected at most %d cached images, got %d", maxCachedImages, n)
	}
}

func TestHoverImageMatchesItsKey(t *testing.T) {
	svc := newService(&stubSource{name: "weather", doc: document})
	if err := svc.ReloadAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, err := svc.Image("weather", &chart.Point{X: 0.1, Y: -100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.images = store.NewCache[string, Image](time.Minute, maxCachedImages)
	b, err := svc.Image("weather", &chart.Point{X: 0, Y: -100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ETag != b.ETag {
		t.Fatalf("pointers snapping to the same angle should render identical images")
	}
}

func TestOverlayStep(t *testing.T) {
	tests := []struct {
		name    string
		pointer chart.Point
		want    int
	}{
		{"north", chart.Point{X: 0, Y: -100}, 0},
		{"east", chart.Point{X: 100, Y: 0}, overlaySteps / 4},
		{"south", chart.Point{X: 0, Y: 100}, overlaySteps / 2},
		{"west", chart.Point{X: -100, Y: 0}, 3 * overlaySteps / 4},
		{"origin", chart.Point{}, 0},
		{"just before the seam", chart.Point{X: -0.001, Y: -100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlayStep(tt.pointer); got != tt.want {
				t.Fatalf("overlayStep(%+v) = %d, want %d", tt.pointer, got, tt.want)
			}
		})
	}
}

func TestHistory(t *testing.T) {
	svc := newService(&stubSource{name: "weather", doc: document})
	for i := 0; i < 3; i++ {
		if err := svc.ReloadAll(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	gens, err := svc.History("weather", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gens) != 3 || gens[0].Records != 3 {
		t.Fatalf("unexpected history %+v", gens)
	}

	if _, err := svc.History("weather", time.Now().Add(time.Hour), time.Time{}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a future window, got %v", err)
	}
}

func TestReloadAllWithoutSources(t *testing.T) {
	if err := newService().ReloadAll(context.Background()); err == nil {
		t.Fatalf("expected an error without sources")
	}
}
