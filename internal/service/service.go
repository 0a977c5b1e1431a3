package service

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/weather-radial-chart/internal/chart"
	"github.com/i474232898/weather-radial-chart/internal/render"
	"github.com/i474232898/weather-radial-chart/internal/store"
	"github.com/i474232898/weather-radial-chart/internal/telemetry"
	"github.com/i474232898/weather-radial-chart/internal/weather"
)

// Image is an encoded chart with its entity tag.
type Image struct {
	Data       []byte
	ETag       string
	Generation string
}

// Summary describes one configured dataset and its latest chart, if any.
type Summary struct {
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	Loaded     bool      `json:"loaded"`
	Generation string    `json:"generation,omitempty"`
	LoadedAt   time.Time `json:"loadedAt,omitempty"`
	Records    int       `json:"records,omitempty"`
	First      string    `json:"first,omitempty"`
	Last       string    `json:"last,omitempty"`
}

// Generation is one retained load of a dataset.
type Generation struct {
	ID       string    `json:"id"`
	LoadedAt time.Time `json:"loadedAt"`
	Records  int       `json:"records"`
}

// Service orchestrates loading datasets from their sources, keeping the
// initialised charts, and answering render and inspect requests against the
// latest chart of each dataset.
type Service struct {
	store     *store.MemoryStore
	sources   []weather.Source
	dims      chart.Dimensions
	images    *store.Cache[string, Image]
	telemetry *telemetry.Client
	logger    *zap.SugaredLogger
}

// New creates a new Service. A nil telemetry client disables telemetry.
func New(
	st *store.MemoryStore,
	sources []weather.Source,
	dims chart.Dimensions,
	imageTTL time.Duration,
	tel *telemetry.Client,
	logger *zap.SugaredLogger,
) *Service {
	return &Service{
		store:     st,
		sources:   sources,
		dims:      dims,
		images:    store.NewCache[string, Image](imageTTL, maxCachedImages),
		telemetry: tel,
		logger:    logger,
	}
}

// Sources returns the configured sources in configuration order.
func (s *Service) Sources() []weather.Source {
	out := make([]weather.Source, len(s.sources))
	copy(out, s.sources)
	return out
}

// Load fetches one source, initialises its chart and stores it as the newest
// generation. On failure the previously stored chart stays current.
func (s *Service) Load(ctx context.Context, src weather.Source) (*chart.Context, error) {
	start := time.Now()
	ds, err := src.Fetch(ctx)
	if err != nil {
		s.telemetry.TrackReload(src.Name(), "", 0, err)
		return nil, err
	}

	c, err := chart.Initialize(ds, s.dims)
	if err != nil {
		err = fmt.Errorf("initialise chart %q: %w", src.Name(), err)
		s.telemetry.TrackReload(src.Name(), "", 0, err)
		return nil, err
	}

	s.store.Save(c)
	s.telemetry.TrackReload(src.Name(), c.Generation, ds.Len(), nil)
	s.logger.Infow("dataset loaded",
		"dataset", src.Name(),
		"location", src.Location(),
		"records", ds.Len(),
		"generation", c.Generation,
		"took", time.Since(start),
	)
	return c, nil
}

// ReloadAll loads every source concurrently. Failures are logged and joined
// into the returned error; each failed dataset keeps its last good chart.
func (s *Service) ReloadAll(ctx context.Context) error {
	if len(s.sources) == 0 {
		s.logger.Errorw("no dataset sources configured")
		return errors.New("no dataset sources configured")
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, src := range s.sources {
		src := src
		wg.Add(1)
		go func() {
			defer wg.Done()

			if _, err := s.Load(ctx, src); err != nil {
				s.logger.Warnw("dataset load failed; keeping last good chart",
					"dataset", src.Name(),
					"location", src.Location(),
					"error", err,
				)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errors.Join(errs...)
}

// Latest returns the current chart of a dataset.
func (s *Service) Latest(name string) (*chart.Context, error) {
	return s.store.GetLatest(name)
}

// Charts summarises every configured dataset, sorted by name.
func (s *Service) Charts() []Summary {
	out := make([]Summary, 0, len(s.sources))
	for _, src := range s.sources {
		sum := Summary{Name: src.Name(), Location: src.Location()}
		if c, err := s.store.GetLatest(src.Name()); err == nil {
			sum.Loaded = true
			sum.Generation = c.Generation
			sum.LoadedAt = c.LoadedAt
			sum.Records = c.Dataset.Len()
			if first, last, ok := weather.DateExtent(c.Dataset); ok {
				sum.First = weather.DayOf(first).Key()
				sum.Last = weather.DayOf(last).Key()
			}
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Geometry returns the static layout of a dataset's current chart.
func (s *Service) Geometry(name string) (chart.Geometry, error) {
	c, err := s.store.GetLatest(name)
	if err != nil {
		return chart.Geometry{}, err
	}
	return c.Geometry(), nil
}

// Inspect resolves a chart-local pointer position against a dataset's
// current chart.
func (s *Service) Inspect(name string, x, y float64) (chart.Resolution, error) {
	c, err := s.store.GetLatest(name)
	if err != nil {
		return chart.Resolution{}, err
	}
	res := c.Resolve(x, y)
	s.telemetry.TrackInspect(name, res)
	return res, nil
}

const (
	// maxCachedImages bounds the render cache across all datasets.
	maxCachedImages = 256
	// overlaySteps is how many indicator positions a full turn is split
	// into; pointers are snapped to the nearest one before rendering.
	overlaySteps = 1440
)

// overlayStep snaps a pointer to its indicator position, in [0, overlaySteps).
func overlayStep(pointer chart.Point) int {
	step := int(math.Round(chart.AngleAt(pointer.X, pointer.Y) / (2 * math.Pi) * overlaySteps))
	return step % overlaySteps
}

func overlayAngle(step int) float64 {
	return float64(step) * 2 * math.Pi / overlaySteps
}

func imageKey(generation string, step int) string {
	if step < 0 {
		return generation
	}
	return fmt.Sprintf("%s@%d", generation, step)
}

// Image renders a dataset's current chart as PNG, with the hover overlay
// for pointer when it is non-nil. The pointer is snapped to one of
// overlaySteps angles, so the cache holds at most one render per step and
// generation, and the render always matches its cache key.
func (s *Service) Image(name string, pointer *chart.Point) (*Image, error) {
	c, err := s.store.GetLatest(name)
	if err != nil {
		return nil, err
	}

	step := -1
	if pointer != nil {
		step = overlayStep(*pointer)
	}

	key := imageKey(c.Generation, step)
	if img := s.images.Get(key); img != nil {
		s.telemetry.TrackCache(true, "rendered")
		return img, nil
	}
	s.telemetry.TrackCache(false, "not rendered")

	var res *chart.Resolution
	if step >= 0 {
		r := c.ResolveAngle(overlayAngle(step))
		res = &r
	}

	data, err := render.PNG(c.Geometry(), res)
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", name, err)
	}

	img := &Image{
		Data:       data,
		ETag:       fmt.Sprintf("%x", sha1.Sum(data)),
		Generation: c.Generation,
	}
	s.images.Set(key, img)
	s.logger.Debugw("chart rendered", "dataset", name, "generation", c.Generation, "bytes", len(data), "etag", img.ETag)
	return img, nil
}

// History lists the retained generations of a dataset, oldest first. With
// a non-zero from/to only generations loaded in that window are returned.
func (s *Service) History(name string, from, to time.Time) ([]Generation, error) {
	var (
		contexts []*chart.Context
		err      error
	)
	if from.IsZero() && to.IsZero() {
		contexts, err = s.store.History(name)
	} else {
		if to.IsZero() {
			to = time.Now().UTC()
		}
		contexts, err = s.store.GetRange(name, from, to)
	}
	if err != nil {
		return nil, err
	}

	out := make([]Generation, 0, len(contexts))
	for _, c := range contexts {
		out = append(out, Generation{ID: c.Generation, LoadedAt: c.LoadedAt, Records: c.Dataset.Len()})
	}
	return out, nil
}

// PurgeImages drops expired renders.
func (s *Service) PurgeImages() int {
	return s.images.Purge()
}
