package providers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/weather-radial-chart/internal/weather"
)

// HTTPSource implements weather.Source for a dataset document served over HTTP.
type HTTPSource struct {
	name    string
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	logger  *zap.SugaredLogger

	// last successful download, reused when the server answers 304.
	mu      sync.Mutex
	etag    string
	current weather.Dataset
}

func NewHTTPSource(name, url string, client *http.Client, logger *zap.SugaredLogger) *HTTPSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dataset:" + name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		OnStateChange: func(cbName string, from, to gobreaker.State) {
			logger.Warnw("circuit breaker state changed", "breaker", cbName, "from", from.String(), "to", to.String())
		},
	})

	return &HTTPSource{
		name: name,
		url:  url,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: cb,
		logger:  logger,
	}
}

func (s *HTTPSource) Name() string { return s.name }

func (s *HTTPSource) Location() string { return s.url }

// Fetch downloads and decodes the dataset. When the previous download
// carried an ETag the request is conditional, and a 304 returns the
// previously decoded dataset unchanged.
func (s *HTTPSource) Fetch(ctx context.Context) (weather.Dataset, error) {
	s.mu.Lock()
	etag, current := s.etag, s.current
	s.mu.Unlock()

	doc, err := fetchDocument(ctx, s.httpCfg, s.circuit, s.logger, s.url, etag)
	if err != nil {
		return weather.Dataset{}, &weather.DataLoadError{Source: s.url, Err: err}
	}
	if doc.NotModified {
		s.logger.Debugw("dataset not modified", "dataset", s.name, "etag", etag)
		return current, nil
	}

	ds, err := weather.DecodeDataset(s.name, doc.Body)
	if err != nil {
		return weather.Dataset{}, err
	}

	s.mu.Lock()
	s.etag, s.current = doc.ETag, ds
	s.mu.Unlock()
	return ds, nil
}
