package providers

import (
	"context"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/i474232898/weather-radial-chart/internal/weather"
)

// FileSource implements weather.Source for a dataset document on local disk.
type FileSource struct {
	name string
	path string
}

func NewFileSource(name, path string) *FileSource {
	return &FileSource{name: name, path: path}
}

func (s *FileSource) Name() string { return s.name }

func (s *FileSource) Location() string { return s.path }

func (s *FileSource) Fetch(ctx context.Context) (weather.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return weather.Dataset{}, &weather.DataLoadError{Source: s.path, Err: err}
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return weather.Dataset{}, &weather.DataLoadError{Source: s.path, Err: err}
	}
	return weather.DecodeDataset(s.name, data)
}

// New picks the source implementation from the location's scheme: http(s)
// URLs are fetched remotely, anything else is read from disk.
func New(name, location string, client *http.Client, logger *zap.SugaredLogger) weather.Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(name, location, client, logger)
	}
	return NewFileSource(name, location)
}
