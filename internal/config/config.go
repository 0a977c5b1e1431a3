package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDatasets is used when DATASETS is unset.
const DefaultDatasets = "weather=./data/my_weather_data.json"

// Dataset names one dataset document and where to load it from: a local
// path or an http(s) URL.
type Dataset struct {
	Name     string
	Location string
}

type AppConfig struct {
	Datasets []Dataset

	// RefreshInterval controls how often datasets are reloaded (0 = never).
	RefreshInterval time.Duration
	HTTPTimeout     time.Duration

	// In-memory store retention.
	StoreMaxHistory int           // max number of generations per dataset (0 = unlimited)
	StoreMaxAge     time.Duration // max age of generations (0 = unlimited)

	ChartWidth    float64
	ChartMargin   float64
	ImageCacheTTL time.Duration

	Port     string
	LogLevel string

	AppInsightsInstrumentationKey string
}

// Load reads configuration from the environment, after an optional .env
// file, with sensible defaults.
func Load() (*AppConfig, error) {
	// A missing .env file is normal; the environment alone is enough.
	envErr := godotenv.Load()

	cfg := &AppConfig{}
	var err error

	if cfg.Datasets, err = ParseDatasets(getenvDefault("DATASETS", DefaultDatasets)); err != nil {
		return nil, fmt.Errorf("invalid DATASETS: %w", err)
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "0"); err != nil {
		return nil, err
	}
	if cfg.ImageCacheTTL, err = getenvDuration("IMAGE_CACHE_TTL", "10m"); err != nil {
		return nil, err
	}
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 5)

	if cfg.ChartWidth, err = getenvFloat("CHART_WIDTH", 600); err != nil {
		return nil, err
	}
	if cfg.ChartMargin, err = getenvFloat("CHART_MARGIN", 120); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))
	cfg.AppInsightsInstrumentationKey = os.Getenv("APPLICATIONINSIGHTS_INSTRUMENTATION_KEY")

	if envErr != nil && !os.IsNotExist(envErr) {
		return nil, fmt.Errorf("load .env: %w", envErr)
	}
	return cfg, nil
}

// ParseDatasets parses a comma-separated list of name=location pairs. A bare
// location is named after its file name without extension.
func ParseDatasets(s string) ([]Dataset, error) {
	var out []Dataset
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var ds Dataset
		if name, loc, ok := strings.Cut(part, "="); ok {
			ds = Dataset{Name: strings.TrimSpace(name), Location: strings.TrimSpace(loc)}
		} else {
			ds = Dataset{Name: nameFromLocation(part), Location: part}
		}
		if ds.Name == "" || ds.Location == "" {
			return nil, fmt.Errorf("dataset entry %q needs a name and a location", part)
		}
		if seen[ds.Name] {
			return nil, fmt.Errorf("duplicate dataset name %q", ds.Name)
		}
		seen[ds.Name] = true
		out = append(out, ds)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no datasets configured")
	}
	return out, nil
}

func nameFromLocation(loc string) string {
	base := loc
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
