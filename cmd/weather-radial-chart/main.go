package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/i474232898/weather-radial-chart/internal/chart"
	"github.com/i474232898/weather-radial-chart/internal/config"
	"github.com/i474232898/weather-radial-chart/internal/service"
	"github.com/i474232898/weather-radial-chart/internal/store"
	"github.com/i474232898/weather-radial-chart/internal/telemetry"
	"github.com/i474232898/weather-radial-chart/internal/weather"
	"github.com/i474232898/weather-radial-chart/internal/weather/providers"
)

// deps is everything the commands share, built once before any command
// runs.
type deps struct {
	cfg       *config.AppConfig
	logger    *zap.SugaredLogger
	telemetry *telemetry.Client
	service   *service.Service
}

var rt deps

func main() {
	rootCmd := &cobra.Command{
		Use:           "weather-radial-chart",
		Short:         "Radial weather chart renderer and inspection service",
		Long:          "Loads daily weather datasets and draws them as a radial chart: one revolution per year, radius by temperature.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			rt.close()
		},
	}

	rootCmd.AddCommand(serveCmd(), renderCmd(), inspectCmd(), datasetsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		rt.close()
		os.Exit(1)
	}
}

func (r *deps) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	dims, err := chart.NewDimensions(cfg.ChartWidth, chart.UniformMargin(cfg.ChartMargin))
	if err != nil {
		return err
	}

	// Shared HTTP client for remote dataset documents.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	sources := make([]weather.Source, 0, len(cfg.Datasets))
	for _, ds := range cfg.Datasets {
		sources = append(sources, providers.New(ds.Name, ds.Location, httpClient, logger.Named("source")))
	}

	tel := telemetry.New(cfg.AppInsightsInstrumentationKey, logger.Named("telemetry"))

	r.cfg = cfg
	r.logger = logger
	r.telemetry = tel
	r.service = service.New(
		store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge),
		sources,
		dims,
		cfg.ImageCacheTTL,
		tel,
		logger.Named("service"),
	)
	return nil
}

func (r *deps) close() {
	if r.telemetry != nil {
		r.telemetry.Close(r.cfg.HTTPTimeout)
		r.telemetry = nil
	}
	if r.logger != nil {
		_ = r.logger.Sync()
	}
}

// newLogger builds a production logger, or a development one at debug level.
func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Sugar(), nil
}

// source finds a configured dataset source by name.
func (r *deps) source(name string) (weather.Source, error) {
	for _, src := range r.service.Sources() {
		if src.Name() == name {
			return src, nil
		}
	}
	return nil, fmt.Errorf("unknown dataset %q", name)
}
