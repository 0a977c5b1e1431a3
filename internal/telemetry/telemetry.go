// Package telemetry reports requests and chart events to Application
// Insights. A Client without an instrumentation key does nothing.
package telemetry

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/microsoft/ApplicationInsights-Go/appinsights"
	"go.uber.org/zap"

	"github.com/i474232898/weather-radial-chart/internal/chart"
)

type Client struct {
	ai     appinsights.TelemetryClient
	logger *zap.SugaredLogger
}

// New returns a client for the instrumentation key. An empty key yields a
// disabled client.
func New(instrumentationKey string, logger *zap.SugaredLogger) *Client {
	if instrumentationKey == "" {
		logger.Infow("application insights disabled: no instrumentation key")
		return &Client{logger: logger}
	}

	telemetryConfig := appinsights.NewTelemetryConfiguration(instrumentationKey)
	telemetryConfig.MaxBatchSize = 8192
	telemetryConfig.MaxBatchInterval = 2 * time.Second

	return &Client{
		ai:     appinsights.NewTelemetryClientFromConfig(telemetryConfig),
		logger: logger,
	}
}

func (c *Client) Enabled() bool { return c != nil && c.ai != nil }

// Middleware records a request telemetry item per request, named after the
// matched route.
func (c *Client) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !c.Enabled() {
			return ctx.Next()
		}

		telemetry := appinsights.NewRequestTelemetry(ctx.Method(), ctx.BaseURL()+ctx.OriginalURL(), 0*time.Second, "200")
		startTime := time.Now().UTC()

		err := ctx.Next()

		code := ctx.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		} else if err != nil {
			code = fiber.StatusInternalServerError
		}

		telemetry.Duration = time.Since(startTime)
		telemetry.ResponseCode = strconv.Itoa(code)
		telemetry.Success = code < 400
		telemetry.Name = ctx.Method() + " " + ctx.Route().Path
		if id := ctx.GetRespHeader(fiber.HeaderXRequestID); id != "" {
			telemetry.Properties["request-id"] = id
		}
		if etag := ctx.GetRespHeader(fiber.HeaderETag); etag != "" {
			telemetry.Properties["etag"] = etag
		}

		c.ai.Track(telemetry)
		return err
	}
}

// TrackInspect records a pointer resolution.
func (c *Client) TrackInspect(dataset string, res chart.Resolution) {
	if !c.Enabled() {
		return
	}
	e := appinsights.NewEventTelemetry("chart-inspect")
	e.Properties["dataset"] = dataset
	e.Properties["date"] = res.DateKey
	e.Properties["found"] = fmt.Sprintf("%t", res.Found())
	e.Measurements["angle"] = res.Angle
	c.ai.Track(e)
}

// TrackReload records the outcome of loading one dataset.
func (c *Client) TrackReload(dataset, generation string, records int, err error) {
	if !c.Enabled() {
		return
	}
	e := appinsights.NewEventTelemetry("dataset-reload")
	e.Properties["dataset"] = dataset
	e.Properties["success"] = fmt.Sprintf("%t", err == nil)
	if err != nil {
		e.Properties["error"] = err.Error()
	} else {
		e.Properties["generation"] = generation
		e.Measurements["records"] = float64(records)
	}
	c.ai.Track(e)
}

// TrackCache records whether a rendered image came from the cache.
func (c *Client) TrackCache(hit bool, reason string) {
	if !c.Enabled() {
		return
	}
	e := appinsights.NewEventTelemetry("cache-hit")
	e.Properties["cache-hit"] = fmt.Sprintf("%t", hit)
	e.Properties["reason"] = reason
	c.ai.Track(e)
}

// Close flushes queued telemetry, waiting at most timeout.
func (c *Client) Close(timeout time.Duration) {
	if !c.Enabled() {
		return
	}
	select {
	case <-c.ai.Channel().Close(timeout):
	case <-time.After(timeout + time.Second):
		c.logger.Warnw("timed out flushing telemetry", "timeout", timeout)
	}
}
