package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-radial-chart/internal/api/http"
	"github.com/i474232898/weather-radial-chart/internal/scheduler"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	log := rt.logger
	svc := rt.service

	// Initial load; datasets that fail stay unavailable until a reload works.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*rt.cfg.HTTPTimeout)
	if err := svc.ReloadAll(loadCtx); err != nil {
		log.Warnw("initial dataset load finished with errors", "error", err)
	}
	cancelLoad()

	// Scheduler that periodically reloads datasets.
	sched := scheduler.New(rt.cfg.RefreshInterval, 2*rt.cfg.HTTPTimeout, svc, log.Named("scheduler"))
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-radial-chart",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(rt.telemetry.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-radial-chart",
			"charts":  len(svc.Charts()),
		})
	})

	httpapi.RegisterRoutes(app, svc)

	go func() {
		log.Infow("http server listening", "port", rt.cfg.Port)
		if err := app.Listen(":" + rt.cfg.Port); err != nil {
			log.Errorw("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("error during shutdown", "error", err)
	}
	log.Infow("http server stopped")
	return nil
}
