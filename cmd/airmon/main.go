// Command airmon runs one air-quality monitoring pass: it loads the previous
// snapshot, fetches current readings, emails on a GOOD/BAD status transition,
// and persists the new snapshot. Recurrence belongs to an external scheduler
// such as cron; overlapping invocations must be serialized there as well.
//
// Exit status is 0 when the run completed, including the no-transition case,
// and 1 on a configuration error, corrupt prior state, fetch failure, or
// failed notification delivery.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/vicholz/airmonitor/internal/adapter/airnow"
	"github.com/vicholz/airmonitor/internal/adapter/airnowgov"
	"github.com/vicholz/airmonitor/internal/adapter/openweather"
	sendgridadapter "github.com/vicholz/airmonitor/internal/adapter/sendgrid"
	"github.com/vicholz/airmonitor/internal/config"
	"github.com/vicholz/airmonitor/internal/domain"
	"github.com/vicholz/airmonitor/internal/monitor"
	"github.com/vicholz/airmonitor/internal/observability"
	"github.com/vicholz/airmonitor/internal/statestore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var (
		air  monitor.AirQualitySource
		temp monitor.TemperatureSource
	)
	switch cfg.Source {
	case config.SourceScraper:
		scraper := airnowgov.NewClient(cfg.ScraperURL, cfg.FetchTimeout, logger)
		air, temp = scraper, scraper
		logger.Info("using airnow.gov dashboard source", "url", cfg.ScraperURL)
	default:
		air = airnow.NewClient(cfg.AirnowAPIKey, cfg.FetchTimeout, logger)
		temp = openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.FetchTimeout, logger)
	}

	store := statestore.New(cfg.StateFile, clockwork.NewRealClock(), logger)
	notifier := sendgridadapter.NewNotifier(cfg.SendgridAPIKey, cfg.FromAddress, cfg.Recipients, logger)

	mon := monitor.New(air, temp, store, notifier, monitor.Config{
		ZipCode:           cfg.ZipCode,
		SearchRadiusMiles: cfg.SearchRadiusMiles,
		Thresholds: domain.Thresholds{
			MaxTemperature:   cfg.MaxTemperature,
			MaxCategoryIndex: cfg.MaxCategoryIndex,
		},
	}, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := mon.Run(ctx)
	if runErr != nil {
		logger.Error("run failed", "error", runErr)
	}

	if cfg.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
		if err := metrics.Push(pushCtx, cfg.PushgatewayURL, "airmonitor"); err != nil {
			logger.Warn("metrics push failed", "error", err)
		}
		cancel()
	}

	if runErr != nil {
		os.Exit(1)
	}
}
