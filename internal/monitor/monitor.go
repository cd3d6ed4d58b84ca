// Package monitor sequences one batch run: load the previous snapshot, fetch
// current readings, compare statuses, notify on a transition, persist.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vicholz/airmonitor/internal/domain"
	"github.com/vicholz/airmonitor/internal/observability"
)

// AirQualitySource fetches per-pollutant readings for a location.
type AirQualitySource interface {
	Current(ctx context.Context, zipCode string, distanceMiles int) (map[string]domain.PollutantReading, error)
}

// TemperatureSource fetches the current feels-like temperature for a location.
type TemperatureSource interface {
	FeelsLike(ctx context.Context, zipCode string) (float64, error)
}

// Store loads the previous snapshot and persists the current one.
type Store interface {
	Load() (domain.Snapshot, error)
	Save(domain.Snapshot) error
}

// Notifier delivers a notification for a non-Unchanged transition.
type Notifier interface {
	Notify(ctx context.Context, transition domain.Transition, snap domain.Snapshot) error
}

// Config holds the run parameters the orchestrator needs.
type Config struct {
	ZipCode           string
	SearchRadiusMiles int
	Thresholds        domain.Thresholds
}

// Monitor is the run orchestrator. It owns no I/O of its own; every
// collaborator comes in through the constructor.
type Monitor struct {
	air      AirQualitySource
	temp     TemperatureSource
	store    Store
	notifier Notifier
	cfg      Config
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Monitor with the given collaborators.
func New(air AirQualitySource, temp TemperatureSource, store Store, notifier Notifier,
	cfg Config, logger *slog.Logger, metrics *observability.Metrics) *Monitor {
	return &Monitor{
		air:      air,
		temp:     temp,
		store:    store,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run executes one complete pass and records run metrics. The returned error
// is fatal for the run; there is no retry at this level.
func (m *Monitor) Run(ctx context.Context) error {
	start := time.Now()
	err := m.run(ctx)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.metrics.RunsTotal.WithLabelValues(outcome).Inc()
	m.metrics.RunDuration.Observe(time.Since(start).Seconds())

	return err
}

func (m *Monitor) run(ctx context.Context) error {
	previous, err := m.store.Load()
	if err != nil {
		return fmt.Errorf("load previous state: %w", err)
	}

	current, err := m.fetchCurrent(ctx)
	if err != nil {
		// Nothing is persisted on a fetch failure: the prior good reading
		// stays on disk for diagnostics, and an incomplete snapshot can
		// never reach the notifier.
		return err
	}

	previousStatus, err := domain.Evaluate(previous, m.cfg.Thresholds)
	if err != nil {
		return fmt.Errorf("evaluate previous snapshot: %w", err)
	}
	currentStatus, err := domain.Evaluate(current, m.cfg.Thresholds)
	if err != nil {
		return fmt.Errorf("evaluate current snapshot: %w", err)
	}

	if currentStatus == domain.StatusBad {
		m.metrics.AlertActive.Set(1)
	} else {
		m.metrics.AlertActive.Set(0)
	}

	transition := domain.Classify(previousStatus, currentStatus)
	m.logger.Info("status compared",
		"previous", previousStatus.String(),
		"current", currentStatus.String(),
		"transition", transition.String(),
	)

	var notifyErr error
	if transition != domain.Unchanged {
		if notifyErr = m.notifier.Notify(ctx, transition, current); notifyErr != nil {
			notifyErr = fmt.Errorf("notification delivery: %w", notifyErr)
			m.logger.Error("notification delivery failed", "error", notifyErr)
			m.metrics.NotificationErrors.Inc()
		} else {
			m.metrics.NotificationsSent.WithLabelValues(transition.String()).Inc()
		}
	}

	// The snapshot is saved after the notification attempt regardless of its
	// outcome, so a transient delivery failure cannot re-alert on every
	// following run while the underlying condition is unchanged.
	var saveErr error
	if err := m.store.Save(current); err != nil {
		saveErr = fmt.Errorf("save state: %w", err)
	}

	return errors.Join(notifyErr, saveErr)
}

// fetchCurrent populates the current snapshot from both sources. The calls
// run concurrently and join before evaluation; a failure in either one is
// fatal for the run.
func (m *Monitor) fetchCurrent(ctx context.Context) (domain.Snapshot, error) {
	var (
		readings  map[string]domain.PollutantReading
		feelsLike float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := m.air.Current(gctx, m.cfg.ZipCode, m.cfg.SearchRadiusMiles)
		if err != nil {
			m.metrics.FetchErrors.WithLabelValues("air_quality").Inc()
			return fmt.Errorf("fetch air quality: %w", err)
		}
		readings = r
		return nil
	})
	g.Go(func() error {
		t, err := m.temp.FeelsLike(gctx, m.cfg.ZipCode)
		if err != nil {
			m.metrics.FetchErrors.WithLabelValues("temperature").Inc()
			return fmt.Errorf("fetch temperature: %w", err)
		}
		feelsLike = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, err
	}

	return domain.Snapshot{
		AirQuality:  readings,
		Temperature: &feelsLike,
	}, nil
}
