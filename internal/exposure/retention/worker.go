// Package retention prunes cached checks that are older than the retention
// window.
package retention

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"breachwatch/internal/exposure/metrics"
	"breachwatch/internal/exposure/store"
)

const (
	DefaultMaxAge   = 90 * 24 * time.Hour
	DefaultInterval = 24 * time.Hour
)

// Pruner deletes cached checks made before cutoff and reports how many went.
type Pruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Worker struct {
	pruner   Pruner
	maxAge   time.Duration
	interval time.Duration
	clock    func() time.Time
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Worker)

func WithMaxAge(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.maxAge = d
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(w *Worker) {
		if clock != nil {
			w.clock = clock
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

func New(pruner Pruner, opts ...Option) (*Worker, error) {
	if pruner == nil {
		return nil, errors.New("pruner is required")
	}
	w := &Worker{
		pruner:   pruner,
		maxAge:   DefaultMaxAge,
		interval: DefaultInterval,
		clock:    time.Now,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// RunOnce deletes every cached check older than the retention window.
func (w *Worker) RunOnce(ctx context.Context) (int64, error) {
	cutoff := w.clock().Add(-w.maxAge)
	deleted, err := w.pruner.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, store.Wrap("delete older than", err)
	}
	w.metrics.AddRetentionDeleted(deleted)
	w.logger.InfoContext(ctx, "pruned cached checks",
		"deleted", deleted,
		"cutoff", cutoff,
	)
	return deleted, nil
}

// Run prunes immediately and then every interval until ctx ends. Failed passes
// are logged and retried on the next tick.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		if _, err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
			w.logger.ErrorContext(ctx, "retention pass failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
