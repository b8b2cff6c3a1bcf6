// Package cache decides whether a stored check can be served instead of a
// fresh provider lookup.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"breachwatch/internal/exposure/metrics"
	"breachwatch/internal/exposure/models"
	"breachwatch/internal/exposure/store"
	"breachwatch/pkg/platform/sentinel"
)

// DefaultStalenessThreshold is how long a cached check is served before a
// fresh lookup is required.
const DefaultStalenessThreshold = 24 * time.Hour

// ResultStore is the keyed persistence behind the cache. GetLatest returns
// sentinel.ErrNotFound when nothing is stored for the email.
type ResultStore interface {
	GetLatest(ctx context.Context, email string) (*models.CheckResult, error)
	Upsert(ctx context.Context, email string, result models.CheckResult, ownerUserID string) error
}

// Cache serves the latest stored check per email and judges its freshness.
type Cache struct {
	store     ResultStore
	threshold time.Duration
	clock     func() time.Time
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

type Option func(*Cache)

// WithStalenessThreshold overrides DefaultStalenessThreshold.
func WithStalenessThreshold(threshold time.Duration) Option {
	return func(c *Cache) {
		if threshold > 0 {
			c.threshold = threshold
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(resultStore ResultStore, opts ...Option) (*Cache, error) {
	if resultStore == nil {
		return nil, errors.New("result store is required")
	}
	c := &Cache{
		store:     resultStore,
		threshold: DefaultStalenessThreshold,
		clock:     time.Now,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetLatest returns the stored check for email, or nil and no error when none
// exists. Backend failures are returned as *store.Error.
func (c *Cache) GetLatest(ctx context.Context, email string) (*models.CheckResult, error) {
	normalized := models.NormalizeEmail(email)
	if normalized == "" {
		return nil, models.ErrEmailRequired
	}
	result, err := c.store.GetLatest(ctx, normalized)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			c.metrics.RecordCacheMiss()
			return nil, nil
		}
		c.logger.ErrorContext(ctx, "cache read failed", "error", err)
		return nil, store.Wrap("get latest", err)
	}
	if result == nil {
		c.metrics.RecordCacheMiss()
		return nil, nil
	}
	if c.IsStale(result) {
		c.metrics.RecordCacheStale()
	} else {
		c.metrics.RecordCacheHit()
	}
	return result, nil
}

// Store overwrites the cached check for email.
func (c *Cache) Store(ctx context.Context, email string, result models.CheckResult, ownerUserID string) error {
	normalized := models.NormalizeEmail(email)
	if normalized == "" {
		return models.ErrEmailRequired
	}
	if err := c.store.Upsert(ctx, normalized, result, ownerUserID); err != nil {
		c.logger.ErrorContext(ctx, "cache write failed", "error", err)
		return store.Wrap("upsert", err)
	}
	return nil
}

// IsStale reports whether result is older than the configured threshold.
// A nil result is always stale.
func (c *Cache) IsStale(result *models.CheckResult) bool {
	if result == nil {
		return true
	}
	return IsStale(result.CheckedAt, c.threshold, c.clock())
}

// IsStale reports whether a check made at checkedAt is strictly older than
// threshold at now. A check exactly threshold old is still fresh.
func IsStale(checkedAt time.Time, threshold time.Duration, now time.Time) bool {
	return now.Sub(checkedAt) > threshold
}
