// Package orchestrator serves exposure checks from the cache when fresh and
// otherwise runs the breach and paste lookups concurrently.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"breachwatch/internal/exposure/metrics"
	"breachwatch/internal/exposure/models"
)

// DefaultFreshCheckTimeout bounds a fresh check once it has been dispatched.
const DefaultFreshCheckTimeout = 30 * time.Second

// BreachLookup queries the breach provider.
type BreachLookup interface {
	CheckBreaches(ctx context.Context, email string, detailed bool) ([]models.BreachRecord, error)
	CheckPastes(ctx context.Context, email string) ([]models.PasteRecord, error)
}

// ResultCache stores the latest check per email. GetLatest returns nil and no
// error on a miss.
type ResultCache interface {
	GetLatest(ctx context.Context, email string) (*models.CheckResult, error)
	Store(ctx context.Context, email string, result models.CheckResult, ownerUserID string) error
	IsStale(result *models.CheckResult) bool
}

type Orchestrator struct {
	lookup       BreachLookup
	cache        ResultCache
	clock        func() time.Time
	freshTimeout time.Duration
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type Option func(*Orchestrator)

func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithFreshCheckTimeout bounds the detached provider round trip.
func WithFreshCheckTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.freshTimeout = timeout
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

func New(lookup BreachLookup, cache ResultCache, opts ...Option) (*Orchestrator, error) {
	if lookup == nil {
		return nil, errors.New("breach lookup is required")
	}
	if cache == nil {
		return nil, errors.New("result cache is required")
	}
	o := &Orchestrator{
		lookup:       lookup,
		cache:        cache,
		clock:        time.Now,
		freshTimeout: DefaultFreshCheckTimeout,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

type checkOutcome struct {
	result *models.CheckResult
	err    error
}

// SmartCheck returns the cached check for email when it is fresh. Otherwise it
// queries breaches and pastes in parallel, caches the combined result under
// ownerUserID and returns it. Nothing is cached unless both lookups succeed.
//
// The fresh check is detached from ctx: if the caller goes away first,
// SmartCheck returns ctx.Err() while the check runs to completion and may
// still populate the cache.
func (o *Orchestrator) SmartCheck(ctx context.Context, email, ownerUserID string) (*models.CheckResult, error) {
	normalized := models.NormalizeEmail(email)
	if normalized == "" {
		return nil, models.ErrEmailRequired
	}

	cached, err := o.cache.GetLatest(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if cached != nil && !o.cache.IsStale(cached) {
		return cached, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan checkOutcome, 1)
	go func() {
		freshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.freshTimeout)
		defer cancel()
		result, err := o.freshCheck(freshCtx, normalized, ownerUserID)
		done <- checkOutcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		o.logger.InfoContext(ctx, "caller abandoned exposure check; continuing in background")
		return nil, ctx.Err()
	}
}

func (o *Orchestrator) freshCheck(ctx context.Context, email, ownerUserID string) (*models.CheckResult, error) {
	var (
		breaches []models.BreachRecord
		pastes   []models.PasteRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := o.lookup.CheckBreaches(gctx, email, true)
		if err != nil {
			return err
		}
		breaches = found
		return nil
	})
	g.Go(func() error {
		found, err := o.lookup.CheckPastes(gctx, email)
		if err != nil {
			return err
		}
		pastes = found
		return nil
	})

	// First failure cancels the sibling; nothing is cached.
	if err := g.Wait(); err != nil {
		o.metrics.RecordFreshCheck("error")
		o.logger.WarnContext(ctx, "fresh exposure check failed", "error", err)
		return nil, err
	}

	result := models.NewCheckResult(email, breaches, pastes, o.clock())
	if err := o.cache.Store(ctx, email, result, ownerUserID); err != nil {
		o.metrics.RecordFreshCheck("error")
		return nil, err
	}

	if result.IsCompromised {
		o.metrics.RecordFreshCheck("compromised")
	} else {
		o.metrics.RecordFreshCheck("clean")
	}
	return &result, nil
}
