// Package factory wires the exposure components from configuration. Both
// binaries build through it so they share one dependency graph.
package factory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"breachwatch/internal/exposure/cache"
	"breachwatch/internal/exposure/metrics"
	"breachwatch/internal/exposure/orchestrator"
	"breachwatch/internal/exposure/providers/hibp"
	"breachwatch/internal/exposure/providers/pwnedpasswords"
	"breachwatch/internal/exposure/retention"
	"breachwatch/internal/exposure/service"
	"breachwatch/internal/exposure/store/kafka"
	"breachwatch/internal/exposure/store/memory"
	pgstore "breachwatch/internal/exposure/store/postgres"
	redisstore "breachwatch/internal/exposure/store/redis"
	"breachwatch/internal/platform/config"
	platformpostgres "breachwatch/internal/platform/postgres"
	platformredis "breachwatch/internal/platform/redis"
)

// ErrNotSupported is returned when the configured result store cannot serve
// an operation (the Redis store keeps no per-owner index and expires by TTL).
var ErrNotSupported = errors.New("operation not supported by the configured result store")

// reportingBackend is provided by stores that can aggregate and prune.
type reportingBackend interface {
	service.SummaryStore
	retention.Pruner
}

// Components is the wired application.
type Components struct {
	Metrics      *metrics.Metrics
	HIBP         *hibp.Client
	Passwords    *pwnedpasswords.Checker
	Cache        *cache.Cache
	Orchestrator *orchestrator.Orchestrator
	Bulk         *service.BulkChecker
	AuthHook     *service.AuthEventHook

	summary   *service.SummaryService
	retention *retention.Worker

	checks  map[string]func(context.Context) error
	closers []func() error
}

// Build connects the configured backends and assembles the services. On error
// every backend opened so far is closed.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (_ *Components, err error) {
	c := &Components{
		Metrics: metrics.New(reg),
		checks:  map[string]func(context.Context) error{},
	}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	httpClient := &http.Client{Timeout: cfg.HIBP.HTTPTimeout}
	c.HIBP, err = hibp.New(cfg.HIBP.APIKey, cfg.HIBP.UserAgent,
		hibp.WithBaseURL(cfg.HIBP.BaseURL),
		hibp.WithHTTPClient(httpClient),
		hibp.WithLogger(logger),
		hibp.WithMetrics(c.Metrics),
	)
	if err != nil {
		return nil, err
	}
	c.Passwords = pwnedpasswords.New(cfg.HIBP.UserAgent,
		pwnedpasswords.WithBaseURL(cfg.HIBP.PasswordsBaseURL),
		pwnedpasswords.WithHTTPClient(httpClient),
		pwnedpasswords.WithLogger(logger),
		pwnedpasswords.WithMetrics(c.Metrics),
	)

	var db *sql.DB
	if cfg.ResultStore == config.StorePostgres || cfg.EventSink == config.EventSinkPostgres {
		db, err = platformpostgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db.Close)
		c.checks["postgres"] = db.PingContext
		if err = pgstore.Migrate(ctx, db); err != nil {
			return nil, err
		}
	}

	results, reporting, err := c.buildResultStore(ctx, cfg, db)
	if err != nil {
		return nil, err
	}
	events, err := c.buildEventSink(cfg, db)
	if err != nil {
		return nil, err
	}

	c.Cache, err = cache.New(results,
		cache.WithStalenessThreshold(cfg.Checks.StalenessThreshold),
		cache.WithMetrics(c.Metrics),
		cache.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	c.Orchestrator, err = orchestrator.New(c.HIBP, c.Cache,
		orchestrator.WithLogger(logger),
		orchestrator.WithMetrics(c.Metrics),
	)
	if err != nil {
		return nil, err
	}
	c.Bulk, err = service.NewBulkChecker(c.Orchestrator,
		service.WithDefaultDelay(cfg.Checks.BulkDelay),
		service.WithMaxBatchSize(cfg.Checks.BulkMaxBatch),
		service.WithBulkLogger(logger),
		service.WithBulkMetrics(c.Metrics),
	)
	if err != nil {
		return nil, err
	}
	c.AuthHook, err = service.NewAuthEventHook(c.Orchestrator, events,
		service.WithHookLogger(logger),
		service.WithHookMetrics(c.Metrics),
	)
	if err != nil {
		return nil, err
	}

	if reporting != nil {
		c.summary, err = service.NewSummaryService(reporting)
		if err != nil {
			return nil, err
		}
		c.retention, err = retention.New(reporting,
			retention.WithMaxAge(cfg.Retention.MaxAge),
			retention.WithInterval(cfg.Retention.Interval),
			retention.WithLogger(logger),
			retention.WithMetrics(c.Metrics),
		)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Components) buildResultStore(ctx context.Context, cfg config.Config, db *sql.DB) (cache.ResultStore, reportingBackend, error) {
	switch cfg.ResultStore {
	case config.StorePostgres:
		s := pgstore.NewResultStore(db)
		return s, s, nil
	case config.StoreRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		if client == nil {
			return nil, nil, errors.New("redis result store selected but REDIS_URL is empty")
		}
		c.closers = append(c.closers, client.Close)
		c.checks["redis"] = client.Health
		s, err := redisstore.NewResultStore(client.Client, redisstore.WithTTL(cfg.Checks.RedisTTL))
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case config.StoreMemory, "":
		s := memory.NewResultStore()
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown result store %q", cfg.ResultStore)
	}
}

func (c *Components) buildEventSink(cfg config.Config, db *sql.DB) (service.SecurityEventStore, error) {
	switch cfg.EventSink {
	case config.EventSinkPostgres:
		return pgstore.NewSecurityEventStore(db), nil
	case config.EventSinkKafka:
		client, err := kafka.NewClient(cfg.Kafka.Brokers, cfg.Kafka.ClientID)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() error {
			client.Close()
			return nil
		})
		c.checks["kafka"] = client.Ping
		return kafka.NewEventSink(client, cfg.Kafka.Topic)
	case config.EventSinkMemory, "":
		return memory.NewSecurityEventStore(), nil
	default:
		return nil, fmt.Errorf("unknown event sink %q", cfg.EventSink)
	}
}

// Summary returns the summary service, or ErrNotSupported for the Redis store.
func (c *Components) Summary() (*service.SummaryService, error) {
	if c.summary == nil {
		return nil, ErrNotSupported
	}
	return c.summary, nil
}

// Retention returns the retention worker, or ErrNotSupported for the Redis store.
func (c *Components) Retention() (*retention.Worker, error) {
	if c.retention == nil {
		return nil, ErrNotSupported
	}
	return c.retention, nil
}

// Ready pings every connected backend and joins the failures by name.
func (c *Components) Ready(ctx context.Context) error {
	var errs []error
	for name, check := range c.checks {
		if err := check(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases backends in reverse order of opening.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
