package factory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"breachwatch/internal/exposure/metrics"
	"breachwatch/internal/exposure/relay"
	"breachwatch/internal/exposure/store/kafka"
	pgstore "breachwatch/internal/exposure/store/postgres"
	"breachwatch/internal/platform/config"
	platformpostgres "breachwatch/internal/platform/postgres"
)

// Relay is the wired Kafka to Postgres security event relay.
type Relay struct {
	Consumer *relay.Consumer
	closers  []func() error
}

// BuildRelay joins the consumer group for the security events topic and
// appends every event to the Postgres security_events table.
func BuildRelay(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (_ *Relay, err error) {
	if err := cfg.ValidateRelay(); err != nil {
		return nil, err
	}
	r := &Relay{}
	defer func() {
		if err != nil {
			_ = r.Close()
		}
	}()

	db, err := platformpostgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	r.closers = append(r.closers, db.Close)
	if err = pgstore.Migrate(ctx, db); err != nil {
		return nil, err
	}

	client, err := kafka.NewGroupClient(cfg.Kafka.Brokers, cfg.Kafka.ClientID, cfg.Kafka.ConsumerGroup, cfg.Kafka.Topic)
	if err != nil {
		return nil, err
	}
	r.closers = append(r.closers, func() error {
		client.Close()
		return nil
	})

	handler, err := relay.NewHandler(pgstore.NewSecurityEventStore(db),
		relay.WithHandlerLogger(logger),
		relay.WithHandlerMetrics(metrics.New(reg)),
	)
	if err != nil {
		return nil, err
	}
	r.Consumer, err = relay.NewConsumer(client, handler, relay.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Close leaves the group and releases the database pool.
func (r *Relay) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
