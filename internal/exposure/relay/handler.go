// Package relay consumes published security events and appends them to a
// durable event store, so the Kafka sink and the Postgres audit table agree.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"breachwatch/internal/exposure/metrics"
	"breachwatch/internal/exposure/models"
)

// EventStore persists relayed events. Appending an id twice must be a no-op.
type EventStore interface {
	Append(ctx context.Context, event models.SecurityEvent) error
}

// Handler decodes one record into a security event and stores it. Records
// that can never be stored are skipped; store failures are returned so the
// record is retried.
type Handler struct {
	store   EventStore
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type HandlerOption func(*Handler)

func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func WithHandlerMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

func NewHandler(store EventStore, opts ...HandlerOption) (*Handler, error) {
	if store == nil {
		return nil, errors.New("event store is required")
	}
	h := &Handler{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Handle processes a security event record.
func (h *Handler) Handle(ctx context.Context, rec *kgo.Record) error {
	var event models.SecurityEvent
	if err := json.Unmarshal(rec.Value, &event); err != nil {
		h.skip(ctx, rec, "failed to unmarshal security event", err)
		return nil
	}
	if event.ID == uuid.Nil || event.UserID == "" || event.EventType == "" {
		h.skip(ctx, rec, "security event is missing required fields", nil)
		return nil
	}

	if err := h.store.Append(ctx, event); err != nil {
		h.metrics.RecordRelayedEvent("failed")
		h.logger.ErrorContext(ctx, "failed to store security event",
			"event_id", event.ID.String(),
			"event_type", event.EventType,
			"error", err,
		)
		return fmt.Errorf("store security event: %w", err)
	}
	h.metrics.RecordRelayedEvent("stored")
	h.logger.DebugContext(ctx, "stored security event",
		"event_id", event.ID.String(),
		"event_type", event.EventType,
	)
	return nil
}

func (h *Handler) skip(ctx context.Context, rec *kgo.Record, msg string, err error) {
	h.metrics.RecordRelayedEvent("skipped")
	attrs := []any{
		"topic", rec.Topic,
		"partition", rec.Partition,
		"offset", rec.Offset,
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	h.logger.WarnContext(ctx, msg, attrs...)
}
