package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"breachwatch/internal/exposure/metrics"
	"breachwatch/internal/exposure/models"
)

// AuthEventHook checks a user's email during signup or signin and records a
// security event when it is compromised. Recording failures never fail the
// auth flow.
type AuthEventHook struct {
	checker SmartChecker
	events  SecurityEventStore
	newID   func() uuid.UUID
	clock   func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type HookOption func(*AuthEventHook)

func WithIDGenerator(newID func() uuid.UUID) HookOption {
	return func(h *AuthEventHook) {
		if newID != nil {
			h.newID = newID
		}
	}
}

func WithHookClock(clock func() time.Time) HookOption {
	return func(h *AuthEventHook) {
		if clock != nil {
			h.clock = clock
		}
	}
}

func WithHookLogger(logger *slog.Logger) HookOption {
	return func(h *AuthEventHook) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func WithHookMetrics(m *metrics.Metrics) HookOption {
	return func(h *AuthEventHook) {
		h.metrics = m
	}
}

func NewAuthEventHook(checker SmartChecker, events SecurityEventStore, opts ...HookOption) (*AuthEventHook, error) {
	if checker == nil {
		return nil, errors.New("smart checker is required")
	}
	if events == nil {
		return nil, errors.New("security event store is required")
	}
	h := &AuthEventHook{
		checker: checker,
		events:  events,
		newID:   uuid.New,
		clock:   time.Now,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// HandleAuthEvent runs a smart check for the authenticating user. Check errors
// are returned. A compromised result appends exactly one security event; an
// append failure is logged and the result is still returned.
func (h *AuthEventHook) HandleAuthEvent(ctx context.Context, email, userID string, event models.AuthEvent) (*models.CheckResult, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, models.ErrUserIDRequired
	}

	result, err := h.checker.SmartCheck(ctx, email, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "auth event exposure check failed",
			"user_id", userID,
			"auth_event", string(event),
			"error", err,
		)
		return nil, err
	}
	if !result.IsCompromised {
		return result, nil
	}

	securityEvent := models.NewCompromisedEmailEvent(h.newID(), userID, event, *result, h.clock())
	if err := h.events.Append(ctx, securityEvent); err != nil {
		h.metrics.IncrementSecurityEventFailures()
		h.logger.ErrorContext(ctx, "failed to record security event",
			"user_id", userID,
			"event_id", securityEvent.ID.String(),
			"error", err,
		)
		return result, nil
	}
	h.metrics.IncrementSecurityEvents()
	h.logger.WarnContext(ctx, "compromised email detected during auth",
		"user_id", userID,
		"auth_event", string(event),
		"breach_count", securityEvent.BreachCount,
		"paste_count", securityEvent.PasteCount,
	)
	return result, nil
}
