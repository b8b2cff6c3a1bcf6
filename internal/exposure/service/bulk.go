package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"breachwatch/internal/exposure/metrics"
	"breachwatch/internal/exposure/models"
)

// DefaultBulkDelay is the pause between successive items of a batch.
const DefaultBulkDelay = 1500 * time.Millisecond

// ErrBatchTooLarge is returned when a batch exceeds the configured maximum.
var ErrBatchTooLarge = errors.New("batch too large")

// BulkRequest is a batch of emails checked on behalf of one owner. A nil Delay
// uses the checker's default; zero disables pausing.
type BulkRequest struct {
	Emails      []string
	OwnerUserID string
	Delay       *time.Duration
}

// Outcome is the per-email result of a batch. Exactly one of Result and Err is set.
type Outcome struct {
	Email  string
	Result *models.CheckResult
	Err    error
}

// BulkChecker runs smart checks one email at a time, pausing between items to
// stay under the provider's rate limit.
type BulkChecker struct {
	checker      SmartChecker
	delay        time.Duration
	maxBatchSize int
	sleep        func(ctx context.Context, d time.Duration) error
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type BulkOption func(*BulkChecker)

// WithDefaultDelay replaces DefaultBulkDelay.
func WithDefaultDelay(d time.Duration) BulkOption {
	return func(b *BulkChecker) {
		if d >= 0 {
			b.delay = d
		}
	}
}

// WithMaxBatchSize rejects batches larger than n. Zero means unlimited.
func WithMaxBatchSize(n int) BulkOption {
	return func(b *BulkChecker) {
		if n >= 0 {
			b.maxBatchSize = n
		}
	}
}

// WithSleeper replaces the pause between items.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) BulkOption {
	return func(b *BulkChecker) {
		if sleep != nil {
			b.sleep = sleep
		}
	}
}

func WithBulkLogger(logger *slog.Logger) BulkOption {
	return func(b *BulkChecker) {
		if logger != nil {
			b.logger = logger
		}
	}
}

func WithBulkMetrics(m *metrics.Metrics) BulkOption {
	return func(b *BulkChecker) {
		b.metrics = m
	}
}

func NewBulkChecker(checker SmartChecker, opts ...BulkOption) (*BulkChecker, error) {
	if checker == nil {
		return nil, errors.New("smart checker is required")
	}
	b := &BulkChecker{
		checker: checker,
		delay:   DefaultBulkDelay,
		sleep:   sleepContext,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// BulkCheck returns the successful results in input order. Failed items are
// logged and left out. If ctx ends mid-batch, the results gathered so far are
// returned together with ctx.Err().
func (b *BulkChecker) BulkCheck(ctx context.Context, req BulkRequest) ([]models.CheckResult, error) {
	outcomes, err := b.BulkCheckOutcomes(ctx, req)
	results := make([]models.CheckResult, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err == nil {
			results = append(results, *o.Result)
		}
	}
	return results, err
}

// BulkCheckOutcomes reports every attempted item, failures included.
func (b *BulkChecker) BulkCheckOutcomes(ctx context.Context, req BulkRequest) ([]Outcome, error) {
	if b.maxBatchSize > 0 && len(req.Emails) > b.maxBatchSize {
		return nil, fmt.Errorf("%w: %d emails, limit is %d", ErrBatchTooLarge, len(req.Emails), b.maxBatchSize)
	}
	delay := b.delay
	if req.Delay != nil && *req.Delay >= 0 {
		delay = *req.Delay
	}

	outcomes := make([]Outcome, 0, len(req.Emails))
	for i, email := range req.Emails {
		if i > 0 && delay > 0 {
			if err := b.sleep(ctx, delay); err != nil {
				return outcomes, err
			}
		}
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		result, err := b.checker.SmartCheck(ctx, email, req.OwnerUserID)
		if err != nil {
			outcomes = append(outcomes, Outcome{Email: email, Err: err})
			b.metrics.RecordBulkItem("failed")
			if ctxErr := ctx.Err(); ctxErr != nil {
				return outcomes, ctxErr
			}
			b.logger.WarnContext(ctx, "bulk check item failed",
				"index", i,
				"error", err,
			)
			continue
		}
		outcomes = append(outcomes, Outcome{Email: email, Result: result})
		b.metrics.RecordBulkItem("ok")
	}
	return outcomes, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
