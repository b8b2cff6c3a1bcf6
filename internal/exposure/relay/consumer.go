package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	DefaultMaxAttempts  = 5
	DefaultRetryBackoff = time.Second
)

// RecordHandler handles one consumed record.
type RecordHandler interface {
	Handle(ctx context.Context, rec *kgo.Record) error
}

// recordSource is the subset of *kgo.Client the consumer needs.
type recordSource interface {
	PollFetches(ctx context.Context) kgo.Fetches
	CommitRecords(ctx context.Context, rs ...*kgo.Record) error
}

// Consumer polls a consumer group and commits each batch after its records
// are handled. A record that keeps failing stops the consumer; the records
// handled before it are committed so a restart resumes at the failure.
type Consumer struct {
	source      recordSource
	handler     RecordHandler
	logger      *slog.Logger
	maxAttempts int
	backoff     time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

type ConsumerOption func(*Consumer)

func WithLogger(logger *slog.Logger) ConsumerOption {
	return func(c *Consumer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMaxAttempts(n int) ConsumerOption {
	return func(c *Consumer) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithRetryBackoff(d time.Duration) ConsumerOption {
	return func(c *Consumer) {
		if d >= 0 {
			c.backoff = d
		}
	}
}

func NewConsumer(source recordSource, handler RecordHandler, opts ...ConsumerOption) (*Consumer, error) {
	if source == nil {
		return nil, errors.New("record source is required")
	}
	if handler == nil {
		return nil, errors.New("record handler is required")
	}
	c := &Consumer{
		source:      source,
		handler:     handler,
		logger:      slog.New(slog.DiscardHandler),
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultRetryBackoff,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run consumes until ctx ends, the client is closed, or a record exhausts its
// attempts.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.source.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.WarnContext(ctx, "fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		var handled []*kgo.Record
		var failure error
		iter := fetches.RecordIter()
		for !iter.Done() {
			rec := iter.Next()
			if err := c.deliver(ctx, rec); err != nil {
				failure = err
				break
			}
			handled = append(handled, rec)
		}

		if len(handled) > 0 {
			if err := c.source.CommitRecords(context.WithoutCancel(ctx), handled...); err != nil {
				c.logger.WarnContext(ctx, "failed to commit offsets", "records", len(handled), "error", err)
			}
		}
		if failure != nil {
			return failure
		}
	}
}

func (c *Consumer) deliver(ctx context.Context, rec *kgo.Record) error {
	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err = c.handler.Handle(ctx, rec); err == nil {
			return nil
		}
		if attempt == c.maxAttempts {
			break
		}
		c.logger.WarnContext(ctx, "retrying record",
			"topic", rec.Topic,
			"partition", rec.Partition,
			"offset", rec.Offset,
			"attempt", attempt,
			"error", err,
		)
		if serr := c.sleep(ctx, c.backoff); serr != nil {
			return serr
		}
	}
	return fmt.Errorf("record %s/%d@%d failed after %d attempts: %w", rec.Topic, rec.Partition, rec.Offset, c.maxAttempts, err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
