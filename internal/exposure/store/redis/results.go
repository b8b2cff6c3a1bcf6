// Package redis caches the latest check per email in Redis with a TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"breachwatch/internal/exposure/models"
	"breachwatch/pkg/platform/sentinel"
)

const (
	keyPrefix = "breachwatch:check:"

	// DefaultTTL bounds how long a cached check survives in Redis.
	DefaultTTL = 7 * 24 * time.Hour
)

type cachedCheck struct {
	Result      models.CheckResult `json:"result"`
	OwnerUserID string             `json:"ownerUserId,omitempty"`
}

// ResultStore keeps one JSON document per normalized email.
type ResultStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

type Option func(*ResultStore)

// WithTTL sets the key expiry. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *ResultStore) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

func NewResultStore(client redis.UniversalClient, opts ...Option) (*ResultStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	s := &ResultStore{client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func key(email string) string {
	return keyPrefix + models.NormalizeEmail(email)
}

// GetLatest returns the cached check for email or sentinel.ErrNotFound.
// Command failures wrap sentinel.ErrUnavailable.
func (s *ResultStore) GetLatest(ctx context.Context, email string) (*models.CheckResult, error) {
	raw, err := s.client.Get(ctx, key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get breach check: %w: %w", sentinel.ErrUnavailable, err)
	}
	var cached cachedCheck
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, fmt.Errorf("decode breach check: %w", err)
	}
	return &cached.Result, nil
}

// Upsert overwrites the document for email and resets its TTL. An empty owner
// keeps the one already stored.
func (s *ResultStore) Upsert(ctx context.Context, email string, result models.CheckResult, ownerUserID string) error {
	k := key(email)
	if ownerUserID == "" {
		if prev, err := s.owner(ctx, k); err == nil {
			ownerUserID = prev
		}
	}
	raw, err := json.Marshal(cachedCheck{Result: result, OwnerUserID: ownerUserID})
	if err != nil {
		return fmt.Errorf("encode breach check: %w", err)
	}
	if err := s.client.Set(ctx, k, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set breach check: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *ResultStore) owner(ctx context.Context, k string) (string, error) {
	raw, err := s.client.Get(ctx, k).Bytes()
	if err != nil {
		return "", err
	}
	var cached cachedCheck
	if err := json.Unmarshal(raw, &cached); err != nil {
		return "", err
	}
	return cached.OwnerUserID, nil
}
