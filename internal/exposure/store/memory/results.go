package memory

import (
	"context"
	"sync"
	"time"

	"breachwatch/internal/exposure/models"
	"breachwatch/pkg/platform/sentinel"
)

type cachedCheck struct {
	result      models.CheckResult
	ownerUserID string
}

// ResultStore keeps the latest check per normalized email in process memory.
type ResultStore struct {
	mu     sync.RWMutex
	checks map[string]cachedCheck
}

// NewResultStore creates an empty result store.
func NewResultStore() *ResultStore {
	return &ResultStore{checks: make(map[string]cachedCheck)}
}

// GetLatest returns the cached check for email or sentinel.ErrNotFound.
func (s *ResultStore) GetLatest(_ context.Context, email string) (*models.CheckResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cached, ok := s.checks[models.NormalizeEmail(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	result := cached.result
	return &result, nil
}

// Upsert replaces the cached check for email. Last write wins; an empty owner
// keeps the existing one.
func (s *ResultStore) Upsert(_ context.Context, email string, result models.CheckResult, ownerUserID string) error {
	key := models.NormalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if ownerUserID == "" {
		ownerUserID = s.checks[key].ownerUserID
	}
	s.checks[key] = cachedCheck{result: result, ownerUserID: ownerUserID}
	return nil
}

// Summary aggregates the checks owned by userID.
func (s *ResultStore) Summary(_ context.Context, userID string) (models.BreachSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var summary models.BreachSummary
	for _, cached := range s.checks {
		if cached.ownerUserID == userID {
			summary.Add(cached.result)
		}
	}
	return summary, nil
}

// DeleteOlderThan removes checks whose CheckedAt is before cutoff.
func (s *ResultStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for email, cached := range s.checks {
		if cached.result.CheckedAt.Before(cutoff) {
			delete(s.checks, email)
			deleted++
		}
	}
	return deleted, nil
}
