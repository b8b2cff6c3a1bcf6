package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"breachwatch/internal/exposure/models"
)

// SecurityEventStore is an append-only in-memory event log. An id that was
// already appended is ignored.
type SecurityEventStore struct {
	mu     sync.RWMutex
	events []models.SecurityEvent
	seen   map[uuid.UUID]struct{}
}

func NewSecurityEventStore() *SecurityEventStore {
	return &SecurityEventStore{seen: map[uuid.UUID]struct{}{}}
}

func (s *SecurityEventStore) Append(_ context.Context, event models.SecurityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[event.ID]; ok {
		return nil
	}
	s.seen[event.ID] = struct{}{}
	s.events = append(s.events, event)
	return nil
}

// ListByUser returns userID's events in append order.
func (s *SecurityEventStore) ListByUser(_ context.Context, userID string) ([]models.SecurityEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.SecurityEvent{}
	for _, event := range s.events {
		if event.UserID == userID {
			out = append(out, event)
		}
	}
	return out, nil
}
