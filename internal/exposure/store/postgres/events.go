package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"breachwatch/internal/exposure/models"
)

// SecurityEventStore appends rows to security_events. Rows are never updated;
// re-appending an existing event id is a no-op so redelivered events are safe.
type SecurityEventStore struct {
	db *sql.DB
}

func NewSecurityEventStore(db *sql.DB) *SecurityEventStore {
	return &SecurityEventStore{db: db}
}

func (s *SecurityEventStore) Append(ctx context.Context, event models.SecurityEvent) error {
	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode event metadata: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO security_events (
			id, user_id, event_type, email, breach_count, paste_count, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`,
		event.ID,
		event.UserID,
		event.EventType,
		event.Email,
		event.BreachCount,
		event.PasteCount,
		raw,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append security event: %w", err)
	}
	return nil
}

// ListByUser returns userID's events oldest first.
func (s *SecurityEventStore) ListByUser(ctx context.Context, userID string) ([]models.SecurityEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, event_type, email, breach_count, paste_count, metadata, created_at
		FROM security_events
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list security events: %w", err)
	}
	defer rows.Close()

	events := []models.SecurityEvent{}
	for rows.Next() {
		var (
			event models.SecurityEvent
			raw   []byte
		)
		if err := rows.Scan(&event.ID, &event.UserID, &event.EventType, &event.Email,
			&event.BreachCount, &event.PasteCount, &raw, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan security event: %w", err)
		}
		if err := json.Unmarshal(raw, &event.Metadata); err != nil {
			return nil, fmt.Errorf("decode event metadata: %w", err)
		}
		event.CreatedAt = event.CreatedAt.UTC()
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate security events: %w", err)
	}
	return events, nil
}
