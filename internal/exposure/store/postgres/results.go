package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"breachwatch/internal/exposure/models"
	"breachwatch/pkg/platform/sentinel"
)

// ResultStore persists the latest check per email in email_breach_checks.
type ResultStore struct {
	db    *sql.DB
	clock func() time.Time
}

type ResultStoreOption func(*ResultStore)

// WithClock sets the clock used for updated_at.
func WithClock(clock func() time.Time) ResultStoreOption {
	return func(s *ResultStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewResultStore(db *sql.DB, opts ...ResultStoreOption) *ResultStore {
	s := &ResultStore{db: db, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// GetLatest returns the cached check for email or sentinel.ErrNotFound.
func (s *ResultStore) GetLatest(ctx context.Context, email string) (*models.CheckResult, error) {
	var (
		result   models.CheckResult
		breaches []byte
		pastes   []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT email, is_compromised, breaches, pastes, checked_at
		FROM email_breach_checks
		WHERE email = $1
	`, models.NormalizeEmail(email)).Scan(&result.Email, &result.IsCompromised, &breaches, &pastes, &result.CheckedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find breach check: %w", err)
	}
	if err := json.Unmarshal(breaches, &result.Breaches); err != nil {
		return nil, fmt.Errorf("decode breaches: %w", err)
	}
	if err := json.Unmarshal(pastes, &result.Pastes); err != nil {
		return nil, fmt.Errorf("decode pastes: %w", err)
	}
	if result.Breaches == nil {
		result.Breaches = []models.BreachRecord{}
	}
	if result.Pastes == nil {
		result.Pastes = []models.PasteRecord{}
	}
	result.CheckedAt = result.CheckedAt.UTC()
	return &result, nil
}

// Upsert replaces the row for email. An empty owner keeps the existing one.
func (s *ResultStore) Upsert(ctx context.Context, email string, result models.CheckResult, ownerUserID string) error {
	breaches, err := json.Marshal(nonNilBreaches(result.Breaches))
	if err != nil {
		return fmt.Errorf("encode breaches: %w", err)
	}
	pastes, err := json.Marshal(nonNilPastes(result.Pastes))
	if err != nil {
		return fmt.Errorf("encode pastes: %w", err)
	}
	owner := sql.NullString{String: ownerUserID, Valid: ownerUserID != ""}
	now := s.clock()

	query := `
		INSERT INTO email_breach_checks (
			email, user_id, is_compromised, breaches, pastes,
			breach_count, paste_count, checked_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (email) DO UPDATE SET
			user_id = COALESCE(EXCLUDED.user_id, email_breach_checks.user_id),
			is_compromised = EXCLUDED.is_compromised,
			breaches = EXCLUDED.breaches,
			pastes = EXCLUDED.pastes,
			breach_count = EXCLUDED.breach_count,
			paste_count = EXCLUDED.paste_count,
			checked_at = EXCLUDED.checked_at,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		models.NormalizeEmail(email),
		owner,
		result.IsCompromised,
		breaches,
		pastes,
		len(result.Breaches),
		len(result.Pastes),
		result.CheckedAt,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert breach check: %w", err)
	}
	return nil
}

// Summary aggregates the rows owned by userID.
func (s *ResultStore) Summary(ctx context.Context, userID string) (models.BreachSummary, error) {
	var (
		summary   models.BreachSummary
		lastCheck sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_compromised),
			COALESCE(SUM(breach_count), 0),
			COALESCE(SUM(paste_count), 0),
			MAX(checked_at)
		FROM email_breach_checks
		WHERE user_id = $1
	`, userID).Scan(
		&summary.TotalEmailsChecked,
		&summary.CompromisedEmails,
		&summary.TotalBreaches,
		&summary.TotalPastes,
		&lastCheck,
	)
	if err != nil {
		return models.BreachSummary{}, fmt.Errorf("summarize breach checks: %w", err)
	}
	if lastCheck.Valid {
		t := lastCheck.Time.UTC()
		summary.LastCheckDate = &t
	}
	return summary, nil
}

// DeleteOlderThan removes rows checked before cutoff.
func (s *ResultStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM email_breach_checks WHERE checked_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old breach checks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted breach checks: %w", err)
	}
	return n, nil
}

func nonNilBreaches(in []models.BreachRecord) []models.BreachRecord {
	if in == nil {
		return []models.BreachRecord{}
	}
	return in
}

func nonNilPastes(in []models.PasteRecord) []models.PasteRecord {
	if in == nil {
		return []models.PasteRecord{}
	}
	return in
}
