package service

import (
	"context"
	"errors"
	"strings"

	"breachwatch/internal/exposure/models"
	"breachwatch/internal/exposure/store"
)

// SummaryService reports aggregate exposure for the checks a user owns.
type SummaryService struct {
	store SummaryStore
}

func NewSummaryService(summaries SummaryStore) (*SummaryService, error) {
	if summaries == nil {
		return nil, errors.New("summary store is required")
	}
	return &SummaryService{store: summaries}, nil
}

// Summary aggregates userID's cached checks. A user with none gets a zero summary.
func (s *SummaryService) Summary(ctx context.Context, userID string) (models.BreachSummary, error) {
	if strings.TrimSpace(userID) == "" {
		return models.BreachSummary{}, models.ErrUserIDRequired
	}
	summary, err := s.store.Summary(ctx, userID)
	if err != nil {
		return models.BreachSummary{}, store.Wrap("summary", err)
	}
	return summary, nil
}
