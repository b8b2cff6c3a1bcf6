package handler

import (
	"context"

	"breachwatch/internal/exposure/models"
	"breachwatch/internal/exposure/service"
)

// SmartChecker performs a cache-aware exposure check.
type SmartChecker interface {
	SmartCheck(ctx context.Context, email, ownerUserID string) (*models.CheckResult, error)
}

// BulkChecker checks a batch of emails sequentially.
type BulkChecker interface {
	BulkCheckOutcomes(ctx context.Context, req service.BulkRequest) ([]service.Outcome, error)
}

// PasswordChecker checks a password against the range API.
type PasswordChecker interface {
	CheckPassword(ctx context.Context, plaintext string) (models.PasswordExposureResult, error)
}

// AuthEventHandler runs the signup/signin hook.
type AuthEventHandler interface {
	HandleAuthEvent(ctx context.Context, email, userID string, event models.AuthEvent) (*models.CheckResult, error)
}

// Summarizer aggregates a user's cached checks.
type Summarizer interface {
	Summary(ctx context.Context, userID string) (models.BreachSummary, error)
}
