// Package service exposes the batch, auth-flow and reporting operations built
// on top of the check orchestrator.
package service

import (
	"context"

	"breachwatch/internal/exposure/models"
)

// SmartChecker performs a cache-aware exposure check.
type SmartChecker interface {
	SmartCheck(ctx context.Context, email, ownerUserID string) (*models.CheckResult, error)
}

// SecurityEventStore appends security events. Events are never updated.
type SecurityEventStore interface {
	Append(ctx context.Context, event models.SecurityEvent) error
}

// SummaryStore aggregates cached checks per owning user.
type SummaryStore interface {
	Summary(ctx context.Context, userID string) (models.BreachSummary, error)
}
