package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidAuthEvent is returned for auth events other than signup and signin.
var ErrInvalidAuthEvent = errors.New("invalid auth event")

// AuthEvent names the authentication flow that triggered a check.
type AuthEvent string

const (
	AuthEventSignup AuthEvent = "signup"
	AuthEventSignin AuthEvent = "signin"
)

// ParseAuthEvent validates a raw auth event name.
func ParseAuthEvent(raw string) (AuthEvent, error) {
	event := AuthEvent(strings.ToLower(strings.TrimSpace(raw)))
	if err := event.Validate(); err != nil {
		return "", err
	}
	return event, nil
}

// Validate reports whether the event is one of the supported auth flows.
func (e AuthEvent) Validate() error {
	switch e {
	case AuthEventSignup, AuthEventSignin:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAuthEvent, string(e))
	}
}

// EventTypeCompromisedEmail is recorded when an auth flow sees a compromised email.
const EventTypeCompromisedEmail = "compromised_email_detected"

// Metadata keys attached to security events.
const (
	MetadataAuthEvent   = "auth_event"
	MetadataBreachNames = "breach_names"
)

// SecurityEvent is an append-only record written when an authenticating user's
// email is found in a breach or paste. It is never updated once written.
type SecurityEvent struct {
	ID          uuid.UUID         `json:"id"`
	UserID      string            `json:"userId"`
	EventType   string            `json:"eventType"`
	Email       string            `json:"email"`
	BreachCount int               `json:"breachCount"`
	PasteCount  int               `json:"pasteCount"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// NewCompromisedEmailEvent builds the event recorded for a compromised check.
func NewCompromisedEmailEvent(id uuid.UUID, userID string, event AuthEvent, result CheckResult, createdAt time.Time) SecurityEvent {
	metadata := map[string]string{MetadataAuthEvent: string(event)}
	if names := result.BreachNames(); len(names) > 0 {
		metadata[MetadataBreachNames] = strings.Join(names, ",")
	}
	return SecurityEvent{
		ID:          id,
		UserID:      userID,
		EventType:   EventTypeCompromisedEmail,
		Email:       result.Email,
		BreachCount: result.BreachCount(),
		PasteCount:  result.PasteCount(),
		Metadata:    metadata,
		CreatedAt:   createdAt,
	}
}
