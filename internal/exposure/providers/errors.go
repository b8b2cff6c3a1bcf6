package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrorCategory defines the normalized failure taxonomy
type ErrorCategory string

const (
	// ErrorTimeout indicates the provider took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the provider returned invalid/malformed data,
	// or rejected the request as malformed
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication indicates credential or permission issues
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorProviderOutage indicates the provider is unavailable
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorNotFound indicates the requested account has no records.
	// Clients map it to an empty result rather than returning it.
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorRateLimited indicates too many requests; RetryAfter carries the hint
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorInternal indicates an unexpected status or internal error
	ErrorInternal ErrorCategory = "internal"
)

// ProviderError wraps provider failures with normalized categorization
type ProviderError struct {
	Category   ErrorCategory
	ProviderID string
	StatusCode int
	Message    string
	RetryAfter time.Duration
	Underlying error
	Retryable  bool // Whether a caller may try again later; clients never retry internally
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("provider %s [%s]", e.ProviderID, e.Category)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" status %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Category == ErrorRateLimited && e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %ds)", int(e.RetryAfter.Seconds()))
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

// Unwrap supports error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// NewProviderError creates a new normalized provider error
func NewProviderError(category ErrorCategory, providerID, message string, underlying error) *ProviderError {
	retryable := category == ErrorTimeout ||
		category == ErrorProviderOutage ||
		category == ErrorRateLimited

	return &ProviderError{
		Category:   category,
		ProviderID: providerID,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// NewRateLimitedError reports a 429 with the provider's wait hint.
func NewRateLimitedError(providerID string, retryAfter time.Duration) *ProviderError {
	pe := NewProviderError(ErrorRateLimited, providerID, "rate limited", nil)
	pe.StatusCode = http.StatusTooManyRequests
	pe.RetryAfter = retryAfter
	return pe
}

// NewStatusError maps an unexpected HTTP status onto the taxonomy.
func NewStatusError(providerID string, status int, message string) *ProviderError {
	pe := NewProviderError(CategoryForStatus(status), providerID, message, nil)
	pe.StatusCode = status
	return pe
}

// NewTransportError classifies a failed round trip.
func NewTransportError(providerID string, err error) *ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewProviderError(ErrorTimeout, providerID, "request timed out", err)
	}
	return NewProviderError(ErrorProviderOutage, providerID, "request failed", err)
}

// CategoryForStatus maps HTTP status codes to error categories.
func CategoryForStatus(status int) ErrorCategory {
	switch {
	case status == http.StatusNotFound:
		return ErrorNotFound
	case status == http.StatusTooManyRequests:
		return ErrorRateLimited
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrorAuthentication
	case status == http.StatusBadRequest:
		return ErrorBadData
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return ErrorTimeout
	case status >= 500:
		return ErrorProviderOutage
	default:
		return ErrorInternal
	}
}

// ParseRetryAfter reads a Retry-After header value, either delta seconds or an
// HTTP date. Unparseable or past values yield zero.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}

// IsRetryable checks if an error is worth retrying
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// IsRateLimited reports whether err is a provider rate-limit rejection.
func IsRateLimited(err error) bool {
	return GetCategory(err) == ErrorRateLimited
}

// RetryAfter extracts the wait hint from a rate-limited error.
func RetryAfter(err error) (time.Duration, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Category == ErrorRateLimited {
		return pe.RetryAfter, true
	}
	return 0, false
}

// GetCategory extracts the error category from an error
func GetCategory(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ErrorInternal
}
