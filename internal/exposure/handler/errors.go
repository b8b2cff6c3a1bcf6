package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"breachwatch/internal/exposure/models"
	"breachwatch/internal/exposure/providers"
	"breachwatch/internal/exposure/service"
	"breachwatch/internal/exposure/store"
)

const (
	codeBadRequest          = "bad_request"
	codeRateLimited         = "rate_limited"
	codeProviderUnavailable = "provider_unavailable"
	codeProviderTimeout     = "provider_timeout"
	codeStoreUnavailable    = "store_unavailable"
	codeNotImplemented      = "not_implemented"
	codeInternal            = "internal_error"
)

var errSummaryUnavailable = errors.New("breach summary is not supported by the configured result store")

type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func newBadRequest(msg string) error {
	return &badRequestError{msg: msg}
}

func isBadRequest(err error) bool {
	var br *badRequestError
	return errors.As(err, &br) ||
		errors.Is(err, models.ErrEmailRequired) ||
		errors.Is(err, models.ErrUserIDRequired) ||
		errors.Is(err, models.ErrInvalidAuthEvent) ||
		errors.Is(err, service.ErrBatchTooLarge)
}

// statusFor maps domain errors onto HTTP status codes and public error codes.
func statusFor(err error) int {
	status, _ := classify(err)
	return status
}

func classify(err error) (int, string) {
	switch {
	case isBadRequest(err):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, errSummaryUnavailable):
		return http.StatusNotImplemented, codeNotImplemented
	case providers.IsRateLimited(err):
		return http.StatusTooManyRequests, codeRateLimited
	case store.IsStoreError(err):
		return http.StatusServiceUnavailable, codeStoreUnavailable
	case errors.Is(err, context.DeadlineExceeded), providers.GetCategory(err) == providers.ErrorTimeout:
		return http.StatusGatewayTimeout, codeProviderTimeout
	}
	var pe *providers.ProviderError
	if errors.As(err, &pe) {
		return http.StatusBadGateway, codeProviderUnavailable
	}
	return http.StatusInternalServerError, codeInternal
}

// publicMessage is the client-safe description of err. Provider and store
// details stay in the logs.
func publicMessage(err error) string {
	status, code := classify(err)
	switch status {
	case http.StatusBadRequest, http.StatusNotImplemented:
		return err.Error()
	case http.StatusTooManyRequests:
		return "upstream provider rate limit reached"
	default:
		return code
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if wait, ok := providers.RetryAfter(err); ok && wait > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int((wait+time.Second-1)/time.Second)))
	}
	body := map[string]string{"error": code}
	if status != http.StatusInternalServerError {
		body["error_description"] = publicMessage(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
