// Package handler is the JSON HTTP surface over the exposure services.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"breachwatch/internal/exposure/models"
	"breachwatch/internal/exposure/service"
)

const maxRequestBytes = 64 << 10

// Handler serves the exposure endpoints. Summary may be nil when the result
// store cannot aggregate; the endpoint then answers 501.
type Handler struct {
	checker   SmartChecker
	bulk      BulkChecker
	passwords PasswordChecker
	authHook  AuthEventHandler
	summary   Summarizer
	logger    *slog.Logger
	timeout   time.Duration
}

type Option func(*Handler)

func WithSummary(summary Summarizer) Option {
	return func(h *Handler) {
		h.summary = summary
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTimeout bounds each request. Bulk requests pace themselves, so this
// must exceed the batch limit times the bulk delay.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

func New(checker SmartChecker, bulk BulkChecker, passwords PasswordChecker, authHook AuthEventHandler, opts ...Option) (*Handler, error) {
	if checker == nil {
		return nil, errors.New("smart checker is required")
	}
	if bulk == nil {
		return nil, errors.New("bulk checker is required")
	}
	if passwords == nil {
		return nil, errors.New("password checker is required")
	}
	if authHook == nil {
		return nil, errors.New("auth event handler is required")
	}
	h := &Handler{
		checker:   checker,
		bulk:      bulk,
		passwords: passwords,
		authHook:  authHook,
		logger:    slog.New(slog.DiscardHandler),
		timeout:   2 * time.Minute,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Register mounts the /v1 routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(chimw.RequestID)
		v1.Use(chimw.Recoverer)
		v1.Use(chimw.Timeout(h.timeout))
		v1.Post("/breaches/check", h.handleCheck)
		v1.Post("/breaches/bulk", h.handleBulk)
		v1.Post("/passwords/check", h.handlePassword)
		v1.Post("/auth-events", h.handleAuthEvent)
		v1.Get("/users/{userID}/breach-summary", h.handleSummary)
	})
}

type checkRequest struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.checker.SmartCheck(r.Context(), req.Email, strings.TrimSpace(req.UserID))
	if err != nil {
		h.fail(w, r, "exposure check failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type bulkRequest struct {
	Emails  []string `json:"emails"`
	UserID  string   `json:"userId"`
	DelayMS *int64   `json:"delayMs,omitempty"`
}

type bulkFailure struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

type bulkResponse struct {
	Results  []models.CheckResult `json:"results"`
	Failures []bulkFailure        `json:"failures"`
}

func (h *Handler) handleBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Emails) == 0 {
		writeError(w, newBadRequest("array of emails is required"))
		return
	}
	bulkReq := service.BulkRequest{Emails: req.Emails, OwnerUserID: strings.TrimSpace(req.UserID)}
	if req.DelayMS != nil {
		d := time.Duration(*req.DelayMS) * time.Millisecond
		bulkReq.Delay = &d
	}

	outcomes, err := h.bulk.BulkCheckOutcomes(r.Context(), bulkReq)
	if err != nil && len(outcomes) == 0 {
		h.fail(w, r, "bulk check failed", err)
		return
	}
	resp := bulkResponse{Results: []models.CheckResult{}, Failures: []bulkFailure{}}
	for _, o := range outcomes {
		if o.Err != nil {
			resp.Failures = append(resp.Failures, bulkFailure{Email: o.Email, Error: publicMessage(o.Err)})
			continue
		}
		resp.Results = append(resp.Results, *o.Result)
	}
	writeJSON(w, http.StatusOK, resp)
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) handlePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Password == "" {
		writeError(w, newBadRequest("password is required"))
		return
	}
	result, err := h.passwords.CheckPassword(r.Context(), req.Password)
	if err != nil {
		h.fail(w, r, "password check failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type authEventRequest struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
	Event  string `json:"event"`
}

func (h *Handler) handleAuthEvent(w http.ResponseWriter, r *http.Request) {
	var req authEventRequest
	if !h.decode(w, r, &req) {
		return
	}
	event, err := models.ParseAuthEvent(req.Event)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.authHook.HandleAuthEvent(r.Context(), req.Email, strings.TrimSpace(req.UserID), event)
	if err != nil {
		h.fail(w, r, "auth event check failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	if h.summary == nil {
		writeError(w, errSummaryUnavailable)
		return
	}
	summary, err := h.summary.Summary(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, "breach summary failed", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "invalid request body",
			"request_id", chimw.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeError(w, newBadRequest("invalid request body"))
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	level := slog.LevelError
	if statusFor(err) < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	h.logger.Log(r.Context(), level, msg,
		"request_id", chimw.GetReqID(r.Context()),
		"path", r.URL.Path,
		"error", err.Error(),
	)
	writeError(w, err)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
