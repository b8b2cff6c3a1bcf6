// Package hibp is the breach-intelligence client for the Have I Been Pwned v3
// breachedaccount and pasteaccount endpoints.
package hibp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"breachwatch/internal/exposure/metrics"
	"breachwatch/internal/exposure/models"
	"breachwatch/internal/exposure/providers"
)

const (
	// ProviderID identifies this provider in errors and metrics.
	ProviderID = "hibp"

	// DefaultBaseURL is the public v3 API root.
	DefaultBaseURL = "https://haveibeenpwned.com/api/v3"

	headerAPIKey     = "hibp-api-key"
	headerUserAgent  = "User-Agent"
	headerRetryAfter = "Retry-After"

	endpointBreaches = "breachedaccount"
	endpointPastes   = "pasteaccount"

	maxBodyBytes = 5 << 20
)

// Client calls the breach and paste endpoints with a fixed credential set.
// Construct one per API key and share it; it holds no per-request state.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	clock      func() time.Time
}

type Option func(*Client)

// WithBaseURL points the client at another API root (tests, proxies).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets the transport. Timeouts belong here.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithClock overrides the clock used to resolve HTTP-date Retry-After values.
func WithClock(clock func() time.Time) Option {
	return func(c *Client) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New builds a client. Both the API key and the user agent are mandatory for
// the provider, so an empty value is a configuration error.
func New(apiKey, userAgent string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("hibp api key is required")
	}
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("hibp user agent is required")
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.New(slog.DiscardHandler),
		tracer:     otel.Tracer("breachwatch/hibp"),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CheckBreaches lists the breaches an email appears in. detailed requests the
// full breach records instead of names only. An unknown email yields an empty
// slice and no error.
func (c *Client) CheckBreaches(ctx context.Context, email string, detailed bool) ([]models.BreachRecord, error) {
	normalized := models.NormalizeEmail(email)
	if normalized == "" {
		return nil, models.ErrEmailRequired
	}
	query := url.Values{}
	query.Set("truncateResponse", strconv.FormatBool(!detailed))

	breaches := []models.BreachRecord{}
	if err := c.get(ctx, endpointBreaches, normalized, query, &breaches); err != nil {
		return nil, err
	}
	if breaches == nil {
		breaches = []models.BreachRecord{}
	}
	return breaches, nil
}

// CheckPastes lists the pastes an email appears in. An unknown email yields an
// empty slice and no error.
func (c *Client) CheckPastes(ctx context.Context, email string) ([]models.PasteRecord, error) {
	normalized := models.NormalizeEmail(email)
	if normalized == "" {
		return nil, models.ErrEmailRequired
	}

	pastes := []models.PasteRecord{}
	if err := c.get(ctx, endpointPastes, normalized, nil, &pastes); err != nil {
		return nil, err
	}
	if pastes == nil {
		pastes = []models.PasteRecord{}
	}
	return pastes, nil
}

// get performs one GET and decodes a JSON array into out. A 404 leaves out untouched.
func (c *Client) get(ctx context.Context, endpoint, email string, query url.Values, out any) (err error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "hibp."+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	outcome := "ok"
	defer func() {
		if err != nil {
			outcome = string(providers.GetCategory(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
		c.metrics.ObserveProviderRequest(endpoint, outcome, time.Since(start))
	}()

	target := c.baseURL + "/" + endpoint + "/" + url.PathEscape(email)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return providers.NewProviderError(providers.ErrorInternal, ProviderID, "build request", err)
	}
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set(headerUserAgent, c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return providers.NewTransportError(ProviderID, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		outcome = "not_found"
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := providers.ParseRetryAfter(resp.Header.Get(headerRetryAfter), c.clock())
		c.logger.WarnContext(ctx, "breach provider rate limited",
			"endpoint", endpoint,
			"retry_after_seconds", int(retryAfter.Seconds()),
		)
		return providers.NewRateLimitedError(ProviderID, retryAfter)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg := readErrorMessage(resp.Body)
		c.logger.WarnContext(ctx, "breach provider error",
			"endpoint", endpoint,
			"status", resp.StatusCode,
		)
		return providers.NewStatusError(ProviderID, resp.StatusCode, msg)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return providers.NewProviderError(providers.ErrorBadData, ProviderID,
			fmt.Sprintf("decode %s response", endpoint), err)
	}
	return nil
}

// readErrorMessage pulls a short message from an error body, preferring the
// provider's JSON "message" field.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}
