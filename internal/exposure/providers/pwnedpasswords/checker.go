// Package pwnedpasswords checks passwords against the Pwned Passwords range API
// using the k-anonymity model: only the first five hex characters of the
// password's SHA-1 digest leave the process.
package pwnedpasswords

import (
	"bufio"
	"context"
	"crypto/sha1" //nolint:gosec // SHA-1 is mandated by the range API
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
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
	ProviderID = "pwnedpasswords"

	// DefaultBaseURL is the public range API root.
	DefaultBaseURL = "https://api.pwnedpasswords.com"

	prefixLen     = 5
	endpointRange = "range"
	maxBodyBytes  = 2 << 20
)

// Checker queries the password range endpoint. It needs no API key.
type Checker struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	clock      func() time.Time
}

type Option func(*Checker)

func WithBaseURL(baseURL string) Option {
	return func(c *Checker) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Checker) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Checker) {
		c.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Checker) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// New builds a checker identifying itself with userAgent.
func New(userAgent string, opts ...Option) *Checker {
	c := &Checker{
		baseURL:    DefaultBaseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.New(slog.DiscardHandler),
		tracer:     otel.Tracer("breachwatch/pwnedpasswords"),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckPassword reports whether plaintext appears in the corpus and how often.
// The plaintext, its digest and the digest suffix are never logged or sent.
func (c *Checker) CheckPassword(ctx context.Context, plaintext string) (models.PasswordExposureResult, error) {
	prefix, suffix := splitDigest(plaintext)

	count, err := c.fetchRange(ctx, prefix, suffix)
	if err != nil {
		c.metrics.RecordPasswordCheck("error")
		return models.PasswordExposureResult{}, err
	}
	if count == 0 {
		c.metrics.RecordPasswordCheck("clean")
		return models.PasswordExposureResult{}, nil
	}
	c.metrics.RecordPasswordCheck("compromised")
	return models.PasswordExposureResult{IsCompromised: true, OccurrenceCount: count}, nil
}

// splitDigest returns the uppercase hex SHA-1 digest split into the 5-char
// prefix sent to the provider and the 35-char suffix matched locally.
func splitDigest(plaintext string) (prefix, suffix string) {
	sum := sha1.Sum([]byte(plaintext)) //nolint:gosec
	digest := strings.ToUpper(hex.EncodeToString(sum[:]))
	return digest[:prefixLen], digest[prefixLen:]
}

func (c *Checker) fetchRange(ctx context.Context, prefix, suffix string) (count int64, err error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "pwnedpasswords.range", trace.WithSpanKind(trace.SpanKindClient))
	outcome := "ok"
	defer func() {
		if err != nil {
			outcome = string(providers.GetCategory(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
		c.metrics.ObserveProviderRequest(endpointRange, outcome, time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpointRange+"/"+prefix, nil)
	if err != nil {
		return 0, providers.NewProviderError(providers.ErrorInternal, ProviderID, "build request", err)
	}
	req.Header.Set("Add-Padding", "true")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, providers.NewTransportError(ProviderID, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := providers.ParseRetryAfter(resp.Header.Get("Retry-After"), c.clock())
		c.logger.WarnContext(ctx, "password range provider rate limited",
			"retry_after_seconds", int(retryAfter.Seconds()),
		)
		return 0, providers.NewRateLimitedError(ProviderID, retryAfter)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "password range provider error", "status", resp.StatusCode)
		return 0, providers.NewStatusError(ProviderID, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return matchSuffix(io.LimitReader(resp.Body, maxBodyBytes), suffix)
}

// matchSuffix scans "SUFFIX:COUNT" lines for suffix. Padding rows carry a zero
// count and never count as a match.
func matchSuffix(body io.Reader, suffix string) (int64, error) {
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		candidate, rawCount, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(candidate, suffix) {
			continue
		}
		count, err := strconv.ParseInt(strings.TrimSpace(rawCount), 10, 64)
		if err != nil || count < 0 {
			return 0, providers.NewProviderError(providers.ErrorBadData, ProviderID, "malformed range count", err)
		}
		return count, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, providers.NewProviderError(providers.ErrorBadData, ProviderID, "read range response", err)
	}
	return 0, nil
}
