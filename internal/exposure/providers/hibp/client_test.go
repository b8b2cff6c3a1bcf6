package hibp

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breachwatch/internal/exposure/metrics"
	"breachwatch/internal/exposure/models"
	"breachwatch/internal/exposure/providers"
	"breachwatch/pkg/testutil"
)

func newTestClient(t *testing.T, server *testutil.StubServer, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithBaseURL(server.URL)}, opts...)
	client, err := New("test-key", "breachwatch-test", opts...)
	require.NoError(t, err)
	return client
}

func TestNew(t *testing.T) {
	t.Run("api key is required", func(t *testing.T) {
		_, err := New(" ", "agent")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api key is required")
	})

	t.Run("user agent is required", func(t *testing.T) {
		_, err := New("key", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "user agent is required")
	})
}

func TestCheckBreaches(t *testing.T) {
	breaches := []models.BreachRecord{
		{Name: "Adobe", Domain: "adobe.com", BreachDate: "2013-10-04", PwnCount: 152445165, DataClasses: []string{"Email addresses", "Passwords"}},
		{Name: "LinkedIn", Domain: "linkedin.com", BreachDate: "2012-05-05"},
	}

	t.Run("sends credentials and normalized email", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.JSONResponse(t, http.StatusOK, breaches))
		client := newTestClient(t, server)

		got, err := client.CheckBreaches(context.Background(), "  Alice@Example.COM ", true)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Adobe", got[0].Name)
		assert.Equal(t, []string{"Email addresses", "Passwords"}, got[0].DataClasses)
		assert.Equal(t, "LinkedIn", got[1].Name)

		reqs := server.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, http.MethodGet, reqs[0].Method)
		assert.Equal(t, "/breachedaccount/alice@example.com", reqs[0].Path)
		assert.Equal(t, "truncateResponse=false", reqs[0].RawQuery)
		assert.Equal(t, "test-key", reqs[0].Header.Get("hibp-api-key"))
		assert.Equal(t, "breachwatch-test", reqs[0].Header.Get("User-Agent"))
	})

	t.Run("summary mode truncates the response", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.JSONResponse(t, http.StatusOK, []map[string]string{{"Name": "Adobe"}}))
		client := newTestClient(t, server)

		got, err := client.CheckBreaches(context.Background(), "alice@example.com", false)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "truncateResponse=true", server.Requests()[0].RawQuery)
	})

	t.Run("percent-encodes reserved characters", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.StatusResponse(http.StatusNotFound, nil))
		client := newTestClient(t, server)

		_, err := client.CheckBreaches(context.Background(), "a/b?c@example.com", true)
		require.NoError(t, err)
		assert.Equal(t, "/breachedaccount/a%2Fb%3Fc@example.com", server.Requests()[0].EscapedPath)
	})

	t.Run("not found is an empty result", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.StatusResponse(http.StatusNotFound, nil))
		client := newTestClient(t, server)

		got, err := client.CheckBreaches(context.Background(), "clean@example.com", true)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty email is rejected before any request", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.StatusResponse(http.StatusOK, nil))
		client := newTestClient(t, server)

		_, err := client.CheckBreaches(context.Background(), "   ", true)
		assert.ErrorIs(t, err, models.ErrEmailRequired)
		assert.Zero(t, server.RequestCount())
	})
}

func TestCheckPastes(t *testing.T) {
	t.Run("decodes paste records", func(t *testing.T) {
		pastes := []models.PasteRecord{{Source: "Pastebin", ID: "8Q0BvKD8", Date: "2014-03-04T19:14:54Z", EmailCount: 139}}
		server := testutil.NewStubServer(t, testutil.JSONResponse(t, http.StatusOK, pastes))
		client := newTestClient(t, server)

		got, err := client.CheckPastes(context.Background(), "Bob@Example.com")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "8Q0BvKD8", got[0].ID)
		assert.Equal(t, 139, got[0].EmailCount)

		req := server.Requests()[0]
		assert.Equal(t, "/pasteaccount/bob@example.com", req.Path)
		assert.Empty(t, req.RawQuery)
		assert.Equal(t, "test-key", req.Header.Get("hibp-api-key"))
	})

	t.Run("not found is an empty result", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.StatusResponse(http.StatusNotFound, nil))
		client := newTestClient(t, server)

		got, err := client.CheckPastes(context.Background(), "clean@example.com")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestErrorMapping(t *testing.T) {
	t.Run("429 surfaces the retry-after hint without retrying", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.StatusResponse(http.StatusTooManyRequests, map[string]string{"Retry-After": "3"}))
		client := newTestClient(t, server)

		_, err := client.CheckPastes(context.Background(), "alice@example.com")
		require.Error(t, err)
		assert.True(t, providers.IsRateLimited(err))
		wait, ok := providers.RetryAfter(err)
		require.True(t, ok)
		assert.Equal(t, 3*time.Second, wait)
		assert.Equal(t, 1, server.RequestCount())
	})

	t.Run("unexpected status is a provider error carrying the status", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.TextResponse(http.StatusServiceUnavailable, "down for maintenance"))
		client := newTestClient(t, server)

		_, err := client.CheckBreaches(context.Background(), "alice@example.com", true)
		var pe *providers.ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, http.StatusServiceUnavailable, pe.StatusCode)
		assert.Equal(t, providers.ErrorProviderOutage, pe.Category)
		assert.Equal(t, "down for maintenance", pe.Message)
	})

	t.Run("unauthorized uses the provider message", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.JSONResponse(t, http.StatusUnauthorized, map[string]any{
			"statusCode": 401,
			"message":    "Access denied due to invalid hibp-api-key.",
		}))
		client := newTestClient(t, server)

		_, err := client.CheckBreaches(context.Background(), "alice@example.com", true)
		var pe *providers.ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, providers.ErrorAuthentication, pe.Category)
		assert.Contains(t, pe.Message, "invalid hibp-api-key")
	})

	t.Run("malformed JSON is bad data", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.TextResponse(http.StatusOK, "{not json"))
		client := newTestClient(t, server)

		_, err := client.CheckBreaches(context.Background(), "alice@example.com", true)
		assert.Equal(t, providers.ErrorBadData, providers.GetCategory(err))
	})

	t.Run("cancelled context is a transport error", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.StatusResponse(http.StatusOK, nil))
		client := newTestClient(t, server)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.CheckBreaches(ctx, "alice@example.com", true)
		require.Error(t, err)
		assert.Equal(t, providers.ErrorProviderOutage, providers.GetCategory(err))
	})
}

func TestRequestMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	server := testutil.NewStubServer(t, testutil.StatusResponse(http.StatusNotFound, nil))
	client := newTestClient(t, server, WithMetrics(m))

	_, err := client.CheckBreaches(context.Background(), "alice@example.com", true)
	require.NoError(t, err)

	server.SetHandler(testutil.StatusResponse(http.StatusTooManyRequests, map[string]string{"Retry-After": "1"}))
	_, err = client.CheckPastes(context.Background(), "alice@example.com")
	require.Error(t, err)

	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.ProviderRequests.WithLabelValues("breachedaccount", "not_found")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.ProviderRequests.WithLabelValues("pasteaccount", "rate_limited")))
}
