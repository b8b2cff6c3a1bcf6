package pwnedpasswords

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breachwatch/internal/exposure/providers"
	"breachwatch/pkg/testutil"
)

// SHA-1("password") = 5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8
const (
	passwordPrefix = "5BAA6"
	passwordSuffix = "1E4C9B93F3F0682250B6CF8331B7EE68FD8"
)

func rangeBody(lines ...string) string {
	return strings.Join(lines, "\r\n")
}

func TestSplitDigest(t *testing.T) {
	prefix, suffix := splitDigest("password")
	assert.Equal(t, passwordPrefix, prefix)
	assert.Equal(t, passwordSuffix, suffix)
	assert.Len(t, prefix, 5)
	assert.Len(t, suffix, 35)
}

func TestCheckPassword(t *testing.T) {
	t.Run("matching suffix returns the exact count", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.TextResponse(http.StatusOK, rangeBody(
			"0018A45C4D1DEF81644B54AB7F969B88D65:1",
			passwordSuffix+":9659365",
			"011053FD0102E94D6AE2F8B83D76FAF94F6:0",
		)))
		checker := New("breachwatch-test", WithBaseURL(server.URL))

		result, err := checker.CheckPassword(context.Background(), "password")
		require.NoError(t, err)
		assert.True(t, result.IsCompromised)
		assert.Equal(t, int64(9659365), result.OccurrenceCount)
	})

	t.Run("suffix absent from the response is clean", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.TextResponse(http.StatusOK, rangeBody(
			"0018A45C4D1DEF81644B54AB7F969B88D65:1",
			"00D4F6E8FA6EECAD2A3AA415EEC418D38EC:2",
		)))
		checker := New("breachwatch-test", WithBaseURL(server.URL))

		result, err := checker.CheckPassword(context.Background(), "password")
		require.NoError(t, err)
		assert.False(t, result.IsCompromised)
		assert.Zero(t, result.OccurrenceCount)
	})

	t.Run("lowercase suffix still matches", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.TextResponse(http.StatusOK, strings.ToLower(passwordSuffix)+":12"))
		checker := New("breachwatch-test", WithBaseURL(server.URL))

		result, err := checker.CheckPassword(context.Background(), "password")
		require.NoError(t, err)
		assert.True(t, result.IsCompromised)
		assert.Equal(t, int64(12), result.OccurrenceCount)
	})

	t.Run("zero-count padding row is not a match", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.TextResponse(http.StatusOK, passwordSuffix+":0"))
		checker := New("breachwatch-test", WithBaseURL(server.URL))

		result, err := checker.CheckPassword(context.Background(), "password")
		require.NoError(t, err)
		assert.False(t, result.IsCompromised)
	})

	t.Run("malformed count on the matching line is bad data", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.TextResponse(http.StatusOK, passwordSuffix+":lots"))
		checker := New("breachwatch-test", WithBaseURL(server.URL))

		_, err := checker.CheckPassword(context.Background(), "password")
		assert.Equal(t, providers.ErrorBadData, providers.GetCategory(err))
	})
}

func TestCheckPasswordTransmitsOnlyThePrefix(t *testing.T) {
	server := testutil.NewStubServer(t, testutil.TextResponse(http.StatusOK, ""))
	checker := New("breachwatch-test", WithBaseURL(server.URL))

	_, err := checker.CheckPassword(context.Background(), "password")
	require.NoError(t, err)

	reqs := server.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/range/"+passwordPrefix, reqs[0].Path)
	assert.Empty(t, reqs[0].RawQuery)
	assert.Equal(t, "true", reqs[0].Header.Get("Add-Padding"))
	for name, values := range reqs[0].Header {
		for _, v := range values {
			assert.NotContains(t, v, passwordSuffix, "header %s leaks the suffix", name)
			assert.NotContains(t, v, "password", "header %s leaks the plaintext", name)
		}
	}
}

func TestCheckPasswordErrors(t *testing.T) {
	t.Run("rate limit carries the hint", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.StatusResponse(http.StatusTooManyRequests, map[string]string{"Retry-After": "2"}))
		checker := New("breachwatch-test", WithBaseURL(server.URL))

		_, err := checker.CheckPassword(context.Background(), "password")
		wait, ok := providers.RetryAfter(err)
		require.True(t, ok)
		assert.Equal(t, 2*time.Second, wait)
	})

	t.Run("server error is a provider error", func(t *testing.T) {
		server := testutil.NewStubServer(t, testutil.StatusResponse(http.StatusBadGateway, nil))
		checker := New("breachwatch-test", WithBaseURL(server.URL))

		_, err := checker.CheckPassword(context.Background(), "password")
		var pe *providers.ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, http.StatusBadGateway, pe.StatusCode)
		assert.Equal(t, ProviderID, pe.ProviderID)
	})
}
