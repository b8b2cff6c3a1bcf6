package handler

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks SmartChecker,BulkChecker,PasswordChecker,AuthEventHandler,Summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"breachwatch/internal/exposure/handler/mocks"
	"breachwatch/internal/exposure/models"
	"breachwatch/internal/exposure/providers"
	"breachwatch/internal/exposure/service"
	"breachwatch/internal/exposure/store"
)

// Justification: the handler owns request validation and the mapping from
// domain errors to status codes, which no service test observes.
type HandlerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	checker   *mocks.MockSmartChecker
	bulk      *mocks.MockBulkChecker
	passwords *mocks.MockPasswordChecker
	authHook  *mocks.MockAuthEventHandler
	summary   *mocks.MockSummarizer
	router    chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.checker = mocks.NewMockSmartChecker(s.ctrl)
	s.bulk = mocks.NewMockBulkChecker(s.ctrl)
	s.passwords = mocks.NewMockPasswordChecker(s.ctrl)
	s.authHook = mocks.NewMockAuthEventHandler(s.ctrl)
	s.summary = mocks.NewMockSummarizer(s.ctrl)
	s.router = s.newRouter(WithSummary(s.summary))
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) newRouter(opts ...Option) chi.Router {
	h, err := New(s.checker, s.bulk, s.passwords, s.authHook, opts...)
	s.Require().NoError(err)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			s.Require().NoError(json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *HandlerSuite) decodeError(rr *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	s.Require().NoError(json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func compromised(email string) *models.CheckResult {
	r := models.NewCheckResult(email, []models.BreachRecord{{Name: "Adobe"}}, nil, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	return &r
}

func (s *HandlerSuite) TestNewRequiresDependencies() {
	_, err := New(nil, s.bulk, s.passwords, s.authHook)
	s.ErrorContains(err, "smart checker is required")
	_, err = New(s.checker, nil, s.passwords, s.authHook)
	s.ErrorContains(err, "bulk checker is required")
	_, err = New(s.checker, s.bulk, nil, s.authHook)
	s.ErrorContains(err, "password checker is required")
	_, err = New(s.checker, s.bulk, s.passwords, nil)
	s.ErrorContains(err, "auth event handler is required")
}

func (s *HandlerSuite) TestCheck() {
	s.Run("returns the smart check result", func() {
		s.checker.EXPECT().SmartCheck(gomock.Any(), "alice@example.com", "user-1").Return(compromised("alice@example.com"), nil)

		rr := s.do(http.MethodPost, "/v1/breaches/check", map[string]string{"email": "alice@example.com", "userId": " user-1 "})
		s.Require().Equal(http.StatusOK, rr.Code)
		var got models.CheckResult
		s.Require().NoError(json.NewDecoder(rr.Body).Decode(&got))
		s.True(got.IsCompromised)
		s.Equal([]string{"Adobe"}, got.BreachNames())
	})

	s.Run("empty email is a bad request", func() {
		s.checker.EXPECT().SmartCheck(gomock.Any(), "", "").Return(nil, models.ErrEmailRequired)

		rr := s.do(http.MethodPost, "/v1/breaches/check", map[string]string{"email": ""})
		s.Equal(http.StatusBadRequest, rr.Code)
		body := s.decodeError(rr)
		s.Equal(codeBadRequest, body["error"])
		s.Equal("email is required", body["error_description"])
	})

	s.Run("malformed body never reaches the checker", func() {
		rr := s.do(http.MethodPost, "/v1/breaches/check", "{not json")
		s.Equal(http.StatusBadRequest, rr.Code)
		s.Equal("invalid request body", s.decodeError(rr)["error_description"])
	})

	s.Run("unknown fields are rejected", func() {
		rr := s.do(http.MethodPost, "/v1/breaches/check", map[string]string{"email": "a@example.com", "extra": "x"})
		s.Equal(http.StatusBadRequest, rr.Code)
	})

	s.Run("wrong method is 405", func() {
		rr := s.do(http.MethodGet, "/v1/breaches/check", nil)
		s.Equal(http.StatusMethodNotAllowed, rr.Code)
	})
}

func (s *HandlerSuite) TestErrorTranslation() {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"rate limited", providers.NewRateLimitedError("hibp", 1500*time.Millisecond), http.StatusTooManyRequests, codeRateLimited},
		{"provider outage", providers.NewStatusError("hibp", http.StatusServiceUnavailable, "down"), http.StatusBadGateway, codeProviderUnavailable},
		{"provider auth", providers.NewStatusError("hibp", http.StatusUnauthorized, "bad key"), http.StatusBadGateway, codeProviderUnavailable},
		{"provider timeout", providers.NewProviderError(providers.ErrorTimeout, "hibp", "slow", nil), http.StatusGatewayTimeout, codeProviderTimeout},
		{"store failure", store.Wrap("upsert", errors.New("connection refused")), http.StatusServiceUnavailable, codeStoreUnavailable},
		{"unknown failure", errors.New("boom"), http.StatusInternalServerError, codeInternal},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.checker.EXPECT().SmartCheck(gomock.Any(), "alice@example.com", "").Return(nil, tc.err)

			rr := s.do(http.MethodPost, "/v1/breaches/check", map[string]string{"email": "alice@example.com"})
			s.Equal(tc.wantStatus, rr.Code)
			body := s.decodeError(rr)
			s.Equal(tc.wantCode, body["error"])
			s.NotContains(body["error_description"], "connection refused")
			s.NotContains(body["error_description"], "bad key")
		})
	}
}

func (s *HandlerSuite) TestRateLimitSetsRetryAfter() {
	s.checker.EXPECT().SmartCheck(gomock.Any(), "alice@example.com", "").
		Return(nil, providers.NewRateLimitedError("hibp", 1500*time.Millisecond))

	rr := s.do(http.MethodPost, "/v1/breaches/check", map[string]string{"email": "alice@example.com"})
	s.Equal(http.StatusTooManyRequests, rr.Code)
	s.Equal("2", rr.Header().Get("Retry-After"))
}

func (s *HandlerSuite) TestBulk() {
	s.Run("reports results and failures separately", func() {
		s.bulk.EXPECT().BulkCheckOutcomes(gomock.Any(), service.BulkRequest{
			Emails:      []string{"a@example.com", "b@example.com"},
			OwnerUserID: "user-1",
		}).Return([]service.Outcome{
			{Email: "a@example.com", Result: compromised("a@example.com")},
			{Email: "b@example.com", Err: providers.NewRateLimitedError("hibp", time.Second)},
		}, nil)

		rr := s.do(http.MethodPost, "/v1/breaches/bulk", map[string]any{
			"emails": []string{"a@example.com", "b@example.com"},
			"userId": "user-1",
		})
		s.Require().Equal(http.StatusOK, rr.Code)
		var got bulkResponse
		s.Require().NoError(json.NewDecoder(rr.Body).Decode(&got))
		s.Require().Len(got.Results, 1)
		s.Equal("a@example.com", got.Results[0].Email)
		s.Require().Len(got.Failures, 1)
		s.Equal("b@example.com", got.Failures[0].Email)
		s.Equal("upstream provider rate limit reached", got.Failures[0].Error)
	})

	s.Run("delay override is passed through", func() {
		s.bulk.EXPECT().BulkCheckOutcomes(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req service.BulkRequest) ([]service.Outcome, error) {
				s.Require().NotNil(req.Delay)
				s.Equal(250*time.Millisecond, *req.Delay)
				return []service.Outcome{}, nil
			})

		rr := s.do(http.MethodPost, "/v1/breaches/bulk", map[string]any{
			"emails":  []string{"a@example.com"},
			"delayMs": 250,
		})
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("missing emails is a bad request", func() {
		rr := s.do(http.MethodPost, "/v1/breaches/bulk", map[string]any{"emails": []string{}})
		s.Equal(http.StatusBadRequest, rr.Code)
		s.Equal("array of emails is required", s.decodeError(rr)["error_description"])
	})

	s.Run("oversized batch is a bad request", func() {
		s.bulk.EXPECT().BulkCheckOutcomes(gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("%w: 11 emails, limit is 10", service.ErrBatchTooLarge))

		rr := s.do(http.MethodPost, "/v1/breaches/bulk", map[string]any{"emails": make([]string, 11)})
		s.Equal(http.StatusBadRequest, rr.Code)
		s.Contains(s.decodeError(rr)["error_description"], "limit is 10")
	})
}

func (s *HandlerSuite) TestPassword() {
	s.Run("returns the exposure result", func() {
		s.passwords.EXPECT().CheckPassword(gomock.Any(), "hunter2").
			Return(models.PasswordExposureResult{IsCompromised: true, OccurrenceCount: 17}, nil)

		rr := s.do(http.MethodPost, "/v1/passwords/check", map[string]string{"password": "hunter2"})
		s.Require().Equal(http.StatusOK, rr.Code)
		var got models.PasswordExposureResult
		s.Require().NoError(json.NewDecoder(rr.Body).Decode(&got))
		s.Equal(int64(17), got.OccurrenceCount)
	})

	s.Run("empty password is a bad request", func() {
		rr := s.do(http.MethodPost, "/v1/passwords/check", map[string]string{"password": ""})
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

func (s *HandlerSuite) TestAuthEvent() {
	s.Run("runs the hook for a valid event", func() {
		s.authHook.EXPECT().HandleAuthEvent(gomock.Any(), "alice@example.com", "user-1", models.AuthEventSignup).
			Return(compromised("alice@example.com"), nil)

		rr := s.do(http.MethodPost, "/v1/auth-events", map[string]string{
			"email": "alice@example.com", "userId": "user-1", "event": "Signup",
		})
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("unknown event is rejected before the hook", func() {
		rr := s.do(http.MethodPost, "/v1/auth-events", map[string]string{
			"email": "alice@example.com", "userId": "user-1", "event": "logout",
		})
		s.Equal(http.StatusBadRequest, rr.Code)
	})

	s.Run("missing user id is a bad request", func() {
		s.authHook.EXPECT().HandleAuthEvent(gomock.Any(), "alice@example.com", "", models.AuthEventSignin).
			Return(nil, models.ErrUserIDRequired)

		rr := s.do(http.MethodPost, "/v1/auth-events", map[string]string{
			"email": "alice@example.com", "event": "signin",
		})
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

func (s *HandlerSuite) TestSummary() {
	s.Run("returns the user's aggregate", func() {
		last := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
		s.summary.EXPECT().Summary(gomock.Any(), "user-1").Return(models.BreachSummary{
			TotalEmailsChecked: 3, CompromisedEmails: 1, TotalBreaches: 4, LastCheckDate: &last,
		}, nil)

		rr := s.do(http.MethodGet, "/v1/users/user-1/breach-summary", nil)
		s.Require().Equal(http.StatusOK, rr.Code)
		var got models.BreachSummary
		s.Require().NoError(json.NewDecoder(rr.Body).Decode(&got))
		s.Equal(3, got.TotalEmailsChecked)
		s.Equal(4, got.TotalBreaches)
	})

	s.Run("unsupported store answers 501", func() {
		s.router = s.newRouter()
		rr := s.do(http.MethodGet, "/v1/users/user-1/breach-summary", nil)
		s.Equal(http.StatusNotImplemented, rr.Code)
		s.Equal(codeNotImplemented, s.decodeError(rr)["error"])
	})
}
