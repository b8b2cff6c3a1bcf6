//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"breachwatch/internal/exposure/models"
	"breachwatch/internal/exposure/store/postgres"
	"breachwatch/pkg/platform/sentinel"
	"breachwatch/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	results  *postgres.ResultStore
	events   *postgres.SecurityEventStore
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.Require().NoError(postgres.Migrate(context.Background(), s.postgres.DB))
	s.results = postgres.NewResultStore(s.postgres.DB)
	s.events = postgres.NewSecurityEventStore(s.postgres.DB)
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "email_breach_checks", "security_events")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestMigrateIsIdempotent() {
	s.NoError(postgres.Migrate(context.Background(), s.postgres.DB))
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	result := models.NewCheckResult("Alice@Example.com",
		[]models.BreachRecord{{Name: "Adobe", Domain: "adobe.com", PwnCount: 152445165, DataClasses: []string{"Passwords"}}},
		[]models.PasteRecord{{Source: "Pastebin", ID: "abc", EmailCount: 10}},
		s.now,
	)
	s.Require().NoError(s.results.Upsert(ctx, "Alice@Example.com", result, "user-1"))

	got, err := s.results.GetLatest(ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(result, *got)
}

func (s *PostgresStoreSuite) TestMissIsNotFound() {
	_, err := s.results.GetLatest(context.Background(), "nobody@example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentUpsert verifies that concurrent upserts on the same email
// leave exactly one complete row.
func (s *PostgresStoreSuite) TestConcurrentUpsert() {
	ctx := context.Background()
	const goroutines = 30

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			breaches := make([]models.BreachRecord, i%4)
			for j := range breaches {
				breaches[j] = models.BreachRecord{Name: "B"}
			}
			result := models.NewCheckResult("race@example.com", breaches, nil, s.now.Add(time.Duration(i)*time.Second))
			s.NoError(s.results.Upsert(ctx, "race@example.com", result, "user-1"))
		}(i)
	}
	wg.Wait()

	var rows int
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM email_breach_checks WHERE email = $1`, "race@example.com").Scan(&rows))
	s.Equal(1, rows)

	got, err := s.results.GetLatest(ctx, "race@example.com")
	s.Require().NoError(err)
	s.Equal(len(got.Breaches) > 0, got.IsCompromised)
}

func (s *PostgresStoreSuite) TestSummaryAndRetention() {
	ctx := context.Background()
	old := s.now.Add(-100 * 24 * time.Hour)
	s.Require().NoError(s.results.Upsert(ctx, "a@example.com",
		models.NewCheckResult("a@example.com", []models.BreachRecord{{Name: "X"}, {Name: "Y"}}, nil, s.now), "owner"))
	s.Require().NoError(s.results.Upsert(ctx, "b@example.com",
		models.NewCheckResult("b@example.com", nil, []models.PasteRecord{{Source: "Pastebin", ID: "1"}}, old), "owner"))
	s.Require().NoError(s.results.Upsert(ctx, "c@example.com",
		models.NewCheckResult("c@example.com", nil, nil, old), "other"))

	summary, err := s.results.Summary(ctx, "owner")
	s.Require().NoError(err)
	s.Equal(2, summary.TotalEmailsChecked)
	s.Equal(2, summary.CompromisedEmails)
	s.Equal(2, summary.TotalBreaches)
	s.Equal(1, summary.TotalPastes)
	s.Require().NotNil(summary.LastCheckDate)
	s.True(summary.LastCheckDate.Equal(s.now))

	deleted, err := s.results.DeleteOlderThan(ctx, s.now.Add(-90*24*time.Hour))
	s.Require().NoError(err)
	s.Equal(int64(2), deleted)

	_, err = s.results.GetLatest(ctx, "a@example.com")
	s.NoError(err)
}

func (s *PostgresStoreSuite) TestSecurityEvents() {
	ctx := context.Background()
	result := models.NewCheckResult("a@example.com", []models.BreachRecord{{Name: "Adobe"}, {Name: "LinkedIn"}}, nil, s.now)
	event := models.NewCompromisedEmailEvent(uuid.New(), "user-1", models.AuthEventSignin, result, s.now)

	s.Require().NoError(s.events.Append(ctx, event))
	replay := event
	replay.BreachCount = 99
	s.Require().NoError(s.events.Append(ctx, replay), "redelivered ids are ignored")

	events, err := s.events.ListByUser(ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(event, events[0])
	s.Equal("Adobe,LinkedIn", events[0].Metadata[models.MetadataBreachNames])
}
