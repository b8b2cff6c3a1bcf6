//go:build integration

package factory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"breachwatch/internal/exposure/models"
	"breachwatch/internal/exposure/store/kafka"
	pgstore "breachwatch/internal/exposure/store/postgres"
	"breachwatch/internal/platform/config"
	"breachwatch/pkg/testutil/containers"
)

func TestRelayCopiesEventsIntoPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := containers.GetManager().GetPostgres(t)
	broker := containers.GetManager().GetRedpanda(t)
	topic := "breachwatch.security-events." + uuid.NewString()[:8]

	admin, err := kgo.NewClient(kgo.SeedBrokers(broker.Brokers...))
	require.NoError(t, err)
	defer admin.Close()
	_, err = kadm.NewClient(admin).CreateTopic(ctx, 1, 1, nil, topic)
	require.NoError(t, err)

	producer, err := kafka.NewClient(broker.Brokers, "relay-test-producer")
	require.NoError(t, err)
	defer producer.Close()
	sink, err := kafka.NewEventSink(producer, topic)
	require.NoError(t, err)

	userID := "relay-" + uuid.NewString()[:8]
	now := time.Now().UTC().Truncate(time.Millisecond)
	result := models.NewCheckResult("alice@example.com", []models.BreachRecord{{Name: "Adobe"}}, nil, now)
	event := models.NewCompromisedEmailEvent(uuid.New(), userID, models.AuthEventSignup, result, now)
	require.NoError(t, sink.Append(ctx, event))
	require.NoError(t, sink.Append(ctx, event), "duplicate publish")

	cfg := config.Config{
		DatabaseURL: pg.DSN,
		Kafka: config.KafkaConfig{
			Brokers:       broker.Brokers,
			Topic:         topic,
			ClientID:      "relay-test",
			ConsumerGroup: "relay-test-" + uuid.NewString()[:8],
		},
	}
	r, err := BuildRelay(ctx, cfg, discardLogger(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- r.Consumer.Run(runCtx) }()

	events := pgstore.NewSecurityEventStore(pg.DB)
	require.Eventually(t, func() bool {
		got, err := events.ListByUser(ctx, userID)
		return err == nil && len(got) == 1
	}, 30*time.Second, 200*time.Millisecond)

	stop()
	err = <-done
	assert.True(t, err == nil || errors.Is(err, context.Canceled), "unexpected relay error: %v", err)

	got, err := events.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, event.ID, got[0].ID)
	assert.Equal(t, "Adobe", got[0].Metadata[models.MetadataBreachNames])
}
