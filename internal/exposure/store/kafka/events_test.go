package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"breachwatch/internal/exposure/models"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		f.records = append(f.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func testEvent() models.SecurityEvent {
	result := models.NewCheckResult("alice@example.com", []models.BreachRecord{{Name: "Adobe"}}, nil, time.Now())
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return models.NewCompromisedEmailEvent(uuid.New(), "user-1", models.AuthEventSignup, result, createdAt)
}

func TestNewEventSink(t *testing.T) {
	_, err := NewEventSink(nil, "")
	assert.Error(t, err)

	sink, err := NewEventSink(&fakeProducer{}, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultTopic, sink.topic)
}

func TestAppendPublishesKeyedRecord(t *testing.T) {
	fake := &fakeProducer{}
	sink, err := NewEventSink(fake, "events")
	require.NoError(t, err)

	event := testEvent()
	require.NoError(t, sink.Append(context.Background(), event))

	require.Len(t, fake.records, 1)
	record := fake.records[0]
	assert.Equal(t, "events", record.Topic)
	assert.Equal(t, []byte("user-1"), record.Key)
	assert.Equal(t, event.CreatedAt, record.Timestamp)
	require.Len(t, record.Headers, 1)
	assert.Equal(t, models.EventTypeCompromisedEmail, string(record.Headers[0].Value))

	var decoded models.SecurityEvent
	require.NoError(t, json.Unmarshal(record.Value, &decoded))
	assert.Equal(t, event, decoded)
}

func TestAppendSurfacesProduceErrors(t *testing.T) {
	fake := &fakeProducer{err: errors.New("broker unavailable")}
	sink, err := NewEventSink(fake, "events")
	require.NoError(t, err)

	err = sink.Append(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
}
