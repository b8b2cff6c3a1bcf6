// Package kafka publishes security events to a Kafka topic with franz-go.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"breachwatch/internal/exposure/models"
)

// DefaultTopic receives security events when no topic is configured.
const DefaultTopic = "breachwatch.security-events"

const headerEventType = "event-type"

// producer is the subset of *kgo.Client the sink needs.
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// EventSink appends security events as JSON records keyed by user id, so a
// user's events stay ordered within one partition.
type EventSink struct {
	client producer
	topic  string
}

func NewEventSink(client producer, topic string) (*EventSink, error) {
	if client == nil {
		return nil, errors.New("kafka client is required")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	return &EventSink{client: client, topic: topic}, nil
}

// NewClient dials brokers with settings suited to a low-volume audit stream.
func NewClient(brokers []string, clientID string) (*kgo.Client, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(0),
	}
	if clientID != "" {
		opts = append(opts, kgo.ClientID(clientID))
	}
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

// NewGroupClient joins group and consumes topic from the earliest offset.
// Offsets are committed manually once records are handled.
func NewGroupClient(brokers []string, clientID, group, topic string) (*kgo.Client, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if group == "" {
		return nil, errors.New("kafka consumer group is required")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		kgo.DisableAutoCommit(),
	}
	if clientID != "" {
		opts = append(opts, kgo.ClientID(clientID))
	}
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return client, nil
}

// Append publishes event and waits for the broker acknowledgement.
func (s *EventSink) Append(ctx context.Context, event models.SecurityEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode security event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.UserID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: headerEventType, Value: []byte(event.EventType)},
		},
		Timestamp: event.CreatedAt,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("publish security event: %w", err)
	}
	return nil
}
