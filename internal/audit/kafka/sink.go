// Package kafka streams audit events to a Kafka topic with franz-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"payoutkyc/internal/audit"
	"payoutkyc/pkg/platform/circuit"
	"payoutkyc/pkg/platform/sentinel"
)

// Producer is the subset of *kgo.Client the sink needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Sink publishes each audit event as one JSON record keyed by user ID, so
// all events of a user land on the same partition in order.
type Sink struct {
	producer Producer
	topic    string
	breaker  *circuit.Breaker
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithBreaker skips publishing while b is open, so a broker outage does not
// hold up the audit worker on every event.
func WithBreaker(b *circuit.Breaker) SinkOption {
	return func(s *Sink) { s.breaker = b }
}

func NewSink(producer Producer, topic string, opts ...SinkOption) *Sink {
	s := &Sink{producer: producer, topic: topic}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	if s.breaker != nil && !s.breaker.Allow() {
		return fmt.Errorf("audit topic %s: circuit %s: %w", s.topic, s.breaker.Name(), sentinel.ErrUnavailable)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.UserID.String()),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(event.Action)},
			{Key: "event_id", Value: []byte(event.ID.String())},
		},
		Timestamp: event.Timestamp,
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		if s.breaker != nil {
			s.breaker.RecordFailure()
		}
		return fmt.Errorf("produce audit event: %w", err)
	}
	if s.breaker != nil {
		s.breaker.RecordSuccess()
	}
	return nil
}
