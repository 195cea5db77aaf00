// Package kafka mirrors ledger changes onto a Kafka topic. It is a second,
// optional mirror next to the webhook and follows the same best-effort rules.
package kafka

import (
	"context"
	"time"

	"sharedledger/internal/remote"

	"github.com/segmentio/kafka-go"
)

// DefaultTopic receives changes when no topic is configured.
const DefaultTopic = "ledger_changes"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes one message per change, keyed by entry id so every change
// to an entry lands on the same partition.
type Publisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewPublisher creates a Publisher for brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return newPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	})
}

func newPublisher(w messageWriter) *Publisher {
	return &Publisher{writer: w, now: time.Now}
}

// Push publishes change. Failures come back as *remote.SyncError.
func (p *Publisher) Push(ctx context.Context, change remote.Change) error {
	msg, err := p.message(change)
	if err != nil {
		return &remote.SyncError{Action: change.Action, Kind: change.Kind, ID: change.ID, Err: err}
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return &remote.SyncError{Action: change.Action, Kind: change.Kind, ID: change.ID, Err: err}
	}
	return nil
}

func (p *Publisher) message(change remote.Change) (kafka.Message, error) {
	payload, err := change.Payload()
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(change.ID),
		Value: payload,
		Time:  p.now(),
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(change.Action)},
			{Key: "entryType", Value: []byte(change.Kind)},
		},
	}, nil
}

// Close flushes pending messages and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ remote.Mirror = (*Publisher)(nil)
