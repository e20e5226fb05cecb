// Package events publishes admission lifecycle events to Kafka.
//
// Publishing is best-effort and happens after the database transaction has
// committed. A broker outage must never block or roll back a submission, so
// failures are logged and dropped.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"admissio/internal/admission/models"
)

// Event types carried on the admission topic.
const (
	TypeApplicationSubmitted = "application.submitted"
	TypeStatusChanged        = "application.status_changed"
)

// StatusEvent is the wire payload for lifecycle events. Records are keyed by
// tracking ID so all events for one application land on the same partition.
type StatusEvent struct {
	Type          string                    `json:"type"`
	ApplicationID string                    `json:"application_id"`
	TrackingID    string                    `json:"tracking_id"`
	OldStatus     *models.ApplicationStatus `json:"old_status,omitempty"`
	NewStatus     models.ApplicationStatus  `json:"new_status"`
	OccurredAt    time.Time                 `json:"occurred_at"`
}

// Publisher emits lifecycle events. Implementations must not return errors
// for delivery failures that the caller cannot act on.
type Publisher interface {
	Publish(ctx context.Context, event StatusEvent)
	Close()
}

// Kafka publishes events with franz-go.
type Kafka struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafka connects a producer to brokers. Returns an error only for
// client construction problems; broker reachability is checked lazily.
func NewKafka(brokers []string, topic string, logger *slog.Logger) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Kafka{client: client, topic: topic, logger: logger}, nil
}

var _ Publisher = (*Kafka)(nil)

func (p *Kafka) Publish(ctx context.Context, event StatusEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal event", slog.Any("error", err))
		return
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.TrackingID),
		Value: payload,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("publish event failed",
				slog.String("type", event.Type),
				slog.String("tracking_id", event.TrackingID),
				slog.Any("error", err),
			)
		}
	})
}

func (p *Kafka) Close() {
	p.client.Close()
}

// Noop discards events. Used when no brokers are configured.
type Noop struct{}

var _ Publisher = (*Noop)(nil)

func (Noop) Publish(context.Context, StatusEvent) {}
func (Noop) Close()                               {}
