package repository

import (
	"context"

	"CapTrack/internal/domain/models"
	domainrepo "CapTrack/internal/domain/repository"
	pkgkafka "CapTrack/pkg/kafka"
)

// KafkaEventPublisher implements EventPublisher for Kafka. Trade events are
// keyed by slot so replays for the same slot land on the same partition.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ domainrepo.EventPublisher = (*KafkaEventPublisher)(nil)

// NewKafkaEventPublisher creates a Kafka event publisher.
func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) PublishTrade(ctx context.Context, event *models.TradeEvent) error {
	if event == nil {
		return nil
	}
	return p.producer.Publish(ctx, p.topic, []byte(event.Slot), event)
}

func (p *KafkaEventPublisher) PublishMessage(ctx context.Context, topic string, payload []byte) error {
	if topic == "" {
		topic = p.topic
	}
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopEventPublisher drops everything. Used when the event stream is disabled.
type NoopEventPublisher struct{}

var _ domainrepo.EventPublisher = (*NoopEventPublisher)(nil)

func (NoopEventPublisher) PublishTrade(context.Context, *models.TradeEvent) error { return nil }
func (NoopEventPublisher) PublishMessage(context.Context, string, []byte) error { return nil }
func (NoopEventPublisher) Close() error { return nil }
