package repository

import (
	"context"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/domain/repository"
	pkgkafka "AstroChart/pkg/kafka"
)

// producer is the part of *pkgkafka.Producer the publisher needs.
type producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaPublisher implements EventPublisher for Kafka. Events are keyed by
// chart id so redeliveries of one chart land on the same partition.
type KafkaPublisher struct {
	producer producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(p *pkgkafka.Producer, topic string) repository.EventPublisher {
	return &KafkaPublisher{producer: p, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev *models.ChartComputedEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.ChartID), ev)
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, evs []*models.ChartComputedEvent) error {
	if len(evs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(evs))
	for i, ev := range evs {
		msgs[i] = pkgkafka.Message{Key: []byte(ev.ChartID), Value: ev}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
