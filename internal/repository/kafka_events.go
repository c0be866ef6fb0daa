package repository

import (
	"context"

	"StockTrack/internal/domain/models"
)

type producer interface {
	Publish(ctx context.Context, key []byte, value interface{}) error
	Close() error
}

// KafkaPublisher implements EventPublisher. Events are keyed by user id so a
// user's events stay ordered within a partition.
type KafkaPublisher struct {
	producer producer
}

func NewKafkaPublisher(p producer) *KafkaPublisher {
	return &KafkaPublisher{producer: p}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e *models.Event) error {
	return p.producer.Publish(ctx, []byte(e.UserID), e)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopPublisher drops events; used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *models.Event) error { return nil }
func (NopPublisher) Close() error                                 { return nil }
