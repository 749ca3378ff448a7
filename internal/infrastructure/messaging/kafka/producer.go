package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"tg_pizzeria/internal/config"
	domain "tg_pizzeria/internal/domain/order"
	"tg_pizzeria/internal/infrastructure/encoding/avro"
	"tg_pizzeria/pkg/logger"
)

// ChangeProducer publishes order change events to the change topic.
// Records are keyed by order id so each order's events stay in one
// partition and arrive in commit order.
type ChangeProducer struct {
	client *kgo.Client
	codec  *avro.Codec
	topic  string
	log    logger.Logger
}

func NewChangeProducer(cfg config.KafkaConfig, codec *avro.Codec, log logger.Logger) (*ChangeProducer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.ChangeTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	log.Info("kafka change producer ready",
		logger.Any("brokers", cfg.Brokers),
		logger.String("topic", cfg.ChangeTopic),
	)

	return &ChangeProducer{
		client: client,
		codec:  codec,
		topic:  cfg.ChangeTopic,
		log:    log,
	}, nil
}

func (p *ChangeProducer) PublishChange(ctx context.Context, ev domain.ChangeEvent) error {
	payload, err := p.codec.Encode(ev)
	if err != nil {
		return err
	}

	rec := &kgo.Record{
		Topic:     p.topic,
		Key:       []byte(ev.Order.ID),
		Value:     payload,
		Timestamp: time.Now().UTC(),
	}

	results := p.client.ProduceSync(ctx, rec)
	if err := results.FirstErr(); err != nil {
		return fmt.Errorf("publish to kafka topic %s: %w", p.topic, err)
	}
	return nil
}

func (p *ChangeProducer) Close(ctx context.Context) error {
	p.client.Close()
	return nil
}
