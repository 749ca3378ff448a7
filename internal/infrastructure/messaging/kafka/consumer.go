package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"tg_pizzeria/internal/config"
	domain "tg_pizzeria/internal/domain/order"
	"tg_pizzeria/internal/infrastructure/encoding/avro"
	"tg_pizzeria/pkg/logger"
	"tg_pizzeria/pkg/metrics"
)

// Mirror is the dashboard feed from the consumer's point of view: events go
// in, and the connection state follows the subscription lifecycle.
type Mirror interface {
	Apply(ev domain.ChangeEvent)
	SetConnected(connected bool)
}

// ChangeConsumer subscribes to the change topic and pushes decoded events
// into the feed. A malformed payload is dropped with a log line; the mirror
// heals on the next refresh.
type ChangeConsumer struct {
	reader  *kafkago.Reader
	codec   *avro.Codec
	mirror  Mirror
	log     logger.Logger
	metrics *metrics.Metrics

	// probe checks broker reachability. The group reader retries dial and
	// join failures internally without returning from ReadMessage, so the
	// read loop alone cannot tell a quiet topic from an unreachable broker.
	probe         func(ctx context.Context) error
	probeInterval time.Duration
	backoff       time.Duration
}

func NewChangeConsumer(cfg config.KafkaConfig, codec *avro.Codec, mirror Mirror, log logger.Logger, m *metrics.Metrics) *ChangeConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: sessionGroup(cfg.ConsumerGroup),
		Topic:   cfg.ChangeTopic,
		// New sessions only care about changes from now on; the bootstrap
		// fetch covers history.
		StartOffset: kafkago.LastOffset,
		MinBytes:    1e3,
		MaxBytes:    1e6,
	})

	c := &ChangeConsumer{
		reader:        reader,
		codec:         codec,
		mirror:        mirror,
		log:           log,
		metrics:       m,
		probeInterval: 10 * time.Second,
		backoff:       5 * time.Second,
	}
	c.probe = func(ctx context.Context) error {
		return checkBroker(ctx, cfg.Brokers[0], cfg.ChangeTopic)
	}
	return c
}

// sessionGroup derives a fresh consumer group for this session. Change
// events are a broadcast: every dashboard session must see every event, so
// sessions must never share a group (Kafka would split the partitions
// between them), and a restarted session must not resume from committed
// offsets.
func sessionGroup(base string) string {
	return base + "-" + uuid.NewString()
}

// checkBroker dials the broker and asks for the topic's partitions.
func checkBroker(ctx context.Context, broker, topic string) error {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := kafkago.DialContext(dialCtx, "tcp", broker)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.ReadPartitions(topic)
	return err
}

// Start consumes until ctx is done. The feed starts out disconnected, with
// its poll fallback armed, and is only marked connected once the broker is
// demonstrably reachable; the liveness probe keeps that claim honest while
// ReadMessage blocks.
func (c *ChangeConsumer) Start(ctx context.Context) error {
	defer c.mirror.SetConnected(false)

	go c.watchLiveness(ctx)

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			c.mirror.SetConnected(false)
			c.log.Warn("change subscription read failed", logger.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff):
			}
			continue
		}
		c.mirror.SetConnected(true)

		c.handleValue(msg.Value)
	}
}

// watchLiveness probes the broker on an interval and mirrors the outcome
// into the feed's connection state. An unreachable broker arms the feed's
// poll fallback even though the blocked read loop never surfaces an error.
func (c *ChangeConsumer) watchLiveness(ctx context.Context) {
	ticker := time.NewTicker(c.probeInterval)
	defer ticker.Stop()

	for {
		if err := c.probe(ctx); err != nil {
			c.mirror.SetConnected(false)
			c.log.Warn("change subscription broker unreachable", logger.Error(err))
		} else {
			c.mirror.SetConnected(true)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// handleValue decodes and applies one raw event payload.
func (c *ChangeConsumer) handleValue(value []byte) {
	ev, err := c.codec.Decode(value)
	if err != nil {
		// Dropped silently from the user's point of view.
		c.log.Warn("dropping malformed change event", logger.Error(err))
		if c.metrics != nil {
			c.metrics.ChangesDropped.Inc()
		}
		return
	}
	c.mirror.Apply(ev)
}

func (c *ChangeConsumer) Close() {
	_ = c.reader.Close()
}
