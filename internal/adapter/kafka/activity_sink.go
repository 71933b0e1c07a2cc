package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/config"
	"github.com/YelzhanWeb/storefront/internal/domain"

	"github.com/IBM/sarama"
)

// ActivitySink streams activity entries to a Kafka topic, keyed by type so
// that entries of one kind keep their order.
type ActivitySink struct {
	producer sarama.SyncProducer
	topic    string
	logger   logger.Logger
}

func NewProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Timeout = 5 * time.Second
	return cfg
}

func NewActivitySink(cfg config.KafkaConfig, logger logger.Logger) (*ActivitySink, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to start Sarama producer: %w", err)
	}

	logger.Info("kafka_connected", "Kafka producer connected", "", map[string]interface{}{
		"brokers": cfg.Brokers,
		"topic":   cfg.Topic,
	})

	return NewActivitySinkWithProducer(producer, cfg.Topic, logger), nil
}

func NewActivitySinkWithProducer(producer sarama.SyncProducer, topic string, logger logger.Logger) *ActivitySink {
	return &ActivitySink{producer: producer, topic: topic, logger: logger}
}

func (s *ActivitySink) Publish(ctx context.Context, entry domain.Activity) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     s.topic,
		Key:       sarama.StringEncoder(entry.Type),
		Value:     sarama.ByteEncoder(body),
		Timestamp: entry.Timestamp,
	}

	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send activity to %s: %w", s.topic, err)
	}

	s.logger.Debug("activity_streamed", "Activity sent to Kafka", "", map[string]interface{}{
		"partition": partition,
		"offset":    offset,
	})
	return nil
}

func (s *ActivitySink) Close() error {
	return s.producer.Close()
}
