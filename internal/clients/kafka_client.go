package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/feedbackflow/internal/models"
)

const (
	DefaultBatchEventsTopic = "feedback-analysis-results"
	DefaultMessageTimeout   = 10 * time.Second
)

type KafkaConfig struct {
	Broker string
	Topic  string
	// MessageTimeout bounds how long librdkafka keeps retrying a delivery.
	MessageTimeout time.Duration
}

// KafkaPublisher emits one BatchEvent per analyzed batch, keyed by user id so
// a user's events stay ordered within a partition.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker))

	topic := cfg.Topic
	if topic == "" {
		topic = DefaultBatchEventsTopic
	}

	timeout := cfg.MessageTimeout
	if timeout <= 0 {
		timeout = DefaultMessageTimeout
	}

	p, err := kafka.NewProducer(producerConfig(cfg.Broker, timeout))
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully",
		slog.String("topic", topic))
	return &KafkaPublisher{producer: p, topic: topic}, nil
}

func producerConfig(broker string, messageTimeout time.Duration) *kafka.ConfigMap {
	return &kafka.ConfigMap{
		"bootstrap.servers":   broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"enable.idempotence":  true,
		"acks":                "all",
		"message.timeout.ms":  int(messageTimeout.Milliseconds()),
	}
}

func batchEventMessage(topic string, event models.BatchEvent) (*kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] failed to marshal batch event: %w", err)
	}

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.UserID),
		Value:          payload,
	}, nil
}

// PublishBatchEvent produces the event and waits for its delivery report.
func (kp *KafkaPublisher) PublishBatchEvent(ctx context.Context, event models.BatchEvent) error {
	msg, err := batchEventMessage(kp.topic, event)
	if err != nil {
		return err
	}

	delivery := make(chan kafka.Event, 1)
	if err := kp.producer.Produce(msg, delivery); err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce batch event: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-delivery:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("[KafkaClient] unexpected delivery event: %v", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("[KafkaClient] batch event delivery failed: %w", m.TopicPartition.Error)
		}
	}

	slog.Info("[KafkaClient] Published batch event",
		slog.String("topic", kp.topic),
		slog.String("user_id", event.UserID),
		slog.Int("succeeded", event.Succeeded))
	return nil
}

func (kp *KafkaPublisher) Close() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if remaining := kp.producer.Flush(5000); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	kp.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishBatchEvent(ctx context.Context, event models.BatchEvent) error {
	slog.Debug("[KafkaClient] No broker configured, skipping batch event",
		slog.String("user_id", event.UserID))
	return nil
}

func (NoopPublisher) Close() {}
