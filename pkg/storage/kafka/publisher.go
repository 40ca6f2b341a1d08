package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"schwabstream/config"
	"schwabstream/pkg/schwab/stream"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ActivityEvent is the message value published for each account activity.
type ActivityEvent struct {
	Account    string          `json:"account"`
	Type       string          `json:"type"`
	Kind       string          `json:"kind"`
	ReceivedAt time.Time       `json:"receivedAt"`
	Payload    json.RawMessage `json:"payload"`
}

// ActivityPublisher publishes account activity keyed by account number, so one
// account's events stay ordered within a partition.
type ActivityPublisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

func NewActivityPublisher(cfg config.KafkaConfig, logger *zap.Logger) *ActivityPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		WriteBackoffMin:        100 * time.Millisecond,
		WriteBackoffMax:        time.Second,
	}
	return newActivityPublisher(writer, cfg.Topic, logger)
}

func newActivityPublisher(w messageWriter, topic string, logger *zap.Logger) *ActivityPublisher {
	return &ActivityPublisher{
		writer: w,
		topic:  topic,
		logger: logger.With(zap.String("component", "kafka_publisher"), zap.String("topic", topic)),
	}
}

// SaveActivity publishes one activity.
func (p *ActivityPublisher) SaveActivity(ctx context.Context, receivedAt time.Time, a stream.Activity) error {
	msg, err := toMessage(receivedAt, a)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to send Kafka message", zap.String("account", a.Account), zap.Error(err))
		return fmt.Errorf("kafka write failed: %w", err)
	}

	p.logger.Debug("Kafka message sent", zap.String("account", a.Account), zap.String("type", a.Type))
	return nil
}

func toMessage(receivedAt time.Time, a stream.Activity) (kafka.Message, error) {
	kind := stream.ActivityUnknown
	if a.Payload != nil {
		kind = a.Payload.Kind()
	}

	payload := json.RawMessage(a.Raw)
	if !json.Valid(payload) {
		quoted, err := json.Marshal(a.Raw)
		if err != nil {
			return kafka.Message{}, err
		}
		payload = quoted
	}

	value, err := json.Marshal(ActivityEvent{
		Account:    a.Account,
		Type:       a.Type,
		Kind:       kind.String(),
		ReceivedAt: receivedAt.UTC(),
		Payload:    payload,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal message: %w", err)
	}

	return kafka.Message{
		Key:   []byte(a.Account),
		Value: value,
		Time:  receivedAt,
	}, nil
}

func (p *ActivityPublisher) Close() error {
	return p.writer.Close()
}
