// Package messaging publishes committed transaction events.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/messaging"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig contains producer settings
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// KafkaPublisher writes events keyed by wallet, so one wallet's events keep their order
type KafkaPublisher struct {
	writer messageWriter
	logger coreport.Logger
}

var _ messaging.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a publisher with a synchronous writer
func NewKafkaPublisher(config KafkaConfig, logger coreport.Logger) *KafkaPublisher {
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: config.WriteTimeout,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Debug(fmt.Sprintf(msg, args...), nil)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Warn(fmt.Sprintf(msg, args...), nil)
		}),
	}

	logger.Info("Kafka publisher initialized", map[string]any{
		"brokers": config.Brokers,
		"topic":   config.Topic,
	})
	return newKafkaPublisher(writer, logger)
}

func newKafkaPublisher(writer messageWriter, logger coreport.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: logger}
}

// Publish writes one event
func (p *KafkaPublisher) Publish(ctx context.Context, event messaging.TransactionEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Name, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.WalletID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event.Name)},
		},
	})
	if err != nil {
		p.logger.Warn("Failed to publish transaction event", map[string]any{
			"event":     event.Name,
			"reference": event.Reference,
			"error":     err.Error(),
		})
		return fmt.Errorf("publish %s event: %w", event.Name, err)
	}
	return nil
}

// Close flushes pending writes
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
