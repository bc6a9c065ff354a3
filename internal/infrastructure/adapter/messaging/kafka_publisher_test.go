package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/messaging"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher(t *testing.T) {
	event := messaging.TransactionEvent{
		Name:       messaging.EventTransferCompleted,
		Reference:  "ref-1",
		WalletID:   "wallet-1",
		Type:       "transfer",
		Status:     "success",
		Amount:     -2500,
		OccurredAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	t.Run("Writes keyed JSON", func(t *testing.T) {
		writer := &fakeWriter{}
		publisher := newKafkaPublisher(writer, logger.NewNoopLogger())

		require.NoError(t, publisher.Publish(context.Background(), event))

		require.Len(t, writer.messages, 1)
		msg := writer.messages[0]
		assert.Equal(t, []byte("wallet-1"), msg.Key)
		assert.Equal(t, event.OccurredAt, msg.Time)
		assert.Equal(t, []kafka.Header{{Key: "event", Value: []byte(messaging.EventTransferCompleted)}}, msg.Headers)

		var decoded messaging.TransactionEvent
		require.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, event, decoded)
	})

	t.Run("Surfaces write errors", func(t *testing.T) {
		writer := &fakeWriter{err: errors.New("broker down")}
		publisher := newKafkaPublisher(writer, logger.NewNoopLogger())

		err := publisher.Publish(context.Background(), event)

		assert.ErrorContains(t, err, "broker down")
		assert.ErrorContains(t, err, messaging.EventTransferCompleted)
	})

	t.Run("Close closes the writer", func(t *testing.T) {
		writer := &fakeWriter{}
		require.NoError(t, newKafkaPublisher(writer, logger.NewNoopLogger()).Close())
		assert.True(t, writer.closed)
	})
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher()
	assert.NoError(t, p.Publish(context.Background(), messaging.TransactionEvent{Name: "x"}))
	assert.NoError(t, p.Close())
}
