package messaging

import (
	"context"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/messaging"
)

// NoopPublisher drops every event. It is used when kafka is disabled.
type NoopPublisher struct{}

var _ messaging.EventPublisher = NoopPublisher{}

// NewNoopPublisher creates a new NoopPublisher
func NewNoopPublisher() NoopPublisher {
	return NoopPublisher{}
}

// Publish implements EventPublisher
func (NoopPublisher) Publish(context.Context, messaging.TransactionEvent) error { return nil }

// Close implements EventPublisher
func (NoopPublisher) Close() error { return nil }
