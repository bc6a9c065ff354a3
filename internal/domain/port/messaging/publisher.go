package messaging

import (
	"context"
	"time"
)

// Transaction event names
const (
	EventDepositConfirmed    = "deposit.confirmed"
	EventTransferCompleted   = "transfer.completed"
	EventWithdrawalInitiated = "withdrawal.initiated"
	EventWithdrawalSettled   = "withdrawal.settled"
	EventWithdrawalReversed  = "withdrawal.reversed"
)

// TransactionEvent is published after a ledger change is committed
type TransactionEvent struct {
	Name       string    `json:"event"`
	Reference  string    `json:"reference"`
	WalletID   string    `json:"wallet_id"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	Amount     int64     `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher delivers transaction events. Delivery is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, event TransactionEvent) error
	Close() error
}
