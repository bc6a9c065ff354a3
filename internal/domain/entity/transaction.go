package entity

import (
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	tport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
)

// TransactionType is the kind of money movement
type TransactionType string

// Transaction types
const (
	TypeDeposit    TransactionType = "deposit"
	TypeTransfer   TransactionType = "transfer"
	TypeWithdrawal TransactionType = "withdrawal"
)

// TransactionStatus defines possible status values for a transaction
type TransactionStatus string

// TransactionStatus constants
const (
	StatusPending TransactionStatus = "pending"
	StatusSuccess TransactionStatus = "success"
	StatusFailed  TransactionStatus = "failed"
)

// IsTerminal reports whether no further transition is allowed
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// IsValidTransactionType checks if the type is one of the allowed values
func IsValidTransactionType(t TransactionType) bool {
	switch t {
	case TypeDeposit, TypeTransfer, TypeWithdrawal:
		return true
	}
	return false
}

// IsValidTransactionStatus checks if the status is one of the allowed values
func IsValidTransactionStatus(s TransactionStatus) bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed:
		return true
	}
	return false
}

// Transaction records one money-movement attempt against a wallet.
// Only Status, Metadata and UpdatedAt change after creation.
type Transaction struct {
	ID        string            // Unique identifier for the transaction
	WalletID  string            // Owning wallet
	Reference string            // Globally unique idempotency key
	Type      TransactionType   // deposit, transfer or withdrawal
	Status    TransactionStatus // pending, success or failed
	Amount    int64             // Positive credits the wallet, negative debits it
	Metadata  Metadata          // Type-specific context
	CreatedAt time.Time         // When the transaction was created
	UpdatedAt time.Time         // When the status last changed
}

// NewTransaction creates a new transaction with basic validation
func NewTransaction(
	id string,
	walletID string,
	reference string,
	txType TransactionType,
	status TransactionStatus,
	amount int64,
	metadata Metadata,
	timeProvider tport.TimeProvider,
) (*Transaction, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: reference cannot be empty", errs.ErrInvalidRequest)
	}
	if !IsValidTransactionType(txType) {
		return nil, fmt.Errorf("%w: unknown transaction type %q", errs.ErrInvalidRequest, txType)
	}
	if !IsValidTransactionStatus(status) {
		return nil, fmt.Errorf("%w: unknown transaction status %q", errs.ErrInvalidRequest, status)
	}
	if amount == 0 {
		return nil, errs.ErrInvalidAmount
	}
	if metadata == nil {
		metadata = Metadata{}
	}
	if err := metadata.Validate(txType); err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &Transaction{
		ID:        id,
		WalletID:  walletID,
		Reference: reference,
		Type:      txType,
		Status:    status,
		Amount:    amount,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AbsAmount returns the magnitude of the amount
func (t *Transaction) AbsAmount() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// MarkSucceeded moves a pending transaction to success
func (t *Transaction) MarkSucceeded(timeProvider tport.TimeProvider) error {
	return t.transition(StatusSuccess, nil, timeProvider)
}

// MarkFailed moves a pending transaction to failed and merges extra context into the metadata
func (t *Transaction) MarkFailed(extra Metadata, timeProvider tport.TimeProvider) error {
	return t.transition(StatusFailed, extra, timeProvider)
}

// Annotate merges metadata without changing status
func (t *Transaction) Annotate(extra Metadata, timeProvider tport.TimeProvider) error {
	merged := t.Metadata.Merge(extra)
	if err := merged.Validate(t.Type); err != nil {
		return err
	}
	t.Metadata = merged
	t.UpdatedAt = timeProvider.Now()
	return nil
}

func (t *Transaction) transition(next TransactionStatus, extra Metadata, timeProvider tport.TimeProvider) error {
	if t.Status != StatusPending {
		return fmt.Errorf("%w: %s -> %s for %s", errs.ErrInvalidStatusTransition, t.Status, next, t.Reference)
	}
	merged := t.Metadata.Merge(extra)
	if err := merged.Validate(t.Type); err != nil {
		return err
	}
	t.Metadata = merged
	t.Status = next
	t.UpdatedAt = timeProvider.Now()
	return nil
}

// CreditReference derives the reference of the credit leg of a transfer
func CreditReference(reference string) string {
	return reference + "-credit"
}

// WithdrawalReferencePrefix prefixes all payout references
const WithdrawalReferencePrefix = "wth-"
