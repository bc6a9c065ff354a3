package usecase

import (
	"context"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
)

// DepositCheckout is returned when a deposit is initiated
type DepositCheckout struct {
	AuthorizationURL string
	Reference        string
}

// ConfirmationOutcome tells a gateway-driven caller whether state changed
type ConfirmationOutcome string

const (
	OutcomeApplied          ConfirmationOutcome = "applied"
	OutcomeAlreadyProcessed ConfirmationOutcome = "already_processed"
)

// Confirmation is the result of applying a gateway event to a transaction
type Confirmation struct {
	Outcome     ConfirmationOutcome
	Transaction *entity.Transaction
}

// DepositStatus is the reconciled view of a deposit
type DepositStatus struct {
	Reference string
	Status    entity.TransactionStatus
	Amount    int64
	Note      string
}

// TransactionPage is a slice of history with the window that was applied
type TransactionPage struct {
	Transactions []*entity.Transaction
	Skip         int
	Limit        int
}

// TransferCommand moves funds between two wallets
type TransferCommand struct {
	UserID                string
	RecipientWalletNumber string
	Amount                int64
	PIN                   string
	IdempotencyKey        string
}

// WithdrawCommand pays funds out to a bank account
type WithdrawCommand struct {
	UserID         string
	Amount         int64
	AccountNumber  string
	BankCode       string
	AccountName    string
	PIN            string
	IdempotencyKey string
}

// MovementResult is returned by transfer and withdraw
type MovementResult struct {
	Outcome  entity.OperationOutcome
	Replayed bool
}

// Balance is a wallet balance view
type Balance struct {
	Balance  int64
	Currency string
}

// WalletUseCase defines the money-movement operations of the ledger
type WalletUseCase interface {
	// InitiateDeposit records a pending deposit and opens a gateway checkout
	InitiateDeposit(ctx context.Context, userID string, amount int64) (*DepositCheckout, error)

	// ConfirmDeposit credits a pending deposit at most once per reference
	ConfirmDeposit(ctx context.Context, reference string, amountPaid int64) (*Confirmation, error)

	// DepositStatus reconciles a pending deposit against the gateway
	DepositStatus(ctx context.Context, userID, reference string) (*DepositStatus, error)

	// Transfer moves funds atomically between two wallets
	Transfer(ctx context.Context, cmd TransferCommand) (*MovementResult, error)

	// Withdraw debits the wallet and initiates a payout, compensating on failure
	Withdraw(ctx context.Context, cmd WithdrawCommand) (*MovementResult, error)

	// SettleWithdrawal marks a pending payout as delivered
	SettleWithdrawal(ctx context.Context, reference string) (*Confirmation, error)

	// ReverseWithdrawal refunds a pending payout the gateway failed or reversed
	ReverseWithdrawal(ctx context.Context, reference, reason string) (*Confirmation, error)

	// GetBalance returns the wallet balance of a user
	GetBalance(ctx context.Context, userID string) (*Balance, error)

	// ListTransactions returns a page of the user's transactions, newest first
	ListTransactions(ctx context.Context, userID string, skip, limit int) (*TransactionPage, error)

	// AuditWallet compares the cached balance with the ledger sum
	AuditWallet(ctx context.Context, userID string) (*entity.LedgerAudit, error)
}
