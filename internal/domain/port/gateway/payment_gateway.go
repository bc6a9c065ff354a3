package gateway

import (
	"context"
)

// DepositCheckout is the gateway's answer to a deposit initialization
type DepositCheckout struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// DepositVerification is the gateway's view of a deposit
type DepositVerification struct {
	Reference string
	Status    string
	Amount    int64
}

// Gateway deposit statuses that end a pending deposit as failed
var FailedDepositStatuses = []string{"failed", "reversed", "abandoned"}

// Gateway deposit status reported for paid checkouts
const DepositStatusSuccess = "success"

// PayoutRecipient is a registered bank destination
type PayoutRecipient struct {
	RecipientCode string
}

// PayoutResult tells whether the gateway accepted a payout
type PayoutResult struct {
	Accepted     bool
	TransferCode string
	Status       string
	Message      string
}

// PaymentGateway is the external processor the ledger relies on.
// Every call may time out or fail, and none of them is retried by the ledger.
type PaymentGateway interface {
	// InitializeDeposit opens a checkout for amount under reference
	InitializeDeposit(ctx context.Context, email string, amount int64, reference string) (*DepositCheckout, error)

	// VerifyDeposit asks for the current state of a checkout
	VerifyDeposit(ctx context.Context, reference string) (*DepositVerification, error)

	// RegisterPayoutRecipient registers a bank account for payouts
	RegisterPayoutRecipient(ctx context.Context, name, accountNumber, bankCode string) (*PayoutRecipient, error)

	// InitiatePayout sends amount to a registered recipient
	InitiatePayout(ctx context.Context, amount int64, recipientCode, reference, reason string) (*PayoutResult, error)
}

// Bank is a payout destination bank
type Bank struct {
	Name string
	Code string
	Slug string
}

// ResolvedAccount is the account holder behind an account number
type ResolvedAccount struct {
	AccountNumber string
	AccountName   string
	BankID        int64
}

// BankDirectory lists banks and resolves account numbers
type BankDirectory interface {
	ListBanks(ctx context.Context, country string) ([]Bank, error)
	ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*ResolvedAccount, error)
}
