package dto

import (
	"time"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
)

// TransactionResponse is one entry of the transaction history
type TransactionResponse struct {
	Reference string            `json:"reference"`
	Type      string            `json:"type"`
	Status    string            `json:"status"`
	Amount    int64             `json:"amount"`
	Formatted string            `json:"formatted"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// TransactionListResponse is a page of history
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Skip         int                   `json:"skip"`
	Limit        int                   `json:"limit"`
}

// NewTransactionResponse maps a transaction for the API
func NewTransactionResponse(txn *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		Reference: txn.Reference,
		Type:      string(txn.Type),
		Status:    string(txn.Status),
		Amount:    txn.Amount,
		Formatted: entity.FormatMinorUnits(txn.Amount),
		Metadata:  txn.Metadata,
		CreatedAt: txn.CreatedAt,
	}
}
