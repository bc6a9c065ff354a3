package persistence

import (
	"context"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
)

// LedgerRepository appends and sums ledger entries. Entries are never updated or deleted.
type LedgerRepository interface {
	// Append stores new entries
	Append(ctx context.Context, entries ...*entity.LedgerEntry) error

	// SumByWallet returns the ledger balance and entry count of a wallet
	SumByWallet(ctx context.Context, walletID string) (sum int64, count int64, err error)

	// SumByTransactions returns the total of all entries linked to the given transactions
	SumByTransactions(ctx context.Context, transactionIDs ...string) (int64, error)
}
