package entity

import (
	"time"

	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
)

// LedgerEntry is an append-only signed amount against a wallet.
// A wallet's balance always equals the sum of its entries.
type LedgerEntry struct {
	ID            string
	WalletID      string
	TransactionID string
	Amount        int64
	CreatedAt     time.Time
}

// NewLedgerEntry creates an entry for a committed balance change
func NewLedgerEntry(id, walletID, transactionID string, amount int64, timeProvider coreport.TimeProvider) *LedgerEntry {
	return &LedgerEntry{
		ID:            id,
		WalletID:      walletID,
		TransactionID: transactionID,
		Amount:        amount,
		CreatedAt:     timeProvider.Now(),
	}
}

// LedgerAudit compares the cached balance with the ledger sum
type LedgerAudit struct {
	WalletID      string
	CachedBalance int64
	LedgerBalance int64
	EntryCount    int64
}

// Consistent reports whether the cached balance matches the ledger
func (a LedgerAudit) Consistent() bool {
	return a.CachedBalance == a.LedgerBalance
}
