package dto

import "time"

// BalanceResponse is the wallet balance in minor units
type BalanceResponse struct {
	Balance   int64  `json:"balance"`
	Formatted string `json:"formatted"`
	Currency  string `json:"currency"`
}

// AuditResponse compares the cached balance with the ledger
type AuditResponse struct {
	WalletID      string    `json:"wallet_id"`
	CachedBalance int64     `json:"cached_balance"`
	LedgerBalance int64     `json:"ledger_balance"`
	EntryCount    int64     `json:"entry_count"`
	Consistent    bool      `json:"consistent"`
	CheckedAt     time.Time `json:"checked_at"`
}
