package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating transaction operations
// across multiple repositories to maintain data consistency
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// Do runs fn inside one transaction. Returning an error from fn rolls everything back.
	// The whole unit is re-run on transient lock errors.
	Do(ctx context.Context, fn func(txCtx context.Context) error) error

	// Users returns a user repository bound to the current transaction, if any
	Users(ctx context.Context) UserRepository

	// Wallets returns a wallet repository bound to the current transaction, if any
	Wallets(ctx context.Context) WalletRepository

	// Transactions returns a transaction repository bound to the current transaction, if any
	Transactions(ctx context.Context) TransactionRepository

	// Ledger returns a ledger repository bound to the current transaction, if any
	Ledger(ctx context.Context) LedgerRepository
}
