package wallet

import (
	"context"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
)

// GetBalance returns the cached balance of the user's wallet
func (s *Service) GetBalance(ctx context.Context, userID string) (*usecase.Balance, error) {
	if err := s.validator.ValidateUser(userID); err != nil {
		return nil, err
	}

	wallet, err := s.walletOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &usecase.Balance{
		Balance:  wallet.Balance(),
		Currency: wallet.Currency,
	}, nil
}

// ListTransactions returns a page of the user's transactions, newest first
func (s *Service) ListTransactions(ctx context.Context, userID string, skip, limit int) (*usecase.TransactionPage, error) {
	if err := s.validator.ValidateUser(userID); err != nil {
		return nil, err
	}
	skip, limit, err := s.validator.NormalizePage(skip, limit)
	if err != nil {
		return nil, err
	}

	wallet, err := s.walletOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	txns, err := s.uow.Transactions(ctx).ListByWallet(ctx, wallet.ID, skip, limit)
	if err != nil {
		return nil, err
	}
	return &usecase.TransactionPage{Transactions: txns, Skip: skip, Limit: limit}, nil
}

// AuditWallet compares the cached balance with the ledger sum.
// The wallet row stays locked so no movement lands between the two reads.
func (s *Service) AuditWallet(ctx context.Context, userID string) (*entity.LedgerAudit, error) {
	if err := s.validator.ValidateUser(userID); err != nil {
		return nil, err
	}

	var audit *entity.LedgerAudit
	err := s.uow.Do(ctx, func(txCtx context.Context) error {
		owned, err := s.uow.Wallets(txCtx).GetByUserID(txCtx, userID)
		if err != nil {
			return err
		}
		wallet, err := s.uow.Wallets(txCtx).LockByID(txCtx, owned.ID)
		if err != nil {
			return err
		}
		sum, count, err := s.uow.Ledger(txCtx).SumByWallet(txCtx, wallet.ID)
		if err != nil {
			return err
		}
		audit = &entity.LedgerAudit{
			WalletID:      wallet.ID,
			CachedBalance: wallet.Balance(),
			LedgerBalance: sum,
			EntryCount:    count,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !audit.Consistent() {
		s.logger.Error("Wallet balance diverged from ledger", map[string]any{
			"wallet_id":      audit.WalletID,
			"cached_balance": audit.CachedBalance,
			"ledger_balance": audit.LedgerBalance,
			"alert":          "manual_reconciliation_required",
		})
	}
	return audit, nil
}
