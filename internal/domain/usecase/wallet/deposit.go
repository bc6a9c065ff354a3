package wallet

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/messaging"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
)

// DepositConfirmedNote is returned when the gateway reports a paid checkout that
// the webhook has not credited yet
const DepositConfirmedNote = "Payment confirmed. Wallet will be credited shortly via webhook."

// InitiateDeposit records a pending deposit, then opens a checkout at the gateway.
// No balance changes until the gateway confirms the payment.
func (s *Service) InitiateDeposit(ctx context.Context, userID string, amount int64) (checkout *usecase.DepositCheckout, err error) {
	defer func() { s.record(OpDeposit, err) }()

	if err := s.validator.ValidateUser(userID); err != nil {
		return nil, err
	}
	if err := entity.ValidatePositiveAmount(amount); err != nil {
		return nil, err
	}

	user, err := s.uow.Users(ctx).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	wallet, err := s.walletOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	reference := s.newID()
	txn, err := entity.NewTransaction(s.newID(), wallet.ID, reference, entity.TypeDeposit, entity.StatusPending, amount, nil, s.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := s.uow.Transactions(ctx).Create(ctx, txn); err != nil {
		return nil, err
	}

	gwCtx, cancel := s.gatewayContext(ctx)
	start := s.timeProvider.Now()
	result, gwErr := s.gateway.InitializeDeposit(gwCtx, user.Email, amount, reference)
	cancel()
	s.observeGateway("initialize_deposit", start, gwErr)

	if gwErr != nil {
		if failErr := s.failPending(context.WithoutCancel(ctx), reference, entity.TypeDeposit,
			entity.Metadata{entity.MetaFailureReason: gwErr.Error()}); failErr != nil {
			s.logger.Error("Failed to mark deposit as failed after gateway error", map[string]any{
				"reference": reference,
				"error":     failErr.Error(),
			})
		}
		providerErr := errs.NewProviderError("initialize_deposit", reference, amount, false,
			fmt.Errorf("%w: %v", errs.ErrProviderInitialization, gwErr))
		s.logger.Error("Deposit initialization failed", providerErr.(*errs.ProviderError).LogFields())
		return nil, providerErr
	}

	if err := s.storeCheckout(ctx, reference, result); err != nil {
		// The checkout is already open; the webhook still finds the row by reference
		s.logger.Warn("Failed to store checkout details", map[string]any{
			"reference": reference,
			"error":     err.Error(),
		})
	}

	s.logger.Info("Deposit initiated", map[string]any{
		"reference": reference,
		"wallet_id": wallet.ID,
		"amount":    amount,
		"formatted": entity.FormatMinorUnits(amount),
	})

	return &usecase.DepositCheckout{
		AuthorizationURL: result.AuthorizationURL,
		Reference:        reference,
	}, nil
}

// ConfirmDeposit credits a pending deposit once. Redelivered confirmations
// are reported as already processed without touching the balance.
func (s *Service) ConfirmDeposit(ctx context.Context, reference string, amountPaid int64) (*usecase.Confirmation, error) {
	var (
		confirmation *usecase.Confirmation
		mismatch     error
	)

	err := s.uow.Do(ctx, func(txCtx context.Context) error {
		confirmation, mismatch = nil, nil

		txns := s.uow.Transactions(txCtx)
		txn, err := txns.LockByReference(txCtx, reference)
		if err != nil {
			return err
		}
		if txn.Type != entity.TypeDeposit {
			return fmt.Errorf("%w: %s is a %s", errs.ErrReferenceTypeMismatch, reference, txn.Type)
		}
		if txn.Status.IsTerminal() {
			confirmation = &usecase.Confirmation{Outcome: usecase.OutcomeAlreadyProcessed, Transaction: txn}
			return nil
		}

		paid := entity.Metadata{entity.MetaAmountPaid: strconv.FormatInt(amountPaid, 10)}

		if amountPaid != txn.Amount {
			// The failed status is committed; the error is returned afterwards
			if err := txn.MarkFailed(paid.Merge(entity.Metadata{entity.MetaFailureReason: "amount mismatch"}), s.timeProvider); err != nil {
				return err
			}
			if err := txns.UpdateStatus(txCtx, txn); err != nil {
				return err
			}
			mismatch = fmt.Errorf("%w: expected %d, paid %d", errs.ErrAmountMismatch, txn.Amount, amountPaid)
			return nil
		}

		wallet, err := s.uow.Wallets(txCtx).LockByID(txCtx, txn.WalletID)
		if err != nil {
			return err
		}
		if err := wallet.Credit(txn.Amount, s.timeProvider); err != nil {
			return err
		}
		if err := s.uow.Wallets(txCtx).SaveBalance(txCtx, wallet); err != nil {
			return err
		}
		if err := s.uow.Ledger(txCtx).Append(txCtx,
			entity.NewLedgerEntry(s.newID(), wallet.ID, txn.ID, txn.Amount, s.timeProvider)); err != nil {
			return err
		}
		if err := txn.Annotate(paid, s.timeProvider); err != nil {
			return err
		}
		if err := txn.MarkSucceeded(s.timeProvider); err != nil {
			return err
		}
		if err := txns.UpdateStatus(txCtx, txn); err != nil {
			return err
		}

		confirmation = &usecase.Confirmation{Outcome: usecase.OutcomeApplied, Transaction: txn}
		return nil
	})

	switch {
	case err != nil:
		s.record(OpConfirmDeposit, err)
		return nil, err
	case mismatch != nil:
		s.logger.Warn("Deposit amount mismatch, marked as failed", map[string]any{
			"reference":   reference,
			"amount_paid": amountPaid,
		})
		s.record(OpConfirmDeposit, mismatch)
		return nil, mismatch
	case confirmation.Outcome == usecase.OutcomeAlreadyProcessed:
		s.metrics.RecordOperation(OpConfirmDeposit, ResultIgnored)
		return confirmation, nil
	}

	s.record(OpConfirmDeposit, nil)
	s.publish(ctx, messaging.EventDepositConfirmed, confirmation.Transaction)
	s.logger.Info("Deposit credited", map[string]any{
		"reference": reference,
		"wallet_id": confirmation.Transaction.WalletID,
		"amount":    confirmation.Transaction.Amount,
		"formatted": entity.FormatMinorUnits(confirmation.Transaction.Amount),
	})
	return confirmation, nil
}

// DepositStatus returns the stored state of a deposit, first reconciling a
// pending one against the gateway. A paid checkout is not credited here.
func (s *Service) DepositStatus(ctx context.Context, userID, reference string) (status *usecase.DepositStatus, err error) {
	defer func() { s.record(OpDepositStatus, err) }()

	wallet, err := s.walletOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	txn, err := s.uow.Transactions(ctx).GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if txn.WalletID != wallet.ID {
		return nil, errs.ErrTransactionAccessDenied
	}
	if txn.Type != entity.TypeDeposit {
		return nil, fmt.Errorf("%w: %s is a %s", errs.ErrReferenceTypeMismatch, reference, txn.Type)
	}

	status = &usecase.DepositStatus{Reference: txn.Reference, Status: txn.Status, Amount: txn.Amount}
	if txn.Status != entity.StatusPending {
		return status, nil
	}

	gwCtx, cancel := s.gatewayContext(ctx)
	start := s.timeProvider.Now()
	verification, gwErr := s.gateway.VerifyDeposit(gwCtx, reference)
	cancel()
	s.observeGateway("verify_deposit", start, gwErr)

	if gwErr != nil {
		s.logger.Warn("Deposit verification failed, returning stored state", map[string]any{
			"reference": reference,
			"error":     gwErr.Error(),
		})
		return status, nil
	}

	switch {
	case verification.Status == gateway.DepositStatusSuccess:
		status.Status = entity.StatusSuccess
		status.Note = DepositConfirmedNote
	case isFailedDepositStatus(verification.Status):
		err := s.failPending(ctx, reference, entity.TypeDeposit, entity.Metadata{
			entity.MetaGatewayStatus: verification.Status,
		})
		switch {
		case err == nil:
			status.Status = entity.StatusFailed
		case errors.Is(err, errs.ErrInvalidStatusTransition):
			// A webhook settled it meanwhile; report what is stored now
			if current, getErr := s.uow.Transactions(ctx).GetByReference(ctx, reference); getErr == nil {
				status.Status = current.Status
			}
		default:
			return nil, err
		}
	}

	return status, nil
}

// storeCheckout records the checkout codes on a deposit that is still pending.
// A confirmation that arrived during the gateway call is left untouched.
func (s *Service) storeCheckout(ctx context.Context, reference string, result *gateway.DepositCheckout) error {
	return s.uow.Do(ctx, func(txCtx context.Context) error {
		txns := s.uow.Transactions(txCtx)
		txn, err := txns.LockByReference(txCtx, reference)
		if err != nil {
			return err
		}
		if txn.Status.IsTerminal() {
			return nil
		}
		if err := txn.Annotate(entity.Metadata{
			entity.MetaAuthorizationURL: result.AuthorizationURL,
			entity.MetaAccessCode:       result.AccessCode,
		}, s.timeProvider); err != nil {
			return err
		}
		return txns.UpdateStatus(txCtx, txn)
	})
}

// failPending marks a pending transaction failed under its row lock. Balances are not touched.
func (s *Service) failPending(ctx context.Context, reference string, txType entity.TransactionType, extra entity.Metadata) error {
	return s.uow.Do(ctx, func(txCtx context.Context) error {
		txns := s.uow.Transactions(txCtx)
		txn, err := txns.LockByReference(txCtx, reference)
		if err != nil {
			return err
		}
		if txn.Type != txType {
			return fmt.Errorf("%w: %s is a %s", errs.ErrReferenceTypeMismatch, reference, txn.Type)
		}
		if err := txn.MarkFailed(extra, s.timeProvider); err != nil {
			return err
		}
		return txns.UpdateStatus(txCtx, txn)
	})
}

func isFailedDepositStatus(status string) bool {
	for _, failed := range gateway.FailedDepositStatuses {
		if status == failed {
			return true
		}
	}
	return false
}
