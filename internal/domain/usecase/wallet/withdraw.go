package wallet

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/messaging"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
)

// Withdrawal failure steps
const (
	StepRegisterRecipient = "register_recipient"
	StepInitiatePayout    = "initiate_payout"
	StepGatewayReversal   = "gateway_reversal"
	StepSettleAfterRefund = "settle_after_refund"
)

// WithdrawalProcessingMessage is returned once the gateway accepted a payout
const WithdrawalProcessingMessage = "Withdrawal processing"

// Withdraw holds the amount, then pays it out through the gateway.
// A failed gateway step credits the hold back before the error is returned.
func (s *Service) Withdraw(ctx context.Context, cmd usecase.WithdrawCommand) (result *usecase.MovementResult, err error) {
	defer func() {
		if result != nil && result.Replayed {
			s.metrics.RecordOperation(OpWithdraw, ResultReplayed)
			return
		}
		s.record(OpWithdraw, err)
	}()

	if err := s.validator.ValidateWithdraw(cmd); err != nil {
		return nil, err
	}

	run := func(ctx context.Context) (*entity.OperationOutcome, error) {
		return s.withdraw(ctx, cmd)
	}
	if cmd.IdempotencyKey == "" {
		outcome, err := run(ctx)
		if err != nil {
			return nil, err
		}
		return &usecase.MovementResult{Outcome: *outcome}, nil
	}

	outcome, replayed, err := s.guard.Execute(ctx,
		ScopeKey(cmd.UserID, OpWithdraw, cmd.IdempotencyKey),
		Fingerprint(strconv.FormatInt(cmd.Amount, 10), cmd.BankCode, cmd.AccountNumber, cmd.AccountName),
		run,
	)
	if err != nil {
		return nil, err
	}
	return &usecase.MovementResult{Outcome: *outcome, Replayed: replayed}, nil
}

func (s *Service) withdraw(ctx context.Context, cmd usecase.WithdrawCommand) (*entity.OperationOutcome, error) {
	if err := s.verifyPIN(ctx, cmd.UserID, cmd.PIN); err != nil {
		return nil, err
	}

	wallet, err := s.walletOf(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if !wallet.CanDebit(cmd.Amount) {
		return nil, errs.ErrInsufficientFunds
	}

	reference := entity.WithdrawalReferencePrefix + s.newID()

	// Step 1: hold the funds and record the pending payout
	err = s.uow.Do(ctx, func(txCtx context.Context) error {
		locked, err := s.uow.Wallets(txCtx).LockByID(txCtx, wallet.ID)
		if err != nil {
			return err
		}
		if err := locked.Debit(cmd.Amount, s.timeProvider); err != nil {
			return err
		}
		if err := s.uow.Wallets(txCtx).SaveBalance(txCtx, locked); err != nil {
			return err
		}

		txn, err := entity.NewTransaction(s.newID(), locked.ID, reference, entity.TypeWithdrawal, entity.StatusPending,
			-cmd.Amount, entity.WithdrawalMetadata(cmd.BankCode, cmd.AccountNumber, cmd.AccountName), s.timeProvider)
		if err != nil {
			return err
		}
		if err := s.uow.Transactions(txCtx).Create(txCtx, txn); err != nil {
			return err
		}
		return s.uow.Ledger(txCtx).Append(txCtx,
			entity.NewLedgerEntry(s.newID(), locked.ID, txn.ID, -cmd.Amount, s.timeProvider))
	})
	if err != nil {
		return nil, err
	}

	// Step 2: register the destination account
	gwCtx, cancel := s.gatewayContext(ctx)
	start := s.timeProvider.Now()
	recipient, gwErr := s.gateway.RegisterPayoutRecipient(gwCtx, cmd.AccountName, cmd.AccountNumber, cmd.BankCode)
	cancel()
	if gwErr == nil && (recipient == nil || recipient.RecipientCode == "") {
		gwErr = errors.New("empty recipient code")
	}
	s.observeGateway("register_recipient", start, gwErr)
	if gwErr != nil {
		return nil, s.failWithdrawal(ctx, reference, cmd.Amount, StepRegisterRecipient,
			fmt.Errorf("%w: %v", errs.ErrProviderRegistration, gwErr))
	}

	// Step 3: start the payout under the same reference
	gwCtx, cancel = s.gatewayContext(ctx)
	start = s.timeProvider.Now()
	payout, gwErr := s.gateway.InitiatePayout(gwCtx, cmd.Amount, recipient.RecipientCode, reference, s.config.WithdrawalReason)
	cancel()
	if gwErr == nil && (payout == nil || !payout.Accepted) {
		message := "payout rejected"
		if payout != nil && payout.Message != "" {
			message = payout.Message
		}
		gwErr = errors.New(message)
	}
	s.observeGateway("initiate_payout", start, gwErr)
	if gwErr != nil {
		return nil, s.failWithdrawal(ctx, reference, cmd.Amount, StepInitiatePayout,
			fmt.Errorf("%w: %v", errs.ErrProviderTransfer, gwErr))
	}

	// Step 4: keep the gateway codes on the still pending record
	var txn *entity.Transaction
	err = s.uow.Do(context.WithoutCancel(ctx), func(txCtx context.Context) error {
		txns := s.uow.Transactions(txCtx)
		locked, err := txns.LockByReference(txCtx, reference)
		if err != nil {
			return err
		}
		if locked.Status.IsTerminal() {
			// A webhook already settled or reversed it
			return nil
		}
		if err := locked.Annotate(entity.Metadata{
			entity.MetaRecipientCode: recipient.RecipientCode,
			entity.MetaTransferCode:  payout.TransferCode,
			entity.MetaGatewayStatus: payout.Status,
		}, s.timeProvider); err != nil {
			return err
		}
		txn = locked
		return txns.UpdateStatus(txCtx, locked)
	})
	switch {
	case err != nil:
		// The payout is on its way; the webhook settles the record either way
		s.logger.Warn("Failed to store payout codes", map[string]any{
			"reference": reference,
			"error":     err.Error(),
		})
	case txn != nil:
		s.publish(ctx, messaging.EventWithdrawalInitiated, txn)
	}

	s.logger.Info("Withdrawal initiated", map[string]any{
		"reference":     reference,
		"wallet_id":     wallet.ID,
		"amount":        cmd.Amount,
		"formatted":     entity.FormatMinorUnits(cmd.Amount),
		"transfer_code": payout.TransferCode,
	})

	return &entity.OperationOutcome{
		Status:    entity.StatusSuccess,
		Reference: reference,
		Message:   WithdrawalProcessingMessage,
	}, nil
}

// failWithdrawal compensates a held withdrawal after a gateway step failed.
// It returns the provider error, or a consistency error when the hold could not be released.
func (s *Service) failWithdrawal(ctx context.Context, reference string, amount int64, step string, cause error) error {
	detached := context.WithoutCancel(ctx)

	if err := s.compensate(detached, reference, entity.FailureMetadata(step, cause.Error())); err != nil {
		s.metrics.RecordCompensation(step, ResultFailed)
		consistencyErr := errs.NewConsistencyError("withdrawal compensation", reference, amount, err)
		fields := consistencyErr.(*errs.ConsistencyError).LogFields()
		fields["step"] = step
		fields["provider_error"] = cause.Error()
		s.logger.Error("Withdrawal compensation failed", fields)
		return consistencyErr
	}

	s.metrics.RecordCompensation(step, ResultSuccess)
	providerErr := errs.NewProviderError(step, reference, amount, true, cause)
	s.logger.Error("Withdrawal failed at provider, funds returned", providerErr.(*errs.ProviderError).LogFields())
	return providerErr
}

// compensate credits a pending withdrawal back exactly once
func (s *Service) compensate(ctx context.Context, reference string, failure entity.Metadata) error {
	return s.uow.Do(ctx, func(txCtx context.Context) error {
		txn, err := s.uow.Transactions(txCtx).LockByReference(txCtx, reference)
		if err != nil {
			return err
		}
		if txn.Status.IsTerminal() {
			// Already refunded by a gateway notification
			return nil
		}
		return s.refund(txCtx, txn, failure)
	})
}

// refund releases the hold of a locked pending withdrawal and marks it failed
func (s *Service) refund(txCtx context.Context, txn *entity.Transaction, failure entity.Metadata) error {
	wallets := s.uow.Wallets(txCtx)
	wallet, err := wallets.LockByID(txCtx, txn.WalletID)
	if err != nil {
		return err
	}
	amount := txn.AbsAmount()
	if err := wallet.Credit(amount, s.timeProvider); err != nil {
		return err
	}
	if err := wallets.SaveBalance(txCtx, wallet); err != nil {
		return err
	}
	if err := s.uow.Ledger(txCtx).Append(txCtx,
		entity.NewLedgerEntry(s.newID(), wallet.ID, txn.ID, amount, s.timeProvider)); err != nil {
		return err
	}
	if err := txn.MarkFailed(failure, s.timeProvider); err != nil {
		return err
	}
	return s.uow.Transactions(txCtx).UpdateStatus(txCtx, txn)
}

// SettleWithdrawal marks a pending payout as delivered. The balance was already debited by the hold.
func (s *Service) SettleWithdrawal(ctx context.Context, reference string) (*usecase.Confirmation, error) {
	confirmation, err := s.applyWithdrawalEvent(ctx, reference, func(txCtx context.Context, txn *entity.Transaction) error {
		if err := txn.MarkSucceeded(s.timeProvider); err != nil {
			return err
		}
		return s.uow.Transactions(txCtx).UpdateStatus(txCtx, txn)
	})
	if err == nil && confirmation.Outcome == usecase.OutcomeAlreadyProcessed &&
		confirmation.Transaction.Status == entity.StatusFailed {
		err = s.reportPaidAfterRefund(confirmation.Transaction)
	}
	return s.finishWithdrawalEvent(ctx, OpSettleWithdrawal, messaging.EventWithdrawalSettled, confirmation, err)
}

// reportPaidAfterRefund raises a payout that the gateway delivered after its hold was credited back.
// The user holds the money twice; only an operator can recover it.
func (s *Service) reportPaidAfterRefund(txn *entity.Transaction) error {
	s.metrics.RecordCompensation(StepSettleAfterRefund, ResultFailed)
	s.logger.Error("Gateway settled a refunded withdrawal", map[string]any{
		"alert":        "manual_reconciliation_required",
		"reference":    txn.Reference,
		"wallet_id":    txn.WalletID,
		"amount":       txn.AbsAmount(),
		"formatted":    entity.FormatMinorUnits(txn.AbsAmount()),
		"failure_step": txn.Metadata[entity.MetaFailureStep],
	})
	return fmt.Errorf("%w: %s", errs.ErrPayoutAfterRefund, txn.Reference)
}

// ReverseWithdrawal refunds a pending payout that the gateway failed or reversed
func (s *Service) ReverseWithdrawal(ctx context.Context, reference, reason string) (*usecase.Confirmation, error) {
	if reason == "" {
		reason = "payout failed at provider"
	}
	confirmation, err := s.applyWithdrawalEvent(ctx, reference, func(txCtx context.Context, txn *entity.Transaction) error {
		return s.refund(txCtx, txn, entity.FailureMetadata(StepGatewayReversal, reason))
	})
	if err == nil && confirmation.Outcome == usecase.OutcomeApplied {
		s.metrics.RecordCompensation(StepGatewayReversal, ResultSuccess)
	}
	return s.finishWithdrawalEvent(ctx, OpReverseWithdraw, messaging.EventWithdrawalReversed, confirmation, err)
}

// applyWithdrawalEvent runs apply on the locked withdrawal while it is still pending
func (s *Service) applyWithdrawalEvent(
	ctx context.Context,
	reference string,
	apply func(txCtx context.Context, txn *entity.Transaction) error,
) (*usecase.Confirmation, error) {
	var confirmation *usecase.Confirmation
	err := s.uow.Do(ctx, func(txCtx context.Context) error {
		txn, err := s.uow.Transactions(txCtx).LockByReference(txCtx, reference)
		if err != nil {
			return err
		}
		if txn.Type != entity.TypeWithdrawal {
			return fmt.Errorf("%w: %s is a %s", errs.ErrReferenceTypeMismatch, reference, txn.Type)
		}
		if txn.Status.IsTerminal() {
			confirmation = &usecase.Confirmation{Outcome: usecase.OutcomeAlreadyProcessed, Transaction: txn}
			return nil
		}
		if err := apply(txCtx, txn); err != nil {
			return err
		}
		confirmation = &usecase.Confirmation{Outcome: usecase.OutcomeApplied, Transaction: txn}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmation, nil
}

func (s *Service) finishWithdrawalEvent(
	ctx context.Context,
	operation string,
	event string,
	confirmation *usecase.Confirmation,
	err error,
) (*usecase.Confirmation, error) {
	if err != nil {
		s.record(operation, err)
		return nil, err
	}
	if confirmation.Outcome == usecase.OutcomeAlreadyProcessed {
		s.metrics.RecordOperation(operation, ResultIgnored)
		return confirmation, nil
	}

	s.record(operation, nil)
	s.publish(ctx, event, confirmation.Transaction)
	s.logger.Info("Withdrawal updated by gateway", map[string]any{
		"reference": confirmation.Transaction.Reference,
		"wallet_id": confirmation.Transaction.WalletID,
		"status":    string(confirmation.Transaction.Status),
		"amount":    confirmation.Transaction.AbsAmount(),
	})
	return confirmation, nil
}
