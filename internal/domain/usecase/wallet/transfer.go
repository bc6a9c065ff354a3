package wallet

import (
	"context"
	"strconv"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/messaging"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
)

// TransferSucceededMessage is returned with a completed transfer
const TransferSucceededMessage = "Transfer successful"

// Transfer moves funds between two wallets in one unit of work.
// Both wallets are locked in ascending ID order and funds are re-checked under the lock.
func (s *Service) Transfer(ctx context.Context, cmd usecase.TransferCommand) (result *usecase.MovementResult, err error) {
	defer func() {
		if result != nil && result.Replayed {
			s.metrics.RecordOperation(OpTransfer, ResultReplayed)
			return
		}
		s.record(OpTransfer, err)
	}()

	if err := s.validator.ValidateTransfer(cmd); err != nil {
		return nil, err
	}

	run := func(ctx context.Context) (*entity.OperationOutcome, error) {
		return s.transfer(ctx, cmd)
	}
	if cmd.IdempotencyKey == "" {
		outcome, err := run(ctx)
		if err != nil {
			return nil, err
		}
		return &usecase.MovementResult{Outcome: *outcome}, nil
	}

	outcome, replayed, err := s.guard.Execute(ctx,
		ScopeKey(cmd.UserID, OpTransfer, cmd.IdempotencyKey),
		Fingerprint(cmd.RecipientWalletNumber, strconv.FormatInt(cmd.Amount, 10)),
		run,
	)
	if err != nil {
		return nil, err
	}
	return &usecase.MovementResult{Outcome: *outcome, Replayed: replayed}, nil
}

func (s *Service) transfer(ctx context.Context, cmd usecase.TransferCommand) (*entity.OperationOutcome, error) {
	if err := s.verifyPIN(ctx, cmd.UserID, cmd.PIN); err != nil {
		return nil, err
	}

	sender, err := s.walletOf(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if !sender.CanDebit(cmd.Amount) {
		return nil, errs.ErrInsufficientFunds
	}

	recipient, err := s.uow.Wallets(ctx).GetByNumber(ctx, cmd.RecipientWalletNumber)
	if err != nil {
		if errs.IsNotFoundError(err) {
			return nil, errs.ErrRecipientNotFound
		}
		return nil, err
	}
	if recipient.ID == sender.ID {
		return nil, errs.ErrSelfTransfer
	}

	reference := s.newID()
	var debitTxn, creditTxn *entity.Transaction

	err = s.uow.Do(ctx, func(txCtx context.Context) error {
		wallets := s.uow.Wallets(txCtx)
		locked, err := wallets.LockByIDs(txCtx, sender.ID, recipient.ID)
		if err != nil {
			return err
		}
		from, to := locked[sender.ID], locked[recipient.ID]

		if err := from.Debit(cmd.Amount, s.timeProvider); err != nil {
			return err
		}
		if err := to.Credit(cmd.Amount, s.timeProvider); err != nil {
			return err
		}
		if err := wallets.SaveBalance(txCtx, from); err != nil {
			return err
		}
		if err := wallets.SaveBalance(txCtx, to); err != nil {
			return err
		}

		debitTxn, err = entity.NewTransaction(s.newID(), from.ID, reference, entity.TypeTransfer, entity.StatusSuccess,
			-cmd.Amount, entity.TransferMetadata(entity.DirectionSent, to.WalletNumber), s.timeProvider)
		if err != nil {
			return err
		}
		creditTxn, err = entity.NewTransaction(s.newID(), to.ID, entity.CreditReference(reference), entity.TypeTransfer, entity.StatusSuccess,
			cmd.Amount, entity.TransferMetadata(entity.DirectionReceived, from.WalletNumber), s.timeProvider)
		if err != nil {
			return err
		}

		txns := s.uow.Transactions(txCtx)
		if err := txns.Create(txCtx, debitTxn); err != nil {
			return err
		}
		if err := txns.Create(txCtx, creditTxn); err != nil {
			return err
		}

		return s.uow.Ledger(txCtx).Append(txCtx,
			entity.NewLedgerEntry(s.newID(), from.ID, debitTxn.ID, -cmd.Amount, s.timeProvider),
			entity.NewLedgerEntry(s.newID(), to.ID, creditTxn.ID, cmd.Amount, s.timeProvider),
		)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, messaging.EventTransferCompleted, debitTxn)
	s.publish(ctx, messaging.EventTransferCompleted, creditTxn)
	s.logger.Info("Transfer completed", map[string]any{
		"reference":      reference,
		"from_wallet_id": sender.ID,
		"to_wallet_id":   recipient.ID,
		"amount":         cmd.Amount,
		"formatted":      entity.FormatMinorUnits(cmd.Amount),
	})

	return &entity.OperationOutcome{
		Status:    entity.StatusSuccess,
		Reference: reference,
		Message:   TransferSucceededMessage,
	}, nil
}
