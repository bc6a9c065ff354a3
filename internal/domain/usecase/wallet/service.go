package wallet

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/messaging"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/security"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
	"github.com/google/uuid"
)

// Operation names used for metrics, logs and idempotency scopes
const (
	OpDeposit          = "deposit"
	OpConfirmDeposit   = "confirm_deposit"
	OpDepositStatus    = "deposit_status"
	OpTransfer         = "transfer"
	OpWithdraw         = "withdraw"
	OpSettleWithdrawal = "settle_withdrawal"
	OpReverseWithdraw  = "reverse_withdrawal"
)

// Operation results
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
	ResultReplayed = "replayed"
	ResultIgnored  = "already_processed"
)

// Config tunes the engine
type Config struct {
	Currency            string
	GatewayTimeout      time.Duration
	WithdrawalReason    string
	HistoryDefaultLimit int
	HistoryMaxLimit     int
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		Currency:            entity.DefaultCurrency,
		GatewayTimeout:      30 * time.Second,
		WithdrawalReason:    "Wallet Withdrawal",
		HistoryDefaultLimit: 20,
		HistoryMaxLimit:     100,
	}
}

// Dependencies are the ports the engine drives
type Dependencies struct {
	UnitOfWork   persistence.UnitOfWork
	Gateway      gateway.PaymentGateway
	PINHasher    security.PINHasher
	Idempotency  persistence.IdempotencyStore
	Publisher    messaging.EventPublisher
	Metrics      coreport.Metrics
	TimeProvider coreport.TimeProvider
	Logger       coreport.Logger
}

// Service is the balance mutation engine. Every change to a balance goes
// through it, together with its transaction record and ledger entry.
type Service struct {
	uow          persistence.UnitOfWork
	gateway      gateway.PaymentGateway
	hasher       security.PINHasher
	guard        *Guard
	publisher    messaging.EventPublisher
	metrics      coreport.Metrics
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	validator    *Validator
	config       Config
	newID        func() string
}

var _ usecase.WalletUseCase = (*Service)(nil)

// NewService creates the engine
func NewService(deps Dependencies, config Config, idempotencyTTL time.Duration) *Service {
	if config.HistoryDefaultLimit <= 0 {
		config.HistoryDefaultLimit = DefaultConfig().HistoryDefaultLimit
	}
	if config.HistoryMaxLimit <= 0 {
		config.HistoryMaxLimit = DefaultConfig().HistoryMaxLimit
	}
	if config.WithdrawalReason == "" {
		config.WithdrawalReason = DefaultConfig().WithdrawalReason
	}

	return &Service{
		uow:          deps.UnitOfWork,
		gateway:      deps.Gateway,
		hasher:       deps.PINHasher,
		guard:        NewGuard(deps.Idempotency, deps.TimeProvider, deps.Logger, idempotencyTTL),
		publisher:    deps.Publisher,
		metrics:      deps.Metrics,
		timeProvider: deps.TimeProvider,
		logger:       deps.Logger,
		validator:    NewValidator(config.HistoryDefaultLimit, config.HistoryMaxLimit),
		config:       config,
		newID:        uuid.NewString,
	}
}

// WithIDGenerator replaces the ID and reference generator, for tests
func (s *Service) WithIDGenerator(newID func() string) *Service {
	s.newID = newID
	return s
}

// gatewayContext bounds a single gateway call
func (s *Service) gatewayContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.GatewayTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return s.timeProvider.WithTimeout(ctx, coreport.Duration(s.config.GatewayTimeout))
}

// observeGateway records the latency and result of one gateway call
func (s *Service) observeGateway(operation string, start time.Time, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailed
	}
	s.metrics.ObserveGatewayCall(operation, result, s.timeProvider.Since(start).Std())
}

// record counts a finished operation. Client errors count as rejected.
func (s *Service) record(operation string, err error) {
	s.metrics.RecordOperation(operation, resultOf(err))
}

// publish emits a post-commit event. Delivery failures never reach the caller.
func (s *Service) publish(ctx context.Context, name string, txn *entity.Transaction) {
	event := messaging.TransactionEvent{
		Name:       name,
		Reference:  txn.Reference,
		WalletID:   txn.WalletID,
		Type:       string(txn.Type),
		Status:     string(txn.Status),
		Amount:     txn.Amount,
		OccurredAt: s.timeProvider.Now(),
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("Failed to publish transaction event", map[string]any{
			"event":     name,
			"reference": txn.Reference,
			"error":     err.Error(),
		})
	}
}

// walletOf loads the wallet owned by userID outside any lock
func (s *Service) walletOf(ctx context.Context, userID string) (*entity.Wallet, error) {
	return s.uow.Wallets(ctx).GetByUserID(ctx, userID)
}

// verifyPIN checks the caller's transaction PIN
func (s *Service) verifyPIN(ctx context.Context, userID, pin string) error {
	user, err := s.uow.Users(ctx).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasPIN() {
		return errs.ErrPINNotSet
	}
	if !s.hasher.Compare(user.PINHash, pin) {
		return errs.ErrInvalidPIN
	}
	return nil
}

func resultOf(err error) string {
	if err == nil {
		return ResultSuccess
	}
	switch errs.KindOf(err) {
	case errs.KindValidation, errs.KindAuthentication, errs.KindAuthorization,
		errs.KindNotFound, errs.KindConflict, errs.KindInsufficientFunds:
		return ResultRejected
	}
	return ResultFailed
}
