package user

import (
	"crypto/rand"
	"io"

	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/security"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
	"github.com/google/uuid"
)

// MaxWalletNumberAttempts bounds the search for a free wallet number
const MaxWalletNumberAttempts = 10

// UserUseCase handles onboarding and PIN management
type UserUseCase struct {
	uow          persistence.UnitOfWork
	hasher       security.PINHasher
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	currency     string
	random       io.Reader
	newID        func() string
}

var _ usecase.UserUseCase = (*UserUseCase)(nil)

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	uow persistence.UnitOfWork,
	hasher security.PINHasher,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	currency string,
) *UserUseCase {
	return &UserUseCase{
		uow:          uow,
		hasher:       hasher,
		timeProvider: timeProvider,
		logger:       logger,
		currency:     currency,
		random:       rand.Reader,
		newID:        uuid.NewString,
	}
}

// WithRandom replaces the wallet number source, for tests
func (u *UserUseCase) WithRandom(r io.Reader) *UserUseCase {
	u.random = r
	return u
}
