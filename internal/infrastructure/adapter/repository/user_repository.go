package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository implements UserRepository interface using GORM
type UserRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *UserRepository) modelToEntity(userModel *model.User) *entity.User {
	user := &entity.User{
		ID:        userModel.ID,
		Email:     userModel.Email,
		FullName:  userModel.FullName,
		CreatedAt: userModel.CreatedAt,
		UpdatedAt: userModel.UpdatedAt,
	}
	if userModel.PINHash != nil {
		user.PINHash = *userModel.PINHash
	}
	return user
}

func (r *UserRepository) entityToModel(user *entity.User) model.User {
	userModel := model.User{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if user.PINHash != "" {
		hash := user.PINHash
		userModel.PINHash = &hash
	}
	return userModel
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error, key string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Warn("User not found", map[string]any{
			"user": key,
		})
		return errs.ErrUserNotFound
	}

	if r.errorClassifier.IsDuplicateKeyError(err) {
		r.logger.Warn("Duplicate user operation", map[string]any{
			"user": key,
		})
		return errs.ErrDuplicateUser
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"user":  key,
		"error": err.Error(),
	})
	return r.errorClassifier.wrap(err)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.logger.Debug("Getting user by ID", map[string]any{
		"user_id": id,
	})

	var userModel model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error; err != nil {
		return nil, r.handleDatabaseError("getting user", err, id)
	}

	return r.modelToEntity(&userModel), nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.logger.Debug("Getting user by email", map[string]any{
		"email": email,
	})

	var userModel model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&userModel).Error; err != nil {
		return nil, r.handleDatabaseError("getting user by email", err, email)
	}

	return r.modelToEntity(&userModel), nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	r.logger.Debug("Creating user", map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})

	userModel := r.entityToModel(user)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&userModel).Error; err != nil {
		return r.handleDatabaseError("creating user", err, user.ID)
	}

	r.logger.Info("User created successfully", map[string]any{
		"user_id": user.ID,
	})
	return nil
}

// SetPINHash stores the PIN hash only when none exists yet
func (r *UserRepository) SetPINHash(ctx context.Context, userID, pinHash string) error {
	r.logger.Debug("Setting user PIN", map[string]any{
		"user_id": userID,
	})

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND pin_hash IS NULL", userID).
		Updates(map[string]any{
			"pin_hash":   pinHash,
			"updated_at": r.timeProvider.Now(),
		})
	if result.Error != nil {
		return r.handleDatabaseError("setting PIN", result.Error, userID)
	}

	if result.RowsAffected == 0 {
		// Either the user is missing or the PIN was set concurrently
		if _, err := r.GetByID(ctx, userID); err != nil {
			return err
		}
		r.logger.Warn("PIN already set", map[string]any{
			"user_id": userID,
		})
		return errs.ErrPINAlreadySet
	}

	r.logger.Info("User PIN set", map[string]any{
		"user_id": userID,
	})
	return nil
}
