package auth

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/example/task-tracker/database"
	"github.com/example/task-tracker/domain/apperror"
	domain "github.com/example/task-tracker/domain/user"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository persists users with GORM and enforces username uniqueness.
type UserRepository struct {
	db     *gorm.DB
	hasher *PasswordHasher
	logger types.Logger
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB, hasher *PasswordHasher, logger types.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		hasher: hasher,
		logger: logger,
	}
}

// Create hashes the password and stores a new user.
// A duplicate username fails with apperror.UserAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, username, password string) (*domain.User, error) {
	passwordHash, err := r.hasher.Hash(password)
	if err != nil {
		r.logger.Error("Failed to hash password", "username", username, "error", err)
		return nil, apperror.Internal(err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			r.logger.Warn("User already exists", "username", username)
			return nil, apperror.UserAlreadyExists()
		}
		r.logger.Error("Failed to create user",
			"username", username,
			"error", err,
			"stack", string(debug.Stack()))
		return nil, apperror.Internal(err)
	}

	return user, nil
}

// FindByUsername returns the user with the given username, or nil when none exists.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	result := r.db.WithContext(ctx).Where("username = ?", username).Limit(1).Find(&user)
	if result.Error != nil {
		r.logger.Error("Failed to find user", "username", username, "error", result.Error)
		return nil, apperror.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &user, nil
}
