package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"soportes/internal/infrastructure/persistence/models"
	"soportes/internal/shared/db"
	apperrors "soportes/internal/shared/errors"
	"soportes/internal/shared/logger"
	"soportes/internal/shared/utils"
)

// UserRepository manages usuarios in the target store.
type UserRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewUserRepository creates a user repository
func NewUserRepository(db *gorm.DB, logger logger.Interface) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create validates and inserts a user. A taken username or email is a
// conflict error.
func (r *UserRepository) Create(ctx context.Context, user *models.UserModel) error {
	if err := utils.ValidateStruct(user); err != nil {
		return err
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(user).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("user already exists", user.Username)
		}
		r.logger.Errorw("failed to create user in database", "username", user.Username, "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Infow("user created", "id", user.ID, "username", user.Username, "role", user.Role)
	return nil
}

// FindByUsername returns the user with the given username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.UserModel, error) {
	var model models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user not found", username)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &model, nil
}

// Delete removes a user. Their tickets go with them; tickets and equipment
// they were only assigned to lose the reference.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Delete(&models.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("user not found", id)
	}
	return nil
}
