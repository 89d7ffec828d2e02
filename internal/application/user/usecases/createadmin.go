package usecases

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"soportes/internal/infrastructure/persistence/models"
	"soportes/internal/shared/biztime"
	"soportes/internal/shared/constants"
	"soportes/internal/shared/errors"
	"soportes/internal/shared/logger"
)

// PasswordHasher hashes plain-text passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// UserCreator persists new users.
type UserCreator interface {
	Create(ctx context.Context, user *models.UserModel) error
}

type CreateAdminCommand struct {
	Username   string
	Password   string
	Email      string
	Department string
}

// CreateAdminUseCase provisions an administrator account in the target store.
type CreateAdminUseCase struct {
	userRepo UserCreator
	hasher   PasswordHasher
	newID    func() string
	logger   logger.Interface
}

func NewCreateAdminUseCase(
	userRepo UserCreator,
	hasher PasswordHasher,
	logger logger.Interface,
) *CreateAdminUseCase {
	return &CreateAdminUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		newID:    uuid.NewString,
		logger:   logger,
	}
}

func (uc *CreateAdminUseCase) Execute(ctx context.Context, cmd CreateAdminCommand) (*models.UserModel, error) {
	username := strings.TrimSpace(cmd.Username)
	if username == "" {
		return nil, errors.NewValidationError("username is required")
	}

	var email *string
	if e := strings.TrimSpace(cmd.Email); e != "" {
		if _, err := mail.ParseAddress(e); err != nil {
			return nil, errors.NewValidationError("invalid email", e)
		}
		email = &e
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, errors.NewValidationError("invalid password", err.Error())
	}

	now := biztime.NowUTC()
	user := &models.UserModel{
		ID:           uc.newID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         constants.RoleAdmin,
		CreatedAt:    &now,
	}
	if d := strings.TrimSpace(cmd.Department); d != "" {
		user.Department = &d
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		uc.logger.Warnw("failed to create admin", "username", username, "error", err)
		return nil, err
	}

	uc.logger.Infow("admin created", "id", user.ID, "username", username)
	return user, nil
}
