package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"soportes/internal/infrastructure/persistence/models"
	"soportes/internal/shared/logger"
)

// SettingRepository reads the configuracion key/value table.
type SettingRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewSettingRepository creates a new SettingRepository
func NewSettingRepository(db *gorm.DB, logger logger.Interface) *SettingRepository {
	return &SettingRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the value stored under key. ok is false when the key is
// absent or its value is null.
func (r *SettingRepository) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	var model models.SettingModel

	err = r.db.WithContext(ctx).Where("clave = ?", key).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		r.logger.Error("failed to get setting by key", "key", key, "error", err)
		return "", false, fmt.Errorf("failed to get setting by key: %w", err)
	}
	if model.Value == nil {
		return "", false, nil
	}
	return *model.Value, true, nil
}

// All returns every non-null setting.
func (r *SettingRepository) All(ctx context.Context) (map[string]string, error) {
	var modelList []models.SettingModel

	if err := r.db.WithContext(ctx).Order("clave ASC").Find(&modelList).Error; err != nil {
		r.logger.Error("failed to get all settings", "error", err)
		return nil, fmt.Errorf("failed to get all settings: %w", err)
	}

	settings := make(map[string]string, len(modelList))
	for _, m := range modelList {
		if m.Value != nil {
			settings[m.Key] = *m.Value
		}
	}
	return settings, nil
}
