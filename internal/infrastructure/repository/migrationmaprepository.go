package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"soportes/internal/infrastructure/persistence/models"
	apperrors "soportes/internal/shared/errors"
)

// MigrationMapRepository answers questions about where a legacy row went.
type MigrationMapRepository struct {
	db *gorm.DB
}

func NewMigrationMapRepository(db *gorm.DB) *MigrationMapRepository {
	return &MigrationMapRepository{db: db}
}

// Lookup returns the new id of legacy row oldID of table.
func (r *MigrationMapRepository) Lookup(ctx context.Context, table string, oldID int64) (string, error) {
	var entry models.MigrationMapModel
	err := r.db.WithContext(ctx).
		Where("table_name = ? AND old_id = ?", table, oldID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NewNotFoundError("legacy row was not migrated", fmt.Sprintf("%s #%d", table, oldID))
		}
		return "", fmt.Errorf("failed to look up migration map: %w", err)
	}
	return entry.NewID, nil
}

// Reverse returns the legacy origin of a migrated id.
func (r *MigrationMapRepository) Reverse(ctx context.Context, newID string) (*models.MigrationMapModel, error) {
	var entry models.MigrationMapModel
	err := r.db.WithContext(ctx).Where("new_uuid = ?", newID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("id has no legacy origin", newID)
		}
		return nil, fmt.Errorf("failed to reverse migration map: %w", err)
	}
	return &entry, nil
}

// Count returns the number of map entries per table.
func (r *MigrationMapRepository) Count(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Table string `gorm:"column:table_name"`
		N     int64  `gorm:"column:n"`
	}
	err := r.db.WithContext(ctx).
		Model(&models.MigrationMapModel{}).
		Select("table_name, COUNT(*) AS n").
		Group("table_name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count migration map: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Table] = row.N
	}
	return counts, nil
}
