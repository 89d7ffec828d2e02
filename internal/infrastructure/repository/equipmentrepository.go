package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"soportes/internal/infrastructure/persistence/models"
	"soportes/internal/shared/db"
	apperrors "soportes/internal/shared/errors"
)

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) FindByName(ctx context.Context, name string) (*models.EquipmentModel, error) {
	var model models.EquipmentModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("nombre_equipo = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("equipment not found", name)
		}
		return nil, fmt.Errorf("failed to find equipment: %w", err)
	}
	return &model, nil
}

// Delete removes equipment together with its maintenance schedule.
// Tickets that referenced it keep existing without the reference.
func (r *EquipmentRepository) Delete(ctx context.Context, id string) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Delete(&models.EquipmentModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete equipment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("equipment not found", id)
	}
	return nil
}
