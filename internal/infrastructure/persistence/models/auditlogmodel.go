package models

import (
	"time"

	"soportes/internal/shared/constants"
)

// AuditLogModel is append-only; rows are never updated or deleted.
type AuditLogModel struct {
	ID         uint       `gorm:"primaryKey;autoIncrement"`
	UserID     *string    `gorm:"column:usuario_id;type:varchar(36)"`
	Action     string     `gorm:"column:accion;not null;size:255" validate:"required"`
	Details    *string    `gorm:"column:detalles;type:text"`
	OccurredAt *time.Time `gorm:"column:fecha"`

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" validate:"-"`
}

func (AuditLogModel) TableName() string {
	return constants.TableAuditLogs
}
