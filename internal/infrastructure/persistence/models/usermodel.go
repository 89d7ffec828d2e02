package models

import (
	"time"

	"soportes/internal/shared/constants"
)

// UserModel represents the database persistence model for users
type UserModel struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)"`
	Username     string     `gorm:"column:username;uniqueIndex;not null;size:100" validate:"required,max=100"`
	Email        *string    `gorm:"column:email;uniqueIndex;size:255" validate:"omitempty,max=255"`
	PasswordHash string     `gorm:"column:password_hash;not null;size:255" validate:"required"`
	Role         string     `gorm:"column:role;not null;default:user;size:20" validate:"required,oneof=admin user technician"`
	Department   *string    `gorm:"column:departamento;size:100"`
	CreatedAt    *time.Time `gorm:"column:fecha_creacion;autoCreateTime:false"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}
