package models

import (
	"gorm.io/datatypes"

	"soportes/internal/shared/constants"
)

type MaintenanceModel struct {
	ID               string         `gorm:"primaryKey;type:varchar(36)"`
	EquipmentID      string         `gorm:"column:equipo_id;type:varchar(36);not null;index" validate:"required"`
	Title            string         `gorm:"column:titulo;not null;size:200" validate:"required,max=200"`
	ScheduledDate    datatypes.Date `gorm:"column:fecha_programada;not null"`
	Status           string         `gorm:"column:estado;not null;default:Pending;size:20" validate:"required,oneof=Pending Done"`
	TechnicianID     *string        `gorm:"column:tecnico_asignado_id;type:varchar(36)"`
	RescheduleReason *string        `gorm:"column:motivo_reprogramacion;type:text"`

	Equipment  *EquipmentModel `gorm:"foreignKey:EquipmentID;constraint:OnDelete:CASCADE" validate:"-"`
	Technician *UserModel      `gorm:"foreignKey:TechnicianID;constraint:OnDelete:SET NULL" validate:"-"`
}

func (MaintenanceModel) TableName() string {
	return constants.TableMaintenance
}
