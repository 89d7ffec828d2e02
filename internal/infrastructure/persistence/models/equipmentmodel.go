package models

import (
	"gorm.io/datatypes"

	"soportes/internal/shared/constants"
)

// EquipmentModel is an inventory item. Deleting the assigned user only
// clears the assignment.
type EquipmentModel struct {
	ID             string          `gorm:"primaryKey;type:varchar(36)"`
	Name           string          `gorm:"column:nombre_equipo;uniqueIndex;not null;size:150" validate:"required,max=150"`
	Type           *string         `gorm:"column:tipo;size:50"`
	MakeModel      *string         `gorm:"column:marca_modelo;size:150"`
	SerialNumber   *string         `gorm:"column:numero_serie;uniqueIndex;size:100"`
	PurchaseDate   *datatypes.Date `gorm:"column:fecha_compra"`
	Processor      *string         `gorm:"column:procesador;size:150"`
	RAMSize        *string         `gorm:"column:memoria_ram;size:50"`
	RAMType        *string         `gorm:"column:tipo_ram;size:50"`
	DiskSize       *string         `gorm:"column:disco_duro;size:50"`
	DiskType       *string         `gorm:"column:tipo_disco;size:50"`
	Color          *string         `gorm:"column:color;size:50"`
	Notes          *string         `gorm:"column:notas;type:text"`
	AssignedUserID *string         `gorm:"column:usuario_asignado_id;type:varchar(36);index"`

	AssignedUser *UserModel `gorm:"foreignKey:AssignedUserID;constraint:OnDelete:SET NULL" validate:"-"`
}

func (EquipmentModel) TableName() string {
	return constants.TableEquipment
}
