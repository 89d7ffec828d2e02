package models

import "soportes/internal/shared/constants"

type SettingModel struct {
	Key   string  `gorm:"column:clave;primaryKey;size:100" validate:"required"`
	Value *string `gorm:"column:valor;type:text"`
}

func (SettingModel) TableName() string {
	return constants.TableSettings
}
