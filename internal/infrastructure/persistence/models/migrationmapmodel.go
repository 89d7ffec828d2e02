package models

import "soportes/internal/shared/constants"

// MigrationMapModel records which legacy integer id became which opaque id.
type MigrationMapModel struct {
	OldID       int64  `gorm:"column:old_id;uniqueIndex:idx_legacy_map_old,priority:1"`
	NewID       string `gorm:"column:new_uuid;primaryKey;type:varchar(36)"`
	SourceTable string `gorm:"column:table_name;size:64;uniqueIndex:idx_legacy_map_old,priority:2"`
}

func (MigrationMapModel) TableName() string {
	return constants.TableMigrationMap
}
