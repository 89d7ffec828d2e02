package models

// All returns the target models in foreign-key dependency order.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&EquipmentModel{},
		&TicketModel{},
		&MaintenanceModel{},
		&AuditLogModel{},
		&SettingModel{},
		&MigrationMapModel{},
		&AttachmentModel{},
	}
}
