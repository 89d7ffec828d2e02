package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Database table names (target and legacy stores share them)
	TableUsers        = "usuarios"
	TableEquipment    = "equipos"
	TableTickets      = "soportes"
	TableMaintenance  = "mantenimientos"
	TableAuditLogs    = "auditoria_logs"
	TableSettings     = "configuracion"
	TableAttachments  = "adjuntos"
	TableMigrationMap = "legacy_migration_map"

	// Database drivers
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	// Schema strategies
	StrategyGoose         = "goose"
	StrategyGolangMigrate = "golang_migrate"
	StrategyAutoMigrate   = "gorm_auto_migrate"

	// User roles
	RoleAdmin      = "admin"
	RoleUser       = "user"
	RoleTechnician = "technician"

	// Ticket status
	TicketStatusOpen       = "Open"
	TicketStatusInProgress = "In Progress"
	TicketStatusResolved   = "Resolved"
	TicketStatusClosed     = "Closed"

	// Ticket priority
	TicketPriorityLow    = "Low"
	TicketPriorityMedium = "Medium"
	TicketPriorityHigh   = "High"
	TicketPriorityUrgent = "Urgent"

	// Default ticket category
	TicketCategoryOther = "Other"

	// Maintenance status
	MaintenanceStatusPending = "Pending"
	MaintenanceStatusDone    = "Done"

	// Mail settings keys stored in configuracion
	SettingMailServer   = "MAIL_SERVER"
	SettingMailPort     = "MAIL_PORT"
	SettingMailUsername = "MAIL_USERNAME"
	SettingMailPassword = "MAIL_PASSWORD"
	SettingMailUseTLS   = "MAIL_USE_TLS"
)
