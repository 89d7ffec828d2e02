package legacy

import "database/sql"

// Timestamps and dates are read as raw text: legacy rows mix layouts and
// the SQLite driver would otherwise reinterpret naive values as UTC.

// User is a row of usuarios.
type User struct {
	ID           int64          `gorm:"column:id"`
	Username     sql.NullString `gorm:"column:username"`
	Email        sql.NullString `gorm:"column:email"`
	PasswordHash sql.NullString `gorm:"column:password_hash"`
	Role         sql.NullString `gorm:"column:role"`
	Department   sql.NullString `gorm:"column:departamento"`
	CreatedAt    sql.NullString `gorm:"column:fecha_creacion"`
}

// Equipment is a row of equipos.
type Equipment struct {
	ID             int64          `gorm:"column:id"`
	Name           sql.NullString `gorm:"column:nombre_equipo"`
	Type           sql.NullString `gorm:"column:tipo"`
	MakeModel      sql.NullString `gorm:"column:marca_modelo"`
	SerialNumber   sql.NullString `gorm:"column:numero_serie"`
	PurchaseDate   sql.NullString `gorm:"column:fecha_compra"`
	Processor      sql.NullString `gorm:"column:procesador"`
	RAMSize        sql.NullString `gorm:"column:memoria_ram"`
	RAMType        sql.NullString `gorm:"column:tipo_ram"`
	DiskSize       sql.NullString `gorm:"column:disco_duro"`
	DiskType       sql.NullString `gorm:"column:tipo_disco"`
	Color          sql.NullString `gorm:"column:color"`
	Notes          sql.NullString `gorm:"column:notas"`
	AssignedUserID sql.NullInt64  `gorm:"column:usuario_asignado_id"`
}

// Ticket is a row of soportes.
type Ticket struct {
	ID           int64          `gorm:"column:id"`
	ReporterID   sql.NullInt64  `gorm:"column:usuario_id"`
	TechnicianID sql.NullInt64  `gorm:"column:tecnico_id"`
	EquipmentID  sql.NullInt64  `gorm:"column:equipo_id"`
	Problem      sql.NullString `gorm:"column:problema"`
	Status       sql.NullString `gorm:"column:estado"`
	Priority     sql.NullString `gorm:"column:prioridad"`
	Category     sql.NullString `gorm:"column:categoria"`
	Resolution   sql.NullString `gorm:"column:solucion"`
	CreatedAt    sql.NullString `gorm:"column:fecha_creacion"`
	CompletedAt  sql.NullString `gorm:"column:fecha_finalizacion"`
}

// Maintenance is a scheduled job from mantenimientos.
type Maintenance struct {
	ID               int64          `gorm:"column:id"`
	EquipmentID      sql.NullInt64  `gorm:"column:equipo_id"`
	Title            sql.NullString `gorm:"column:titulo"`
	ScheduledDate    sql.NullString `gorm:"column:fecha_programada"`
	Status           sql.NullString `gorm:"column:estado"`
	TechnicianID     sql.NullInt64  `gorm:"column:tecnico_asignado_id"`
	RescheduleReason sql.NullString `gorm:"column:motivo_reprogramacion"`
}

// AuditLog is a row of auditoria_logs.
type AuditLog struct {
	ID         int64          `gorm:"column:id"`
	UserID     sql.NullInt64  `gorm:"column:usuario_id"`
	Action     sql.NullString `gorm:"column:accion"`
	Details    sql.NullString `gorm:"column:detalles"`
	OccurredAt sql.NullString `gorm:"column:fecha"`
}

// Setting is one configuracion key and its raw value.
type Setting struct {
	Key   string         `gorm:"column:clave"`
	Value sql.NullString `gorm:"column:valor"`
}

type columnKind int

const (
	textColumn columnKind = iota
	intColumn
)

// column is a target field and the legacy names it may appear under,
// in order of preference.
type column struct {
	name  string
	kind  columnKind
	names []string
}

func text(name string, aliases ...string) column {
	return column{name: name, kind: textColumn, names: append([]string{name}, aliases...)}
}

func ref(name string) column {
	return column{name: name, kind: intColumn, names: []string{name}}
}

var (
	userColumns = []column{
		text("username"), text("email"), text("password_hash"), text("role"),
		text("departamento"), text("fecha_creacion"),
	}
	equipmentColumns = []column{
		text("nombre_equipo"), text("tipo"), text("marca_modelo"), text("numero_serie"),
		text("fecha_compra", "fecha_adquisicion"), text("procesador"), text("memoria_ram"),
		text("tipo_ram"), text("disco_duro"), text("tipo_disco"), text("color"), text("notas"),
		ref("usuario_asignado_id"),
	}
	ticketColumns = []column{
		ref("usuario_id"), ref("tecnico_id"), ref("equipo_id"), text("problema"),
		text("estado"), text("prioridad"), text("categoria"), text("solucion"),
		text("fecha_creacion", "fecha_hora"), text("fecha_finalizacion"),
	}
	maintenanceColumns = []column{
		ref("equipo_id"), text("titulo"), text("fecha_programada"), text("estado"),
		ref("tecnico_asignado_id"), text("motivo_reprogramacion"),
	}
	auditLogColumns = []column{
		ref("usuario_id"), text("accion"), text("detalles"), text("fecha"),
	}
)
