package legacymigration

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"soportes/internal/shared/biztime"
	"soportes/internal/shared/constants"
	"soportes/internal/shared/utils"
)

// fieldError is a translation failure on one column of a legacy row.
type fieldError struct {
	Field   string
	Message string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func failField(field, format string, args ...interface{}) error {
	return &fieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// rowContext collects the notes raised while translating one row. Notes
// only reach the report when the row is written.
type rowContext struct {
	table    string
	legacyID int64
	notes    []RowNote
}

func (c *rowContext) note(field, format string, args ...interface{}) {
	c.notes = append(c.notes, RowNote{
		Table:    c.table,
		LegacyID: c.legacyID,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	})
}

// enum maps folded legacy spellings onto canonical values.
type enum struct {
	field  string
	def    string
	values map[string]string
	// open enums keep unknown values instead of rejecting them
	open bool
}

func (e enum) translate(row *rowContext, v sql.NullString) (string, error) {
	raw := strings.TrimSpace(v.String)
	if !v.Valid || raw == "" {
		row.note(e.field, "empty value, defaulted to %q", e.def)
		return e.def, nil
	}
	if canonical, ok := e.values[utils.Fold(raw)]; ok {
		return canonical, nil
	}
	if e.open {
		return raw, nil
	}
	return "", failField(e.field, "unknown value %q", raw)
}

func newEnum(field, def string, open bool, spellings map[string][]string) enum {
	values := make(map[string]string)
	for canonical, aliases := range spellings {
		values[utils.Fold(canonical)] = canonical
		for _, a := range aliases {
			values[utils.Fold(a)] = canonical
		}
	}
	return enum{field: field, def: def, values: values, open: open}
}

var (
	ticketStatus = newEnum("estado", constants.TicketStatusOpen, false, map[string][]string{
		constants.TicketStatusOpen:       {"Abierto", "Nuevo"},
		constants.TicketStatusInProgress: {"En Proceso", "En progreso"},
		constants.TicketStatusResolved:   {"Resuelto"},
		constants.TicketStatusClosed:     {"Cerrado"},
	})

	ticketPriority = newEnum("prioridad", constants.TicketPriorityMedium, false, map[string][]string{
		constants.TicketPriorityLow:    {"Baja"},
		constants.TicketPriorityMedium: {"Media", "Normal"},
		constants.TicketPriorityHigh:   {"Alta"},
		constants.TicketPriorityUrgent: {"Urgente"},
	})

	ticketCategory = newEnum("categoria", constants.TicketCategoryOther, true, map[string][]string{
		"Network":                     {"Redes", "Red"},
		"Accounts":                    {"Cuentas"},
		"Printers":                    {"Impresoras"},
		constants.TicketCategoryOther: {"Otro", "Otros"},
	})

	userRole = newEnum("role", constants.RoleUser, false, map[string][]string{
		constants.RoleAdmin:      {"Administrador"},
		constants.RoleUser:       {"Usuario"},
		constants.RoleTechnician: {"Tecnico"},
	})

	maintenanceStatus = newEnum("estado", constants.MaintenanceStatusPending, false, map[string][]string{
		constants.MaintenanceStatusPending: {"Pendiente", "Programado"},
		constants.MaintenanceStatusDone:    {"Realizado", "Completado", "Ejecutado"},
	})
)

// optionalTime parses a nullable legacy timestamp. Garbage becomes nil
// with a note.
func optionalTime(row *rowContext, field string, v sql.NullString) *time.Time {
	raw := strings.TrimSpace(v.String)
	if !v.Valid || raw == "" {
		return nil
	}
	t, err := biztime.ParseLegacy(raw)
	if err != nil {
		row.note(field, "unparseable timestamp %q written as null", raw)
		return nil
	}
	return &t
}

func optionalDate(row *rowContext, field string, v sql.NullString) *datatypes.Date {
	raw := strings.TrimSpace(v.String)
	if !v.Valid || raw == "" {
		return nil
	}
	t, err := biztime.ParseLegacyDate(raw)
	if err != nil {
		row.note(field, "unparseable date %q written as null", raw)
		return nil
	}
	d := datatypes.Date(t)
	return &d
}

func requiredDate(field string, v sql.NullString) (datatypes.Date, error) {
	raw := strings.TrimSpace(v.String)
	if !v.Valid || raw == "" {
		return datatypes.Date{}, failField(field, "is required")
	}
	t, err := biztime.ParseLegacyDate(raw)
	if err != nil {
		return datatypes.Date{}, failField(field, "unparseable date %q", raw)
	}
	return datatypes.Date(t), nil
}

func optionalString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return utils.StringPtr(v.String)
}

func requiredString(v sql.NullString) string {
	return strings.TrimSpace(v.String)
}
