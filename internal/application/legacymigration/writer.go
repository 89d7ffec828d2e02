package legacymigration

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"soportes/internal/infrastructure/legacy"
	"soportes/internal/infrastructure/persistence/models"
	"soportes/internal/shared/constants"
	"soportes/internal/shared/utils"
)

// writer translates legacy rows into target rows and inserts them together
// with their migration map entries. Every method runs inside the row's
// savepoint; an error means the row is skipped.
type writer struct {
	mapper    *IdentityMapper
	sequencer *Sequencer
}

// reference resolves a nullable legacy foreign key. Unresolved keys become
// null and leave a note.
func (w *writer) reference(row *rowContext, field, table string, v sql.NullInt64) *string {
	if !v.Valid {
		return nil
	}
	id, ok := w.mapper.Resolve(table, v.Int64)
	if !ok {
		row.note(field, "%s #%d not migrated, reference written as null", table, v.Int64)
		return nil
	}
	return &id
}

// requiredReference resolves a mandatory legacy foreign key.
func (w *writer) requiredReference(field, table string, v sql.NullInt64) (string, error) {
	if !v.Valid {
		return "", failField(field, "is required")
	}
	id, ok := w.mapper.Resolve(table, v.Int64)
	if !ok {
		return "", failField(field, "%s #%d not migrated", table, v.Int64)
	}
	return id, nil
}

// insert validates model, writes it and records the map entry.
func (w *writer) insert(tx *gorm.DB, table string, legacyID int64, newID string, model interface{}) error {
	if err := utils.ValidateStruct(model); err != nil {
		return err
	}
	if err := tx.Create(model).Error; err != nil {
		return err
	}
	entry := models.MigrationMapModel{OldID: legacyID, NewID: newID, SourceTable: table}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record migration map entry: %w", err)
	}
	return nil
}

func (w *writer) user(tx *gorm.DB, row *rowContext, rec legacy.User) error {
	role, err := userRole.translate(row, rec.Role)
	if err != nil {
		return err
	}

	id, err := w.mapper.Allocate(constants.TableUsers, rec.ID)
	if err != nil {
		return err
	}
	model := &models.UserModel{
		ID:           id,
		Username:     requiredString(rec.Username),
		Email:        optionalString(rec.Email),
		PasswordHash: requiredString(rec.PasswordHash),
		Role:         role,
		Department:   optionalString(rec.Department),
		CreatedAt:    optionalTime(row, "fecha_creacion", rec.CreatedAt),
	}
	return w.insert(tx, constants.TableUsers, rec.ID, id, model)
}

func (w *writer) equipment(tx *gorm.DB, row *rowContext, rec legacy.Equipment) error {
	assigned := w.reference(row, "usuario_asignado_id", constants.TableUsers, rec.AssignedUserID)

	id, err := w.mapper.Allocate(constants.TableEquipment, rec.ID)
	if err != nil {
		return err
	}
	model := &models.EquipmentModel{
		ID:             id,
		Name:           requiredString(rec.Name),
		Type:           optionalString(rec.Type),
		MakeModel:      optionalString(rec.MakeModel),
		SerialNumber:   optionalString(rec.SerialNumber),
		PurchaseDate:   optionalDate(row, "fecha_compra", rec.PurchaseDate),
		Processor:      optionalString(rec.Processor),
		RAMSize:        optionalString(rec.RAMSize),
		RAMType:        optionalString(rec.RAMType),
		DiskSize:       optionalString(rec.DiskSize),
		DiskType:       optionalString(rec.DiskType),
		Color:          optionalString(rec.Color),
		Notes:          optionalString(rec.Notes),
		AssignedUserID: assigned,
	}
	return w.insert(tx, constants.TableEquipment, rec.ID, id, model)
}

func (w *writer) ticket(tx *gorm.DB, row *rowContext, rec legacy.Ticket) error {
	reporter, err := w.requiredReference("usuario_id", constants.TableUsers, rec.ReporterID)
	if err != nil {
		return err
	}
	technician := w.reference(row, "tecnico_id", constants.TableUsers, rec.TechnicianID)
	equipment := w.reference(row, "equipo_id", constants.TableEquipment, rec.EquipmentID)

	status, err := ticketStatus.translate(row, rec.Status)
	if err != nil {
		return err
	}
	priority, err := ticketPriority.translate(row, rec.Priority)
	if err != nil {
		return err
	}
	category, err := ticketCategory.translate(row, rec.Category)
	if err != nil {
		return err
	}

	id, err := w.mapper.Allocate(constants.TableTickets, rec.ID)
	if err != nil {
		return err
	}
	number := w.sequencer.Candidate()
	model := &models.TicketModel{
		ID:           id,
		Number:       number,
		ReporterID:   reporter,
		TechnicianID: technician,
		EquipmentID:  equipment,
		Problem:      requiredString(rec.Problem),
		Status:       status,
		Priority:     priority,
		Category:     category,
		Resolution:   optionalString(rec.Resolution),
		CreatedAt:    optionalTime(row, "fecha_creacion", rec.CreatedAt),
		CompletedAt:  optionalTime(row, "fecha_finalizacion", rec.CompletedAt),
	}
	if err := w.insert(tx, constants.TableTickets, rec.ID, id, model); err != nil {
		return err
	}
	return w.sequencer.Commit(number)
}

func (w *writer) maintenance(tx *gorm.DB, row *rowContext, rec legacy.Maintenance) error {
	equipment, err := w.requiredReference("equipo_id", constants.TableEquipment, rec.EquipmentID)
	if err != nil {
		return err
	}
	technician := w.reference(row, "tecnico_asignado_id", constants.TableUsers, rec.TechnicianID)

	scheduled, err := requiredDate("fecha_programada", rec.ScheduledDate)
	if err != nil {
		return err
	}
	status, err := maintenanceStatus.translate(row, rec.Status)
	if err != nil {
		return err
	}

	id, err := w.mapper.Allocate(constants.TableMaintenance, rec.ID)
	if err != nil {
		return err
	}
	model := &models.MaintenanceModel{
		ID:               id,
		EquipmentID:      equipment,
		Title:            requiredString(rec.Title),
		ScheduledDate:    scheduled,
		Status:           status,
		TechnicianID:     technician,
		RescheduleReason: optionalString(rec.RescheduleReason),
	}
	return w.insert(tx, constants.TableMaintenance, rec.ID, id, model)
}

// auditLog keeps its integer key and gets no map entry.
func (w *writer) auditLog(tx *gorm.DB, row *rowContext, rec legacy.AuditLog) error {
	model := &models.AuditLogModel{
		UserID:     w.reference(row, "usuario_id", constants.TableUsers, rec.UserID),
		Action:     requiredString(rec.Action),
		Details:    optionalString(rec.Details),
		OccurredAt: optionalTime(row, "fecha", rec.OccurredAt),
	}
	if err := utils.ValidateStruct(model); err != nil {
		return err
	}
	return tx.Create(model).Error
}

// setting copies a configuracion entry verbatim.
func (w *writer) setting(tx *gorm.DB, rec legacy.Setting) error {
	model := &models.SettingModel{Key: rec.Key, Value: nil}
	if rec.Value.Valid {
		v := rec.Value.String
		model.Value = &v
	}
	if err := utils.ValidateStruct(model); err != nil {
		return err
	}
	return tx.Create(model).Error
}
