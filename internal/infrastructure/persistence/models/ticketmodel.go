package models

import (
	"time"

	"soportes/internal/shared/constants"
)

// TicketModel is a support ticket. Number is the permanent, user-facing
// sequence number; ID is internal.
type TicketModel struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)"`
	Number       int64      `gorm:"column:numero_ticket;uniqueIndex;not null" validate:"gt=0"`
	ReporterID   string     `gorm:"column:usuario_id;type:varchar(36);not null;index:idx_soportes_usuario,priority:1" validate:"required"`
	TechnicianID *string    `gorm:"column:tecnico_id;type:varchar(36)"`
	EquipmentID  *string    `gorm:"column:equipo_id;type:varchar(36)"`
	Problem      string     `gorm:"column:problema;type:text;not null" validate:"required"`
	Status       string     `gorm:"column:estado;not null;default:Open;size:20;index:idx_soportes_estado,priority:1" validate:"required,oneof=Open 'In Progress' Resolved Closed"`
	Priority     string     `gorm:"column:prioridad;not null;default:Medium;size:20;index:idx_soportes_estado,priority:2" validate:"required,oneof=Low Medium High Urgent"`
	Category     string     `gorm:"column:categoria;not null;default:Other;size:50" validate:"required,max=50"`
	Resolution   *string    `gorm:"column:solucion;type:text"`
	CreatedAt    *time.Time `gorm:"column:fecha_creacion;autoCreateTime:false;index:idx_soportes_usuario,priority:2"`
	CompletedAt  *time.Time `gorm:"column:fecha_finalizacion"`

	Reporter   *UserModel      `gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE" validate:"-"`
	Technician *UserModel      `gorm:"foreignKey:TechnicianID;constraint:OnDelete:SET NULL" validate:"-"`
	Equipment  *EquipmentModel `gorm:"foreignKey:EquipmentID;constraint:OnDelete:SET NULL" validate:"-"`
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

// AttachmentModel is a file attached to a ticket; removed with the ticket.
type AttachmentModel struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)"`
	TicketID   string     `gorm:"column:ticket_id;type:varchar(36);not null;index"`
	Filename   string     `gorm:"column:filename;not null;size:255"`
	Filepath   string     `gorm:"column:filepath;not null;size:500"`
	MimeType   *string    `gorm:"column:mimetype;size:100"`
	UploadedAt *time.Time `gorm:"column:fecha_subida;autoCreateTime"`

	Ticket *TicketModel `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" validate:"-"`
}

func (AttachmentModel) TableName() string {
	return constants.TableAttachments
}
