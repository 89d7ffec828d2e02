package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"soportes/internal/infrastructure/persistence/models"
	"soportes/internal/shared/db"
	apperrors "soportes/internal/shared/errors"
	"soportes/internal/shared/query"
)

// ticketOrderColumns whitelists ORDER BY fields.
var ticketOrderColumns = map[string]string{
	"number":     "s.numero_ticket",
	"created_at": "s.fecha_creacion",
	"status":     "s.estado",
	"priority":   "s.prioridad",
	"category":   "s.categoria",
}

// ticketFields maps filter fields onto the joined ticket query.
var ticketFields = query.Fields{
	"status":     {"s.estado"},
	"priority":   {"s.prioridad"},
	"category":   {"s.categoria"},
	"reporter":   {"u.username"},
	"technician": {"t.username"},
	"equipment":  {"e.nombre_equipo"},
	"text":       {"s.problema", "s.solucion", "u.username"},
	"created_at": {"s.fecha_creacion"},
}

const ticketViewColumns = `s.id AS id, s.numero_ticket AS numero_ticket, s.problema AS problema,
	s.estado AS estado, s.prioridad AS prioridad, s.categoria AS categoria, s.solucion AS solucion,
	s.fecha_creacion AS fecha_creacion, s.fecha_finalizacion AS fecha_finalizacion,
	s.usuario_id AS usuario_id, u.username AS reporter_username, u.email AS reporter_email,
	u.departamento AS reporter_department, s.tecnico_id AS tecnico_id, t.username AS technician_username,
	s.equipo_id AS equipo_id, e.nombre_equipo AS equipment_name`

// TicketView is a ticket joined with the names people and reports show.
type TicketView struct {
	ID                 string     `gorm:"column:id"`
	Number             int64      `gorm:"column:numero_ticket"`
	Problem            string     `gorm:"column:problema"`
	Status             string     `gorm:"column:estado"`
	Priority           string     `gorm:"column:prioridad"`
	Category           string     `gorm:"column:categoria"`
	Resolution         *string    `gorm:"column:solucion"`
	CreatedAt          *time.Time `gorm:"column:fecha_creacion"`
	CompletedAt        *time.Time `gorm:"column:fecha_finalizacion"`
	ReporterID         string     `gorm:"column:usuario_id"`
	ReporterUsername   string     `gorm:"column:reporter_username"`
	ReporterEmail      *string    `gorm:"column:reporter_email"`
	ReporterDepartment *string    `gorm:"column:reporter_department"`
	TechnicianID       *string    `gorm:"column:tecnico_id"`
	TechnicianUsername *string    `gorm:"column:technician_username"`
	EquipmentID        *string    `gorm:"column:equipo_id"`
	EquipmentName      *string    `gorm:"column:equipment_name"`
}

// TicketFilter narrows a ticket listing. Zero values do not filter.
type TicketFilter struct {
	query.BaseFilter
	Status     string
	Priority   string
	Category   string
	Reporter   string
	Technician string
	Search     string
	From       *time.Time
	To         *time.Time
}

// Predicates converts the filter into builder predicates.
func (f TicketFilter) Predicates() query.Predicates {
	var ps query.Predicates
	if f.Status != "" {
		ps = append(ps, query.Eq("status", f.Status))
	}
	if f.Priority != "" {
		ps = append(ps, query.Eq("priority", f.Priority))
	}
	if f.Category != "" {
		ps = append(ps, query.Eq("category", f.Category))
	}
	if f.Reporter != "" {
		ps = append(ps, query.Eq("reporter", f.Reporter))
	}
	if f.Technician != "" {
		ps = append(ps, query.Eq("technician", f.Technician))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		ps = append(ps, query.Contains("text", s))
	}
	if f.From != nil {
		ps = append(ps, query.Predicate{Field: "created_at", Op: query.OpGte, Value: f.From.UTC()})
	}
	if f.To != nil {
		ps = append(ps, query.Predicate{Field: "created_at", Op: query.OpLt, Value: f.To.UTC()})
	}
	return ps
}

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) joined(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db).
		Table("soportes AS s").
		Joins("JOIN usuarios u ON u.id = s.usuario_id").
		Joins("LEFT JOIN usuarios t ON t.id = s.tecnico_id").
		Joins("LEFT JOIN equipos e ON e.id = s.equipo_id")
}

// FindByNumber returns the ticket carrying the user-facing number.
func (r *TicketRepository) FindByNumber(ctx context.Context, number int64) (*TicketView, error) {
	var view TicketView
	err := r.joined(ctx).
		Select(ticketViewColumns).
		Where("s.numero_ticket = ?", number).
		Take(&view).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("ticket not found", fmt.Sprintf("#%d", number))
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return &view, nil
}

// List returns one page of tickets matching filter and the total match count.
func (r *TicketRepository) List(ctx context.Context, filter TicketFilter) ([]TicketView, int64, error) {
	scope, err := filter.Predicates().Scope(ticketFields)
	if err != nil {
		return nil, 0, apperrors.NewValidationError("invalid ticket filter", err.Error())
	}

	var total int64
	if err := r.joined(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	order := "s.numero_ticket DESC"
	if column, ok := ticketOrderColumns[strings.ToLower(filter.SortBy)]; ok {
		direction := "ASC"
		if filter.IsDescending() {
			direction = "DESC"
		}
		order = fmt.Sprintf("%s %s, s.numero_ticket %s", column, direction, direction)
	}

	var views []TicketView
	err = r.joined(ctx).
		Scopes(scope).
		Select(ticketViewColumns).
		Order(order).
		Limit(filter.Limit()).
		Offset(filter.Offset()).
		Find(&views).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}
	return views, total, nil
}

// Delete removes a ticket and its attachments.
func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Delete(&models.TicketModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("ticket not found", id)
	}
	return nil
}
