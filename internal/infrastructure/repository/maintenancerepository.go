package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"soportes/internal/shared/constants"
	"soportes/internal/shared/db"
	apperrors "soportes/internal/shared/errors"
	"soportes/internal/shared/query"
)

var maintenanceOrderColumns = map[string]string{
	"scheduled": "m.fecha_programada",
	"status":    "m.estado",
	"title":     "m.titulo",
	"equipment": "e.nombre_equipo",
}

var maintenanceFields = query.Fields{
	"equipment":  {"e.nombre_equipo"},
	"status":     {"m.estado"},
	"technician": {"t.username"},
	"scheduled":  {"m.fecha_programada"},
}

const maintenanceViewColumns = `m.id AS id, m.titulo AS titulo, m.fecha_programada AS fecha_programada,
	m.estado AS estado, m.motivo_reprogramacion AS motivo_reprogramacion, m.equipo_id AS equipo_id,
	e.nombre_equipo AS equipment_name, m.tecnico_asignado_id AS tecnico_asignado_id,
	t.username AS technician_username`

// MaintenanceView is a scheduled maintenance joined with its equipment and
// technician names.
type MaintenanceView struct {
	ID                 string    `gorm:"column:id"`
	Title              string    `gorm:"column:titulo"`
	ScheduledDate      time.Time `gorm:"column:fecha_programada"`
	Status             string    `gorm:"column:estado"`
	RescheduleReason   *string   `gorm:"column:motivo_reprogramacion"`
	EquipmentID        string    `gorm:"column:equipo_id"`
	EquipmentName      string    `gorm:"column:equipment_name"`
	TechnicianID       *string   `gorm:"column:tecnico_asignado_id"`
	TechnicianUsername *string   `gorm:"column:technician_username"`
}

// MaintenanceFilter narrows a maintenance listing. From is inclusive and
// To exclusive; both are UTC calendar days. Zero values do not filter.
type MaintenanceFilter struct {
	query.BaseFilter
	Equipment  string
	Status     string
	Technician string
	From       *time.Time
	To         *time.Time
}

// Predicates converts the filter into builder predicates.
func (f MaintenanceFilter) Predicates() query.Predicates {
	var ps query.Predicates
	if f.Equipment != "" {
		ps = append(ps, query.Eq("equipment", f.Equipment))
	}
	if f.Status != "" {
		ps = append(ps, query.Eq("status", f.Status))
	}
	if f.Technician != "" {
		ps = append(ps, query.Eq("technician", f.Technician))
	}
	if f.From != nil {
		ps = append(ps, query.Predicate{Field: "scheduled", Op: query.OpGte, Value: f.From.UTC()})
	}
	if f.To != nil {
		ps = append(ps, query.Predicate{Field: "scheduled", Op: query.OpLt, Value: f.To.UTC()})
	}
	return ps
}

// MonthlyStatusCount counts the maintenances scheduled in one month.
type MonthlyStatusCount struct {
	Year    int
	Month   time.Month
	Pending int64
	Done    int64
}

type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

func (r *MaintenanceRepository) joined(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db).
		Table("mantenimientos AS m").
		Joins("JOIN equipos e ON e.id = m.equipo_id").
		Joins("LEFT JOIN usuarios t ON t.id = m.tecnico_asignado_id")
}

// List returns one page of maintenances matching filter and the total
// match count. The default order is the schedule, earliest first.
func (r *MaintenanceRepository) List(ctx context.Context, filter MaintenanceFilter) ([]MaintenanceView, int64, error) {
	scope, err := filter.Predicates().Scope(maintenanceFields)
	if err != nil {
		return nil, 0, apperrors.NewValidationError("invalid maintenance filter", err.Error())
	}

	var total int64
	if err := r.joined(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count maintenances: %w", err)
	}

	order := "m.fecha_programada ASC, m.id ASC"
	if column, ok := maintenanceOrderColumns[strings.ToLower(filter.SortBy)]; ok {
		direction := "ASC"
		if filter.IsDescending() {
			direction = "DESC"
		}
		order = fmt.Sprintf("%s %s, m.id %s", column, direction, direction)
	}

	var views []MaintenanceView
	err = r.joined(ctx).
		Scopes(scope).
		Select(maintenanceViewColumns).
		Order(order).
		Limit(filter.Limit()).
		Offset(filter.Offset()).
		Find(&views).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list maintenances: %w", err)
	}
	return views, total, nil
}

// CountByMonth groups every maintenance matching filter by scheduled month
// and status. Paging and sorting in filter are ignored. Months without a
// maintenance are absent; the rest come in calendar order.
func (r *MaintenanceRepository) CountByMonth(ctx context.Context, filter MaintenanceFilter) ([]MonthlyStatusCount, error) {
	scope, err := filter.Predicates().Scope(maintenanceFields)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid maintenance filter", err.Error())
	}

	var rows []struct {
		Scheduled time.Time `gorm:"column:fecha_programada"`
		Status    string    `gorm:"column:estado"`
	}
	err = r.joined(ctx).
		Scopes(scope).
		Select("m.fecha_programada AS fecha_programada, m.estado AS estado").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count maintenances: %w", err)
	}

	type key struct {
		year  int
		month time.Month
	}
	counts := make(map[key]*MonthlyStatusCount)
	for _, row := range rows {
		d := row.Scheduled.UTC()
		k := key{d.Year(), d.Month()}
		c, ok := counts[k]
		if !ok {
			c = &MonthlyStatusCount{Year: k.year, Month: k.month}
			counts[k] = c
		}
		if row.Status == constants.MaintenanceStatusDone {
			c.Done++
		} else {
			c.Pending++
		}
	}

	result := make([]MonthlyStatusCount, 0, len(counts))
	for _, c := range counts {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result, nil
}
