package usecases

import (
	"context"
	"strings"
	"time"

	"soportes/internal/infrastructure/repository"
	"soportes/internal/shared/biztime"
	"soportes/internal/shared/constants"
	"soportes/internal/shared/errors"
	"soportes/internal/shared/logger"
	"soportes/internal/shared/query"
)

var maintenanceStatuses = []string{
	constants.MaintenanceStatusPending,
	constants.MaintenanceStatusDone,
}

// ListMaintenanceQuery filters scheduled maintenances. From and To are
// calendar days, both inclusive.
type ListMaintenanceQuery struct {
	Equipment  string
	Status     string
	Technician string
	From       string
	To         string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

type ListMaintenanceResult struct {
	Maintenances []repository.MaintenanceView
	TotalCount   int64
	Page         int
	PageSize     int
}

type ListMaintenanceUseCase struct {
	maintenanceRepo MaintenanceReader
	logger          logger.Interface
}

func NewListMaintenanceUseCase(
	maintenanceRepo MaintenanceReader,
	logger logger.Interface,
) *ListMaintenanceUseCase {
	return &ListMaintenanceUseCase{
		maintenanceRepo: maintenanceRepo,
		logger:          logger,
	}
}

func (uc *ListMaintenanceUseCase) Execute(
	ctx context.Context,
	query ListMaintenanceQuery,
) (*ListMaintenanceResult, error) {
	uc.logger.Debugw("executing list maintenance use case",
		"page", query.Page,
		"page_size", query.PageSize)

	filter, err := buildFilter(query)
	if err != nil {
		return nil, err
	}

	items, total, err := uc.maintenanceRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list maintenances", "error", err)
		return nil, err
	}

	return &ListMaintenanceResult{
		Maintenances: items,
		TotalCount:   total,
		Page:         filter.Page,
		PageSize:     filter.Limit(),
	}, nil
}

func buildFilter(q ListMaintenanceQuery) (repository.MaintenanceFilter, error) {
	if q.Page < 1 {
		q.Page = constants.DefaultPage
	}
	if q.PageSize <= 0 {
		q.PageSize = constants.DefaultPageSize
	}
	if q.SortOrder == "" {
		q.SortOrder = "asc"
	}

	filter := repository.MaintenanceFilter{
		BaseFilter: query.NewBaseFilter(
			query.WithPage(q.Page, q.PageSize),
			query.WithSort(q.SortBy, q.SortOrder),
		),
		Equipment:  strings.TrimSpace(q.Equipment),
		Technician: strings.TrimSpace(q.Technician),
	}

	var err error
	if filter.Status, err = canonicalStatus(q.Status); err != nil {
		return filter, err
	}

	if q.From != "" {
		from, err := biztime.ParseLegacyDate(q.From)
		if err != nil {
			return filter, errors.NewValidationError("invalid from date", err.Error())
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := biztime.ParseLegacyDate(q.To)
		if err != nil {
			return filter, errors.NewValidationError("invalid to date", err.Error())
		}
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return filter, errors.NewValidationError("from date is after to date")
	}

	return filter, nil
}

// legacyStatuses are the Spanish labels the old schedule used.
var legacyStatuses = map[string]string{
	"pendiente": constants.MaintenanceStatusPending,
	"ejecutado": constants.MaintenanceStatusDone,
}

func canonicalStatus(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	for _, s := range maintenanceStatuses {
		if strings.EqualFold(s, value) {
			return s, nil
		}
	}
	if s, ok := legacyStatuses[strings.ToLower(value)]; ok {
		return s, nil
	}
	return "", errors.NewValidationError("invalid status",
		value+" (allowed: "+strings.Join(maintenanceStatuses, ", ")+")")
}

func yearRange(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}
