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

var (
	ticketStatuses = []string{
		constants.TicketStatusOpen,
		constants.TicketStatusInProgress,
		constants.TicketStatusResolved,
		constants.TicketStatusClosed,
	}
	ticketPriorities = []string{
		constants.TicketPriorityLow,
		constants.TicketPriorityMedium,
		constants.TicketPriorityHigh,
		constants.TicketPriorityUrgent,
	}
)

// ListTicketsQuery filters tickets. From and To are calendar days in the
// business timezone, both inclusive.
type ListTicketsQuery struct {
	Status     string
	Priority   string
	Category   string
	Reporter   string
	Technician string
	Search     string
	From       string
	To         string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

type ListTicketsResult struct {
	Tickets    []repository.TicketView
	TotalCount int64
	Page       int
	PageSize   int
}

type ListTicketsUseCase struct {
	ticketRepo TicketReader
	logger     logger.Interface
}

func NewListTicketsUseCase(
	ticketRepo TicketReader,
	logger logger.Interface,
) *ListTicketsUseCase {
	return &ListTicketsUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *ListTicketsUseCase) Execute(
	ctx context.Context,
	query ListTicketsQuery,
) (*ListTicketsResult, error) {
	uc.logger.Debugw("executing list tickets use case",
		"page", query.Page,
		"page_size", query.PageSize)

	filter, err := buildFilter(query)
	if err != nil {
		return nil, err
	}

	tickets, total, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "error", err)
		return nil, err
	}

	return &ListTicketsResult{
		Tickets:    tickets,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
	}, nil
}

func buildFilter(q ListTicketsQuery) (repository.TicketFilter, error) {
	if q.Page < 1 {
		q.Page = constants.DefaultPage
	}
	if q.PageSize <= 0 {
		q.PageSize = constants.DefaultPageSize
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}

	filter := repository.TicketFilter{
		BaseFilter: query.NewBaseFilter(
			query.WithPage(q.Page, q.PageSize),
			query.WithSort(q.SortBy, q.SortOrder),
		),
		Category:   strings.TrimSpace(q.Category),
		Reporter:   strings.TrimSpace(q.Reporter),
		Technician: strings.TrimSpace(q.Technician),
		Search:     q.Search,
	}

	var err error
	if filter.Status, err = canonical("status", q.Status, ticketStatuses); err != nil {
		return filter, err
	}
	if filter.Priority, err = canonical("priority", q.Priority, ticketPriorities); err != nil {
		return filter, err
	}

	if q.From != "" {
		from, err := dayStart(q.From)
		if err != nil {
			return filter, errors.NewValidationError("invalid from date", err.Error())
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := dayStart(q.To)
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

// canonical matches value case-insensitively against allowed.
func canonical(field, value string, allowed []string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return a, nil
		}
	}
	return "", errors.NewValidationError("invalid "+field, value+" (allowed: "+strings.Join(allowed, ", ")+")")
}

func dayStart(value string) (time.Time, error) {
	d, err := biztime.ParseLegacyDate(value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, biztime.Location()), nil
}
