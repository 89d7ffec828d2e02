package usecases

import (
	"context"

	"soportes/internal/infrastructure/export"
	"soportes/internal/shared/constants"
	"soportes/internal/shared/logger"
)

var ticketExportHeaders = []string{
	"Ticket", "Created", "Status", "Priority", "Category", "Reporter", "Department",
	"Technician", "Equipment", "Problem", "Resolution", "Completed",
}

type ExportTicketsResult struct {
	Sheet export.Sheet
	Count int
}

// ExportTicketsUseCase collects every ticket matching a query into a sheet.
// Paging in the query is ignored.
type ExportTicketsUseCase struct {
	ticketRepo TicketReader
	logger     logger.Interface
}

func NewExportTicketsUseCase(
	ticketRepo TicketReader,
	logger logger.Interface,
) *ExportTicketsUseCase {
	return &ExportTicketsUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *ExportTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*ExportTicketsResult, error) {
	query.PageSize = constants.MaxPageSize

	sheet := export.Sheet{Name: "Tickets", Headers: ticketExportHeaders}
	for page := 1; ; page++ {
		query.Page = page
		filter, err := buildFilter(query)
		if err != nil {
			return nil, err
		}

		tickets, total, err := uc.ticketRepo.List(ctx, filter)
		if err != nil {
			uc.logger.Errorw("failed to list tickets for export", "page", page, "error", err)
			return nil, err
		}
		for _, t := range tickets {
			sheet.Rows = append(sheet.Rows, []interface{}{
				t.Number, t.CreatedAt, t.Status, t.Priority, t.Category,
				t.ReporterUsername, t.ReporterDepartment, t.TechnicianUsername,
				t.EquipmentName, t.Problem, t.Resolution, t.CompletedAt,
			})
		}
		if len(tickets) == 0 || int64(len(sheet.Rows)) >= total {
			break
		}
	}

	uc.logger.Infow("tickets exported", "count", len(sheet.Rows))
	return &ExportTicketsResult{Sheet: sheet, Count: len(sheet.Rows)}, nil
}
