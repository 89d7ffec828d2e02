package usecases

import (
	"context"
	"strings"
	"time"

	"soportes/internal/infrastructure/repository"
	"soportes/internal/shared/biztime"
	"soportes/internal/shared/errors"
	"soportes/internal/shared/logger"
)

// SummarizeMaintenanceQuery selects one calendar year of the schedule.
// A zero Year means the current year in the business timezone.
type SummarizeMaintenanceQuery struct {
	Year       int
	Equipment  string
	Technician string
}

// StatusCount is a Pending/Done tally.
type StatusCount struct {
	Pending int64
	Done    int64
}

func (c StatusCount) Total() int64 {
	return c.Pending + c.Done
}

// MaintenanceSummary is a year of the schedule by month and by quarter.
// Every month and quarter is present, empty ones at zero.
type MaintenanceSummary struct {
	Year     int
	Months   [12]StatusCount
	Quarters [4]StatusCount
	Total    StatusCount
}

// Month returns the tally for m.
func (s *MaintenanceSummary) Month(m time.Month) StatusCount {
	return s.Months[m-1]
}

type SummarizeMaintenanceUseCase struct {
	maintenanceRepo MaintenanceReader
	logger          logger.Interface
	now             func() time.Time
}

func NewSummarizeMaintenanceUseCase(
	maintenanceRepo MaintenanceReader,
	logger logger.Interface,
) *SummarizeMaintenanceUseCase {
	return &SummarizeMaintenanceUseCase{
		maintenanceRepo: maintenanceRepo,
		logger:          logger,
		now:             biztime.NowUTC,
	}
}

func (uc *SummarizeMaintenanceUseCase) Execute(
	ctx context.Context,
	query SummarizeMaintenanceQuery,
) (*MaintenanceSummary, error) {
	year := query.Year
	if year == 0 {
		year = uc.now().In(biztime.Location()).Year()
	}
	if year < 1900 || year > 9999 {
		return nil, errors.NewValidationError("invalid year")
	}

	from, to := yearRange(year)
	filter := repository.MaintenanceFilter{
		Equipment:  strings.TrimSpace(query.Equipment),
		Technician: strings.TrimSpace(query.Technician),
		From:       &from,
		To:         &to,
	}

	counts, err := uc.maintenanceRepo.CountByMonth(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to summarize maintenances", "year", year, "error", err)
		return nil, err
	}

	summary := &MaintenanceSummary{Year: year}
	for _, c := range counts {
		if c.Year != year {
			continue
		}
		month := &summary.Months[c.Month-1]
		month.Pending += c.Pending
		month.Done += c.Done

		quarter := &summary.Quarters[(c.Month-1)/3]
		quarter.Pending += c.Pending
		quarter.Done += c.Done

		summary.Total.Pending += c.Pending
		summary.Total.Done += c.Done
	}
	return summary, nil
}
