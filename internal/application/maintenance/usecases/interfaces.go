package usecases

import (
	"context"

	"soportes/internal/infrastructure/repository"
)

// MaintenanceReader is the read side of the maintenance repository.
type MaintenanceReader interface {
	List(ctx context.Context, filter repository.MaintenanceFilter) ([]repository.MaintenanceView, int64, error)
	CountByMonth(ctx context.Context, filter repository.MaintenanceFilter) ([]repository.MonthlyStatusCount, error)
}

type ListMaintenanceExecutor interface {
	Execute(ctx context.Context, query ListMaintenanceQuery) (*ListMaintenanceResult, error)
}

type SummarizeMaintenanceExecutor interface {
	Execute(ctx context.Context, query SummarizeMaintenanceQuery) (*MaintenanceSummary, error)
}
