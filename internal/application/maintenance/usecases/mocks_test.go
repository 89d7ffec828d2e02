package usecases

import (
	"context"

	"soportes/internal/infrastructure/repository"
)

type mockMaintenanceReader struct {
	ListFunc         func(ctx context.Context, filter repository.MaintenanceFilter) ([]repository.MaintenanceView, int64, error)
	CountByMonthFunc func(ctx context.Context, filter repository.MaintenanceFilter) ([]repository.MonthlyStatusCount, error)
}

func (m *mockMaintenanceReader) List(ctx context.Context, filter repository.MaintenanceFilter) ([]repository.MaintenanceView, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockMaintenanceReader) CountByMonth(ctx context.Context, filter repository.MaintenanceFilter) ([]repository.MonthlyStatusCount, error) {
	if m.CountByMonthFunc != nil {
		return m.CountByMonthFunc(ctx, filter)
	}
	return nil, nil
}
