package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soportes/internal/infrastructure/repository"
	"soportes/internal/shared/constants"
	apperrors "soportes/internal/shared/errors"
	"soportes/internal/shared/logger"
)

func TestListMaintenanceUseCase_Execute(t *testing.T) {
	var got repository.MaintenanceFilter
	repo := &mockMaintenanceReader{
		ListFunc: func(ctx context.Context, filter repository.MaintenanceFilter) ([]repository.MaintenanceView, int64, error) {
			got = filter
			return []repository.MaintenanceView{{ID: "m-1"}}, 1, nil
		},
	}
	uc := NewListMaintenanceUseCase(repo, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), ListMaintenanceQuery{
		Equipment:  " LAP-01 ",
		Status:     "pendiente",
		Technician: "bob",
		From:       "2024-01-01",
		To:         "31/01/2024",
		PageSize:   500,
	})
	require.NoError(t, err)

	assert.Len(t, result.Maintenances, 1)
	assert.Equal(t, int64(1), result.TotalCount)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 100, result.PageSize)

	assert.Equal(t, "LAP-01", got.Equipment)
	assert.Equal(t, constants.MaintenanceStatusPending, got.Status)
	assert.Equal(t, "bob", got.Technician)
	require.NotNil(t, got.From)
	require.NotNil(t, got.To)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *got.From)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *got.To)
	assert.False(t, got.IsDescending())
}

func TestListMaintenanceUseCase_Validation(t *testing.T) {
	uc := NewListMaintenanceUseCase(&mockMaintenanceReader{}, logger.NewNopLogger())

	tests := []struct {
		name  string
		query ListMaintenanceQuery
	}{
		{"unknown status", ListMaintenanceQuery{Status: "Open"}},
		{"bad date", ListMaintenanceQuery{To: "pronto"}},
		{"inverted range", ListMaintenanceQuery{From: "2024-03-05", To: "2024-03-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.query)
			assert.True(t, apperrors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestSummarizeMaintenanceUseCase_Execute(t *testing.T) {
	var got repository.MaintenanceFilter
	repo := &mockMaintenanceReader{
		CountByMonthFunc: func(ctx context.Context, filter repository.MaintenanceFilter) ([]repository.MonthlyStatusCount, error) {
			got = filter
			return []repository.MonthlyStatusCount{
				{Year: 2024, Month: time.January, Pending: 2, Done: 1},
				{Year: 2024, Month: time.March, Done: 4},
				{Year: 2024, Month: time.November, Pending: 1},
			}, nil
		},
	}
	uc := NewSummarizeMaintenanceUseCase(repo, logger.NewNopLogger())

	summary, err := uc.Execute(context.Background(), SummarizeMaintenanceQuery{Year: 2024, Technician: "bob"})
	require.NoError(t, err)

	assert.Equal(t, "bob", got.Technician)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *got.From)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *got.To)

	assert.Equal(t, 2024, summary.Year)
	assert.Equal(t, StatusCount{Pending: 2, Done: 1}, summary.Month(time.January))
	assert.Equal(t, StatusCount{}, summary.Month(time.February))
	assert.Equal(t, StatusCount{Done: 4}, summary.Month(time.March))
	assert.Equal(t, [4]StatusCount{{Pending: 2, Done: 5}, {}, {}, {Pending: 1}}, summary.Quarters)
	assert.Equal(t, int64(8), summary.Total.Total())
}

func TestSummarizeMaintenanceUseCase_DefaultsToCurrentYear(t *testing.T) {
	var got repository.MaintenanceFilter
	repo := &mockMaintenanceReader{
		CountByMonthFunc: func(ctx context.Context, filter repository.MaintenanceFilter) ([]repository.MonthlyStatusCount, error) {
			got = filter
			return nil, nil
		},
	}
	uc := NewSummarizeMaintenanceUseCase(repo, logger.NewNopLogger())
	uc.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }

	summary, err := uc.Execute(context.Background(), SummarizeMaintenanceQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2026, summary.Year)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *got.From)
	assert.Zero(t, summary.Total.Total())
}

func TestSummarizeMaintenanceUseCase_Errors(t *testing.T) {
	boom := errors.New("database is locked")
	uc := NewSummarizeMaintenanceUseCase(&mockMaintenanceReader{
		CountByMonthFunc: func(ctx context.Context, filter repository.MaintenanceFilter) ([]repository.MonthlyStatusCount, error) {
			return nil, boom
		},
	}, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), SummarizeMaintenanceQuery{Year: 2024})
	assert.ErrorIs(t, err, boom)

	_, err = uc.Execute(context.Background(), SummarizeMaintenanceQuery{Year: 12})
	assert.True(t, apperrors.IsValidationError(err))
}
