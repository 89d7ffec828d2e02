package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soportes/internal/application/notification"
	"soportes/internal/infrastructure/repository"
	"soportes/internal/shared/biztime"
	apperrors "soportes/internal/shared/errors"
	"soportes/internal/shared/logger"
)

func TestListTicketsUseCase_Execute(t *testing.T) {
	require.NoError(t, biztime.Init("America/Bogota"))

	var got repository.TicketFilter
	repo := &mockTicketReader{
		ListFunc: func(ctx context.Context, filter repository.TicketFilter) ([]repository.TicketView, int64, error) {
			got = filter
			return []repository.TicketView{{Number: 2}, {Number: 1}}, 2, nil
		},
	}
	uc := NewListTicketsUseCase(repo, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), ListTicketsQuery{
		Status:   "in progress",
		Priority: "HIGH",
		Search:   "impresora",
		From:     "2024-03-01",
		To:       "2024-03-01",
		PageSize: 500,
	})
	require.NoError(t, err)

	assert.Len(t, result.Tickets, 2)
	assert.Equal(t, int64(2), result.TotalCount)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 100, result.PageSize)

	assert.Equal(t, "In Progress", got.Status)
	assert.Equal(t, "High", got.Priority)
	require.NotNil(t, got.From)
	require.NotNil(t, got.To)
	// Bogota is UTC-5: the whole local day of March 1st.
	assert.Equal(t, time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC), got.From.UTC())
	assert.Equal(t, time.Date(2024, 3, 2, 5, 0, 0, 0, time.UTC), got.To.UTC())
	assert.True(t, got.IsDescending())
}

func TestListTicketsUseCase_Validation(t *testing.T) {
	uc := NewListTicketsUseCase(&mockTicketReader{}, logger.NewNopLogger())

	tests := []struct {
		name  string
		query ListTicketsQuery
	}{
		{"unknown status", ListTicketsQuery{Status: "Pending"}},
		{"unknown priority", ListTicketsQuery{Priority: "Critical"}},
		{"bad date", ListTicketsQuery{From: "yesterday"}},
		{"inverted range", ListTicketsQuery{From: "2024-03-05", To: "2024-03-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.query)
			assert.True(t, apperrors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestExportTicketsUseCase_Execute(t *testing.T) {
	all := make([]repository.TicketView, 150)
	for i := range all {
		all[i] = repository.TicketView{Number: int64(150 - i), Status: "Open"}
	}

	calls := 0
	repo := &mockTicketReader{
		ListFunc: func(ctx context.Context, filter repository.TicketFilter) ([]repository.TicketView, int64, error) {
			calls++
			start := filter.Offset()
			end := min(start+filter.Limit(), len(all))
			if start >= len(all) {
				return nil, int64(len(all)), nil
			}
			return all[start:end], int64(len(all)), nil
		},
	}
	uc := NewExportTicketsUseCase(repo, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), ListTicketsQuery{Page: 3, PageSize: 5})
	require.NoError(t, err)

	assert.Equal(t, 150, result.Count)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "Tickets", result.Sheet.Name)
	assert.Equal(t, int64(150), result.Sheet.Rows[0][0])
	assert.Equal(t, int64(1), result.Sheet.Rows[149][0])
}

func TestExportTicketsUseCase_RepositoryError(t *testing.T) {
	repo := &mockTicketReader{
		ListFunc: func(ctx context.Context, filter repository.TicketFilter) ([]repository.TicketView, int64, error) {
			return nil, 0, errors.New("database is locked")
		},
	}
	_, err := NewExportTicketsUseCase(repo, logger.NewNopLogger()).Execute(context.Background(), ListTicketsQuery{})
	assert.Error(t, err)
}

func TestNotifyTicketUseCase_Execute(t *testing.T) {
	email := "alice@example.com"
	repo := &mockTicketReader{
		FindByNumberFunc: func(ctx context.Context, number int64) (*repository.TicketView, error) {
			if number != 7 {
				return nil, apperrors.NewNotFoundError("ticket not found")
			}
			return &repository.TicketView{Number: 7, ReporterEmail: &email}, nil
		},
	}

	t.Run("render only", func(t *testing.T) {
		notifier := &mockTicketNotifier{}
		uc := NewNotifyTicketUseCase(repo, notifier, logger.NewNopLogger())

		n, err := uc.Execute(context.Background(), NotifyTicketCommand{Number: 7, Event: "created"})
		require.NoError(t, err)
		assert.Equal(t, "created", n.Subject)
		assert.Empty(t, notifier.sent)
	})

	t.Run("send", func(t *testing.T) {
		notifier := &mockTicketNotifier{}
		uc := NewNotifyTicketUseCase(repo, notifier, logger.NewNopLogger())

		_, err := uc.Execute(context.Background(), NotifyTicketCommand{Number: 7, Event: "updated", Send: true})
		require.NoError(t, err)
		assert.Len(t, notifier.sent, 1)
	})

	t.Run("send failure is returned", func(t *testing.T) {
		notifier := &mockTicketNotifier{SendFunc: func(*notification.Notification) error { return errors.New("dial tcp: refused") }}
		uc := NewNotifyTicketUseCase(repo, notifier, logger.NewNopLogger())

		n, err := uc.Execute(context.Background(), NotifyTicketCommand{Number: 7, Event: "updated", Send: true})
		assert.Error(t, err)
		assert.NotNil(t, n)
	})

	t.Run("invalid input", func(t *testing.T) {
		uc := NewNotifyTicketUseCase(repo, &mockTicketNotifier{}, logger.NewNopLogger())

		_, err := uc.Execute(context.Background(), NotifyTicketCommand{Number: 7, Event: "closed"})
		assert.True(t, apperrors.IsValidationError(err))

		_, err = uc.Execute(context.Background(), NotifyTicketCommand{Number: 0, Event: "created"})
		assert.True(t, apperrors.IsValidationError(err))

		_, err = uc.Execute(context.Background(), NotifyTicketCommand{Number: 99, Event: "created"})
		assert.True(t, apperrors.IsNotFoundError(err))
	})
}
