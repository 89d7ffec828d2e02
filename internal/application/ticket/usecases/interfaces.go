package usecases

import (
	"context"

	"soportes/internal/application/notification"
	"soportes/internal/infrastructure/repository"
)

// TicketReader is the read side of the ticket repository.
type TicketReader interface {
	FindByNumber(ctx context.Context, number int64) (*repository.TicketView, error)
	List(ctx context.Context, filter repository.TicketFilter) ([]repository.TicketView, int64, error)
}

// TicketNotifier renders and delivers ticket notifications.
type TicketNotifier interface {
	Compose(event notification.Event, ticket *repository.TicketView) (*notification.Notification, error)
	Send(n *notification.Notification) error
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error)
}

type ExportTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) (*ExportTicketsResult, error)
}

type NotifyTicketExecutor interface {
	Execute(ctx context.Context, cmd NotifyTicketCommand) (*notification.Notification, error)
}
