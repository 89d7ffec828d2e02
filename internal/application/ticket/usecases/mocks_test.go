package usecases

import (
	"context"

	"soportes/internal/application/notification"
	"soportes/internal/infrastructure/repository"
	apperrors "soportes/internal/shared/errors"
)

type mockTicketReader struct {
	FindByNumberFunc func(ctx context.Context, number int64) (*repository.TicketView, error)
	ListFunc         func(ctx context.Context, filter repository.TicketFilter) ([]repository.TicketView, int64, error)
}

func (m *mockTicketReader) FindByNumber(ctx context.Context, number int64) (*repository.TicketView, error) {
	if m.FindByNumberFunc != nil {
		return m.FindByNumberFunc(ctx, number)
	}
	return nil, apperrors.NewNotFoundError("ticket not found")
}

func (m *mockTicketReader) List(ctx context.Context, filter repository.TicketFilter) ([]repository.TicketView, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

type mockTicketNotifier struct {
	ComposeFunc func(event notification.Event, ticket *repository.TicketView) (*notification.Notification, error)
	SendFunc    func(n *notification.Notification) error
	sent        []*notification.Notification
}

func (m *mockTicketNotifier) Compose(event notification.Event, ticket *repository.TicketView) (*notification.Notification, error) {
	if m.ComposeFunc != nil {
		return m.ComposeFunc(event, ticket)
	}
	return &notification.Notification{Subject: string(event)}, nil
}

func (m *mockTicketNotifier) Send(n *notification.Notification) error {
	m.sent = append(m.sent, n)
	if m.SendFunc != nil {
		return m.SendFunc(n)
	}
	return nil
}
