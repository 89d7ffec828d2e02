package usecases

import (
	"context"

	"soportes/internal/application/notification"
	"soportes/internal/shared/errors"
	"soportes/internal/shared/logger"
)

type NotifyTicketCommand struct {
	Number int64
	Event  string
	// Send delivers the message; otherwise it is only rendered.
	Send bool
}

type NotifyTicketUseCase struct {
	ticketRepo TicketReader
	notifier   TicketNotifier
	logger     logger.Interface
}

func NewNotifyTicketUseCase(
	ticketRepo TicketReader,
	notifier TicketNotifier,
	logger logger.Interface,
) *NotifyTicketUseCase {
	return &NotifyTicketUseCase{
		ticketRepo: ticketRepo,
		notifier:   notifier,
		logger:     logger,
	}
}

func (uc *NotifyTicketUseCase) Execute(ctx context.Context, cmd NotifyTicketCommand) (*notification.Notification, error) {
	event, err := notification.ParseEvent(cmd.Event)
	if err != nil {
		return nil, errors.NewValidationError("invalid event", err.Error())
	}
	if cmd.Number <= 0 {
		return nil, errors.NewValidationError("ticket number must be positive")
	}

	ticket, err := uc.ticketRepo.FindByNumber(ctx, cmd.Number)
	if err != nil {
		return nil, err
	}

	n, err := uc.notifier.Compose(event, ticket)
	if err != nil {
		return nil, err
	}

	if cmd.Send {
		if err := uc.notifier.Send(n); err != nil {
			uc.logger.Warnw("failed to send ticket notification",
				"ticket", cmd.Number,
				"event", event,
				"error", err)
			return n, err
		}
		uc.logger.Infow("ticket notification sent", "ticket", cmd.Number, "event", event, "to", n.To)
	}
	return n, nil
}
