// Package notification renders and delivers ticket emails to reporters.
package notification

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"text/template"
	"time"

	"soportes/internal/infrastructure/email"
	"soportes/internal/infrastructure/repository"
	"soportes/internal/shared/biztime"
	"soportes/internal/shared/goroutine"
	"soportes/internal/shared/logger"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

// Event names the ticket change being announced.
type Event string

const (
	EventCreated Event = "created"
	EventUpdated Event = "updated"
)

// ParseEvent validates an event name.
func ParseEvent(s string) (Event, error) {
	switch Event(s) {
	case EventCreated, EventUpdated:
		return Event(s), nil
	}
	return "", fmt.Errorf("unknown notification event %q (want created or updated)", s)
}

// ErrNoRecipient means the reporter has no email address on file.
var ErrNoRecipient = errors.New("ticket reporter has no email address")

// Notification is a rendered message ready for delivery.
type Notification struct {
	To       string
	Subject  string
	Markdown string
	HTML     string
}

type ticketData struct {
	Number      int64
	Reporter    string
	Status      string
	Priority    string
	Category    string
	Problem     string
	Resolution  string
	Technician  string
	Equipment   string
	CreatedAt   string
	CompletedAt string
}

// Service composes ticket notifications and hands them to a sender.
type Service struct {
	sender    email.Sender
	templates *template.Template
	markdown  *markdownRenderer
	logger    logger.Interface
}

// NewService creates a notification service. sender may be nil when only
// Compose is needed.
func NewService(sender email.Sender, log logger.Interface) (*Service, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse notification templates: %w", err)
	}
	return &Service{
		sender:    sender,
		templates: tmpl,
		markdown:  newMarkdownRenderer(),
		logger:    log.Named("notification"),
	}, nil
}

// Compose renders the notification for event on ticket.
func (s *Service) Compose(event Event, ticket *repository.TicketView) (*Notification, error) {
	var subject string
	switch event {
	case EventCreated:
		subject = fmt.Sprintf("Soporte Registrado [ID: #%d]", ticket.Number)
	case EventUpdated:
		subject = fmt.Sprintf("Actualización de Soporte [ID: #%d] - %s", ticket.Number, ticket.Status)
	default:
		return nil, fmt.Errorf("unknown notification event %q", event)
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, string(event)+".md.tmpl", newTicketData(ticket)); err != nil {
		return nil, fmt.Errorf("failed to render %s notification: %w", event, err)
	}
	body, err := s.markdown.render(buf.String())
	if err != nil {
		return nil, err
	}

	n := &Notification{
		Subject:  subject,
		Markdown: buf.String(),
		HTML:     body,
	}
	if ticket.ReporterEmail != nil {
		n.To = *ticket.ReporterEmail
	}
	return n, nil
}

// Send delivers a composed notification.
func (s *Service) Send(n *Notification) error {
	if n.To == "" {
		return ErrNoRecipient
	}
	if s.sender == nil {
		return email.ErrEmailServiceNotConfigured
	}
	return s.sender.Send(email.Message{
		To:        n.To,
		Subject:   n.Subject,
		PlainBody: n.Markdown,
		HTMLBody:  n.HTML,
	})
}

// Notify composes and sends in the caller's goroutine.
func (s *Service) Notify(ctx context.Context, event Event, ticket *repository.TicketView) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := s.Compose(event, ticket)
	if err != nil {
		return err
	}
	return s.Send(n)
}

// NotifyAsync delivers in the background. Failures are logged and never
// reach the caller; the returned channel closes when delivery is over.
func (s *Service) NotifyAsync(ctx context.Context, event Event, ticket *repository.TicketView) <-chan struct{} {
	return goroutine.SafeGo(s.logger, "notify-ticket", func() {
		if err := s.Notify(ctx, event, ticket); err != nil {
			s.logger.Warnw("ticket notification not delivered",
				"ticket", ticket.Number,
				"event", event,
				"error", err,
			)
			return
		}
		s.logger.Infow("ticket notification sent", "ticket", ticket.Number, "event", event)
	})
}

func newTicketData(t *repository.TicketView) ticketData {
	return ticketData{
		Number:      t.Number,
		Reporter:    t.ReporterUsername,
		Status:      t.Status,
		Priority:    t.Priority,
		Category:    t.Category,
		Problem:     t.Problem,
		Resolution:  deref(t.Resolution),
		Technician:  deref(t.TechnicianUsername),
		Equipment:   deref(t.EquipmentName),
		CreatedAt:   localTime(t.CreatedAt),
		CompletedAt: localTime(t.CompletedAt),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func localTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(biztime.Location()).Format("02/01/2006 15:04")
}
