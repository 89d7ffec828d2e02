package tickets

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"soportes/internal/application/notification"
	"soportes/internal/application/ticket/usecases"
	"soportes/internal/infrastructure/email"
	"soportes/internal/infrastructure/export"
	"soportes/internal/infrastructure/repository"
	"soportes/internal/interfaces/cli/clienv"
	"soportes/internal/shared/biztime"
)

// NewCommand builds the tickets command group.
func NewCommand(flags *clienv.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Query, export and notify tickets in the target store",
	}

	cmd.AddCommand(
		newListCommand(flags),
		newExportCommand(flags),
		newNotifyCommand(flags),
	)

	return cmd
}

func bindFilterFlags(cmd *cobra.Command, q *usecases.ListTicketsQuery) {
	cmd.Flags().StringVar(&q.Status, "status", "", "Open, In Progress, Resolved or Closed")
	cmd.Flags().StringVar(&q.Priority, "priority", "", "Low, Medium, High or Urgent")
	cmd.Flags().StringVar(&q.Category, "category", "", "Ticket category")
	cmd.Flags().StringVar(&q.Reporter, "user", "", "Reporter username")
	cmd.Flags().StringVar(&q.Technician, "technician", "", "Assigned technician username")
	cmd.Flags().StringVar(&q.Search, "q", "", "Search problem, solution and reporter")
	cmd.Flags().StringVar(&q.From, "from", "", "Created on or after this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&q.To, "to", "", "Created on or before this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&q.SortBy, "sort", "", "number, created_at, status, priority or category")
	cmd.Flags().StringVar(&q.SortOrder, "order", "desc", "asc or desc")
}

func newListCommand(flags *clienv.Flags) *cobra.Command {
	var q usecases.ListTicketsQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := clienv.Init(flags)
			if err != nil {
				return err
			}
			db, err := env.OpenTarget()
			if err != nil {
				return err
			}
			defer env.CloseTarget(db)

			uc := usecases.NewListTicketsUseCase(repository.NewTicketRepository(db), env.Logger)
			result, err := uc.Execute(cmd.Context(), q)
			if err != nil {
				return err
			}

			printTickets(cmd.OutOrStdout(), result)
			return nil
		},
	}

	bindFilterFlags(cmd, &q)
	cmd.Flags().IntVar(&q.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&q.PageSize, "size", 20, "Page size (max 100)")

	return cmd
}

func printTickets(w io.Writer, r *usecases.ListTicketsResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCREATED\tSTATUS\tPRIORITY\tCATEGORY\tREPORTER\tTECHNICIAN\tPROBLEM")
	for _, t := range r.Tickets {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Number,
			localTime(t.CreatedAt),
			t.Status,
			t.Priority,
			t.Category,
			t.ReporterUsername,
			orDash(t.TechnicianUsername),
			truncate(t.Problem, 48),
		)
	}
	tw.Flush()

	pages := (r.TotalCount + int64(r.PageSize) - 1) / int64(r.PageSize)
	fmt.Fprintf(w, "\n%d ticket(s), page %d of %d\n", r.TotalCount, r.Page, max(pages, 1))
}

func newExportCommand(flags *clienv.Flags) *cobra.Command {
	var (
		q   usecases.ListTicketsQuery
		out string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export matching tickets to a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := clienv.Init(flags)
			if err != nil {
				return err
			}
			db, err := env.OpenTarget()
			if err != nil {
				return err
			}
			defer env.CloseTarget(db)

			uc := usecases.NewExportTicketsUseCase(repository.NewTicketRepository(db), env.Logger)
			result, err := uc.Execute(cmd.Context(), q)
			if err != nil {
				return err
			}
			if err := export.SaveAs(out, result.Sheet); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d ticket(s) written to %s\n", result.Count, out)
			return nil
		},
	}

	bindFilterFlags(cmd, &q)
	cmd.Flags().StringVar(&out, "out", "tickets.xlsx", "Output spreadsheet")

	return cmd
}

func newNotifyCommand(flags *clienv.Flags) *cobra.Command {
	var c usecases.NotifyTicketCommand
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Render or send a ticket notification",
		Long: `Render the email sent to a ticket's reporter. With --send the message is
delivered through the SMTP server configured in the MAIL_* settings of the
target store, or the email section of the config file when those are unset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := clienv.Init(flags)
			if err != nil {
				return err
			}
			db, err := env.OpenTarget()
			if err != nil {
				return err
			}
			defer env.CloseTarget(db)

			var sender email.Sender
			if c.Send {
				manager := email.NewEmailServiceManager(
					repository.NewSettingRepository(db, env.Logger),
					env.Config.Email,
					env.Logger,
				)
				if err := manager.Initialize(cmd.Context()); err != nil {
					return err
				}
				sender = manager
			}

			notifier, err := notification.NewService(sender, env.Logger)
			if err != nil {
				return err
			}

			uc := usecases.NewNotifyTicketUseCase(repository.NewTicketRepository(db), notifier, env.Logger)
			n, err := uc.Execute(cmd.Context(), c)
			if n != nil {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "To:      %s\n", orDash(&n.To))
				fmt.Fprintf(out, "Subject: %s\n\n%s\n", n.Subject, n.Markdown)
			}
			if err != nil {
				return err
			}
			if c.Send {
				fmt.Fprintln(cmd.OutOrStdout(), "Notification sent.")
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&c.Number, "number", 0, "Ticket number (required)")
	cmd.Flags().StringVar(&c.Event, "event", "created", "created or updated")
	cmd.Flags().BoolVar(&c.Send, "send", false, "Deliver the notification by email")
	cmd.MarkFlagRequired("number")

	return cmd
}

func localTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.In(biztime.Location()).Format("2006-01-02 15:04")
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
