package maintenance

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"soportes/internal/application/maintenance/usecases"
	"soportes/internal/infrastructure/repository"
	"soportes/internal/interfaces/cli/clienv"
)

// NewCommand builds the maintenance command group.
func NewCommand(flags *clienv.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Query the maintenance schedule in the target store",
	}

	cmd.AddCommand(
		newListCommand(flags),
		newSummaryCommand(flags),
	)

	return cmd
}

func newListCommand(flags *clienv.Flags) *cobra.Command {
	var q usecases.ListMaintenanceQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled maintenances",
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

			uc := usecases.NewListMaintenanceUseCase(repository.NewMaintenanceRepository(db), env.Logger)
			result, err := uc.Execute(cmd.Context(), q)
			if err != nil {
				return err
			}

			printMaintenances(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&q.Equipment, "equipment", "", "Equipment name")
	cmd.Flags().StringVar(&q.Status, "status", "", "Pending or Done")
	cmd.Flags().StringVar(&q.Technician, "technician", "", "Assigned technician username")
	cmd.Flags().StringVar(&q.From, "from", "", "Scheduled on or after this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&q.To, "to", "", "Scheduled on or before this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&q.SortBy, "sort", "", "scheduled, status, title or equipment")
	cmd.Flags().StringVar(&q.SortOrder, "order", "asc", "asc or desc")
	cmd.Flags().IntVar(&q.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&q.PageSize, "size", 20, "Page size (max 100)")

	return cmd
}

func printMaintenances(w io.Writer, r *usecases.ListMaintenanceResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCHEDULED\tSTATUS\tEQUIPMENT\tTECHNICIAN\tTITLE")
	for _, m := range r.Maintenances {
		technician := "-"
		if m.TechnicianUsername != nil {
			technician = *m.TechnicianUsername
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			m.ScheduledDate.UTC().Format(time.DateOnly),
			m.Status,
			m.EquipmentName,
			technician,
			m.Title,
		)
	}
	tw.Flush()

	pages := (r.TotalCount + int64(r.PageSize) - 1) / int64(r.PageSize)
	fmt.Fprintf(w, "\n%d maintenance(s), page %d of %d\n", r.TotalCount, r.Page, max(pages, 1))
}

func newSummaryCommand(flags *clienv.Flags) *cobra.Command {
	var q usecases.SummarizeMaintenanceQuery
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count pending and done maintenances per month of a year",
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

			uc := usecases.NewSummarizeMaintenanceUseCase(repository.NewMaintenanceRepository(db), env.Logger)
			summary, err := uc.Execute(cmd.Context(), q)
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().IntVar(&q.Year, "year", 0, "Calendar year (default current year)")
	cmd.Flags().StringVar(&q.Equipment, "equipment", "", "Equipment name")
	cmd.Flags().StringVar(&q.Technician, "technician", "", "Assigned technician username")

	return cmd
}

func printSummary(w io.Writer, s *usecases.MaintenanceSummary) {
	fmt.Fprintf(w, "Maintenance schedule %d\n\n", s.Year)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MONTH\tPENDING\tDONE\t")
	for m := time.January; m <= time.December; m++ {
		c := s.Month(m)
		fmt.Fprintf(tw, "%s\t%d\t%d\t\n", m, c.Pending, c.Done)
	}
	fmt.Fprintln(tw, "\t\t\t")
	for i, c := range s.Quarters {
		fmt.Fprintf(tw, "Q%d\t%d\t%d\t\n", i+1, c.Pending, c.Done)
	}
	fmt.Fprintf(tw, "Total\t%d\t%d\t\n", s.Total.Pending, s.Total.Done)
	tw.Flush()
}
