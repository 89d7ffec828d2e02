package migrate

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"soportes/internal/application/legacymigration"
	"soportes/internal/infrastructure/export"
	"soportes/internal/infrastructure/migration"
	"soportes/internal/interfaces/cli/clienv"
	"soportes/internal/shared/constants"
)

// NewCommand builds the migrate command group.
func NewCommand(flags *clienv.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Migrate the legacy store into the current schema and manage the target schema version.`,
	}

	cmd.AddCommand(
		newLegacyCommand(flags),
		newUpCommand(flags),
		newDownCommand(flags),
		newStatusCommand(flags),
	)

	return cmd
}

type legacyOptions struct {
	source   string
	dest     string
	reset    bool
	report   string
	xlsx     string
	strategy string
}

func newLegacyCommand(flags *clienv.Flags) *cobra.Command {
	opts := &legacyOptions{}
	cmd := &cobra.Command{
		Use:   "legacy",
		Short: "Migrate the legacy store",
		Long: `Copy every row of the legacy integer-keyed store into a fresh target store,
replacing keys with opaque identifiers and numbering tickets by creation time.

Exit status is 0 when every row migrated, 3 when some rows were skipped
(see the report), and 1 when the run was aborted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacy(cmd, flags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "", "Legacy SQLite file (default: legacy.source_path)")
	cmd.Flags().StringVar(&opts.dest, "dest", "", "Target SQLite file (default: legacy.destination_path)")
	cmd.Flags().BoolVar(&opts.reset, "reset", false, "Delete an existing destination before migrating")
	cmd.Flags().StringVar(&opts.report, "report", "", "Write the run report as YAML to this file")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "Write the run report as a spreadsheet to this file")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "Schema strategy: goose, golang_migrate or gorm_auto_migrate")

	return cmd
}

func runLegacy(cmd *cobra.Command, flags *clienv.Flags, opts *legacyOptions) error {
	env, err := clienv.Init(flags)
	if err != nil {
		return err
	}
	cfg := env.Config

	migrateOpts := legacymigration.Options{
		Source:      firstNonEmpty(opts.source, cfg.Legacy.SourcePath),
		Destination: firstNonEmpty(opts.dest, cfg.Legacy.DestinationPath),
		Reset:       opts.reset,
		Strategy:    firstNonEmpty(opts.strategy, cfg.Database.SchemaStrategy),
	}
	if cfg.Database.Driver == constants.DriverMySQL && opts.dest == "" {
		migrateOpts.Target = &cfg.Database
		if opts.strategy == "" {
			migrateOpts.Strategy = constants.StrategyAutoMigrate
		}
	}

	svc := legacymigration.NewService(env.Logger)
	report, err := svc.Migrate(cmd.Context(), migrateOpts)
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report)

	if path := firstNonEmpty(opts.report, cfg.Legacy.ReportPath); path != "" {
		if err := writeYAMLReport(path, report); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
	}
	if opts.xlsx != "" {
		if err := export.SaveAs(opts.xlsx, report.Sheets()...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Spreadsheet written to %s\n", opts.xlsx)
	}

	if report.Outcome() == legacymigration.OutcomeWarnings {
		return &clienv.ExitError{Code: clienv.ExitWarnings}
	}
	return nil
}

func printReport(w io.Writer, r *legacymigration.Report) {
	fmt.Fprintf(w, "\nLegacy migration (%s)\n", r.Strategy)
	fmt.Fprintf(w, "  Source:      %s\n", r.Source)
	fmt.Fprintf(w, "  Destination: %s\n", r.Destination)
	fmt.Fprintf(w, "  Outcome:     %s\n\n", r.Outcome())

	fmt.Fprintf(w, "  %-24s %8s %8s %8s\n", "TABLE", "READ", "MIGRATED", "FAILED")
	for _, s := range r.Tables {
		fmt.Fprintf(w, "  %-24s %8d %8d %8d\n", s.Table, s.Read, s.Migrated, s.Failed)
	}
	fmt.Fprintf(w, "\n  Last ticket number: %d\n", r.LastTicketNumber)

	if len(r.Failures) > 0 {
		fmt.Fprintf(w, "\nSkipped rows (%d):\n", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	if len(r.Notes) > 0 {
		fmt.Fprintf(w, "\nNotes (%d):\n", len(r.Notes))
		for _, n := range r.Notes {
			fmt.Fprintf(w, "  - %s\n", n)
		}
	}
	fmt.Fprintln(w)
}

func writeYAMLReport(path string, r *legacymigration.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := r.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newUpCommand(flags *clienv.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending schema migrations to the target store.`,
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

			manager, err := migration.NewManager(&env.Config.Database, env.Logger)
			if err != nil {
				return err
			}

			env.Logger.Infow("running up migrations", "strategy", manager.GetStrategy().GetName())
			if err := manager.Migrate(db); err != nil {
				env.Logger.Errorw("migration failed", "error", err)
				return fmt.Errorf("migration failed: %w", err)
			}

			env.Logger.Infow("migrations completed successfully")
			return nil
		},
	}
}

func newDownCommand(flags *clienv.Flags) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of schema migrations.`,
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

			manager, err := migration.NewManager(&env.Config.Database, env.Logger)
			if err != nil {
				return err
			}

			env.Logger.Infow("running down migrations", "steps", steps)
			if err := manager.Rollback(db, steps); err != nil {
				env.Logger.Errorw("down migration failed", "error", err)
				return fmt.Errorf("down migration failed: %w", err)
			}

			env.Logger.Infow("down migration completed successfully")
			return nil
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand(flags *clienv.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current schema version and the state of every migration.`,
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

			manager, err := migration.NewManager(&env.Config.Database, env.Logger)
			if err != nil {
				return err
			}

			version, dirty, err := manager.Version(db)
			if err != nil {
				return fmt.Errorf("failed to get migration version: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nMigration Status:\n")
			info := manager.GetStrategyInfo()
			fmt.Fprintf(out, "  Strategy:        %s (%s)\n", info["name"], info["description"])
			fmt.Fprintf(out, "  Current Version: %d\n", version)
			if dirty {
				fmt.Fprintf(out, "  State:           dirty\n")
			}

			return manager.Status(db, out)
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
