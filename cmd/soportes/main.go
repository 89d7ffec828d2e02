package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"soportes/internal/interfaces/cli/admin"
	"soportes/internal/interfaces/cli/clienv"
	"soportes/internal/interfaces/cli/maintenance"
	"soportes/internal/interfaces/cli/migrate"
	"soportes/internal/interfaces/cli/tickets"
)

func main() {
	flags := &clienv.Flags{}

	rootCmd := &cobra.Command{
		Use:           "soportes",
		Short:         "Soportes - IT help-desk store tooling",
		Long:          `Soportes migrates the legacy help-desk database into the current schema and manages the migrated store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.Bind(rootCmd)

	rootCmd.AddCommand(
		migrate.NewCommand(flags),
		admin.NewCommand(flags),
		tickets.NewCommand(flags),
		maintenance.NewCommand(flags),
	)

	if err := rootCmd.Execute(); err != nil {
		if !clienv.Silent(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(clienv.ExitCode(err))
	}
}
