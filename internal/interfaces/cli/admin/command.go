package admin

import (
	"fmt"

	"github.com/spf13/cobra"

	"soportes/internal/application/user/usecases"
	"soportes/internal/infrastructure/auth"
	"soportes/internal/infrastructure/repository"
	"soportes/internal/interfaces/cli/clienv"
)

// NewCommand builds the admin command group.
func NewCommand(flags *clienv.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative account tools",
	}

	cmd.AddCommand(newCreateCommand(flags))

	return cmd
}

func newCreateCommand(flags *clienv.Flags) *cobra.Command {
	var c usecases.CreateAdminCommand
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator",
		Long:  `Create an administrator account in the target store.`,
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

			uc := usecases.NewCreateAdminUseCase(
				repository.NewUserRepository(db, env.Logger),
				auth.NewBcryptPasswordHasher(env.Config.Auth.Password.BcryptCost),
				env.Logger,
			)
			user, err := uc.Execute(cmd.Context(), c)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Administrator %s created (id %s)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&c.Username, "username", "", "Login name (required)")
	cmd.Flags().StringVar(&c.Password, "password", "", "Password, 8 to 72 bytes (required)")
	cmd.Flags().StringVar(&c.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&c.Department, "department", "", "Department")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")

	return cmd
}
