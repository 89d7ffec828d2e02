package admin

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"soportes/internal/infrastructure/database"
	"soportes/internal/infrastructure/migration"
	"soportes/internal/infrastructure/persistence/models"
	"soportes/internal/interfaces/cli/clienv"
	"soportes/internal/shared/config"
	"soportes/internal/shared/constants"
	"soportes/internal/shared/errors"
	"soportes/internal/shared/logger"
)

func execute(t *testing.T, flags *clienv.Flags, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(flags)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// emptyStore creates a target store with the current schema and no rows.
func emptyStore(t *testing.T) *clienv.Flags {
	t.Helper()
	t.Setenv("SOPORTES_LOGGER_LEVEL", "error")
	t.Setenv("SOPORTES_AUTH_PASSWORD_BCRYPT_COST", "4")

	path := filepath.Join(t.TempDir(), "soportes_v2.db")
	db, err := database.Open(&config.DatabaseConfig{Driver: constants.DriverSQLite, Path: path})
	require.NoError(t, err)
	require.NoError(t, migration.NewGooseStrategy(logger.NewNopLogger()).Migrate(db))
	require.NoError(t, database.Close(db))
	return &clienv.Flags{DBPath: path}
}

func TestCreateCommand(t *testing.T) {
	flags := emptyStore(t)

	out, err := execute(t, flags, "create",
		"--username", "soporte", "--password", "s3cret-pass",
		"--email", "soporte@example.com", "--department", "Sistemas")
	require.NoError(t, err)
	assert.Contains(t, out, "Administrator soporte created (id ")

	db, err := database.Open(&config.DatabaseConfig{Driver: constants.DriverSQLite, Path: flags.DBPath})
	require.NoError(t, err)
	defer database.Close(db)

	var user models.UserModel
	require.NoError(t, db.First(&user, "username = ?", "soporte").Error)
	assert.Equal(t, constants.RoleAdmin, user.Role)
	require.NotNil(t, user.Email)
	assert.Equal(t, "soporte@example.com", *user.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
}

func TestCreateCommandDuplicateUsername(t *testing.T) {
	flags := emptyStore(t)

	_, err := execute(t, flags, "create", "--username", "soporte", "--password", "s3cret-pass")
	require.NoError(t, err)

	_, err = execute(t, flags, "create", "--username", "soporte", "--password", "other-pass")
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err), "got %v", err)
	assert.Equal(t, clienv.ExitFatal, clienv.ExitCode(err))
}

func TestCreateCommandValidation(t *testing.T) {
	flags := emptyStore(t)

	tests := []struct {
		name string
		args []string
	}{
		{"short password", []string{"--username", "soporte", "--password", "short"}},
		{"bad email", []string{"--username", "soporte", "--password", "s3cret-pass", "--email", "not-an-address"}},
		{"blank username", []string{"--username", "  ", "--password", "s3cret-pass"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, flags, append([]string{"create"}, tt.args...)...)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}

	t.Run("password required", func(t *testing.T) {
		_, err := execute(t, flags, "create", "--username", "soporte")
		assert.Error(t, err)
	})
}
