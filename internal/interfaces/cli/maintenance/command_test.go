package maintenance

import (
	"bytes"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soportes/internal/application/legacymigration"
	"soportes/internal/infrastructure/legacy/legacytest"
	"soportes/internal/interfaces/cli/clienv"
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

// targetStore migrates a legacy schedule of four jobs on two machines.
func targetStore(t *testing.T) *clienv.Flags {
	t.Helper()
	t.Setenv("SOPORTES_LOGGER_LEVEL", "error")

	fx := legacytest.New(t, legacytest.Schema)
	fx.User(t, 1, "alice", "user")
	fx.User(t, 2, "bob", "tecnico")
	fx.Equipment(t, 10, "LAP-010", 1)
	fx.Equipment(t, 11, "PC-011", 0)
	for _, stmt := range []string{
		"INSERT INTO mantenimientos (id, equipo_id, titulo, fecha_programada, estado, tecnico_asignado_id) VALUES (1, 10, 'Limpieza', '2024-01-15', 'Pendiente', 2)",
		"INSERT INTO mantenimientos (id, equipo_id, titulo, fecha_programada, estado, tecnico_asignado_id) VALUES (2, 10, 'Pasta térmica', '2024-01-20', 'Ejecutado', 2)",
		"INSERT INTO mantenimientos (id, equipo_id, titulo, fecha_programada, estado) VALUES (3, 11, 'Revisión de disco', '2024-04-02', 'Pendiente')",
		"INSERT INTO mantenimientos (id, equipo_id, titulo, fecha_programada, estado) VALUES (4, 11, 'Inventario', '2023-12-31', 'Realizado')",
	} {
		fx.Exec(t, stmt)
	}

	dest := filepath.Join(t.TempDir(), "soportes_v2.db")
	_, err := legacymigration.NewService(logger.NewNopLogger()).Migrate(t.Context(), legacymigration.Options{
		Source:      fx.Path,
		Destination: dest,
	})
	require.NoError(t, err)
	return &clienv.Flags{DBPath: dest}
}

func TestListCommand(t *testing.T) {
	flags := targetStore(t)

	t.Run("all by schedule", func(t *testing.T) {
		out, err := execute(t, flags, "list")
		require.NoError(t, err)
		assert.Contains(t, out, "4 maintenance(s), page 1 of 1")
		assert.Regexp(t, `(?s)2023-12-31.*2024-01-15.*2024-01-20.*2024-04-02`, out)
	})

	t.Run("equipment and status", func(t *testing.T) {
		out, err := execute(t, flags, "list", "--equipment", "LAP-010", "--status", "done")
		require.NoError(t, err)
		assert.Contains(t, out, "1 maintenance(s)")
		assert.Contains(t, out, "Pasta térmica")
		assert.Contains(t, out, "bob")
	})

	t.Run("technician and range", func(t *testing.T) {
		out, err := execute(t, flags, "list", "--technician", "bob", "--from", "2024-01-16", "--to", "2024-12-31")
		require.NoError(t, err)
		assert.Contains(t, out, "1 maintenance(s)")
		assert.Contains(t, out, "2024-01-20")
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := execute(t, flags, "list", "--status", "Closed")
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestSummaryCommand(t *testing.T) {
	flags := targetStore(t)

	out, err := execute(t, flags, "summary", "--year", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "Maintenance schedule 2024")

	row := func(label string) string {
		m := regexp.MustCompile(`(?m)^\s*` + label + `\s+(\d+)\s+(\d+)`).FindStringSubmatch(out)
		require.Len(t, m, 3, "row %s in\n%s", label, out)
		return m[1] + "/" + m[2]
	}
	assert.Equal(t, "1/1", row("January"))
	assert.Equal(t, "0/0", row("February"))
	assert.Equal(t, "1/0", row("April"))
	assert.Equal(t, "1/1", row("Q1"))
	assert.Equal(t, "1/0", row("Q2"))
	assert.Equal(t, "2/1", row("Total"))

	out, err = execute(t, flags, "summary", "--year", "2023", "--equipment", "PC-011")
	require.NoError(t, err)
	assert.Contains(t, out, "Maintenance schedule 2023")
	assert.Equal(t, "0/1", row("December"))
	assert.Equal(t, "0/1", row("Total"))
}
