package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("explicit file overrides defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		content := []byte(`
database:
  driver: sqlite
  path: /tmp/target.db
  schema_strategy: golang_migrate
legacy:
  source_path: /tmp/old.db
logger:
  level: debug
`)
		require.NoError(t, os.WriteFile(path, content, 0o600))

		cfg, err := Load("", path)
		require.NoError(t, err)

		assert.Equal(t, "/tmp/target.db", cfg.Database.Path)
		assert.Equal(t, "golang_migrate", cfg.Database.SchemaStrategy)
		assert.Equal(t, "/tmp/old.db", cfg.Legacy.SourcePath)
		assert.Equal(t, "debug", cfg.Logger.Level)
		assert.Equal(t, 12, cfg.Auth.Password.BcryptCost)
		assert.Same(t, cfg, Get())
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := Load("", filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("env overrides mode", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("app:\n  mode: development\n"), 0o600))

		cfg, err := Load("production", path)
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Mode)
	})

	t.Run("environment variables are read", func(t *testing.T) {
		t.Setenv("SOPORTES_DATABASE_PATH", "/data/from-env.db")
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logger:\n  level: warn\n"), 0o600))

		cfg, err := Load("", path)
		require.NoError(t, err)
		assert.Equal(t, "/data/from-env.db", cfg.Database.Path)
	})
}
