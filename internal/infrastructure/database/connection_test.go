package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soportes/internal/shared/config"
)

func TestOpenEnforcesForeignKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.db")
	db, err := Open(&config.DatabaseConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	defer Close(db)

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)

	require.NoError(t, db.Exec("CREATE TABLE parent (id TEXT PRIMARY KEY)").Error)
	require.NoError(t, db.Exec("CREATE TABLE child (id TEXT PRIMARY KEY, parent_id TEXT REFERENCES parent(id))").Error)
	err = db.Exec("INSERT INTO child (id, parent_id) VALUES ('c1', 'missing')").Error
	assert.ErrorContains(t, err, "FOREIGN KEY constraint failed")
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpenReadOnly(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file is not created", func(t *testing.T) {
		path := filepath.Join(dir, "absent.db")
		_, err := OpenReadOnly(path)
		require.Error(t, err)
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("writes are refused", func(t *testing.T) {
		path := filepath.Join(dir, "legacy.db")
		rw, err := Open(&config.DatabaseConfig{Driver: "sqlite", Path: path})
		require.NoError(t, err)
		require.NoError(t, rw.Exec("CREATE TABLE usuarios (id INTEGER PRIMARY KEY, username TEXT)").Error)
		require.NoError(t, Close(rw))

		ro, err := OpenReadOnly(path)
		require.NoError(t, err)
		defer Close(ro)

		err = ro.Exec("INSERT INTO usuarios (username) VALUES ('mallory')").Error
		assert.Error(t, err)
	})

	t.Run("non database file", func(t *testing.T) {
		path := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("this is not sqlite, just text padding it out to be long enough"), 0o600))
		_, err := OpenReadOnly(path)
		assert.Error(t, err)
	})
}
