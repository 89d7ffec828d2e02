package migration

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gorm.io/gorm"

	"soportes/internal/infrastructure/persistence/models"
)

// versionTables are the bookkeeping tables of the script strategies.
var versionTables = []string{"goose_db_version", "schema_migrations"}

// ResetSQLite deletes a SQLite database file together with its journal
// files. A missing file is not an error.
func ResetSQLite(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// DropAll drops every target table, children first.
func DropAll(db *gorm.DB) error {
	all := models.All()
	slices.Reverse(all)

	migrator := db.Migrator()
	for _, m := range all {
		if err := migrator.DropTable(m); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", m, err)
		}
	}
	for _, table := range versionTables {
		if err := migrator.DropTable(table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}
	return nil
}

// IsEmpty reports whether the target has none of the schema tables.
func IsEmpty(db *gorm.DB) bool {
	migrator := db.Migrator()
	for _, m := range models.All() {
		if migrator.HasTable(m) {
			return false
		}
	}
	for _, table := range versionTables {
		if migrator.HasTable(table) {
			return false
		}
	}
	return true
}
