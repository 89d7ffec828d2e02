package migration

import "embed"

// Scripts holds both versioned script sets. They describe the same schema;
// goose keeps Up/Down in one file, golang-migrate splits them.
//
//go:embed scripts/goose/*.sql scripts/migrate/*.sql
var Scripts embed.FS

const (
	gooseDir   = "scripts/goose"
	migrateDir = "scripts/migrate"
)
