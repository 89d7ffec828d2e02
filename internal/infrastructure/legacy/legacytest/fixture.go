// Package legacytest builds throwaway legacy stores for tests.
package legacytest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"soportes/internal/infrastructure/database"
	"soportes/internal/shared/config"
)

// Schema is the last integer-keyed layout, the one most legacy stores carry.
// No REFERENCES clauses: legacy data may hold dangling keys.
const Schema = `
CREATE TABLE usuarios (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    email TEXT,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL,
    departamento TEXT,
    fecha_creacion TIMESTAMP
);
CREATE TABLE equipos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    nombre_equipo TEXT UNIQUE NOT NULL,
    tipo TEXT,
    marca_modelo TEXT,
    numero_serie TEXT,
    fecha_compra DATE,
    procesador TEXT,
    memoria_ram TEXT,
    tipo_ram TEXT,
    disco_duro TEXT,
    tipo_disco TEXT,
    color TEXT,
    notas TEXT,
    usuario_asignado_id INTEGER
);
CREATE TABLE soportes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    usuario_id INTEGER,
    tecnico_id INTEGER,
    equipo_id INTEGER,
    problema TEXT,
    estado TEXT,
    prioridad TEXT,
    categoria TEXT,
    solucion TEXT,
    fecha_creacion TIMESTAMP,
    fecha_finalizacion TIMESTAMP
);
CREATE TABLE mantenimientos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    equipo_id INTEGER,
    titulo TEXT NOT NULL,
    fecha_programada DATE NOT NULL,
    estado TEXT,
    tecnico_asignado_id INTEGER,
    motivo_reprogramacion TEXT
);
CREATE TABLE auditoria_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    usuario_id INTEGER,
    accion TEXT,
    detalles TEXT,
    fecha TIMESTAMP
);
CREATE TABLE configuracion (
    clave TEXT PRIMARY KEY,
    valor TEXT
);
`

// EarlySchema is the first layout: tickets keyed by fecha_hora, equipment
// bought on fecha_adquisicion, no audit log.
const EarlySchema = `
CREATE TABLE usuarios (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL
);
CREATE TABLE equipos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    usuario_asignado TEXT,
    nombre_equipo TEXT UNIQUE NOT NULL,
    tipo TEXT,
    marca_modelo TEXT,
    numero_serie TEXT,
    fecha_adquisicion TEXT,
    notas TEXT
);
CREATE TABLE soportes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    fecha_hora TEXT,
    usuario_id INTEGER,
    problema TEXT,
    estado TEXT,
    tecnico TEXT,
    solucion TEXT,
    prioridad TEXT,
    categoria TEXT,
    fecha_finalizacion TEXT
);
`

// Fixture is a writable legacy store on disk.
type Fixture struct {
	Path string
	db   *gorm.DB
}

// New creates a legacy store from schema under t.TempDir().
func New(t testing.TB, schema string) *Fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := database.Open(&config.DatabaseConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	require.NoError(t, db.Exec(schema).Error)

	f := &Fixture{Path: path, db: db}
	t.Cleanup(func() { _ = database.Close(f.db) })
	return f
}

// Exec runs a statement against the store.
func (f *Fixture) Exec(t testing.TB, sql string, args ...interface{}) {
	t.Helper()
	require.NoError(t, f.db.Exec(sql, args...).Error)
}

// User inserts a legacy user.
func (f *Fixture) User(t testing.TB, id int64, username, role string) {
	t.Helper()
	f.Exec(t, "INSERT INTO usuarios (id, username, password_hash, role) VALUES (?, ?, ?, ?)",
		id, username, "hash-"+username, role)
}

// Ticket inserts a legacy ticket. A zero technician is stored as NULL.
func (f *Fixture) Ticket(t testing.TB, id, reporter, technician int64, created, status string) {
	t.Helper()
	var tech interface{}
	if technician != 0 {
		tech = technician
	}
	f.Exec(t, `INSERT INTO soportes (id, usuario_id, tecnico_id, problema, estado, prioridad, categoria, fecha_creacion)
		VALUES (?, ?, ?, ?, ?, 'Media', 'Redes', ?)`,
		id, reporter, tech, "problem "+created, status, created)
}

// Equipment inserts a legacy equipment row. A zero user is stored as NULL.
func (f *Fixture) Equipment(t testing.TB, id int64, name string, assignedUser int64) {
	t.Helper()
	var user interface{}
	if assignedUser != 0 {
		user = assignedUser
	}
	f.Exec(t, "INSERT INTO equipos (id, nombre_equipo, tipo, fecha_compra, usuario_asignado_id) VALUES (?, ?, 'Laptop', '2021-03-15', ?)",
		id, name, user)
}
