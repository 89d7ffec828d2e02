// Package legacy reads the integer-keyed legacy store. The store is opened
// read-only and every table is exposed as a one-shot ordered sequence.
package legacy

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"gorm.io/gorm"

	"soportes/internal/infrastructure/database"
	"soportes/internal/shared/biztime"
	"soportes/internal/shared/constants"
	"soportes/internal/shared/errors"
	"soportes/internal/shared/logger"
)

// Reader enumerates legacy rows. Schema differences between legacy
// versions are absorbed here: absent optional columns read as NULL.
type Reader struct {
	db      *gorm.DB
	logger  logger.Interface
	columns map[string]map[string]bool
}

// Open opens path read-only. A missing or unreadable store, or one without
// the usuarios and soportes tables, is a fatal error.
func Open(path string, log logger.Interface) (*Reader, error) {
	db, err := database.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewFatalError("legacy store cannot be opened", err)
	}

	r := &Reader{
		db:      db,
		logger:  log.With("component", "legacy.reader"),
		columns: make(map[string]map[string]bool),
	}
	for _, table := range []string{constants.TableUsers, constants.TableTickets} {
		if !r.HasTable(table) {
			_ = database.Close(db)
			return nil, errors.NewFatalError("legacy store is missing a required table",
				fmt.Errorf("table %s not found in %s", table, path))
		}
	}
	return r, nil
}

// Close releases the underlying connection.
func (r *Reader) Close() error {
	return database.Close(r.db)
}

// HasTable reports whether the legacy store has table.
func (r *Reader) HasTable(table string) bool {
	return r.db.Migrator().HasTable(table)
}

// Count returns the number of rows in table, zero when it does not exist.
func (r *Reader) Count(ctx context.Context, table string) (int64, error) {
	if !r.HasTable(table) {
		return 0, nil
	}
	var n int64
	if err := r.db.WithContext(ctx).Table(table).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// Users yields usuarios in id order.
func (r *Reader) Users(ctx context.Context) iter.Seq2[User, error] {
	return stream[User](r, ctx, constants.TableUsers, userColumns, "id ASC")
}

// Equipment yields equipos in id order.
func (r *Reader) Equipment(ctx context.Context) iter.Seq2[Equipment, error] {
	return stream[Equipment](r, ctx, constants.TableEquipment, equipmentColumns, "id ASC")
}

// Tickets yields soportes by creation instant, then id. Legacy rows mix
// timestamp layouts, so the rows are parsed and sorted here rather than in
// SQL. Rows whose creation time is missing or unparseable come last, in id
// order.
func (r *Reader) Tickets(ctx context.Context) iter.Seq2[Ticket, error] {
	return func(yield func(Ticket, error) bool) {
		var keyed []createdTicket
		for rec, err := range stream[Ticket](r, ctx, constants.TableTickets, ticketColumns, "id ASC") {
			if err != nil {
				yield(Ticket{}, err)
				return
			}
			keyed = append(keyed, newCreatedTicket(rec))
		}

		slices.SortStableFunc(keyed, compareCreated)
		for _, k := range keyed {
			if !yield(k.rec, nil) {
				return
			}
		}
	}
}

type createdTicket struct {
	rec    Ticket
	at     time.Time
	parsed bool
}

func newCreatedTicket(rec Ticket) createdTicket {
	k := createdTicket{rec: rec}
	if rec.CreatedAt.Valid {
		if at, err := biztime.ParseLegacy(rec.CreatedAt.String); err == nil {
			k.at, k.parsed = at, true
		}
	}
	return k
}

func compareCreated(a, b createdTicket) int {
	switch {
	case a.parsed && !b.parsed:
		return -1
	case !a.parsed && b.parsed:
		return 1
	case a.parsed:
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.rec.ID, b.rec.ID)
}

// Maintenance yields mantenimientos in id order.
func (r *Reader) Maintenance(ctx context.Context) iter.Seq2[Maintenance, error] {
	return stream[Maintenance](r, ctx, constants.TableMaintenance, maintenanceColumns, "id ASC")
}

// AuditLogs yields auditoria_logs in id order.
func (r *Reader) AuditLogs(ctx context.Context) iter.Seq2[AuditLog, error] {
	return stream[AuditLog](r, ctx, constants.TableAuditLogs, auditLogColumns, "id ASC")
}

// Settings yields configuracion entries by key.
func (r *Reader) Settings(ctx context.Context) iter.Seq2[Setting, error] {
	return func(yield func(Setting, error) bool) {
		if !r.HasTable(constants.TableSettings) {
			return
		}
		rows, err := r.db.WithContext(ctx).
			Raw("SELECT CAST(clave AS TEXT) AS clave, CAST(valor AS TEXT) AS valor FROM configuracion ORDER BY clave ASC").
			Rows()
		if err != nil {
			yield(Setting{}, fmt.Errorf("failed to query %s: %w", constants.TableSettings, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var s Setting
			if err := r.db.ScanRows(rows, &s); err != nil {
				yield(Setting{}, fmt.Errorf("failed to scan %s: %w", constants.TableSettings, err))
				return
			}
			if !yield(s, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(Setting{}, fmt.Errorf("failed to read %s: %w", constants.TableSettings, err))
		}
	}
}

// stream runs one SELECT for table and scans each row into T. A missing
// table yields nothing.
func stream[T any](r *Reader, ctx context.Context, table string, columns []column, order string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		if !r.HasTable(table) {
			r.logger.Debugw("legacy table not present", "table", table)
			return
		}

		selectSQL := r.selectList(table, columns)
		stmt := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", selectSQL, quote(table), order)
		rows, err := r.db.WithContext(ctx).Raw(stmt).Rows()
		if err != nil {
			yield(zero, fmt.Errorf("failed to query %s: %w", table, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var rec T
			if err := r.db.ScanRows(rows, &rec); err != nil {
				yield(zero, fmt.Errorf("failed to scan %s: %w", table, err))
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, fmt.Errorf("failed to read %s: %w", table, err))
		}
	}
}

func (r *Reader) selectList(table string, columns []column) string {
	parts := make([]string, 0, len(columns)+1)
	parts = append(parts, "id")
	for _, c := range columns {
		source := r.resolveColumn(table, c)
		switch {
		case source == "":
			parts = append(parts, fmt.Sprintf("NULL AS %s", quote(c.name)))
		case c.kind == intColumn:
			// non-numeric legacy references become 0, which never resolves
			parts = append(parts, fmt.Sprintf("CAST(%s AS INTEGER) AS %s", quote(source), quote(c.name)))
		default:
			parts = append(parts, fmt.Sprintf("CAST(%s AS TEXT) AS %s", quote(source), quote(c.name)))
		}
	}
	return strings.Join(parts, ", ")
}

// resolveColumn returns the first name of c present in table, or "".
func (r *Reader) resolveColumn(table string, c column) string {
	present, ok := r.columns[table]
	if !ok {
		var names []string
		if err := r.db.Raw("SELECT name FROM pragma_table_info(?)", table).Scan(&names).Error; err != nil {
			r.logger.Warnw("failed to inspect legacy columns", "table", table, "error", err)
		}
		present = make(map[string]bool, len(names))
		for _, n := range names {
			present[strings.ToLower(n)] = true
		}
		r.columns[table] = present
	}
	for _, name := range c.names {
		if present[name] {
			return name
		}
	}
	return ""
}

func quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
