// Package legacymigration moves the integer-keyed legacy store into the
// opaque-id target schema, remapping every key and numbering tickets
// chronologically.
package legacymigration

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"soportes/internal/infrastructure/database"
	"soportes/internal/infrastructure/legacy"
	"soportes/internal/infrastructure/migration"
	"soportes/internal/shared/biztime"
	"soportes/internal/shared/config"
	"soportes/internal/shared/constants"
	shareddb "soportes/internal/shared/db"
	apperrors "soportes/internal/shared/errors"
	"soportes/internal/shared/logger"
)

const rowSavePoint = "legacy_row"

// Options describes one run.
type Options struct {
	// Source is the legacy SQLite file. It is never written.
	Source string
	// Destination is the target SQLite file, used when Target is nil.
	Destination string
	// Target overrides Destination with a full database configuration.
	Target *config.DatabaseConfig
	// Reset deletes an existing destination first. Without it an existing
	// destination aborts the run.
	Reset bool
	// Strategy names the schema strategy; empty picks the driver default.
	Strategy string
}

func (o Options) target() *config.DatabaseConfig {
	if o.Target != nil {
		return o.Target
	}
	return &config.DatabaseConfig{Driver: constants.DriverSQLite, Path: o.Destination}
}

// Service runs legacy migrations.
type Service struct {
	base   logger.Interface
	logger logger.Interface
	newID  func() string
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithIDGenerator replaces the UUID generator used for new keys.
func WithIDGenerator(gen func() string) ServiceOption {
	return func(s *Service) {
		s.newID = gen
	}
}

// NewService creates a migration service.
func NewService(log logger.Interface, opts ...ServiceOption) *Service {
	s := &Service{base: log, logger: log.With("component", "legacymigration.service")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate copies the legacy store into a fresh target schema.
//
// The returned error is non-nil only for fatal conditions: the source
// cannot be read, or the destination cannot be prepared or written.
// Rows that fail individually are listed in the report and the run
// carries on.
func (s *Service) Migrate(ctx context.Context, opts Options) (*Report, error) {
	target := opts.target()
	report := &Report{
		Source:      opts.Source,
		Destination: describeTarget(target),
		StartedAt:   biztime.NowUTC(),
	}

	reader, err := legacy.Open(opts.Source, s.base)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			s.logger.Warnw("failed to close legacy store", "error", cerr)
		}
	}()

	strategy, err := migration.NewStrategy(target.Driver, opts.Strategy, s.base)
	if err != nil {
		return nil, apperrors.NewFatalError("invalid schema strategy", err)
	}
	report.Strategy = strategy.GetName()

	db, err := s.prepareTarget(target, opts.Reset)
	if err != nil {
		return nil, err
	}

	last, err := s.populate(ctx, db, reader, strategy, target, report)
	if err != nil {
		s.discardTarget(target, db)
		return nil, err
	}
	s.closeTarget(db)

	report.LastTicketNumber = last
	report.FinishedAt = biztime.NowUTC()

	s.logger.Infow("legacy migration finished",
		"outcome", report.Outcome(),
		"failures", len(report.Failures),
		"notes", len(report.Notes),
		"last_ticket_number", report.LastTicketNumber,
		"duration", report.Duration().Round(time.Millisecond))

	return report, nil
}

// populate initializes the schema and copies every table in one
// transaction. It returns the last ticket number assigned.
func (s *Service) populate(
	ctx context.Context,
	db *gorm.DB,
	reader *legacy.Reader,
	strategy migration.Strategy,
	target *config.DatabaseConfig,
	report *Report,
) (int64, error) {
	if err := migration.NewManagerWithStrategy(strategy, s.base).Migrate(db); err != nil {
		return 0, apperrors.NewFatalError("target schema could not be initialized", err)
	}

	s.logger.Infow("migrating legacy store",
		"source", report.Source,
		"destination", report.Destination,
		"strategy", report.Strategy)

	r := &run{
		reader: reader,
		report: report,
		logger: s.logger,
		writer: &writer{
			mapper:    NewIdentityMapper(s.newID),
			sequencer: &Sequencer{},
		},
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.all(ctx, tx); err != nil {
			return err
		}
		if isSQLite(target) {
			return verifyForeignKeys(tx)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsFatalError(err) {
			return 0, err
		}
		return 0, apperrors.NewFatalError("migration aborted", err)
	}
	return r.writer.sequencer.Last(), nil
}

// discardTarget removes what an aborted run left behind so the next run
// starts from an absent destination.
func (s *Service) discardTarget(cfg *config.DatabaseConfig, db *gorm.DB) {
	if !isSQLite(cfg) {
		if err := migration.DropAll(db); err != nil {
			s.logger.Warnw("failed to drop partial target tables", "database", cfg.Database, "error", err)
		}
		s.closeTarget(db)
		return
	}

	s.closeTarget(db)
	if err := migration.ResetSQLite(cfg.Path); err != nil {
		s.logger.Warnw("failed to remove partial destination", "path", cfg.Path, "error", err)
		return
	}
	s.logger.Infow("partial destination removed", "path", cfg.Path)
}

func (s *Service) closeTarget(db *gorm.DB) {
	if err := database.Close(db); err != nil {
		s.logger.Warnw("failed to close target store", "error", err)
	}
}

func isSQLite(cfg *config.DatabaseConfig) bool {
	return cfg.Driver == constants.DriverSQLite || cfg.Driver == ""
}

// prepareTarget opens the destination, clearing it first when reset is set.
func (s *Service) prepareTarget(cfg *config.DatabaseConfig, reset bool) (*gorm.DB, error) {
	sqlite := isSQLite(cfg)

	if sqlite {
		if cfg.Path == "" {
			return nil, apperrors.NewFatalError("destination is required", nil)
		}
		info, err := os.Stat(cfg.Path)
		switch {
		case err == nil && info.IsDir():
			return nil, apperrors.NewFatalError("destination is a directory", fmt.Errorf("%s", cfg.Path))
		case err == nil && info.Size() > 0 && !reset:
			return nil, apperrors.NewFatalError("destination already exists, rerun with reset to replace it",
				fmt.Errorf("%s", cfg.Path))
		case err == nil && reset:
			s.logger.Warnw("removing existing destination", "path", cfg.Path)
			if err := migration.ResetSQLite(cfg.Path); err != nil {
				return nil, apperrors.NewFatalError("destination could not be removed", err)
			}
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return nil, apperrors.NewFatalError("destination cannot be inspected", err)
		}
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, apperrors.NewFatalError("destination cannot be opened", err)
	}
	if sqlite || migration.IsEmpty(db) {
		return db, nil
	}

	if !reset {
		_ = database.Close(db)
		return nil, apperrors.NewFatalError("destination database is not empty, rerun with reset to replace it",
			fmt.Errorf("%s", describeTarget(cfg)))
	}
	s.logger.Warnw("dropping existing target tables", "database", cfg.Database)
	if err := migration.DropAll(db); err != nil {
		_ = database.Close(db)
		return nil, apperrors.NewFatalError("destination could not be cleared", err)
	}
	return db, nil
}

// run is the state of one pass over the legacy store.
type run struct {
	reader *legacy.Reader
	writer *writer
	report *Report
	logger logger.Interface
}

// all migrates every table in foreign-key dependency order.
func (r *run) all(ctx context.Context, tx *gorm.DB) error {
	steps := []func(context.Context, *gorm.DB) error{
		func(ctx context.Context, tx *gorm.DB) error {
			return migrateTable(r, ctx, tx, constants.TableUsers, r.reader.Users(ctx),
				func(u legacy.User) int64 { return u.ID }, r.writer.user)
		},
		func(ctx context.Context, tx *gorm.DB) error {
			return migrateTable(r, ctx, tx, constants.TableEquipment, r.reader.Equipment(ctx),
				func(e legacy.Equipment) int64 { return e.ID }, r.writer.equipment)
		},
		func(ctx context.Context, tx *gorm.DB) error {
			return migrateTable(r, ctx, tx, constants.TableTickets, r.reader.Tickets(ctx),
				func(t legacy.Ticket) int64 { return t.ID }, r.writer.ticket)
		},
		func(ctx context.Context, tx *gorm.DB) error {
			return migrateTable(r, ctx, tx, constants.TableMaintenance, r.reader.Maintenance(ctx),
				func(m legacy.Maintenance) int64 { return m.ID }, r.writer.maintenance)
		},
		func(ctx context.Context, tx *gorm.DB) error {
			return migrateTable(r, ctx, tx, constants.TableAuditLogs, r.reader.AuditLogs(ctx),
				func(l legacy.AuditLog) int64 { return l.ID }, r.writer.auditLog)
		},
		r.settings,
	}

	for _, step := range steps {
		if err := step(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

// migrateTable writes each record of seq inside its own savepoint. A row
// error rolls the savepoint back and is recorded; anything that breaks
// the transaction itself is returned.
func migrateTable[T any](
	r *run,
	ctx context.Context,
	tx *gorm.DB,
	table string,
	seq iter.Seq2[T, error],
	legacyID func(T) int64,
	write func(*gorm.DB, *rowContext, T) error,
) error {
	stats := r.report.stats(table)
	if !r.reader.HasTable(table) {
		r.report.Notes = append(r.report.Notes, RowNote{Table: table, Message: "table not present in legacy store"})
		return nil
	}

	for rec, err := range seq {
		if err != nil {
			return apperrors.NewFatalError("legacy store could not be read", err)
		}
		if err := ctx.Err(); err != nil {
			return apperrors.NewFatalError("migration cancelled", err)
		}
		stats.Read++

		row := &rowContext{table: table, legacyID: legacyID(rec)}
		werr := shareddb.WithSavePoint(tx, rowSavePoint, func(tx *gorm.DB) error {
			return write(tx, row, rec)
		})
		if errors.Is(werr, shareddb.ErrSavePoint) {
			return apperrors.NewFatalError("target store rejected the transaction", werr)
		}
		if werr != nil {
			r.writer.mapper.Discard(table, row.legacyID)
			r.fail(table, row.legacyID, "", werr)
			stats.Failed++
			continue
		}

		stats.Migrated++
		r.report.Notes = append(r.report.Notes, row.notes...)
	}

	r.logger.Infow("table migrated",
		"table", table,
		"read", stats.Read,
		"migrated", stats.Migrated,
		"failed", stats.Failed)
	return nil
}

func (r *run) settings(ctx context.Context, tx *gorm.DB) error {
	table := constants.TableSettings
	stats := r.report.stats(table)
	if !r.reader.HasTable(table) {
		r.report.Notes = append(r.report.Notes, RowNote{Table: table, Message: "table not present in legacy store"})
		return nil
	}

	for rec, err := range r.reader.Settings(ctx) {
		if err != nil {
			return apperrors.NewFatalError("legacy store could not be read", err)
		}
		stats.Read++

		werr := shareddb.WithSavePoint(tx, rowSavePoint, func(tx *gorm.DB) error {
			return r.writer.setting(tx, rec)
		})
		if errors.Is(werr, shareddb.ErrSavePoint) {
			return apperrors.NewFatalError("target store rejected the transaction", werr)
		}
		if werr != nil {
			r.fail(table, 0, rec.Key, werr)
			stats.Failed++
			continue
		}
		stats.Migrated++
	}
	return nil
}

func (r *run) fail(table string, legacyID int64, key string, err error) {
	failure := RowFailure{Table: table, LegacyID: legacyID, LegacyKey: key}

	var fieldErr *fieldError
	switch {
	case errors.As(err, &fieldErr):
		failure.Field = fieldErr.Field
		failure.Message = fieldErr.Message
	case apperrors.IsValidationError(err):
		failure.Message = apperrors.GetAppError(err).Details
	case apperrors.IsDuplicateError(err):
		failure.Message = "duplicate value: " + err.Error()
	case apperrors.IsForeignKeyError(err):
		failure.Message = "foreign key violation: " + err.Error()
	default:
		failure.Message = err.Error()
	}

	r.logger.Warnw("legacy row skipped",
		"table", table,
		"legacy_id", legacyID,
		"field", failure.Field,
		"error", failure.Message)
	r.report.Failures = append(r.report.Failures, failure)
}

// verifyForeignKeys asks SQLite for any reference that does not resolve.
// Enforcement is on, so a hit means the schema lost its constraints.
func verifyForeignKeys(tx *gorm.DB) error {
	var violations []struct {
		Table  string `gorm:"column:table"`
		RowID  int64  `gorm:"column:rowid"`
		Parent string `gorm:"column:parent"`
	}
	if err := tx.Raw("PRAGMA foreign_key_check").Scan(&violations).Error; err != nil {
		return apperrors.NewFatalError("foreign key check failed", err)
	}
	if len(violations) > 0 {
		v := violations[0]
		return apperrors.NewFatalError("target store has dangling references",
			fmt.Errorf("%d violations, first in %s referencing %s", len(violations), v.Table, v.Parent))
	}
	return nil
}

func describeTarget(cfg *config.DatabaseConfig) string {
	if strings.EqualFold(cfg.Driver, constants.DriverMySQL) {
		return fmt.Sprintf("mysql://%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
	}
	return cfg.Path
}
