package migration

import (
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"soportes/internal/shared/config"
	"soportes/internal/shared/constants"
	"soportes/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the strategy named in cfg. The SQL scripts are written
// for SQLite, so a MySQL target must use gorm_auto_migrate.
func NewManager(cfg *config.DatabaseConfig, log logger.Interface) (*Manager, error) {
	strategy, err := NewStrategy(cfg.Driver, cfg.SchemaStrategy, log)
	if err != nil {
		return nil, err
	}
	return NewManagerWithStrategy(strategy, log), nil
}

// NewStrategy resolves a strategy by name for the given driver.
func NewStrategy(driver, name string, log logger.Interface) (Strategy, error) {
	driver = strings.ToLower(driver)
	if name == "" {
		name = constants.StrategyGoose
		if driver == constants.DriverMySQL {
			name = constants.StrategyAutoMigrate
		}
	}

	switch strings.ToLower(name) {
	case constants.StrategyAutoMigrate:
		return NewGormAutoMigrateStrategy(log), nil
	case constants.StrategyGoose, constants.StrategyGolangMigrate:
		if driver == constants.DriverMySQL {
			return nil, fmt.Errorf("schema strategy %s is not available for mysql, use %s", name, constants.StrategyAutoMigrate)
		}
		if name == constants.StrategyGoose {
			return NewGooseStrategy(log), nil
		}
		return NewGolangMigrateStrategy(log), nil
	default:
		return nil, fmt.Errorf("unknown schema strategy %q", name)
	}
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed",
			"strategy", m.strategy.GetName(),
			"error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// Rollback runs steps down migrations.
func (m *Manager) Rollback(db *gorm.DB, steps int) error {
	versioned, err := m.versioned()
	if err != nil {
		return err
	}
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	return versioned.MigrateDown(db, steps)
}

// Version returns the applied schema version.
func (m *Manager) Version(db *gorm.DB) (int64, bool, error) {
	versioned, err := m.versioned()
	if err != nil {
		return 0, false, err
	}
	return versioned.GetVersion(db)
}

// Status writes a human readable migration status to w.
func (m *Manager) Status(db *gorm.DB, w io.Writer) error {
	versioned, err := m.versioned()
	if err != nil {
		return err
	}
	return versioned.Status(db, w)
}

func (m *Manager) versioned() (VersionedStrategy, error) {
	versioned, ok := m.strategy.(VersionedStrategy)
	if !ok {
		return nil, fmt.Errorf("strategy %s does not track versions", m.strategy.GetName())
	}
	return versioned, nil
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

// GetStrategyInfo returns information about the current strategy
func (m *Manager) GetStrategyInfo() map[string]interface{} {
	return map[string]interface{}{
		"name":        m.strategy.GetName(),
		"description": getStrategyDescription(m.strategy.GetName()),
	}
}

func getStrategyDescription(strategyName string) string {
	switch strategyName {
	case constants.StrategyAutoMigrate:
		return "GORM AutoMigrate - schema derived from the persistence models"
	case constants.StrategyGolangMigrate:
		return "golang-migrate - embedded up/down SQL scripts"
	case constants.StrategyGoose:
		return "goose - embedded versioned SQL scripts"
	default:
		return "Unknown migration strategy"
	}
}
