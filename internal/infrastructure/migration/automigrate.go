package migration

import (
	"fmt"

	"gorm.io/gorm"

	"soportes/internal/infrastructure/persistence/models"
	"soportes/internal/shared/constants"
	"soportes/internal/shared/logger"
)

// GormAutoMigrateStrategy derives the schema from the persistence models.
// It is the only strategy that can target MySQL.
type GormAutoMigrateStrategy struct {
	models []interface{}
	logger logger.Interface
}

// NewGormAutoMigrateStrategy migrates every target model unless a subset is given.
func NewGormAutoMigrateStrategy(log logger.Interface, subset ...interface{}) *GormAutoMigrateStrategy {
	if len(subset) == 0 {
		subset = models.All()
	}
	return &GormAutoMigrateStrategy{
		models: subset,
		logger: log.With("component", "migration.automigrate"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	s.logger.Infow("running gorm auto migrate", "models_count", len(s.models))

	if err := db.AutoMigrate(s.models...); err != nil {
		s.logger.Errorw("auto migrate failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return constants.StrategyAutoMigrate
}
