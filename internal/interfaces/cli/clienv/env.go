// Package clienv holds the bootstrap shared by every soportes subcommand.
package clienv

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"soportes/internal/infrastructure/config"
	"soportes/internal/infrastructure/database"
	"soportes/internal/shared/biztime"
	"soportes/internal/shared/logger"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitFatal    = 1
	ExitWarnings = 3
)

// Flags are the persistent flags of the root command.
type Flags struct {
	Env        string
	ConfigPath string
	DBPath     string
}

// Bind registers the flags on cmd.
func (f *Flags) Bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&f.Env, "env", "e", "", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&f.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().StringVar(&f.DBPath, "db", "", "Target SQLite file (overrides database.path)")
}

// Env is a loaded configuration with its logger.
type Env struct {
	Config *config.Config
	Logger logger.Interface
}

// Init loads configuration and sets up logging and the business timezone.
func Init(f *Flags) (*Env, error) {
	cfg, err := config.Load(f.Env, f.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if f.DBPath != "" {
		cfg.Database.Path = f.DBPath
	}

	if err := logger.Init(&cfg.Logger, cfg.App.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.App.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return &Env{Config: cfg, Logger: logger.NewLogger()}, nil
}

// OpenTarget opens the configured target store.
func (e *Env) OpenTarget() (*gorm.DB, error) {
	db, err := database.Open(&e.Config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open target store: %w", err)
	}
	return db, nil
}

// CloseTarget closes db, logging failures.
func (e *Env) CloseTarget(db *gorm.DB) {
	if err := database.Close(db); err != nil {
		e.Logger.Warnw("failed to close target store", "error", err)
	}
}

// ExitError carries a process exit code. Err may be nil when the code
// alone is the message, as for a run that finished with warnings.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFatal
}

// Silent reports whether err needs no message on stderr.
func Silent(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Err == nil
}
