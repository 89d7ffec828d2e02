// Package db provides database utilities including transaction management.
package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrSavePoint marks failures of the savepoint machinery itself, as
// opposed to errors returned by the wrapped function.
var ErrSavePoint = errors.New("savepoint failure")

// txKey is the context key for storing transaction.
type txKey struct{}

// TransactionManager manages database transactions.
type TransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a new TransactionManager.
func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction executes fn within a database transaction that is
// rolled back if fn returns an error.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// GetTxFromContext returns the transaction from context if available.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}

// WithSavePoint runs fn inside a named savepoint of an open transaction.
// On error the work done by fn is rolled back and the transaction stays
// usable; the savepoint is released either way.
func WithSavePoint(tx *gorm.DB, name string, fn func(tx *gorm.DB) error) error {
	if err := tx.SavePoint(name).Error; err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrSavePoint, name, err)
	}

	fnErr := fn(tx)
	if fnErr != nil {
		if err := tx.RollbackTo(name).Error; err != nil {
			return fmt.Errorf("%w: roll back to %s: %v (after %v)", ErrSavePoint, name, err, fnErr)
		}
	}

	if err := tx.Exec("RELEASE SAVEPOINT " + name).Error; err != nil {
		return fmt.Errorf("%w: release %s: %v", ErrSavePoint, name, err)
	}

	return fnErr
}
