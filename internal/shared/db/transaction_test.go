package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type note struct {
	ID   uint
	Body string `gorm:"uniqueIndex"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&note{}))
	return db
}

func TestWithSavePoint(t *testing.T) {
	db := setupTestDB(t)
	boom := errors.New("boom")

	err := db.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, WithSavePoint(tx, "row", func(tx *gorm.DB) error {
			return tx.Create(&note{Body: "kept"}).Error
		}))

		err := WithSavePoint(tx, "row", func(tx *gorm.DB) error {
			if err := tx.Create(&note{Body: "discarded"}).Error; err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrSavePoint)

		err = WithSavePoint(tx, "row", func(tx *gorm.DB) error {
			return tx.Create(&note{Body: "kept"}).Error
		})
		assert.Error(t, err, "duplicate must fail inside its savepoint")

		return WithSavePoint(tx, "row", func(tx *gorm.DB) error {
			return tx.Create(&note{Body: "also kept"}).Error
		})
	})
	require.NoError(t, err)

	var bodies []string
	require.NoError(t, db.Model(&note{}).Order("id").Pluck("body", &bodies).Error)
	assert.Equal(t, []string{"kept", "also kept"}, bodies)
}

func TestRunInTransaction(t *testing.T) {
	db := setupTestDB(t)
	tm := NewTransactionManager(db)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		tx := GetTxFromContext(ctx, db)
		require.NoError(t, tx.Create(&note{Body: "rolled back"}).Error)
		return errors.New("abort")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&note{}).Count(&count).Error)
	assert.Zero(t, count)
}
