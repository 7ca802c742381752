package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type note struct {
	ID        uint `gorm:"primaryKey"`
	Title     string
	Body      string
	CreatedAt time.Time
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&note{}))
	return gdb
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, GetTxFromContext(ctx, gdb).Create(&note{Title: "a"}).Error)
		return errors.New("abort")
	})
	require.Error(t, err)

	var count int64
	gdb.Model(&note{}).Count(&count)
	assert.Zero(t, count)
}

func TestRunInTransaction_NestedCallsJoinOuter(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		outer := GetTxFromContext(ctx, gdb)
		return tm.RunInTransaction(ctx, func(inner context.Context) error {
			assert.Same(t, outer, GetTxFromContext(inner, gdb))
			return GetTxFromContext(inner, gdb).Create(&note{Title: "b"}).Error
		})
	})
	require.NoError(t, err)

	var count int64
	gdb.Model(&note{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestScopes(t *testing.T) {
	gdb := setupTestDB(t)
	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, gdb.Create([]*note{
		{Title: "Cierre Mensual", Body: "x", CreatedAt: base},
		{Title: "otro", Body: "descuento 50%", CreatedAt: base.AddDate(0, 0, 1)},
		{Title: "tercero", Body: "sin coincidencias", CreatedAt: base.AddDate(0, 0, 2)},
	}).Error)

	var found []note
	require.NoError(t, gdb.Scopes(ContainsAny("cierre", "title", "body")).Find(&found).Error)
	assert.Len(t, found, 1)

	found = nil
	require.NoError(t, gdb.Scopes(ContainsAny("50%", "title", "body")).Find(&found).Error)
	require.Len(t, found, 1)
	assert.Equal(t, "otro", found[0].Title)

	found = nil
	require.NoError(t, gdb.Scopes(ContainsAny("%", "title")).Find(&found).Error)
	assert.Empty(t, found, "wildcards match literally")

	from := base.AddDate(0, 0, 1)
	found = nil
	require.NoError(t, gdb.Scopes(CreatedBetween("created_at", &from, nil)).Find(&found).Error)
	assert.Len(t, found, 2)

	to := base
	found = nil
	require.NoError(t, gdb.Scopes(CreatedBetween("created_at", nil, &to)).Find(&found).Error)
	assert.Len(t, found, 1)
}
