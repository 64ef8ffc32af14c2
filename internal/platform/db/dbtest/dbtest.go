// Package dbtest opens throwaway sqlite databases with the service schema for tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fatflowers/clubdesk/internal/platform/db"
	"github.com/fatflowers/clubdesk/pkg/gormlog"
)

// Open returns an in-memory sqlite database migrated with every model.
// The pool holds a single connection, so callers must not use the root handle inside a transaction.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	log := zap.NewNop().Sugar()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlog.New(log, gormlogger.Silent)})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(log, gdb))
	return gdb
}

// FailInsertsInto makes every INSERT into table fail with err, for rollback tests.
func FailInsertsInto(t *testing.T, gdb *gorm.DB, table string, err error) {
	t.Helper()
	name := "dbtest:fail_" + table
	require.NoError(t, gdb.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(err)
		}
	}))
	t.Cleanup(func() { _ = gdb.Callback().Create().Remove(name) })
}
