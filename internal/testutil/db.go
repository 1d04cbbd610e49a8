// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"voluntr_backend/internal/platform/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewSQLiteDB opens a fresh SQLite database in the test's temp dir and
// auto-migrates the given models. The handle is closed on cleanup.
func NewSQLiteDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "opening sqlite")
	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...), "auto-migrating test schema")
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
