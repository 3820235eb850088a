// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/hr_records/internal/models"
	pkgdb "github.com/Skotchmaster/hr_records/pkg/db"
)

// InitTestDB returns a migrated database. HR_TEST_DATABASE_URL selects a
// real postgres; otherwise an in-memory sqlite is used.
func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if dsn := os.Getenv("HR_TEST_DATABASE_URL"); dsn != "" {
		db, err := pkgdb.Open(context.Background(), dsn)
		require.NoError(t, err)
		require.NoError(t, models.AutoMigrate(db))
		t.Cleanup(func() {
			db.Exec("TRUNCATE TABLE employees, users")
			_ = pkgdb.Close(db)
		})
		return db
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
