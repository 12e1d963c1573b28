// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vikasavnish/carecoord/internal/config"
	"github.com/vikasavnish/carecoord/internal/db"
)

const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "admin-pass"
)

// Open returns a migrated and seeded in-memory SQLite database. A single
// connection is used so every query sees the same memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Prepare(database, config.DatabaseConfig{AdminEmail: AdminEmail, AdminPassword: AdminPassword}); err != nil {
		t.Fatalf("Failed to prepare database: %v", err)
	}
	return database
}
