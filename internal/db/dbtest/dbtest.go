// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"river-transit/ticketdesk/internal/db"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated SQLite database private to t. The pool is pinned
// to one connection because every ":memory:" connection is its own database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return gdb
}

// OpenSQLX returns the same database as a sqlx handle with the api_keys table.
func OpenSQLX(t *testing.T, gdb *gorm.DB) *sqlx.DB {
	t.Helper()

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	x := sqlx.NewDb(sqlDB, "sqlite3")
	if err := db.EnsureAPIKeysTable(t.Context(), x); err != nil {
		t.Fatalf("Failed to create api_keys: %v", err)
	}
	return x
}
