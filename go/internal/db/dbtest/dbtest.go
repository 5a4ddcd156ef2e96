// Package dbtest opens migrated throwaway databases for package tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stevemarchese/superbowl-squares/go/internal/db"
	"github.com/stevemarchese/superbowl-squares/go/internal/dbconfig"
)

// Open returns a migrated sqlite database in t's temp dir, closed on cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	cfg := dbconfig.Config{
		Driver: dbconfig.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "squares.db"),
	}
	conn, err := dbconfig.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.Migrate(context.Background(), conn, dbconfig.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}
