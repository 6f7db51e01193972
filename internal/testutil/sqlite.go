// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"lawfirm-cms/internal/migrations"
	"lawfirm-cms/pkg/utils"
)

// SQLite returns a migrated database in a temp directory, closed on cleanup.
func SQLite(t testing.TB) *utils.DB {
	t.Helper()
	ctx := context.Background()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := utils.OpenDatabase(ctx, utils.DialectSQLite, dsn, utils.PoolConfig{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := migrations.Up(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
