// Package migrations embeds the schema for every supported dialect and applies
// it with goose.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"lawfirm-cms/pkg/utils"

	"github.com/pressly/goose/v3"
)

//go:embed sql
var files embed.FS

// goose keeps its base FS and dialect in package globals.
var mu sync.Mutex

func gooseDialect(d utils.Dialect) string {
	switch d {
	case utils.DialectPostgres:
		return "postgres"
	case utils.DialectSQLite:
		return "sqlite3"
	default:
		return "mysql"
	}
}

// Up applies every pending migration for db's dialect.
func Up(ctx context.Context, db *utils.DB) error {
	sub, err := fs.Sub(files, "sql/"+string(db.Dialect))
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(sub)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(gooseDialect(db.Dialect)); err != nil {
		return fmt.Errorf("migrations: set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		return fmt.Errorf("migrations: up: %w", err)
	}
	return nil
}
