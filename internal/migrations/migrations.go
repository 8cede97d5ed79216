// Package migrations holds the SQL schema for each supported database and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql mysql/*.sql
var embedded embed.FS

var dialects = map[string]goose.Dialect{
	"postgres": goose.DialectPostgres,
	"mysql":    goose.DialectMySQL,
}

// Files returns the migration files for driver.
func Files(driver string) (fs.FS, error) {
	if _, ok := dialects[driver]; !ok {
		return nil, fmt.Errorf("migrations: unsupported driver %q", driver)
	}
	return fs.Sub(embedded, driver)
}

// Up applies all pending migrations for driver and returns how many ran.
func Up(ctx context.Context, db *sql.DB, driver string) (int, error) {
	files, err := Files(driver)
	if err != nil {
		return 0, err
	}
	provider, err := goose.NewProvider(dialects[driver], db, files)
	if err != nil {
		return 0, fmt.Errorf("migrations: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrations: %w", err)
	}
	return len(results), nil
}
