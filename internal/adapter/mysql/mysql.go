// Package mysql implements the domain repositories using MySQL.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"

	"storefront/internal/domain"
	"storefront/internal/migrations"
)

const duplicateEntry = 1062

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

var _ domain.UserRepository = (*DB)(nil)
var _ domain.InventoryRepository = (*DB)(nil)
var _ domain.CartRepository = (*DB)(nil)

// Open connects to MySQL and pings it. Timestamps are always parsed into
// time.Time in UTC regardless of the DSN.
func Open(dsn string) (*DB, error) {
	cfg, err := mysqldrv.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	s, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return &DB{sql: s}, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Ping checks that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

// Migrate applies pending schema migrations and returns how many ran.
func (d *DB) Migrate(ctx context.Context) (int, error) {
	return migrations.Up(ctx, d.sql, "mysql")
}

func isDuplicateEntry(err error) bool {
	var myErr *mysqldrv.MySQLError
	return errors.As(err, &myErr) && myErr.Number == duplicateEntry
}
