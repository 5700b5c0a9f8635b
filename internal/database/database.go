// Package database centralises sqlx connection helpers for the optional
// direct-SQL backend.  Two drivers are linked in:
//
//	postgres – lib/pq, for Supabase's underlying Postgres or any other.
//	mysql    – go-sql-driver/mysql, also fine for MariaDB.
//
// Public entry points:
//
//	Open(driver, dsn)                              – conservative pool sizes.
//	OpenWithOptions(driver, dsn, maxOpen, maxIdle) – fine-grained control.
//
// Both helpers Ping the database before returning so callers can fail fast
// during bootstrap.  Callers should Close() the returned *sqlx.DB when no
// longer needed.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Supported driver names.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Open returns a *sqlx.DB with sane defaults: 10 max open, 2 idle, and a
// 30-minute connection lifetime.  A landing page writes rarely.
func Open(driver, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(driver, dsn, 10, 2)
}

// OpenWithOptions lets callers tune maxOpen and maxIdle.
func OpenWithOptions(driver, dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres, DriverMySQL:
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", driver, err)
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping %s: %w", driver, err)
	}
	return db, nil
}
