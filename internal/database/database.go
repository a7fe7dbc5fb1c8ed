package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Dialect captures the few SQL differences between the supported drivers.
type Dialect struct {
	Driver       string
	InsertIgnore string
	Schema       []string
}

var dialects = map[string]Dialect{
	"mysql": {
		Driver:       "mysql",
		InsertIgnore: "INSERT IGNORE INTO",
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS user_accounts (
				user_id VARCHAR(128) NOT NULL PRIMARY KEY,
				credits INT NOT NULL DEFAULT 0,
				name VARCHAR(255) NULL,
				email VARCHAR(255) NULL,
				photo_url VARCHAR(1024) NULL,
				created_at DATETIME NOT NULL,
				CONSTRAINT credits_non_negative CHECK (credits >= 0)
			)`,
			`CREATE TABLE IF NOT EXISTS history_entries (
				id CHAR(36) NOT NULL PRIMARY KEY,
				user_id VARCHAR(128) NOT NULL,
				story TEXT NOT NULL,
				scripture VARCHAR(255) NOT NULL,
				scripture_text TEXT NULL,
				time DATETIME(3) NOT NULL,
				INDEX idx_history_user_time (user_id, time)
			)`,
		},
	},
	"sqlite": {
		Driver:       "sqlite",
		InsertIgnore: "INSERT OR IGNORE INTO",
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS user_accounts (
				user_id TEXT NOT NULL PRIMARY KEY,
				credits INTEGER NOT NULL DEFAULT 0 CHECK (credits >= 0),
				name TEXT NULL,
				email TEXT NULL,
				photo_url TEXT NULL,
				created_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS history_entries (
				id TEXT NOT NULL PRIMARY KEY,
				user_id TEXT NOT NULL,
				story TEXT NOT NULL,
				scripture TEXT NOT NULL,
				scripture_text TEXT NULL,
				time DATETIME NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_history_user_time ON history_entries (user_id, time)`,
		},
	},
}

// DialectFor returns the dialect for a driver name.
func DialectFor(driver string) (Dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
	return d, nil
}

// OpenDB creates and configures a connection pool for driver and dsn,
// and pings it to verify the connection.
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if _, err := DialectFor(driver); err != nil {
		return nil, err
	}

	if driver == "mysql" {
		var err error
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}

	// 1. Open a new connection pool.
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// 2. Configure the connection pool settings.
	if driver == "sqlite" {
		// sqlite allows a single writer; serialise through one connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	// 3. Ping the database to verify the connection.
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	return db, nil
}

// mysqlDSN forces the options the store relies on: DATETIME columns scan
// into time.Time, and UPDATE reports matched rather than changed rows so
// an update that rewrites identical values still counts as found.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// Migrate creates the tables the application needs. It is safe to run repeatedly.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	for _, stmt := range dialect.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
