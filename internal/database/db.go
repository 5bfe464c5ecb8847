package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the configured driver, verifies the connection and makes
// sure the users/websites schema exists.
//
// SQLite is limited to a single open connection: writes serialize inside the
// process and in-memory databases survive for the lifetime of the pool.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "sqlite3", "":
		driver = "sqlite3"
		if dsn == "" {
			dsn = "vaani.db"
		}
	case "mysql":
		dsn = mysqlDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// Ping with timeout
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if driver == "sqlite3" {
		// journal_mode may not be supported for in-memory databases; ignore errors.
		_, _ = db.ExecContext(ctx, `PRAGMA journal_mode=WAL`)
		for _, p := range []string{`PRAGMA busy_timeout=5000`, `PRAGMA foreign_keys=ON`} {
			if _, err := db.ExecContext(ctx, p); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("%s: %w", p, err)
			}
		}
	}

	if err := EnsureSchema(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// mysqlDSN adds the parameters the repositories rely on: parseTime for
// timestamps and clientFoundRows so an UPDATE that rewrites identical values
// still reports the row as affected.
func mysqlDSN(dsn string) string {
	params := []string{"parseTime=true", "clientFoundRows=true", "charset=utf8mb4"}
	for _, p := range params {
		key := p[:strings.IndexByte(p, '=')]
		if strings.Contains(dsn, key+"=") {
			continue
		}
		if strings.Contains(dsn, "?") {
			dsn += "&" + p
		} else {
			dsn += "?" + p
		}
	}
	return dsn
}
