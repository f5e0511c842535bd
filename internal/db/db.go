package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"climate-server/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

// Open returns a pooled handle on the dataset. The file is never created or
// written: a missing file fails here rather than yielding an empty database.
func Open(cfg config.Config) (*sql.DB, error) {
	dsn := buildDSN(cfg)

	var (
		db  *sql.DB
		err error
	)
	if cfg.SQLiteLogStatements {
		db = sql.OpenDB(NewLoggingConnector(dsn, slog.Default()))
	} else {
		db, err = sql.Open(cfg.SQLiteDriver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
	}

	// Reads only, so concurrent connections are safe.
	if cfg.SQLiteMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.SQLiteMaxOpenConns)
	}
	if cfg.SQLiteMaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.SQLiteMaxIdleConns)
	}
	if cfg.SQLiteConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.SQLiteConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// RequireTables fails when any of the named tables is absent from the schema.
func RequireTables(ctx context.Context, db *sql.DB, tables ...string) error {
	for _, name := range tables {
		var n int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
		).Scan(&n)
		if err != nil {
			return fmt.Errorf("inspect table %s: %w", name, err)
		}
		if n == 0 {
			return fmt.Errorf("dataset is missing table %q", name)
		}
	}
	return nil
}

func buildDSN(cfg config.Config) string {
	if cfg.SQLiteDSN != "" {
		return cfg.SQLiteDSN
	}

	// mode=ro: the dataset is prepared out of band and must not be touched.
	// busy_timeout: tolerate a preparation tool holding the file briefly.
	params := []string{
		"mode=ro",
		"_busy_timeout=5000",
	}

	path := cfg.SQLitePath
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&")
	}

	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&"))
}
