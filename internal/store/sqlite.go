package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/blade-bes/besd/internal/migrations"
)

func init() {
	openSqlite = openSqliteImpl
}

// openSqliteImpl opens a sqlite:// URI, rewriting it into the file path
// mattn/go-sqlite3 expects (dropping the scheme, enabling foreign_keys, since SQLite
// disables FK enforcement by default), applies pending migrations, and caps the pool
// to a single writer — sqlite allows only one writer at a time regardless of
// MaxOpenConns, so higher values only starve readers waiting on the write lock.
func openSqliteImpl(ctx context.Context, uri string, cfg PoolConfig) (Store, error) {
	path := strings.TrimPrefix(uri, "sqlite://")
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	} else {
		dsn += "&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: sqlite open: %v", ErrBackend, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: sqlite ping: %v", ErrBackend, err)
	}

	if err := migrations.Apply(db, migrations.SQLite, slog.Default()); err != nil {
		db.Close()
		return nil, err
	}

	return &sqlStore{db: db, dialect: dialectSQLite}, nil
}
