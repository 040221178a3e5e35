// Package migrations embeds the SQL schema for both store backends and applies them
// on startup via golang-migrate, exactly as the teacher's migrations/runner.go wires
// database/iofs drivers together — generalized here to cover two backends instead of
// one and driven from log/slog instead of the standard library logger.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed sqlite/*.sql
var sqliteFS embed.FS

// Backend names the store engine whose migrations should be applied.
type Backend string

const (
	Postgres Backend = "postgres"
	SQLite   Backend = "sqlite"
)

// slogLogger adapts migrate.Logger to log/slog, the same shape the teacher's
// migrateLogger gives the standard library logger.
type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *slogLogger) Verbose() bool { return true }

// New builds a *migrate.Migrate wired to the embedded SQL tree for backend, leaving the
// caller free to drive Up, Steps, Version, or Drop directly — the building-block Apply
// is assembled from.
func New(db *sql.DB, backend Backend, logger *slog.Logger) (*migrate.Migrate, error) {
	var driver database.Driver
	var err error

	switch backend {
	case Postgres:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	case SQLite:
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("migrations: unknown backend %q", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("migrations: %s driver: %w", backend, err)
	}

	fsys := postgresFS
	dir := "postgres"
	if backend == SQLite {
		fsys = sqliteFS
		dir = "sqlite"
	}
	sourceDriver, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("migrations: %s source: %w", backend, err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, string(backend), driver)
	if err != nil {
		return nil, fmt.Errorf("migrations: instance: %w", err)
	}
	m.Log = &slogLogger{logger: logger}
	return m, nil
}

// Apply runs every pending migration for backend against db, in lexicographic
// filename order, failing startup (per §4.1) on any error other than
// migrate.ErrNoChange.
func Apply(db *sql.DB, backend Backend, logger *slog.Logger) error {
	m, err := New(db, backend, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: up: %w", err)
	}
	return nil
}
