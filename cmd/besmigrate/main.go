// Package main provides besmigrate, the standalone migration CLI for the BES store.
// It drives the same embedded schema besd applies automatically on startup, for
// operators who want to inspect or control migration state out of band.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/blade-bes/besd/internal/migrations"
)

const (
	version = "1.0.0-dev"
	name    = "besmigrate"
)

func main() {
	var (
		showHelp    = flag.Bool("help", false, "show help information")
		showVersion = flag.Bool("version", false, "show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", name, version)
		os.Exit(0)
	}

	if *showHelp || flag.NArg() < 1 {
		printUsage()
		os.Exit(0)
	}

	command := flag.Arg(0)

	storeURI := getEnvOrDefault("BESD_STORE_URI", "sqlite://besd.db")

	db, backend, err := openDB(storeURI)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	m, err := migrations.New(db, backend, slog.Default())
	if err != nil {
		log.Fatalf("failed to build migration instance: %v", err)
	}
	defer m.Close()

	if err := executeCommand(command, m); err != nil {
		log.Fatalf("migration command %q failed: %v", command, err)
	}
}

func openDB(uri string) (*sql.DB, migrations.Backend, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, "", fmt.Errorf("parsing store uri: %w", err)
	}

	switch parsed.Scheme {
	case "sqlite":
		path := strings.TrimPrefix(uri, "sqlite://")
		dsn := path
		if !strings.Contains(dsn, "?") {
			dsn += "?_foreign_keys=on"
		} else {
			dsn += "&_foreign_keys=on"
		}
		db, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, "", err
		}
		return db, migrations.SQLite, db.Ping()
	case "postgres":
		db, err := sql.Open("postgres", uri)
		if err != nil {
			return nil, "", err
		}
		return db, migrations.Postgres, db.Ping()
	default:
		return nil, "", fmt.Errorf("unknown store scheme %q", parsed.Scheme)
	}
}

func executeCommand(command string, m *migrate.Migrate) error {
	switch command {
	case "up":
		err := m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no new migrations to apply")
		} else {
			fmt.Println("all migrations applied successfully")
		}
		return nil
	case "down":
		err := m.Steps(-1)
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		fmt.Println("last migration rolled back")
		return nil
	case "status", "version":
		ver, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Println("no migrations applied yet")
				return nil
			}
			return err
		}
		status := "clean"
		if dirty {
			status = "dirty (needs manual intervention)"
		}
		fmt.Printf("version %d (%s)\n", ver, status)
		return nil
	case "drop":
		fmt.Print("WARNING: this will drop every table. Are you sure? (y/N): ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("operation cancelled")
			return nil
		}
		return m.Drop()
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printUsage() {
	fmt.Printf(`%s v%s - migration tool for the BES ingest store

USAGE:
    %s [OPTIONS] COMMAND

COMMANDS:
    up      apply all pending migrations
    down    roll back the last migration
    status  show migration status
    version show current migration version
    drop    drop all tables (requires confirmation)

OPTIONS:
    --help     show this help message
    --version  show version information

ENVIRONMENT VARIABLES:
    BESD_STORE_URI  sqlite:// or postgres:// connection URI (default: sqlite://besd.db)
`, name, version, name)
}
