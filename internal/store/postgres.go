package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/blade-bes/besd/internal/migrations"
)

func init() {
	openPostgres = openPostgresImpl
}

func openPostgresImpl(ctx context.Context, uri string, cfg PoolConfig) (Store, error) {
	db, err := sql.Open("postgres", uri)
	if err != nil {
		return nil, fmt.Errorf("%w: postgres open: %v", ErrBackend, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: postgres ping: %v", ErrBackend, err)
	}

	if err := migrations.Apply(db, migrations.Postgres, slog.Default()); err != nil {
		db.Close()
		return nil, err
	}

	return &sqlStore{db: db, dialect: dialectPostgres}, nil
}
