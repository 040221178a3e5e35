// Package store defines the persistence contract for the BES ingest pipeline (§4.1)
// and its single sqlStore implementation, which serves both the sqlite and the
// postgres backend (sqlite.go, postgres.go).
package store

import (
	"context"
	"net/url"
	"time"
)

// InvocationMutator is applied to a local copy of an Invocation by
// UpdateShallowInvocation. It must be a pure function of the row; concurrent writers
// may race, and the last write wins — the same semantics the original's
// closure-based update_shallow_invocation has.
type InvocationMutator func(*Invocation)

// Store is the persistence contract every ingest component depends on. Every method
// returns errors wrapping one of ErrNotFound, ErrConflict, or ErrBackend.
type Store interface {
	UpsertShallowInvocation(ctx context.Context, inv *Invocation) error
	UpdateShallowInvocation(ctx context.Context, id string, mutate InvocationMutator) error
	GetShallowInvocation(ctx context.Context, id string) (*Invocation, error)
	GetInvocation(ctx context.Context, id string) (*Invocation, map[string]Target, map[string]Test, error)
	DeleteInvocation(ctx context.Context, id string) error
	DeleteInvocationsSince(ctx context.Context, cutoff time.Time) (int64, error)

	UpsertTarget(ctx context.Context, invID string, target *Target) error
	UpdateTargetResult(ctx context.Context, invID, name string, status Status, end time.Time) error

	UpsertTest(ctx context.Context, invID string, test *Test) (string, error)
	UpdateTestResult(ctx context.Context, invID, name string, status Status, duration time.Duration, numRuns int) error
	UpsertTestRun(ctx context.Context, invID, testID string, run *TestRun) error

	InsertOptions(ctx context.Context, invID string, opts BuildOptions) error
	GetOptions(ctx context.Context, invID string) (BuildOptions, error)

	InsertOutputLines(ctx context.Context, invID string, lines []string) error
	DeleteLastOutputLines(ctx context.Context, invID string, n int) error
	GetProgress(ctx context.Context, invID string) (string, error)

	UpdateInvocationHeartbeat(ctx context.Context, invID string) error

	GetTestHistory(ctx context.Context, name string, filter TestHistoryFilter, limit int) (TestHistory, error)

	HealthCheck(ctx context.Context) error
	Close() error
}

// Open selects a backend by the scheme of uri (sqlite:// or postgres://) and opens a
// pooled connection to it. Any other scheme is a startup error per §6.
func Open(ctx context.Context, uri string, cfg PoolConfig) (Store, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	switch parsed.Scheme {
	case "sqlite":
		return openSqlite(ctx, uri, cfg)
	case "postgres":
		return openPostgres(ctx, uri, cfg)
	default:
		return nil, ErrUnknownScheme
	}
}

// PoolConfig bounds connection pool sizing, shared by both backends.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig mirrors the teacher's storage.Config defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
	}
}

// openSqlite and openPostgres are implemented in sqlite.go and postgres.go; Open is
// kept backend-agnostic so callers never reference either backend's opener directly.
var (
	openSqlite   func(context.Context, string, PoolConfig) (Store, error)
	openPostgres func(context.Context, string, PoolConfig) (Store, error)
)
