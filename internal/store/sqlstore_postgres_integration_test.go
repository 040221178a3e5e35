package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPostgresStore_InvocationLifecycle exercises the same store.Store contract as the
// sqlite tests but against a real postgres container, confirming the shared sqlStore
// query set behaves identically across both dialects.
func TestPostgresStore_InvocationLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres-backed integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("besd_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(120*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	st, err := Open(ctx, connStr, DefaultPoolConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	inv := &Invocation{
		ID:     "88888888-8888-8888-8888-888888888888",
		Status: StatusInProgress,
		Start:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, st.UpsertShallowInvocation(ctx, inv))

	got, err := st.GetShallowInvocation(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, got.Status)

	require.NoError(t, st.UpsertTarget(ctx, inv.ID, &Target{
		Name: "//svc:bin", Status: StatusInProgress, Kind: "go_binary", Start: time.Now().UTC(),
	}))
	require.NoError(t, st.UpdateTargetResult(ctx, inv.ID, "//svc:bin", StatusSuccess, time.Now().UTC()))

	_, targets, _, err := st.GetInvocation(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, targets["//svc:bin"].Status)

	require.NoError(t, st.HealthCheck(ctx))
}
