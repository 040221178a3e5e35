package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/blade-bes/besd/internal/metrics"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()

	dir := t.TempDir()
	uri := "sqlite://" + filepath.Join(dir, "besd.db")

	st, err := Open(context.Background(), uri, DefaultPoolConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return st
}

func TestSQLiteStore_InvocationLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping sqlite-backed integration test in short mode")
	}

	ctx := context.Background()
	st := newSQLiteStore(t)

	inv := &Invocation{
		ID:     "11111111-1111-1111-1111-111111111111",
		Status: StatusInProgress,
		Start:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, st.UpsertShallowInvocation(ctx, inv))

	got, err := st.GetShallowInvocation(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, got.Status)

	require.NoError(t, st.UpdateShallowInvocation(ctx, inv.ID, func(i *Invocation) {
		i.Command = "build"
		i.Pattern = []string{"//foo:bar", "//baz:qux"}
	}))

	got, err = st.GetShallowInvocation(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, "build", got.Command)
	require.Equal(t, []string{"//foo:bar", "//baz:qux"}, got.Pattern)

	end := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, st.UpdateShallowInvocation(ctx, inv.ID, func(i *Invocation) {
		i.Status = StatusSuccess
		i.End = &end
	}))

	full, targets, tests, err := st.GetInvocation(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, full.Status)
	require.Empty(t, targets)
	require.Empty(t, tests)
}

func TestSQLiteStore_TargetAndTestLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping sqlite-backed integration test in short mode")
	}

	ctx := context.Background()
	st := newSQLiteStore(t)

	invID := "22222222-2222-2222-2222-222222222222"
	require.NoError(t, st.UpsertShallowInvocation(ctx, &Invocation{
		ID: invID, Status: StatusInProgress, Start: time.Now().UTC(),
	}))

	require.NoError(t, st.UpsertTarget(ctx, invID, &Target{
		Name: "//foo:bar", Status: StatusInProgress, Kind: "go_binary", Start: time.Now().UTC(),
	}))

	end := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, st.UpdateTargetResult(ctx, invID, "//foo:bar", StatusSuccess, end))

	testID, err := st.UpsertTest(ctx, invID, &Test{
		Name: "//foo:bar_test", Status: StatusInProgress, End: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, testID)

	require.NoError(t, st.UpsertTestRun(ctx, invID, testID, &TestRun{
		Run: 1, Shard: 0, Attempt: 1, Status: StatusSuccess, Duration: 2 * time.Second,
		Files: map[string]TestArtifact{
			"test.log": {Name: "test.log", URI: "file:///tmp/test.log"},
		},
	}))

	require.NoError(t, st.UpdateTestResult(ctx, invID, "//foo:bar_test", StatusSuccess, 2*time.Second, 1))

	_, targets, tests, err := st.GetInvocation(ctx, invID)
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, targets["//foo:bar"].Status)

	tt := tests["//foo:bar_test"]
	require.Equal(t, StatusSuccess, tt.Status)
	require.Equal(t, 1, tt.NumRuns)
	require.Len(t, tt.Runs, 1)
	require.Equal(t, "file:///tmp/test.log", tt.Runs[0].Files["test.log"].URI)
}

func TestSQLiteStore_OptionsScrubbing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping sqlite-backed integration test in short mode")
	}

	ctx := context.Background()
	st := newSQLiteStore(t)

	invID := "33333333-3333-3333-3333-333333333333"
	require.NoError(t, st.UpsertShallowInvocation(ctx, &Invocation{
		ID: invID, Status: StatusInProgress, Start: time.Now().UTC(),
	}))

	opts := NewBuildOptions()
	opts.BuildMetadata["AUTH"] = "token=secret=trail"

	require.NoError(t, st.InsertOptions(ctx, invID, opts))

	got, err := st.GetOptions(ctx, invID)
	require.NoError(t, err)
	require.Equal(t, "token=<SCRUBBED>", got.BuildMetadata["AUTH"])
}

func TestSQLiteStore_OutputLinesTruncation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping sqlite-backed integration test in short mode")
	}

	ctx := context.Background()
	st := newSQLiteStore(t)

	invID := "44444444-4444-4444-4444-444444444444"
	require.NoError(t, st.UpsertShallowInvocation(ctx, &Invocation{
		ID: invID, Status: StatusInProgress, Start: time.Now().UTC(),
	}))

	require.NoError(t, st.InsertOutputLines(ctx, invID, []string{"line one", "line two", "line three"}))

	progress, err := st.GetProgress(ctx, invID)
	require.NoError(t, err)
	require.Equal(t, "line one\nline two\nline three", progress)

	require.NoError(t, st.DeleteLastOutputLines(ctx, invID, 2))

	progress, err = st.GetProgress(ctx, invID)
	require.NoError(t, err)
	require.Equal(t, "line three", progress)
}

func TestSQLiteStore_DeleteInvocationsSince(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping sqlite-backed integration test in short mode")
	}

	ctx := context.Background()
	st := newSQLiteStore(t)

	old := &Invocation{ID: "55555555-5555-5555-5555-555555555555", Status: StatusSuccess, Start: time.Now().Add(-48 * time.Hour).UTC()}
	end := old.Start.Add(time.Minute)
	old.End = &end
	require.NoError(t, st.UpsertShallowInvocation(ctx, old))

	recent := &Invocation{ID: "66666666-6666-6666-6666-666666666666", Status: StatusInProgress, Start: time.Now().UTC()}
	require.NoError(t, st.UpsertShallowInvocation(ctx, recent))

	deleted, err := st.DeleteInvocationsSince(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	_, err = st.GetShallowInvocation(ctx, old.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = st.GetShallowInvocation(ctx, recent.ID)
	require.NoError(t, err)
}

func TestSQLiteStore_GetTestHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping sqlite-backed integration test in short mode")
	}

	ctx := context.Background()
	st := newSQLiteStore(t)

	for i, id := range []string{
		"77777777-7777-7777-7777-777777777771",
		"77777777-7777-7777-7777-777777777772",
		"77777777-7777-7777-7777-777777777773",
	} {
		require.NoError(t, st.UpsertShallowInvocation(ctx, &Invocation{
			ID: id, Status: StatusInProgress, Start: time.Now().UTC(),
		}))
		opts := NewBuildOptions()
		opts.BuildMetadata["branch"] = "main"
		require.NoError(t, st.InsertOptions(ctx, id, opts))

		end := time.Now().Add(time.Duration(i) * time.Minute).UTC()
		_, err := st.UpsertTest(ctx, id, &Test{
			Name: "//foo:bar_test", Status: StatusSuccess, End: end, Duration: time.Second,
		})
		require.NoError(t, err)
	}

	history, err := st.GetTestHistory(ctx, "//foo:bar_test", TestHistoryFilter{
		MetadataKey: "branch", MetadataValue: "main",
	}, 10)
	require.NoError(t, err)
	require.Len(t, history.Points, 3)
	require.False(t, history.Truncated)

	truncated, err := st.GetTestHistory(ctx, "//foo:bar_test", TestHistoryFilter{}, 2)
	require.NoError(t, err)
	require.Len(t, truncated.Points, 2)
	require.True(t, truncated.Truncated)

	none, err := st.GetTestHistory(ctx, "//foo:bar_test", TestHistoryFilter{
		MetadataKey: "branch", MetadataValue: "release",
	}, 10)
	require.NoError(t, err)
	require.Empty(t, none.Points)
}

func TestSQLiteStore_HealthCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping sqlite-backed integration test in short mode")
	}

	st := newSQLiteStore(t)
	require.NoError(t, st.HealthCheck(context.Background()))
}

func TestSQLiteStore_CallsIncrementDBExecMetrics(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping sqlite-backed integration test in short mode")
	}

	ctx := context.Background()
	st := newSQLiteStore(t)

	beforeSingle := testutil.ToFloat64(metrics.DBExecTotal)
	beforeGrouped := testutil.ToFloat64(metrics.DBExecGroupedTotal)

	inv := &Invocation{
		ID:     "22222222-2222-2222-2222-222222222222",
		Status: StatusInProgress,
		Start:  time.Now().UTC(),
	}
	require.NoError(t, st.UpsertShallowInvocation(ctx, inv))
	require.Equal(t, beforeSingle+1, testutil.ToFloat64(metrics.DBExecTotal))

	require.NoError(t, st.UpdateInvocationHeartbeat(ctx, inv.ID))
	require.Equal(t, beforeSingle+2, testutil.ToFloat64(metrics.DBExecTotal))

	require.NoError(t, st.UpdateShallowInvocation(ctx, inv.ID, func(i *Invocation) {
		i.Command = "build"
	}))
	require.Equal(t, beforeGrouped+1, testutil.ToFloat64(metrics.DBExecGroupedTotal))

	_, _, _, err := st.GetInvocation(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, beforeGrouped+2, testutil.ToFloat64(metrics.DBExecGroupedTotal))
}
