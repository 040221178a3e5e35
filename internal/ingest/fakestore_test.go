package ingest

import (
	"context"
	"time"

	"github.com/blade-bes/besd/internal/store"
)

type fakeStore struct {
	invocations map[string]*store.Invocation
}

func newFakeStore() *fakeStore {
	return &fakeStore{invocations: map[string]*store.Invocation{}}
}

func (f *fakeStore) UpsertShallowInvocation(ctx context.Context, inv *store.Invocation) error {
	cp := *inv
	f.invocations[inv.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateShallowInvocation(ctx context.Context, id string, mutate store.InvocationMutator) error {
	inv, ok := f.invocations[id]
	if !ok {
		return store.ErrNotFound
	}
	mutate(inv)
	return nil
}

func (f *fakeStore) GetShallowInvocation(ctx context.Context, id string) (*store.Invocation, error) {
	inv, ok := f.invocations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeStore) GetInvocation(ctx context.Context, id string) (*store.Invocation, map[string]store.Target, map[string]store.Test, error) {
	inv, err := f.GetShallowInvocation(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	return inv, map[string]store.Target{}, map[string]store.Test{}, nil
}

func (f *fakeStore) DeleteInvocation(ctx context.Context, id string) error {
	delete(f.invocations, id)
	return nil
}

func (f *fakeStore) DeleteInvocationsSince(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeStore) UpsertTarget(ctx context.Context, invID string, target *store.Target) error {
	return nil
}

func (f *fakeStore) UpdateTargetResult(ctx context.Context, invID, name string, status store.Status, end time.Time) error {
	return nil
}

func (f *fakeStore) UpsertTest(ctx context.Context, invID string, test *store.Test) (string, error) {
	return "test-id", nil
}

func (f *fakeStore) UpdateTestResult(ctx context.Context, invID, name string, status store.Status, duration time.Duration, numRuns int) error {
	return nil
}

func (f *fakeStore) UpsertTestRun(ctx context.Context, invID, testID string, run *store.TestRun) error {
	return nil
}

func (f *fakeStore) InsertOptions(ctx context.Context, invID string, opts store.BuildOptions) error {
	return nil
}

func (f *fakeStore) GetOptions(ctx context.Context, invID string) (store.BuildOptions, error) {
	return store.NewBuildOptions(), nil
}

func (f *fakeStore) InsertOutputLines(ctx context.Context, invID string, lines []string) error {
	return nil
}

func (f *fakeStore) DeleteLastOutputLines(ctx context.Context, invID string, n int) error {
	return nil
}

func (f *fakeStore) GetProgress(ctx context.Context, invID string) (string, error) {
	return "", nil
}

func (f *fakeStore) UpdateInvocationHeartbeat(ctx context.Context, invID string) error {
	inv, ok := f.invocations[invID]
	if !ok {
		return store.ErrNotFound
	}
	now := time.Now().UTC()
	inv.LastHeartbeat = &now
	return nil
}

func (f *fakeStore) GetTestHistory(ctx context.Context, name string, filter store.TestHistoryFilter, limit int) (store.TestHistory, error) {
	return store.TestHistory{}, nil
}

func (f *fakeStore) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                          { return nil }

var _ store.Store = (*fakeStore)(nil)
