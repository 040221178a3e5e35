package handlers

import (
	"context"
	"time"

	"github.com/blade-bes/besd/internal/store"
)

// fakeStore is a minimal in-memory store.Store double used to assert what each
// handler writes without standing up a real database.
type fakeStore struct {
	invocations map[string]*store.Invocation
	targets     map[string]store.Target
	tests       map[string]store.Test
	outputLines []string
	options     store.BuildOptions
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		invocations: map[string]*store.Invocation{},
		targets:     map[string]store.Target{},
		tests:       map[string]store.Test{},
		options:     store.NewBuildOptions(),
	}
}

func (f *fakeStore) UpsertShallowInvocation(ctx context.Context, inv *store.Invocation) error {
	cp := *inv
	f.invocations[inv.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateShallowInvocation(ctx context.Context, id string, mutate store.InvocationMutator) error {
	inv, ok := f.invocations[id]
	if !ok {
		inv = &store.Invocation{ID: id}
		f.invocations[id] = inv
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
	return inv, f.targets, f.tests, nil
}

func (f *fakeStore) DeleteInvocation(ctx context.Context, id string) error {
	delete(f.invocations, id)
	return nil
}

func (f *fakeStore) DeleteInvocationsSince(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeStore) UpsertTarget(ctx context.Context, invID string, target *store.Target) error {
	f.targets[target.Name] = *target
	return nil
}

func (f *fakeStore) UpdateTargetResult(ctx context.Context, invID, name string, status store.Status, end time.Time) error {
	t := f.targets[name]
	t.Status = status
	t.End = &end
	f.targets[name] = t
	return nil
}

func (f *fakeStore) UpsertTest(ctx context.Context, invID string, test *store.Test) (string, error) {
	f.tests[test.Name] = *test
	return "test-id-" + test.Name, nil
}

func (f *fakeStore) UpdateTestResult(ctx context.Context, invID, name string, status store.Status, duration time.Duration, numRuns int) error {
	t := f.tests[name]
	t.Status = status
	t.Duration = duration
	t.NumRuns = numRuns
	f.tests[name] = t
	return nil
}

func (f *fakeStore) UpsertTestRun(ctx context.Context, invID, testID string, run *store.TestRun) error {
	return nil
}

func (f *fakeStore) InsertOptions(ctx context.Context, invID string, opts store.BuildOptions) error {
	f.options.Unstructured = append(f.options.Unstructured, opts.Unstructured...)
	f.options.Startup = append(f.options.Startup, opts.Startup...)
	f.options.ExplicitStartup = append(f.options.ExplicitStartup, opts.ExplicitStartup...)
	f.options.CmdLine = append(f.options.CmdLine, opts.CmdLine...)
	f.options.ExplicitCmdLine = append(f.options.ExplicitCmdLine, opts.ExplicitCmdLine...)
	for k, v := range opts.BuildMetadata {
		f.options.BuildMetadata[k] = v
	}
	return nil
}

func (f *fakeStore) GetOptions(ctx context.Context, invID string) (store.BuildOptions, error) {
	return f.options, nil
}

func (f *fakeStore) InsertOutputLines(ctx context.Context, invID string, lines []string) error {
	f.outputLines = append(f.outputLines, lines...)
	return nil
}

func (f *fakeStore) DeleteLastOutputLines(ctx context.Context, invID string, n int) error {
	if n > len(f.outputLines) {
		n = len(f.outputLines)
	}
	f.outputLines = f.outputLines[n:]
	return nil
}

func (f *fakeStore) GetProgress(ctx context.Context, invID string) (string, error) {
	out := ""
	for i, l := range f.outputLines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out, nil
}

func (f *fakeStore) UpdateInvocationHeartbeat(ctx context.Context, invID string) error {
	return nil
}

func (f *fakeStore) GetTestHistory(ctx context.Context, name string, filter store.TestHistoryFilter, limit int) (store.TestHistory, error) {
	return store.TestHistory{}, nil
}

func (f *fakeStore) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                          { return nil }

var _ store.Store = (*fakeStore)(nil)
