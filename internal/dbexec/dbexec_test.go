package dbexec

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/blade-bes/besd/internal/metrics"
)

func TestRun_ReturnsResultAndIncrementsTotal(t *testing.T) {
	before := testutil.ToFloat64(metrics.DBExecTotal)

	result, err := Run(context.Background(), func(ctx context.Context) (int, error) {
		return 42, nil
	})

	require.NoError(t, err)
	require.Equal(t, 42, result)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.DBExecTotal))
}

func TestRun_PropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	_, err := Run(context.Background(), func(ctx context.Context) (int, error) {
		return 0, wantErr
	})
	require.ErrorIs(t, err, wantErr)
}

func TestRunErr_Delegates(t *testing.T) {
	called := false
	err := RunErr(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, called)
}

func TestGroup_IncrementsGroupedTotalNotPlainTotal(t *testing.T) {
	beforeGrouped := testutil.ToFloat64(metrics.DBExecGroupedTotal)
	beforePlain := testutil.ToFloat64(metrics.DBExecTotal)

	_, err := Group(context.Background(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, nil
	})

	require.NoError(t, err)
	require.Equal(t, beforeGrouped+1, testutil.ToFloat64(metrics.DBExecGroupedTotal))
	require.Equal(t, beforePlain, testutil.ToFloat64(metrics.DBExecTotal))
}

func TestRun_InflightReturnsToZeroAfterCompletion(t *testing.T) {
	_, err := Run(context.Background(), func(ctx context.Context) (int, error) {
		require.Equal(t, float64(1), testutil.ToFloat64(metrics.DBBlockingInflight))
		return 0, nil
	})
	require.NoError(t, err)
	require.Equal(t, float64(0), testutil.ToFloat64(metrics.DBBlockingInflight))
}
