package reconcile

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func countingUnit(op, key string, calls *atomic.Int64, err error) Unit {
	return Unit{
		Op:  op,
		Key: key,
		Do: func(ctx context.Context) error {
			calls.Add(1)
			return err
		},
	}
}

func TestApplyRunsAllUnits(t *testing.T) {
	var calls atomic.Int64
	units := []Unit{
		countingUnit("insert", "a", &calls, nil),
		countingUnit("insert", "b", &calls, nil),
		countingUnit("update", "c", &calls, nil),
	}

	result, err := Apply(context.Background(), zap.NewNop(), units, Options{Width: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), calls.Load())
	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 0, result.Failed())
}

func TestApplyDryRunPerformsNoWrites(t *testing.T) {
	var calls atomic.Int64
	units := []Unit{
		countingUnit("insert", "a", &calls, nil),
		countingUnit("delete", "b", &calls, errors.New("would fail")),
	}

	result, err := Apply(context.Background(), zap.NewNop(), units, Options{Width: 4, DryRun: true})

	// Dry run returns success and never invokes a write, even for units
	// that would have failed.
	require.NoError(t, err)
	assert.Equal(t, int64(0), calls.Load())
	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
}

func TestApplyFailIndependent(t *testing.T) {
	var calls atomic.Int64
	boom := errors.New("quota exceeded")
	units := []Unit{
		countingUnit("insert", "a", &calls, nil),
		countingUnit("insert", "b", &calls, boom),
		countingUnit("insert", "c", &calls, nil),
		countingUnit("insert", "d", &calls, boom),
	}

	result, err := Apply(context.Background(), zap.NewNop(), units, Options{Width: 2})

	// Every unit ran despite two failures.
	assert.Equal(t, int64(4), calls.Load())
	assert.Equal(t, 4, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 2, result.Failed())

	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)

	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "insert", writeErr.Op)
	assert.ErrorIs(t, err, boom)
}

func TestApplyWidthOneIsSequential(t *testing.T) {
	var running atomic.Int32

	unit := func(key string) Unit {
		return Unit{
			Op:  "insert",
			Key: key,
			Do: func(ctx context.Context) error {
				if !running.CompareAndSwap(0, 1) {
					t.Error("two units ran concurrently at width 1")
				}
				time.Sleep(time.Millisecond)
				running.Store(0)
				return nil
			},
		}
	}

	units := []Unit{unit("a"), unit("b"), unit("c"), unit("d")}
	_, err := Apply(context.Background(), zap.NewNop(), units, Options{Width: 1})
	require.NoError(t, err)
}

func TestApplyCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})

	blocker := Unit{
		Op:  "insert",
		Key: "a",
		Do: func(ctx context.Context) error {
			close(started)
			<-release
			calls.Add(1)
			return nil
		},
	}

	units := []Unit{blocker}
	for i := 0; i < 8; i++ {
		units = append(units, countingUnit("insert", "queued", &calls, nil))
	}

	done := make(chan struct{})
	var result Result
	var err error
	go func() {
		result, err = Apply(ctx, zap.NewNop(), units, Options{Width: 1})
		close(done)
	}()

	<-started
	cancel()
	close(release)
	<-done

	// The in-flight unit completed; queued units were abandoned.
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, result.Succeeded, len(units))
}

func TestApplyEmptyBucket(t *testing.T) {
	result, err := Apply(context.Background(), zap.NewNop(), nil, Options{Width: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Attempted)
}
