package foreman

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	ex, err := New()
	require.NoError(t, err)
	defer ex.ShutdownNow()

	assert.Equal(t, "foreman", ex.Name())
	assert.Equal(t, StateAccepting, ex.State())
	assert.Equal(t, runtime.GOMAXPROCS(0), ex.maxParallel)
	assert.Equal(t, UnboundedQueue, ex.queueCapacity)
	assert.Equal(t, Abort, ex.policy)
	assert.False(t, ex.hungDetectionEnabled())
}

func TestNew_Options(t *testing.T) {
	ex, err := New(
		WithName("billing"),
		WithMaxParallelTasks(4),
		WithQueueCapacity(16),
		WithRejectionPolicy(CallerRuns),
		WithHungTaskThreshold(time.Minute),
		WithHungCheckInterval(5*time.Second),
		WithThreadLifetime(time.Minute),
	)
	require.NoError(t, err)
	defer ex.ShutdownNow()

	assert.Equal(t, "billing", ex.Name())
	assert.Equal(t, 4, ex.maxParallel)
	assert.Equal(t, 16, ex.queueCapacity)
	assert.Equal(t, CallerRuns, ex.policy)
	assert.Equal(t, time.Minute, ex.hungThreshold)
	assert.True(t, ex.hungDetectionEnabled())
}

func TestNew_Validation(t *testing.T) {
	t.Run("max parallel below one", func(t *testing.T) {
		_, err := New(WithMaxParallelTasks(0))
		require.Error(t, err)
	})

	t.Run("negative queue capacity", func(t *testing.T) {
		_, err := New(WithQueueCapacity(-5))
		require.Error(t, err)
	})

	t.Run("unbounded queue sentinel is accepted", func(t *testing.T) {
		ex, err := New(WithQueueCapacity(UnboundedQueue))
		require.NoError(t, err)
		ex.ShutdownNow()
	})

	t.Run("nonpositive hung check interval", func(t *testing.T) {
		_, err := New(WithHungCheckInterval(-time.Second))
		require.Error(t, err)
	})

	t.Run("nil propagator", func(t *testing.T) {
		_, err := New(WithPropagator(nil))
		require.Error(t, err)
	})
}

type countingFactory struct {
	spawns atomic.Int32
}

func (f *countingFactory) Spawn(name string, fn func()) {
	f.spawns.Add(1)
	go fn()
}

func TestWithGoroutineFactory(t *testing.T) {
	factory := &countingFactory{}
	ex, err := New(WithMaxParallelTasks(1), WithGoroutineFactory(factory))
	require.NoError(t, err)
	defer ex.ShutdownNow()

	for i := 0; i < 3; i++ {
		h, err := ex.Submit(context.Background(), TaskFunc(func(ctx context.Context) (any, error) {
			return nil, nil
		}))
		require.NoError(t, err)
		_, err = h.Get(context.Background())
		require.NoError(t, err)
	}

	assert.EqualValues(t, 3, factory.spawns.Load(),
		"every dispatched task gets its own execution unit")
}

func TestRejectionPolicy_String(t *testing.T) {
	assert.Equal(t, "abort", Abort.String())
	assert.Equal(t, "discard-oldest", DiscardOldest.String())
	assert.Equal(t, "discard", Discard.String())
	assert.Equal(t, "caller-runs", CallerRuns.String())
}

func TestExecutorState_String(t *testing.T) {
	assert.Equal(t, "accepting", StateAccepting.String())
	assert.Equal(t, "shutting-down", StateShuttingDown.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "terminated", StateTerminated.String())
}
