package foreman

import (
	"context"
	"testing"

	"github.com/casualjim/foreman/propagation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_PropagatesContextVars(t *testing.T) {
	ex, err := New(WithMaxParallelTasks(1), WithPropagator(propagation.ContextVars()))
	require.NoError(t, err)
	defer ex.ShutdownNow()

	ctx := propagation.WithVars(context.Background(), propagation.Vars{
		"tenant": "acme",
		"trace":  "abc123",
	})

	h, err := ex.Submit(ctx, TaskFunc(func(taskCtx context.Context) (any, error) {
		vars := propagation.VarsFromContext(taskCtx)
		if vars == nil {
			return nil, nil
		}
		return vars["tenant"], nil
	}))
	require.NoError(t, err)

	res, err := h.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acme", res,
		"submission-time context vars must reach the worker")
}

func TestSubmit_BackgroundPropagatorCarriesNothing(t *testing.T) {
	ex, err := New(WithMaxParallelTasks(1))
	require.NoError(t, err)
	defer ex.ShutdownNow()

	ctx := propagation.WithVars(context.Background(), propagation.Vars{"tenant": "acme"})

	h, err := ex.Submit(ctx, TaskFunc(func(taskCtx context.Context) (any, error) {
		return propagation.VarsFromContext(taskCtx) != nil, nil
	}))
	require.NoError(t, err)

	res, err := h.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, false, res,
		"the default propagator carries no submission-time values")
}
