// Package propagation defines the port through which ambient invocation
// context crosses the submit/execute boundary. A Propagator captures a
// Snapshot on the submitting goroutine; the executor applies that snapshot
// on the worker goroutine just before the payload runs and restores it on
// every exit path, including payload panics.
package propagation

import (
	"context"
	"sync/atomic"

	json "github.com/goccy/go-json"
)

// Restore undoes a Snapshot application. The executor calls it exactly once
// when the payload finishes.
type Restore func()

// Snapshot is an opaque capture of submission-time context. Apply derives
// the execution context for the worker and returns the Restore token for it.
//
// A snapshot belongs to exactly one task. Applying it twice, or applying it
// again after its Restore ran, is a programming error and panics.
type Snapshot interface {
	Apply(ctx context.Context) (context.Context, Restore)
}

// Propagator captures ambient context on the goroutine calling Submit. It
// must be safe to call Capture and Apply/Restore on different goroutines.
type Propagator interface {
	Capture(ctx context.Context) Snapshot
}

// Background returns a Propagator that captures nothing: Apply hands back
// the worker context unchanged. It is the default for executors that do not
// carry caller context into their tasks.
func Background() Propagator {
	return backgroundPropagator{}
}

type backgroundPropagator struct{}

func (backgroundPropagator) Capture(context.Context) Snapshot {
	return &snapshot{apply: func(ctx context.Context) context.Context { return ctx }}
}

// ContextVars returns a Propagator that carries the Vars stored in the
// submitting context (via WithVars) into the worker context.
func ContextVars() Propagator {
	return varsPropagator{}
}

type varsPropagator struct{}

func (varsPropagator) Capture(ctx context.Context) Snapshot {
	captured := VarsFromContext(ctx)
	return &snapshot{apply: func(ctx context.Context) context.Context {
		if captured == nil {
			return ctx
		}
		return WithVars(ctx, captured)
	}}
}

// snapshot state: 0 = not yet applied, 1 = applied, 2 = restored. The
// executor guarantees single ownership; the counter is the defensive assert
// behind that guarantee.
type snapshot struct {
	apply func(context.Context) context.Context
	state atomic.Int32
}

func (s *snapshot) Apply(ctx context.Context) (context.Context, Restore) {
	if !s.state.CompareAndSwap(0, 1) {
		panic("propagation: snapshot applied twice")
	}
	applied := s.apply(ctx)
	return applied, func() {
		if !s.state.CompareAndSwap(1, 2) {
			panic("propagation: snapshot restored twice")
		}
	}
}

// Vars is the key-value payload the default propagator carries from the
// submitting goroutine to the worker. It is not safe for concurrent
// mutation; treat a captured Vars as frozen.
type Vars map[string]any

// String renders the variables as JSON, or "" when marshaling fails.
func (v Vars) String() string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

type varsKey struct{}

// WithVars returns a context carrying the given Vars.
func WithVars(ctx context.Context, vars Vars) context.Context {
	return context.WithValue(ctx, varsKey{}, vars)
}

// VarsFromContext returns the Vars stored in ctx, or nil when absent.
func VarsFromContext(ctx context.Context) Vars {
	if v, ok := ctx.Value(varsKey{}).(Vars); ok {
		return v
	}
	return nil
}
