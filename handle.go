package foreman

import (
	"context"
	"errors"
	"sync"

	"github.com/casualjim/foreman/events"
	"github.com/casualjim/foreman/pkg/stdx"
	"github.com/google/uuid"
)

// Handle is the caller's view of a submitted task: a future over the task's
// result plus a window into its lifecycle state.
type Handle interface {
	// ID returns the task's unique identity.
	ID() uuid.UUID

	// State returns the task's current lifecycle state.
	State() TaskState

	// Get blocks until the task reaches a terminal state and returns its
	// result. A task that failed returns the payload's error; an aborted
	// task returns ErrAborted. When ctx is done first, Get returns ctx.Err()
	// without disturbing the task.
	Get(ctx context.Context) (any, error)

	// Done returns a channel closed when the task reaches a terminal state.
	Done() <-chan struct{}

	// IsDone reports whether the task reached any terminal state.
	IsDone() bool

	// IsCancelled reports whether the task ended aborted.
	IsCancelled() bool
}

type handle struct {
	env  *envelope
	done chan struct{}
	once sync.Once

	// result and err are written exactly once, before done closes
	result any
	err    error
}

func newHandle(env *envelope) *handle {
	return &handle{env: env, done: make(chan struct{})}
}

// complete resolves the future. Resolving twice is a programming error in
// the dispatcher; the extra call is swallowed by once, and the state machine
// assert in envelope.transition is what actually trips.
func (h *handle) complete(result any, err error) {
	h.once.Do(func() {
		h.result = result
		h.err = err
		close(h.done)
	})
}

func (h *handle) ID() uuid.UUID { return h.env.id }

func (h *handle) State() TaskState { return h.env.current() }

func (h *handle) Get(ctx context.Context) (any, error) {
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		return stdx.Zero[any](), ctx.Err()
	}
}

func (h *handle) Done() <-chan struct{} { return h.done }

func (h *handle) IsDone() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (h *handle) IsCancelled() bool {
	return h.IsDone() && errors.Is(h.err, ErrAborted) && h.env.current() == events.StateAborted
}
