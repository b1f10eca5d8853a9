package foreman

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/casualjim/foreman/events"
	"github.com/casualjim/foreman/pkg/uuidx"
	"github.com/casualjim/foreman/propagation"
	"github.com/google/uuid"
)

// envelope wraps a submitted task with its lifecycle state, timestamps,
// listener binding and captured context. One envelope per accepted
// submission; the executor's mutex guards every field that is not atomic.
type envelope struct {
	id       uuid.UUID
	task     Task
	listener events.Listener // nil when the caller bound none
	snapshot propagation.Snapshot

	// st holds an events.TaskState; reads are lock-free, writes go through
	// transition and happen while the executor lock is held
	st atomic.Int32

	submittedAt time.Time
	startedAt   time.Time
	completedAt time.Time

	// runCtx/cancel exist from dispatch on; cancel is the interruption
	// signal ShutdownNow sends to a live worker
	runCtx context.Context
	cancel context.CancelFunc

	worker     *WorkerThread
	workerName string

	// inline marks a CallerRuns execution, which holds no concurrency slot
	inline bool

	// admitted closes once OnSubmitted has been delivered, gating every
	// later callback so per-envelope ordering holds even when dispatch wins
	// the race against the submitting goroutine
	admitted chan struct{}

	handle *handle
}

func newEnvelope(task Task, listener events.Listener, snapshot propagation.Snapshot) *envelope {
	env := &envelope{
		id:          uuidx.New(),
		task:        task,
		listener:    listener,
		snapshot:    snapshot,
		submittedAt: time.Now(),
		admitted:    make(chan struct{}),
	}
	env.st.Store(int32(events.StateSubmitted))
	env.handle = newHandle(env)
	return env
}

func (env *envelope) current() events.TaskState {
	return events.TaskState(env.st.Load())
}

// transition moves the envelope to the next lifecycle state. Leaving a
// terminal state is an invariant violation, not a recoverable condition.
func (env *envelope) transition(to events.TaskState) {
	from := env.current()
	if from.Terminal() {
		panic(fmt.Sprintf("foreman: task %s: illegal transition %s -> %s", env.id, from, to))
	}
	env.st.Store(int32(to))
}
