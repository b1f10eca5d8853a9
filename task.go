package foreman

import (
	"context"

	"github.com/casualjim/foreman/events"
	"github.com/fogfish/opts"
)

// Task is the unit of work callers hand to Submit. Run receives a context
// that is cancelled when the executor is stopped forcefully; payloads that
// want to honor interruption must watch it. The returned value and error are
// surfaced only through the task's Handle, never into the executor's own
// control flow.
type Task interface {
	Run(ctx context.Context) (any, error)
}

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc func(ctx context.Context) (any, error)

// Run implements Task.
func (f TaskFunc) Run(ctx context.Context) (any, error) {
	return f(ctx)
}

// Submission carries the per-submission options of a single Submit call.
type Submission struct {
	listener events.Listener
}

// WithListener binds a lifecycle listener to the submitted task. The
// listener observes every transition of this task and no other.
var WithListener = opts.ForName[Submission, events.Listener]("listener")
