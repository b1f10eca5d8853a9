package foreman

import (
	"errors"
	"fmt"
)

// ErrAborted is the error reported by the handle of a task that was
// cancelled before it started, or whose worker was interrupted by
// ShutdownNow. Aborting is not an executor failure; it is a defined terminal
// state.
var ErrAborted = errors.New("foreman: task aborted")

// RejectedExecutionError is returned by Submit when admission is refused:
// the executor is no longer accepting work, or the queue and the slot pool
// are both exhausted under the Abort policy.
type RejectedExecutionError struct {
	Executor string
	Reason   string
}

func (e *RejectedExecutionError) Error() string {
	return fmt.Sprintf("foreman: executor %q rejected task: %s", e.Executor, e.Reason)
}

// IsRejected reports whether err is a rejected execution.
func IsRejected(err error) bool {
	var re *RejectedExecutionError
	return errors.As(err, &re)
}
