package foreman

import "fmt"

// RejectionPolicy decides what happens to a submission that arrives while
// the queue is at capacity and every concurrency slot is taken. The decision
// is made atomically with the queue-depth and slot checks.
type RejectionPolicy int

const (
	// Abort refuses the submission with a RejectedExecutionError. No
	// envelope is created and no counters move. This is the default.
	Abort RejectionPolicy = iota

	// DiscardOldest evicts the head of the queue to make room: the evicted
	// task is aborted (its listener and handle observe the abort) and the
	// new submission is enqueued.
	DiscardOldest

	// Discard accepts and immediately aborts the new submission. Submit
	// returns a handle that reports cancellation; no error is returned.
	Discard

	// CallerRuns executes the task synchronously on the goroutine calling
	// Submit. The task does not consume a concurrency slot, so the
	// maxParallelTasks bound applies only to pool-dispatched work while a
	// caller-run task is in flight.
	CallerRuns
)

func (p RejectionPolicy) String() string {
	switch p {
	case Abort:
		return "abort"
	case DiscardOldest:
		return "discard-oldest"
	case Discard:
		return "discard"
	case CallerRuns:
		return "caller-runs"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}
