package foreman

import (
	"fmt"

	"github.com/casualjim/foreman/events"
)

// TaskState re-exports the task lifecycle states from the events package.
type TaskState = events.TaskState

// Listener re-exports the lifecycle listener capability from the events
// package.
type Listener = events.Listener

// ExecutorState is the process-wide lifecycle of an Executor.
type ExecutorState int

const (
	// StateNew is the state of an executor under construction; it is never
	// observable through the public API.
	StateNew ExecutorState = iota
	// StateAccepting is the only state in which Submit admits new work.
	StateAccepting
	// StateShuttingDown refuses new work while queued and running tasks
	// drain normally.
	StateShuttingDown
	// StateStopped refuses new work, has aborted everything queued and has
	// signalled interruption to running workers.
	StateStopped
	// StateTerminated means no task remains outside a terminal state.
	// Irreversible.
	StateTerminated
)

func (s ExecutorState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateAccepting:
		return "accepting"
	case StateShuttingDown:
		return "shutting-down"
	case StateStopped:
		return "stopped"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}
