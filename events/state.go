package events

import "fmt"

// TaskState enumerates the lifecycle states a submitted task moves through.
type TaskState int

const (
	// StateSubmitted is the initial state, entered the moment a task passes
	// admission.
	StateSubmitted TaskState = iota
	// StateQueued means the task sits in the FIFO admission queue waiting
	// for a concurrency slot.
	StateQueued
	// StateStarting means a slot is held and a worker is being prepared;
	// captured context gets applied during this state.
	StateStarting
	// StateRunning means the payload is executing on its worker.
	StateRunning
	// StateSuccessful is terminal: the payload returned without error.
	StateSuccessful
	// StateFailed is terminal: the payload returned an error or panicked.
	StateFailed
	// StateAborted is terminal: the task was cancelled before it started, or
	// its worker was interrupted during a forced shutdown.
	StateAborted
)

// Terminal reports whether s is one of the three end states.
func (s TaskState) Terminal() bool {
	switch s {
	case StateSuccessful, StateFailed, StateAborted:
		return true
	default:
		return false
	}
}

func (s TaskState) String() string {
	switch s {
	case StateSubmitted:
		return "submitted"
	case StateQueued:
		return "queued"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateSuccessful:
		return "successful"
	case StateFailed:
		return "failed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// MarshalText renders the state name, so states embed cleanly in JSON.
func (s TaskState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name produced by MarshalText.
func (s *TaskState) UnmarshalText(data []byte) error {
	switch string(data) {
	case "submitted":
		*s = StateSubmitted
	case "queued":
		*s = StateQueued
	case "starting":
		*s = StateStarting
	case "running":
		*s = StateRunning
	case "successful":
		*s = StateSuccessful
	case "failed":
		*s = StateFailed
	case "aborted":
		*s = StateAborted
	default:
		return fmt.Errorf("unknown task state %q", data)
	}
	return nil
}
