package foreman

import (
	"time"

	"github.com/google/uuid"
)

// WorkerThread is the metadata record of one disposable execution unit. A
// record is created when its task is dispatched, lives in the executor's
// live set while the task is starting or running, and is discarded (or
// briefly retained for diagnostics, see WithThreadLifetime) when the task
// reaches a terminal state. Execution units are never reused across tasks.
type WorkerThread struct {
	// ID uniquely identifies this execution unit.
	ID string
	// Name is the diagnostic name, derived from the executor name.
	Name string
	// TaskID is the task this unit is 1:1 bound to.
	TaskID uuid.UUID
	// Executor is the owning executor's name.
	Executor string
	// StartedAt is when the unit began executing its task.
	StartedAt time.Time
	// RetiredAt is zero while the unit is live.
	RetiredAt time.Time
}

// GoroutineFactory is the port through which the executor obtains
// execution units. Spawn must start fn on a fresh goroutine; one unit per
// call, no reuse across calls. Implementations may decorate the goroutine
// (naming in trace profiles, panic telemetry) but must not run fn inline.
type GoroutineFactory interface {
	Spawn(name string, fn func())
}

// goroutineFactory is the default factory: a plain `go` statement.
type goroutineFactory struct{}

func (goroutineFactory) Spawn(_ string, fn func()) {
	go fn()
}
