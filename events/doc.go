// Package events defines the lifecycle vocabulary of the executor: the task
// state machine, the event record emitted on every transition, and the
// Listener capability that observers implement to receive those records.
//
// Design decisions:
//   - One event shape: every transition emits the same TaskEvent record,
//     distinguished by Kind, so sinks can be written once
//   - Rich identity: events carry the task UUID, the executor name and a
//     timestamp, so they can be correlated across executors
//   - Efficient JSON: custom marshaling with pre-allocated kind markers
//   - Listener completeness: the Listener interface names all five
//     callbacks; implementations decide per callback what to ignore
//
// State machine:
//
//	Submitted → Queued → Starting → Running → {Successful | Failed | Aborted}
//
// Aborted is additionally reachable straight from Queued when a task is
// cancelled before it ever starts. Terminal states are never left again.
//
// Per task, callbacks arrive in strict order
// OnSubmitted → (OnStarting → OnRunning) → OnDone/OnAborted; no ordering is
// guaranteed between callbacks of different tasks, and callbacks may run on
// any goroutine.
package events
