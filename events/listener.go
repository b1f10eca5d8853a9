package events

import (
	"context"
	"log/slog"

	json "github.com/goccy/go-json"
)

// Listener receives lifecycle notifications for a single submitted task.
// This interface is deliberately designed without an embedded no-op
// implementation: consumers implement all five callbacks and decide
// explicitly which events they ignore.
//
// Implementation guidelines:
//   - Callbacks run on the task's own worker goroutine (or the submitting
//     goroutine for events fired before dispatch), never concurrently for
//     the same task
//   - A slow listener delays only its own task's bookkeeping, but it still
//     delays it; keep callbacks short or hand off to a channel
//   - Do not assume any ordering relative to other tasks' events
type Listener interface {
	// OnSubmitted fires once, after the task passed admission.
	OnSubmitted(context.Context, TaskEvent)

	// OnStarting fires when the task holds a concurrency slot and its
	// captured context has been applied, just before the payload runs.
	OnStarting(context.Context, TaskEvent)

	// OnRunning fires when payload execution has actually begun.
	OnRunning(context.Context, TaskEvent)

	// OnAborted fires instead of OnDone when the task was cancelled before
	// starting, or when its worker was interrupted by a forced shutdown.
	OnAborted(context.Context, TaskEvent)

	// OnDone fires when the payload returned; the event state tells
	// success from failure, and Failure carries the error text.
	OnDone(context.Context, TaskEvent)
}

// LoggingListener returns a Listener that writes every event to slog.
// Useful as a sink for tasks whose lifecycle is only interesting in logs.
func LoggingListener() Listener {
	return loggingListener{}
}

type loggingListener struct{}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func (loggingListener) OnSubmitted(ctx context.Context, evt TaskEvent) {
	slog.DebugContext(ctx, "task submitted", "event", mustJSON(evt))
}

func (loggingListener) OnStarting(ctx context.Context, evt TaskEvent) {
	slog.DebugContext(ctx, "task starting", "event", mustJSON(evt))
}

func (loggingListener) OnRunning(ctx context.Context, evt TaskEvent) {
	slog.DebugContext(ctx, "task running", "event", mustJSON(evt))
}

func (loggingListener) OnAborted(ctx context.Context, evt TaskEvent) {
	slog.WarnContext(ctx, "task aborted", "event", mustJSON(evt))
}

func (loggingListener) OnDone(ctx context.Context, evt TaskEvent) {
	slog.InfoContext(ctx, "task done", "event", mustJSON(evt))
}
