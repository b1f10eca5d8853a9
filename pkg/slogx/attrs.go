// Package slogx carries small helpers for building log/slog attributes that
// are used consistently across the executor: errors, task identities and
// executor names always log under the same keys.
package slogx

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Error returns a slog.Attr for the provided error under the "error" key.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// Stringer returns a slog.Attr with the string rendering of value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// TaskID returns a slog.Attr identifying a task by its UUID under the
// "task_id" key.
func TaskID(id uuid.UUID) slog.Attr {
	return slog.String("task_id", id.String())
}

// Executor returns a slog.Attr carrying the executor name under the
// "executor" key.
func Executor(name string) slog.Attr {
	return slog.String("executor", name)
}
