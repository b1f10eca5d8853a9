package foreman

import (
	"log/slog"
	"time"

	"github.com/casualjim/foreman/propagation"
	"github.com/fogfish/opts"
)

// UnboundedQueue is the queue-capacity sentinel for "no bound".
const UnboundedQueue = -1

var (
	// WithName sets the executor name used in logs, worker names and
	// lifecycle events.
	WithName = opts.ForName[Executor, string]("name")

	// WithMaxParallelTasks bounds how many tasks may be starting or running
	// simultaneously. Must be at least 1.
	WithMaxParallelTasks = opts.ForName[Executor, int]("maxParallel")

	// WithQueueCapacity bounds the admission queue. Zero means no queueing
	// at all; UnboundedQueue removes the bound.
	WithQueueCapacity = opts.ForName[Executor, int]("queueCapacity")

	// WithRejectionPolicy selects what happens when the queue is full and
	// no slot is free. Defaults to Abort.
	WithRejectionPolicy = opts.ForName[Executor, RejectionPolicy]("policy")

	// WithHungTaskThreshold enables hung-task detection: a running task
	// whose elapsed time exceeds the threshold is reported by HungThreads.
	// Zero or negative disables detection.
	WithHungTaskThreshold = opts.ForName[Executor, time.Duration]("hungThreshold")

	// WithHungCheckInterval sets how often the background monitor rescans
	// running tasks. Defaults to one second.
	WithHungCheckInterval = opts.ForName[Executor, time.Duration]("hungInterval")

	// WithLongRunningTasks declares that long execution is expected for
	// this executor's workload; no task is ever reported hung.
	WithLongRunningTasks = opts.ForName[Executor, bool]("longRunning")

	// WithThreadLifetime retains the metadata of completed workers for the
	// given duration, for diagnostics only. Zero purges immediately. The
	// underlying goroutine is gone either way; nothing is reused.
	WithThreadLifetime = opts.ForName[Executor, time.Duration]("threadLifetime")

	// WithPropagator selects how ambient context crosses from the
	// submitting goroutine to the worker. Defaults to
	// propagation.Background.
	WithPropagator = opts.ForName[Executor, propagation.Propagator]("propagator")

	// WithGoroutineFactory swaps the source of execution units, mostly for
	// tests that count or instrument spawned workers.
	WithGoroutineFactory = opts.ForName[Executor, GoroutineFactory]("factory")

	// WithLogger sets the structured logger. Defaults to slog.Default.
	WithLogger = opts.ForName[Executor, *slog.Logger]("logger")
)
