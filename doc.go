// Package foreman implements a managed task executor: a bounded-concurrency
// engine that admits units of work under a capacity policy, runs each
// admitted task on its own short-lived goroutine, carries ambient submission
// context across the submit/execute boundary, notifies listeners of every
// lifecycle transition, flags tasks that run abnormally long, and shuts down
// with well-defined cancellation semantics.
//
// An executor is configured once with functional options and then shared:
//
//	ex, err := foreman.New(
//		foreman.WithName("payments"),
//		foreman.WithMaxParallelTasks(4),
//		foreman.WithQueueCapacity(64),
//		foreman.WithHungTaskThreshold(30*time.Second),
//	)
//	if err != nil { ... }
//
//	handle, err := ex.Submit(ctx, foreman.TaskFunc(func(ctx context.Context) (any, error) {
//		return chargeCard(ctx, order)
//	}))
//	if err != nil { ... }
//
//	receipt, err := handle.Get(ctx)
//
// Admission is strict FIFO: tasks wait in a bounded queue for one of
// maxParallelTasks concurrency slots, and a slot freed by a completing task
// is handed to the queue head in the same critical section. When the queue
// is full and no slot is free, the configured RejectionPolicy decides
// whether the submission errors out, evicts the oldest queued task, is
// silently discarded, or runs inline on the caller.
//
// Every task runs on a goroutine of its own, created at dispatch and
// discarded at completion; the live set is queryable through Threads. A
// background monitor reports tasks running longer than the configured
// threshold through HungThreads, unless the executor is marked as hosting
// long-running work.
//
// Shutdown comes in two strengths. Shutdown refuses new work and lets
// queued and running tasks drain. ShutdownNow additionally aborts everything
// still queued, returns those payloads, and cancels the context of every
// running task; payloads are expected to watch their context, interruption
// is cooperative. AwaitTermination blocks until the last task reaches a
// terminal state.
package foreman
