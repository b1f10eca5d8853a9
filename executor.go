package foreman

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/casualjim/foreman/events"
	"github.com/casualjim/foreman/pkg/slogx"
	"github.com/casualjim/foreman/pkg/uuidx"
	"github.com/casualjim/foreman/propagation"
	"github.com/fogfish/opts"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Executor is a bounded-concurrency managed task executor. Construct it with
// New; the zero value is not usable.
type Executor struct {
	name           string
	maxParallel    int
	queueCapacity  int
	policy         RejectionPolicy
	hungThreshold  time.Duration
	hungInterval   time.Duration
	longRunning    bool
	threadLifetime time.Duration
	propagator     propagation.Propagator
	factory        GoroutineFactory
	logger         *slog.Logger

	// mu guards state, queue, running, inFlight and the termination check.
	// Admission decisions, dispatch and shutdown transitions are all
	// linearized through it; listener callbacks never run under it.
	mu       sync.Mutex
	state    ExecutorState
	queue    *orderedmap.OrderedMap[uuid.UUID, *envelope]
	running  map[uuid.UUID]*envelope
	inFlight int
	termCh   chan struct{}

	submitted atomic.Int64
	completed atomic.Int64
	workerSeq atomic.Uint64

	threads *haxmap.Map[string, *WorkerThread]
	retired *haxmap.Map[string, *WorkerThread]

	monitorStop chan struct{}
	monitorDone chan struct{}
	stopMonitor sync.Once
}

// New builds an executor, applies the given options and starts accepting
// work. The hung-task monitor starts alongside when a positive threshold is
// configured and long-running mode is off.
func New(options ...opts.Option[Executor]) (*Executor, error) {
	e := &Executor{
		name:          "foreman",
		maxParallel:   runtime.GOMAXPROCS(0),
		queueCapacity: UnboundedQueue,
		policy:        Abort,
		hungInterval:  time.Second,
		propagator:    propagation.Background(),
		factory:       goroutineFactory{},
		logger:        slog.Default(),
		state:         StateNew,
	}
	if err := opts.Apply(e, options); err != nil {
		return nil, err
	}

	var err error
	if e.maxParallel < 1 {
		err = errors.Join(err, errors.New("max parallel tasks must be at least 1"))
	}
	if e.queueCapacity < 0 && e.queueCapacity != UnboundedQueue {
		err = errors.Join(err, errors.New("queue capacity must be nonnegative or UnboundedQueue"))
	}
	if e.hungInterval <= 0 {
		err = errors.Join(err, errors.New("hung check interval must be positive"))
	}
	if e.propagator == nil {
		err = errors.Join(err, errors.New("propagator is required"))
	}
	if e.factory == nil {
		err = errors.Join(err, errors.New("goroutine factory is required"))
	}
	if err != nil {
		return nil, err
	}

	e.logger = e.logger.With(slogx.Executor(e.name))
	e.queue = orderedmap.New[uuid.UUID, *envelope]()
	e.running = make(map[uuid.UUID]*envelope)
	e.termCh = make(chan struct{})
	e.threads = haxmap.New[string, *WorkerThread]()
	e.retired = haxmap.New[string, *WorkerThread]()
	e.state = StateAccepting

	if e.hungDetectionEnabled() {
		e.monitorStop = make(chan struct{})
		e.monitorDone = make(chan struct{})
		go e.monitor()
	}

	e.logger.Debug("executor accepting work",
		slog.Int("max_parallel", e.maxParallel),
		slog.Int("queue_capacity", e.queueCapacity),
		slogx.Stringer("policy", e.policy))

	return e, nil
}

// Name returns the executor's configured name.
func (e *Executor) Name() string { return e.name }

// State returns the executor's current lifecycle state.
func (e *Executor) State() ExecutorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Submit admits a unit of work. On success the task is queued, or
// dispatched straight onto a worker when a concurrency slot is free, and
// the returned Handle tracks it to completion. Admission fails with a
// RejectedExecutionError when the executor is shut down, or when queue and
// slots are exhausted under the Abort policy.
func (e *Executor) Submit(ctx context.Context, task Task, options ...opts.Option[Submission]) (Handle, error) {
	if task == nil {
		return nil, errors.New("foreman: task is required")
	}
	var sub Submission
	if err := opts.Apply(&sub, options); err != nil {
		return nil, err
	}

	snapshot := e.propagator.Capture(ctx)

	e.mu.Lock()
	if e.state != StateAccepting {
		e.mu.Unlock()
		return nil, &RejectedExecutionError{Executor: e.name, Reason: "executor is shut down"}
	}

	saturated := e.inFlight >= e.maxParallel &&
		e.queueCapacity != UnboundedQueue && e.queue.Len() >= e.queueCapacity

	var evicted *envelope
	inline := false
	if saturated {
		switch e.policy {
		case Abort:
			e.mu.Unlock()
			return nil, &RejectedExecutionError{Executor: e.name, Reason: "queue is full and no slot is free"}

		case Discard:
			env := newEnvelope(task, sub.listener, snapshot)
			e.submitted.Add(1)
			e.abortLocked(env)
			e.mu.Unlock()

			e.signalSubmitted(ctx, env)
			e.signal(env, events.KindAborted, ctx)
			env.handle.complete(nil, ErrAborted)
			e.logger.Debug("task discarded at admission", slogx.TaskID(env.id))
			return env.handle, nil

		case DiscardOldest:
			if pair := e.queue.Oldest(); pair != nil {
				evicted = pair.Value
				e.queue.Delete(pair.Key)
				e.abortLocked(evicted)
			}

		case CallerRuns:
			inline = true
		}
	}

	env := newEnvelope(task, sub.listener, snapshot)
	e.submitted.Add(1)

	switch {
	case inline:
		env.inline = true
		env.workerName = fmt.Sprintf("%s-caller-%d", e.name, e.workerSeq.Add(1))
		env.runCtx, env.cancel = context.WithCancel(context.Background())
		env.transition(events.StateQueued)
		env.transition(events.StateStarting)
		e.running[env.id] = env
		e.mu.Unlock()

		e.signalSubmitted(ctx, env)
		e.runTask(env)

	case e.inFlight < e.maxParallel:
		env.transition(events.StateQueued)
		e.dispatchLocked(env)
		e.mu.Unlock()

		e.signalSubmitted(ctx, env)
		e.factory.Spawn(env.workerName, func() { e.runTask(env) })

	default:
		env.transition(events.StateQueued)
		e.queue.Set(env.id, env)
		e.mu.Unlock()

		e.signalSubmitted(ctx, env)
	}

	if evicted != nil {
		e.notifyAborted(evicted)
		e.logger.Debug("evicted oldest queued task", slogx.TaskID(evicted.id))
	}

	return env.handle, nil
}

// dispatchLocked hands a concurrency slot to env. Callers hold e.mu and are
// responsible for spawning the worker after releasing it.
func (e *Executor) dispatchLocked(env *envelope) {
	e.inFlight++
	env.transition(events.StateStarting)
	env.workerName = fmt.Sprintf("%s-worker-%d", e.name, e.workerSeq.Add(1))
	env.runCtx, env.cancel = context.WithCancel(context.Background())
	e.running[env.id] = env
}

// runTask is the dispatcher body executed on the envelope's own execution
// unit (a fresh goroutine, or the caller under CallerRuns).
func (e *Executor) runTask(env *envelope) {
	// OnSubmitted must land before any later callback
	<-env.admitted

	wt := &WorkerThread{
		ID:        uuidx.NewString(),
		Name:      env.workerName,
		TaskID:    env.id,
		Executor:  e.name,
		StartedAt: time.Now(),
	}
	e.mu.Lock()
	env.worker = wt
	env.startedAt = wt.StartedAt
	e.threads.Set(wt.ID, wt)
	e.mu.Unlock()

	runCtx, restore := env.snapshot.Apply(env.runCtx)

	e.signal(env, events.KindStarting, runCtx)
	env.transition(events.StateRunning)
	e.signal(env, events.KindRunning, runCtx)

	result, err := e.invoke(runCtx, env)
	restore()

	e.finish(env, wt, result, err)
}

// invoke runs the payload with panic containment; a panicking task fails,
// it does not take the executor down.
func (e *Executor) invoke(ctx context.Context, env *envelope) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("foreman: task panicked: %v", r)
			e.logger.Error("task panicked", slogx.TaskID(env.id), slog.Any("panic", r))
		}
	}()
	return env.task.Run(ctx)
}

// finish performs completion bookkeeping: terminal transition, counters,
// worker retirement, slot release and re-dispatch of the queue head, all in
// one critical section so slots can neither leak nor be double-granted.
func (e *Executor) finish(env *envelope, wt *WorkerThread, result any, err error) {
	var next *envelope

	e.mu.Lock()
	interrupted := e.state == StateStopped && err != nil && errors.Is(err, context.Canceled)
	switch {
	case interrupted:
		env.transition(events.StateAborted)
	case err != nil:
		env.transition(events.StateFailed)
	default:
		env.transition(events.StateSuccessful)
	}
	env.completedAt = time.Now()
	delete(e.running, env.id)
	e.retireWorkerLocked(wt)
	e.completed.Add(1)

	if !env.inline {
		e.inFlight--
		if e.state == StateAccepting || e.state == StateShuttingDown {
			if pair := e.queue.Oldest(); pair != nil && e.inFlight < e.maxParallel {
				next = pair.Value
				e.queue.Delete(pair.Key)
				e.dispatchLocked(next)
			}
		}
	}
	e.checkTerminationLocked()
	e.mu.Unlock()

	if interrupted {
		env.handle.complete(nil, fmt.Errorf("%w: %w", ErrAborted, err))
		e.signal(env, events.KindAborted, context.Background())
	} else {
		env.handle.complete(result, err)
		e.signal(env, events.KindDone, context.Background())
	}

	if next != nil {
		e.factory.Spawn(next.workerName, func() { e.runTask(next) })
	}
}

// retireWorkerLocked removes wt from the live set; with a configured
// thread lifetime a retired copy stays queryable for that long.
func (e *Executor) retireWorkerLocked(wt *WorkerThread) {
	e.threads.Del(wt.ID)
	if e.threadLifetime <= 0 {
		return
	}
	retired := *wt
	retired.RetiredAt = time.Now()
	e.retired.Set(retired.ID, &retired)
	time.AfterFunc(e.threadLifetime, func() {
		e.retired.Del(retired.ID)
	})
}

// abortLocked moves env to its terminal aborted state and books completion.
// Listener and handle notification happen outside the lock, gated on the
// envelope's admitted channel.
func (e *Executor) abortLocked(env *envelope) {
	env.transition(events.StateAborted)
	env.completedAt = time.Now()
	e.completed.Add(1)
	e.checkTerminationLocked()
}

// notifyAborted delivers the abort to the envelope's listener and handle on
// a goroutine of its own, after OnSubmitted has been delivered.
func (e *Executor) notifyAborted(env *envelope) {
	go func() {
		<-env.admitted
		e.signal(env, events.KindAborted, context.Background())
		env.handle.complete(nil, ErrAborted)
	}()
}

// Shutdown refuses further submissions and lets queued and running tasks
// complete normally. Idempotent; it does not wait, see AwaitTermination.
func (e *Executor) Shutdown() {
	e.mu.Lock()
	if e.state == StateAccepting {
		e.state = StateShuttingDown
		e.logger.Info("executor shutting down")
		e.checkTerminationLocked()
	}
	e.mu.Unlock()
}

// ShutdownNow refuses further submissions, aborts every queued task and
// returns their payloads in queue order, and cancels the context of every
// live worker. Interruption is cooperative: ShutdownNow returns immediately
// and running payloads stop only when they honor their context.
func (e *Executor) ShutdownNow() []Task {
	e.mu.Lock()
	if e.state == StateAccepting || e.state == StateShuttingDown {
		e.state = StateStopped
		e.logger.Info("executor stopped, cancelling queued work")
	}

	var drained []*envelope
	for pair := e.queue.Oldest(); pair != nil; pair = pair.Next() {
		drained = append(drained, pair.Value)
	}
	for _, env := range drained {
		e.queue.Delete(env.id)
		e.abortLocked(env)
	}
	for _, env := range e.running {
		env.cancel()
	}
	e.checkTerminationLocked()
	e.mu.Unlock()

	tasks := make([]Task, 0, len(drained))
	for _, env := range drained {
		tasks = append(tasks, env.task)
		e.notifyAborted(env)
	}
	return tasks
}

// IsShutdown reports whether the executor stopped accepting work.
func (e *Executor) IsShutdown() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state != StateAccepting && e.state != StateNew
}

// IsTerminated reports whether every task reached a terminal state after
// shutdown was initiated.
func (e *Executor) IsTerminated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StateTerminated
}

// AwaitTermination blocks until the executor is terminated, the timeout
// elapses, or ctx is done. It reports whether termination was reached and
// is safe to call from any number of goroutines; the executor lock is not
// held across the wait.
func (e *Executor) AwaitTermination(ctx context.Context, timeout time.Duration) (bool, error) {
	select {
	case <-e.termCh:
		return true, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-e.termCh:
		return true, nil
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// checkTerminationLocked flips the executor to its final state once shutdown
// was initiated and the last envelope left the system. Runs in the same
// critical section as completion bookkeeping.
func (e *Executor) checkTerminationLocked() {
	if e.state != StateShuttingDown && e.state != StateStopped {
		return
	}
	if e.queue.Len() != 0 || len(e.running) != 0 {
		return
	}
	e.state = StateTerminated
	close(e.termCh)
	e.haltMonitor()
	e.logger.Info("executor terminated",
		slog.Int64("submitted", e.submitted.Load()),
		slog.Int64("completed", e.completed.Load()))
}

// TaskCount returns how many submissions were accepted over the executor's
// lifetime. Monotonic.
func (e *Executor) TaskCount() int64 { return e.submitted.Load() }

// CompletedTaskCount returns how many tasks reached a terminal state over
// the executor's lifetime. Monotonic.
func (e *Executor) CompletedTaskCount() int64 { return e.completed.Load() }

// QueueDepth returns how many tasks currently wait in the admission queue.
func (e *Executor) QueueDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Len()
}

// Threads returns the live execution units, or nil when no task is starting
// or running.
func (e *Executor) Threads() []WorkerThread {
	return collect(e.threads)
}

// RetiredThreads returns the recently completed execution units still
// retained under WithThreadLifetime, or nil.
func (e *Executor) RetiredThreads() []WorkerThread {
	return collect(e.retired)
}

func collect(m *haxmap.Map[string, *WorkerThread]) []WorkerThread {
	var out []WorkerThread
	m.ForEach(func(_ string, wt *WorkerThread) bool {
		out = append(out, *wt)
		return true
	})
	return out
}

// signalSubmitted delivers OnSubmitted on the submitting goroutine and
// unblocks the rest of the envelope's callback pipeline.
func (e *Executor) signalSubmitted(ctx context.Context, env *envelope) {
	e.signal(env, events.KindSubmitted, ctx)
	close(env.admitted)
}

func (e *Executor) signal(env *envelope, kind events.Kind, ctx context.Context) {
	if env.listener == nil {
		return
	}
	evt := events.TaskEvent{
		Kind:      kind,
		TaskID:    env.id,
		Executor:  e.name,
		State:     env.current(),
		Timestamp: strfmt.DateTime(time.Now()),
	}
	if kind == events.KindDone {
		if _, err := env.handle.Get(context.Background()); err != nil {
			evt.Failure = err.Error()
		}
	}
	switch kind {
	case events.KindSubmitted:
		env.listener.OnSubmitted(ctx, evt)
	case events.KindStarting:
		env.listener.OnStarting(ctx, evt)
	case events.KindRunning:
		env.listener.OnRunning(ctx, evt)
	case events.KindAborted:
		env.listener.OnAborted(ctx, evt)
	case events.KindDone:
		env.listener.OnDone(ctx, evt)
	}
}
