package foreman

import (
	"log/slog"
	"time"

	"github.com/casualjim/foreman/events"
	"github.com/casualjim/foreman/pkg/slogx"
)

func (e *Executor) hungDetectionEnabled() bool {
	return e.hungThreshold > 0 && !e.longRunning
}

// monitor periodically rescans running tasks and logs the ones exceeding
// the hung threshold. It is purely advisory: it never cancels or interrupts
// anything. It runs on its own goroutine from construction until the
// executor terminates.
func (e *Executor) monitor() {
	defer close(e.monitorDone)

	ticker := time.NewTicker(e.hungInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.monitorStop:
			return
		case <-ticker.C:
			for _, wt := range e.hungSnapshot() {
				e.logger.Warn("task running beyond hung threshold",
					slog.String("worker", wt.Name),
					slogx.TaskID(wt.TaskID),
					slog.Duration("elapsed", time.Since(wt.StartedAt)),
					slog.Duration("threshold", e.hungThreshold))
			}
		}
	}
}

// haltMonitor stops the background scan; safe to call multiple times and
// with detection disabled.
func (e *Executor) haltMonitor() {
	if e.monitorStop == nil {
		return
	}
	e.stopMonitor.Do(func() { close(e.monitorStop) })
}

// HungThreads returns the execution units of tasks that have been running
// longer than the configured threshold, or nil when there are none, when
// detection is disabled, or when the executor hosts long-running work.
func (e *Executor) HungThreads() []WorkerThread {
	return e.hungSnapshot()
}

func (e *Executor) hungSnapshot() []WorkerThread {
	if !e.hungDetectionEnabled() {
		return nil
	}

	now := time.Now()
	var hung []WorkerThread

	e.mu.Lock()
	for _, env := range e.running {
		if env.current() != events.StateRunning || env.worker == nil {
			continue
		}
		if now.Sub(env.startedAt) > e.hungThreshold {
			hung = append(hung, *env.worker)
		}
	}
	e.mu.Unlock()

	return hung
}
