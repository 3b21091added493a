package runner

import (
	"errors"
	"os"
	"time"
)

// TerminateBlocking asks the child to terminate, waits up to the terminate
// timeout, kills it if it is still alive and returns once it has been reaped.
// It is a no-op when no child is tracked.
func (r *ExecRunner) TerminateBlocking() {
	r.mu.Lock()
	defer r.mu.Unlock()

	child := r.child
	if child == nil {
		return
	}

	start := time.Now()
	child.logger.Info("terminating external ui")
	if err := terminateProcess(child.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		child.logger.Error("termination request failed", "err", err)
	}
	if err := continueProcess(child.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		child.logger.Error("resuming external ui failed", "err", err)
	}

	escalated := false
	timer := time.NewTimer(r.opts.terminateTimeout)
	defer timer.Stop()

	select {
	case <-child.done:
	case <-timer.C:
		escalated = true
		child.logger.Warn("external ui ignored termination request, killing", "timeout", r.opts.terminateTimeout)
		if err := killProcess(child.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
			child.logger.Error("kill failed", "err", err)
		}
		<-child.done
	}

	r.reapLocked(child)
	elapsed := time.Since(start)
	child.logger.Info("external ui terminated", "elapsed", elapsed, "escalated", escalated)
	r.opts.metrics.ChildTerminated(string(BackendExec), elapsed, escalated)
}
