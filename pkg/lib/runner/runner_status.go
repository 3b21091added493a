package runner

import (
	"github.com/SanjoDeundiak/extui/pkg/lib"
)

// Poll reports the child's status. It never blocks; an exit is reported once
// and the handle is released in the same call.
func (r *ExecRunner) Poll() PollResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	child := r.child
	if child == nil {
		return PollNoChild
	}

	select {
	case <-child.done:
		r.reapLocked(child)
		child.logger.Info("external ui exited",
			"code", child.exit.Code, "signaled", child.exit.Signaled, "signal", child.exit.Signal,
			"runtime", child.exit.At.Sub(child.started))
		r.opts.metrics.ChildExited(string(BackendExec), child.exit.Code, child.exit.Signaled)
		return PollExited
	default:
		return PollRunning
	}
}

// HasLiveChild reports whether a child is tracked.
func (r *ExecRunner) HasLiveChild() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.child != nil
}

// PID returns the live child's process ID, or 0 once it has exited.
func (r *ExecRunner) PID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.child == nil {
		return 0
	}
	select {
	case <-r.child.done:
		// Already waited for; the PID may belong to someone else now.
		return 0
	default:
		return r.child.pid
	}
}

// LastExit describes how the previous child ended.
func (r *ExecRunner) LastExit() *lib.ExitInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastExit == nil {
		return nil
	}
	exit := *r.lastExit
	return &exit
}

// reapLocked forgets child after its waiter finished. r.mu must be held.
func (r *ExecRunner) reapLocked(child *execChild) {
	exit := child.exit
	r.lastExit = &exit
	r.child = nil
}
