//go:build unix

package runner

import (
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/SanjoDeundiak/extui/pkg/lib"
	"github.com/SanjoDeundiak/extui/pkg/lib/launch"
)

// reapInterval paces the wait loop of TerminateBlocking.
const reapInterval = 10 * time.Millisecond

// RawRunner starts the UI with os.StartProcess and reaps it with wait4
// directly. The child inherits the host's stdout and stderr.
type RawRunner struct {
	opts options

	mu       sync.Mutex
	id       string
	pid      int // 0 when no child is tracked
	started  time.Time
	logger   *slog.Logger
	lastExit *lib.ExitInfo

	wait4 func(pid int, ws *unix.WaitStatus, options int, rusage *unix.Rusage) (int, error)
}

// NewRawRunner creates the wait4 backend.
func NewRawRunner(opts ...Option) *RawRunner {
	return &RawRunner{opts: newOptions(opts), wait4: unix.Wait4}
}

func newRawRunner(opts ...Option) (Supervisor, error) {
	return NewRawRunner(opts...), nil
}

// Spawn resolves the executable on PATH and starts it.
func (r *RawRunner) Spawn(spec launch.Spec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pid > 0 {
		return ErrChildAlive
	}

	id := lib.NewID()
	logger := r.opts.logger.With("child", id, "backend", string(BackendRaw))

	err := r.start(spec, id, logger)
	r.opts.metrics.SpawnAttempt(string(BackendRaw), err)
	if err != nil {
		logger.Error("failed to start external ui", "err", err)
		return spawnError(spec, err)
	}
	return nil
}

func (r *RawRunner) start(spec launch.Spec, id string, logger *slog.Logger) error {
	path, err := exec.LookPath(spec.Executable())
	if err != nil {
		return err
	}

	devNull, err := os.Open(os.DevNull)
	if err != nil {
		return err
	}
	defer devNull.Close()

	logger.Info("starting external ui", "path", path, "argv", spec.Argv())
	proc, err := os.StartProcess(path, spec.Argv(), &os.ProcAttr{
		Files: []*os.File{devNull, os.Stdout, os.Stderr},
		Sys:   sysProcAttr(),
	})
	if err != nil {
		return err
	}

	r.id = id
	r.pid = proc.Pid
	r.started = time.Now()
	r.logger = logger.With("pid", proc.Pid)

	// The child is reaped with wait4 from here on; drop the runtime's handle
	// so it is not leaked.
	if err := proc.Release(); err != nil {
		r.logger.Warn("releasing process handle failed", "err", err)
	}

	r.logger.Info("external ui started")
	return nil
}

// Poll checks the child with a non-blocking wait4. Stopped and continued
// children are reported as running.
func (r *RawRunner) Poll() PollResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pid <= 0 {
		return PollNoChild
	}

	var ws unix.WaitStatus
	wpid, err := r.wait4(r.pid, &ws, unix.WNOHANG|unix.WUNTRACED|unix.WCONTINUED, nil)
	switch {
	case errors.Is(err, unix.EINTR):
		return PollRunning
	case errors.Is(err, unix.ECHILD):
		// Someone else reaped it; there is nothing left to wait for.
		r.logger.Info("waitpid: child not existing")
		r.reapLocked(-1, false, "")
		r.opts.metrics.ChildExited(string(BackendRaw), -1, false)
		return PollExited
	case err != nil:
		r.logger.Error("waitpid failed, will retry", "err", err)
		r.opts.metrics.ReapFailure(string(BackendRaw))
		return PollRunning
	case wpid == 0:
		return PollRunning
	case wpid != r.pid:
		return PollRunning
	case ws.Stopped():
		r.logger.Debug("external ui stopped, treating as running", "signal", ws.StopSignal().String())
		return PollRunning
	case ws.Continued():
		r.logger.Debug("external ui continued")
		return PollRunning
	}

	code, signaled, signal := waitStatusExit(ws)
	r.logger.Info("external ui exited", "code", code, "signaled", signaled, "signal", signal,
		"runtime", time.Since(r.started))
	r.reapLocked(code, signaled, signal)
	r.opts.metrics.ChildExited(string(BackendRaw), code, signaled)
	return PollExited
}

// TerminateBlocking sends SIGTERM to the child's process group, escalates to
// SIGKILL after the terminate timeout and returns once the child is reaped.
func (r *RawRunner) TerminateBlocking() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pid <= 0 {
		return
	}

	start := time.Now()
	r.logger.Info("terminating external ui")
	if err := signalGroup(r.pid, unix.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		r.logger.Error("termination request failed", "err", err)
	}
	// A stopped child would sit on the SIGTERM until the kill.
	if err := signalGroup(r.pid, unix.SIGCONT); err != nil && !errors.Is(err, os.ErrProcessDone) {
		r.logger.Error("resuming external ui failed", "err", err)
	}

	deadline := start.Add(r.opts.terminateTimeout)
	escalated := false
	code, signaled, signal := -1, false, ""
	for {
		var ws unix.WaitStatus
		wpid, err := r.wait4(r.pid, &ws, unix.WNOHANG, nil)
		if err != nil && !errors.Is(err, unix.EINTR) {
			if !errors.Is(err, unix.ECHILD) {
				r.logger.Error("waitpid failed during termination", "err", err)
				r.opts.metrics.ReapFailure(string(BackendRaw))
			}
			break
		}
		if err == nil && wpid == r.pid && (ws.Exited() || ws.Signaled()) {
			code, signaled, signal = waitStatusExit(ws)
			break
		}

		if !escalated && time.Now().After(deadline) {
			escalated = true
			r.logger.Warn("external ui ignored termination request, killing", "timeout", r.opts.terminateTimeout)
			if err := signalGroup(r.pid, unix.SIGKILL); err != nil && !errors.Is(err, os.ErrProcessDone) {
				r.logger.Error("kill failed", "err", err)
			}
		}
		time.Sleep(reapInterval)
	}

	elapsed := time.Since(start)
	r.logger.Info("external ui terminated", "elapsed", elapsed, "escalated", escalated)
	r.reapLocked(code, signaled, signal)
	r.opts.metrics.ChildTerminated(string(BackendRaw), elapsed, escalated)
}

// HasLiveChild reports whether a child is tracked.
func (r *RawRunner) HasLiveChild() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pid > 0
}

// PID returns the live child's process ID, or 0.
func (r *RawRunner) PID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pid
}

// LastExit describes how the previous child ended.
func (r *RawRunner) LastExit() *lib.ExitInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastExit == nil {
		return nil
	}
	exit := *r.lastExit
	return &exit
}

// reapLocked invalidates the handle. r.mu must be held.
func (r *RawRunner) reapLocked(code int, signaled bool, signal string) {
	r.lastExit = &lib.ExitInfo{
		ID:       r.id,
		PID:      r.pid,
		Code:     code,
		Signaled: signaled,
		Signal:   signal,
		At:       time.Now(),
	}
	r.id = ""
	r.pid = 0
	r.logger = nil
}

func waitStatusExit(ws unix.WaitStatus) (code int, signaled bool, signal string) {
	if ws.Signaled() {
		return -1, true, ws.Signal().String()
	}
	return ws.ExitStatus(), false, ""
}
