//go:build unix

package runner

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// signalGroup delivers sig to the child's process group, falling back to the
// child alone when the group is already gone. It is only safe for a PID that
// has not been reaped yet.
func signalGroup(pid int, sig syscall.Signal) error {
	if pid <= 0 {
		return os.ErrProcessDone
	}
	err := unix.Kill(-pid, sig)
	if errors.Is(err, unix.ESRCH) {
		err = unix.Kill(pid, sig)
	}
	if errors.Is(err, unix.ESRCH) {
		return os.ErrProcessDone
	}
	return err
}

// signalProcess signals an exec-backend child. The leader goes through
// os.Process, which refuses once the child has been waited for, so a
// recycled PID is never hit. The group is signalled as well to reach helpers
// that outlive the leader.
func signalProcess(p *os.Process, sig syscall.Signal) error {
	leaderErr := p.Signal(sig)
	groupErr := unix.Kill(-p.Pid, sig)
	if errors.Is(groupErr, unix.ESRCH) {
		groupErr = nil
	}
	if leaderErr != nil && !errors.Is(leaderErr, os.ErrProcessDone) {
		return leaderErr
	}
	if groupErr != nil {
		return groupErr
	}
	return leaderErr
}

func terminateProcess(p *os.Process) error {
	return signalProcess(p, unix.SIGTERM)
}

func killProcess(p *os.Process) error {
	return signalProcess(p, unix.SIGKILL)
}

// continueProcess resumes a stopped child so it can act on a pending SIGTERM.
func continueProcess(p *os.Process) error {
	return signalProcess(p, unix.SIGCONT)
}

// describeExit extracts the exit code and terminating signal from a wait
// status.
func describeExit(state *os.ProcessState) (code int, signaled bool, signal string) {
	if state == nil {
		return -1, false, ""
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return -1, true, ws.Signal().String()
	}
	return state.ExitCode(), false, ""
}
