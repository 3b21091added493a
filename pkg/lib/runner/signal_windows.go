//go:build windows

package runner

import (
	"os"
	"syscall"
)

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

// terminateProcess has no polite variant on Windows: a GUI process without a
// console cannot receive CTRL_BREAK, so it is terminated outright.
func terminateProcess(p *os.Process) error {
	return p.Kill()
}

func killProcess(p *os.Process) error {
	return p.Kill()
}

func continueProcess(*os.Process) error {
	return nil
}

func describeExit(state *os.ProcessState) (code int, signaled bool, signal string) {
	if state == nil {
		return -1, false, ""
	}
	return state.ExitCode(), false, ""
}
