//go:build linux

package runner

import (
	"syscall"
)

// sysProcAttr puts the UI in its own process group so termination reaches
// any helpers it starts, and asks the kernel to send SIGTERM should the host
// die without tearing the UI down.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
