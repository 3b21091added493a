//go:build unix && !linux

package runner

import (
	"syscall"
)

func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		// New process group to manage the UI and its helpers as a unit
		Setpgid: true,
	}
}
