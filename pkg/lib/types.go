package lib

import "time"

// ExitInfo records how the last external UI process ended. It is reported for
// diagnostics only; nothing in the lifecycle depends on the exit code.
type ExitInfo struct {
	// ID is the identifier assigned to the child at spawn time.
	ID  string
	PID int
	// Code is the exit status, or -1 when the child was killed by a signal or
	// its status could not be collected.
	Code     int
	Signaled bool
	Signal   string
	At       time.Time
}

// Success reports whether the child exited on its own with status 0.
func (e *ExitInfo) Success() bool {
	return e != nil && !e.Signaled && e.Code == 0
}
