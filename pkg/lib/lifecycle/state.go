package lifecycle

import "fmt"

// State is the controller's position in the UI session.
type State int

const (
	// AwaitingConfig means the port has not arrived yet. Show requests are
	// remembered, not performed.
	AwaitingConfig State = iota
	// Idle means the port is known and no UI process is running.
	Idle
	// Visible means the UI process is running.
	Visible
	// Closing means a termination is in progress.
	Closing
	// Destroyed is terminal. Nothing is spawned after teardown.
	Destroyed
)

func (s State) String() string {
	switch s {
	case AwaitingConfig:
		return "awaiting-config"
	case Idle:
		return "idle"
	case Visible:
		return "visible"
	case Closing:
		return "closing"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}
