package host

import (
	"errors"
	"log/slog"
)

// InvalidPortIndex is stored when the host cannot resolve the port symbol.
// No port event matches it.
const InvalidPortIndex = ^uint32(0)

// ErrMissingPortMap is returned by Instantiate when the host offers no port
// map.
var ErrMissingPortMap = errors.New("host does not support ui:portMap")

// PortMap resolves port symbols to indices.
type PortMap interface {
	PortIndex(symbol string) (uint32, bool)
}

// ExternalHost is the host side of the external UI protocol.
type ExternalHost interface {
	// UIClosed tells the host the UI went away on its own.
	UIClosed()
}

// ExternalWidget is handed to hosts that embed the UI as an external widget.
type ExternalWidget interface {
	// Run performs one poll and hides the UI once it has closed.
	Run()
	Show()
	Hide()
}

// ShowInterface is returned for ShowInterfaceURI.
type ShowInterface interface {
	Show() error
	Hide()
}

// IdleInterface is returned for IdleInterfaceURI.
type IdleInterface interface {
	// Idle reports whether the UI is closed.
	Idle() bool
}

// Features are the host capabilities offered at instantiation.
type Features struct {
	PortMap PortMap
	// ExternalHost is only used by the EmbeddedUI variant.
	ExternalHost ExternalHost
	// Logger receives diagnostics. Nil means stderr.
	Logger *slog.Logger
}

// PortMapFunc adapts a function to PortMap.
type PortMapFunc func(symbol string) (uint32, bool)

func (f PortMapFunc) PortIndex(symbol string) (uint32, bool) { return f(symbol) }

// StaticPortMap maps PortSymbol to a fixed index.
func StaticPortMap(index uint32) PortMap {
	return PortMapFunc(func(symbol string) (uint32, bool) {
		if symbol != PortSymbol {
			return InvalidPortIndex, false
		}
		return index, true
	})
}
