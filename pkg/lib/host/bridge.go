// Package host adapts the UI lifecycle to the entry points a plugin host
// calls: instantiate, show, hide, idle, port events and cleanup.
package host

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/SanjoDeundiak/extui/pkg/lib/lifecycle"
	"github.com/SanjoDeundiak/extui/pkg/lib/runner"
)

// Bridge is one UI instance. Like the host callbacks it serves, it is not
// safe for concurrent use.
type Bridge struct {
	desc      Descriptor
	logger    *slog.Logger
	sup       runner.Supervisor
	ctrl      *lifecycle.Controller
	portIndex uint32
	external  ExternalHost
	widget    ExternalWidget
}

// Instantiate creates a Bridge for desc. The host must offer a port map.
func Instantiate(desc Descriptor, features Features, opts ...Option) (*Bridge, error) {
	logger := features.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	logger = logger.With("ui", desc.URI)

	if features.PortMap == nil {
		logger.Error(ErrMissingPortMap.Error())
		return nil, fmt.Errorf("%s: %w", desc.URI, ErrMissingPortMap)
	}

	o := newOptions(opts)
	sup := o.supervisor
	if sup == nil {
		var err error
		sup, err = runner.New(o.backend,
			runner.WithLogger(logger),
			runner.WithMetrics(o.metrics),
			runner.WithTerminateTimeout(o.terminateTimeout),
		)
		if err != nil {
			logger.Error("cannot create process supervisor", "backend", string(o.backend), "err", err)
			return nil, err
		}
	}

	b := &Bridge{
		desc:   desc,
		logger: logger,
		sup:    sup,
	}

	index, ok := features.PortMap.PortIndex(PortSymbol)
	if !ok {
		logger.Warn("host cannot resolve port, the ui will never be configured", "symbol", PortSymbol)
		index = InvalidPortIndex
	}
	b.portIndex = index

	ctrlOpts := []lifecycle.Option{
		lifecycle.WithCommand(o.command),
		lifecycle.WithLogger(logger),
		lifecycle.WithMetrics(o.metrics),
	}
	if desc.Variant == EmbeddedUI {
		b.external = features.ExternalHost
		b.widget = &widget{bridge: b}
		if b.external != nil {
			ctrlOpts = append(ctrlOpts, lifecycle.WithCloseNotifier(b.external.UIClosed))
		}
	}
	b.ctrl = lifecycle.New(sup, ctrlOpts...)

	logger.Debug("ui instantiated", "variant", desc.Variant.String(), "port_index", index)
	return b, nil
}

// Descriptor returns the descriptor the bridge was created for.
func (b *Bridge) Descriptor() Descriptor { return b.desc }

// Show starts the UI, or defers the start until the port arrives.
func (b *Bridge) Show() error {
	return b.ctrl.RequestShow()
}

// Hide stops the UI and waits for it to exit.
func (b *Bridge) Hide() {
	b.ctrl.RequestHide()
}

// Idle checks the UI without blocking and reports whether it is closed.
func (b *Bridge) Idle() (closed bool) {
	return b.ctrl.PollTick()
}

// PortEvent delivers a control port value. Only the OSC port is used.
func (b *Bridge) PortEvent(index uint32, value float32) {
	if index != b.portIndex {
		return
	}
	v := float64(value)
	if math.IsNaN(v) || v < 0 || v > math.MaxUint16 {
		b.logger.Info("ignoring invalid osc port value", "value", v)
		return
	}
	b.ctrl.Configure(uint16(v))
}

// Cleanup terminates the UI. The bridge is unusable afterwards.
func (b *Bridge) Cleanup() {
	b.ctrl.Teardown()
	b.logger.Debug("ui cleaned up")
}

// Extension returns the extension interface for uri, or nil. Only the plain
// variant offers extensions.
func (b *Bridge) Extension(uri string) any {
	if b.desc.Variant != PlainUI {
		return nil
	}
	switch uri {
	case ShowInterfaceURI:
		return ShowInterface(b)
	case IdleInterfaceURI:
		return IdleInterface(b)
	default:
		return nil
	}
}

// Widget returns the external UI widget of the embedded variant, or nil.
func (b *Bridge) Widget() ExternalWidget {
	return b.widget
}

// Output streams captured UI output when the supervisor keeps it.
func (b *Bridge) Output(ctx context.Context, stream runner.Stream) (<-chan []byte, error) {
	src, ok := b.sup.(runner.OutputSource)
	if !ok {
		return nil, runner.ErrNoOutput
	}
	return src.Output(ctx, stream)
}
