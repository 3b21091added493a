package host

import (
	"time"

	"github.com/SanjoDeundiak/extui/pkg/lib/launch"
	"github.com/SanjoDeundiak/extui/pkg/lib/metrics"
	"github.com/SanjoDeundiak/extui/pkg/lib/runner"
)

type options struct {
	command          string
	backend          runner.Backend
	terminateTimeout time.Duration
	metrics          metrics.Collector
	supervisor       runner.Supervisor
}

// Option configures a Bridge.
type Option func(*options)

// WithCommand sets the command line of the external UI.
func WithCommand(command string) Option {
	return func(o *options) {
		o.command = command
	}
}

// WithBackend selects the process supervisor backend.
func WithBackend(backend runner.Backend) Option {
	return func(o *options) {
		o.backend = backend
	}
}

// WithTerminateTimeout bounds how long a hide waits before killing the UI.
func WithTerminateTimeout(d time.Duration) Option {
	return func(o *options) {
		o.terminateTimeout = d
	}
}

// WithMetrics sets the collector shared by the supervisor and the controller.
func WithMetrics(mc metrics.Collector) Option {
	return func(o *options) {
		if mc != nil {
			o.metrics = mc
		}
	}
}

// WithSupervisor replaces the process supervisor. The backend and terminate
// timeout options are ignored then.
func WithSupervisor(sup runner.Supervisor) Option {
	return func(o *options) {
		o.supervisor = sup
	}
}

func newOptions(opts []Option) options {
	o := options{
		command: launch.DefaultCommand,
		backend: runner.BackendExec,
		metrics: metrics.NewNoop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
