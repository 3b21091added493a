package lifecycle

import (
	"log/slog"

	"github.com/SanjoDeundiak/extui/pkg/lib/launch"
	"github.com/SanjoDeundiak/extui/pkg/lib/metrics"
)

type options struct {
	command string
	logger  *slog.Logger
	metrics metrics.Collector
	onClose func()
}

// Option configures a Controller.
type Option func(*options)

// WithCommand sets the UI command line. The connection URI is appended to it
// on every launch.
func WithCommand(command string) Option {
	return func(o *options) {
		o.command = command
	}
}

// WithLogger sets the logger. Output is discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the collector that receives state transitions.
func WithMetrics(mc metrics.Collector) Option {
	return func(o *options) {
		if mc != nil {
			o.metrics = mc
		}
	}
}

// WithCloseNotifier registers fn to be called once for every UI process whose
// exit is noticed by PollTick.
func WithCloseNotifier(fn func()) Option {
	return func(o *options) {
		o.onClose = fn
	}
}

func newOptions(opts []Option) options {
	o := options{
		command: launch.DefaultCommand,
		logger:  slog.New(slog.DiscardHandler),
		metrics: metrics.NewNoop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
