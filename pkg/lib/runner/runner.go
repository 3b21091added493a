// Package runner owns the external UI child process: it starts it, checks on
// it without blocking, and terminates and reaps it.
//
// Two backends implement the same Supervisor contract. The exec backend
// builds on os/exec with one waiter goroutine per child and captures the
// child's output. The raw backend (unix only) starts the process directly and
// reaps it with wait4, which lets it tell a stopped child from an exited one.
package runner

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SanjoDeundiak/extui/pkg/lib"
	"github.com/SanjoDeundiak/extui/pkg/lib/launch"
	"github.com/SanjoDeundiak/extui/pkg/lib/metrics"
)

// PollResult is the outcome of a non-blocking status check.
type PollResult int

const (
	// PollNoChild means no child was spawned or it has already been reaped.
	PollNoChild PollResult = iota
	// PollRunning means the child is alive. Stopped children count as running.
	PollRunning
	// PollExited means the child's exit was observed by this call. It is
	// reported once per child.
	PollExited
)

func (r PollResult) String() string {
	switch r {
	case PollNoChild:
		return "no-child"
	case PollRunning:
		return "running"
	case PollExited:
		return "exited"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// Supervisor manages at most one external UI process.
type Supervisor interface {
	// Spawn starts spec. On failure the handle stays absent.
	Spawn(spec launch.Spec) error
	// Poll reports the child's status without blocking.
	Poll() PollResult
	// TerminateBlocking stops the child and blocks until it has been reaped.
	TerminateBlocking()
	// HasLiveChild reports the tracked state without asking the OS.
	HasLiveChild() bool
}

// Inspector exposes diagnostics about the tracked child.
type Inspector interface {
	// PID returns the live child's process ID, or 0.
	PID() int
	// LastExit describes how the previous child ended, or nil.
	LastExit() *lib.ExitInfo
}

// Backend selects a Supervisor implementation.
type Backend string

const (
	BackendExec Backend = "exec"
	BackendRaw  Backend = "raw"
)

// ParseBackend converts a configuration value into a Backend.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendExec, BackendRaw:
		return Backend(s), nil
	case "":
		return BackendExec, nil
	default:
		return "", fmt.Errorf("unknown runner backend %q", s)
	}
}

// Sentinel errors.
var (
	// ErrSpawn wraps every failure to create the child process.
	ErrSpawn = errors.New("spawn external ui")

	// ErrChildAlive is returned by Spawn while a child is still tracked.
	ErrChildAlive = errors.New("external ui process already running")

	// ErrBackendUnsupported is returned for backends unavailable on this OS.
	ErrBackendUnsupported = errors.New("runner backend not supported on this platform")
)

// DefaultTerminateTimeout is how long TerminateBlocking waits after the
// polite termination request before killing the child outright.
const DefaultTerminateTimeout = 5 * time.Second

type options struct {
	logger           *slog.Logger
	metrics          metrics.Collector
	terminateTimeout time.Duration
	outputLimit      int
}

// Option configures a Supervisor.
type Option func(*options)

// WithLogger sets the logger. Output is discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(mc metrics.Collector) Option {
	return func(o *options) {
		if mc != nil {
			o.metrics = mc
		}
	}
}

// WithTerminateTimeout sets the grace period before escalating to a kill.
func WithTerminateTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.terminateTimeout = d
		}
	}
}

// WithOutputLimit bounds how many bytes of child output the exec backend
// retains per stream.
func WithOutputLimit(limit int) Option {
	return func(o *options) {
		o.outputLimit = limit
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:           slog.New(slog.DiscardHandler),
		metrics:          metrics.NewNoop(),
		terminateTimeout: DefaultTerminateTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates the Supervisor for backend.
func New(backend Backend, opts ...Option) (Supervisor, error) {
	switch backend {
	case BackendExec, "":
		return NewExecRunner(opts...), nil
	case BackendRaw:
		return newRawRunner(opts...)
	default:
		return nil, fmt.Errorf("unknown runner backend %q", backend)
	}
}

func spawnError(spec launch.Spec, err error) error {
	return fmt.Errorf("%w %q: %w", ErrSpawn, spec.Executable(), err)
}
