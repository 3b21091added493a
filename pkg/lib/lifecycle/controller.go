// Package lifecycle decides when the external UI process is started and
// stopped. A Controller holds the port, the visibility requests and the
// session state, and drives a runner.Supervisor accordingly.
//
// A Controller is not safe for concurrent use. Its callers serialize calls
// the way a plugin host serializes its UI callbacks.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/SanjoDeundiak/extui/pkg/lib/launch"
	"github.com/SanjoDeundiak/extui/pkg/lib/runner"
)

var (
	// ErrConfigurationMissing describes a show requested before the port is
	// known. The show is deferred, so the error is only logged.
	ErrConfigurationMissing = errors.New("osc port not configured yet")

	// ErrDestroyed is returned by RequestShow after Teardown.
	ErrDestroyed = errors.New("ui controller destroyed")
)

// Controller is the UI session state machine.
type Controller struct {
	sup  runner.Supervisor
	opts options

	state       State
	port        uint16
	configured  bool
	showPending bool
}

// New creates a Controller in AwaitingConfig driving sup.
func New(sup runner.Supervisor, opts ...Option) *Controller {
	return &Controller{
		sup:   sup,
		opts:  newOptions(opts),
		state: AwaitingConfig,
	}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Port returns the last delivered port and whether one was delivered.
func (c *Controller) Port() (uint16, bool) { return c.port, c.configured }

// ShowPending reports whether a show is waiting for the port or for a hide to
// finish.
func (c *Controller) ShowPending() bool { return c.showPending }

// Configure stores port. The first delivery leaves AwaitingConfig and
// performs a show requested in the meantime. Later deliveries only update the
// stored port; a running UI keeps the port it was started with.
func (c *Controller) Configure(port uint16) {
	if c.state == Destroyed {
		c.opts.logger.Info("ignoring port delivery after teardown", "port", port)
		return
	}

	c.port = port
	c.configured = true
	if c.state != AwaitingConfig {
		c.opts.logger.Debug("osc port updated", "port", port, "state", c.state.String())
		return
	}

	c.setState(Idle)
	c.opts.logger.Info("osc port configured", "port", port)
	if c.showPending {
		c.showPending = false
		// Failures are logged by RequestShow; the port delivery itself succeeded.
		_ = c.RequestShow()
	}
}

// RequestShow makes the UI visible. Before the port is known the request is
// remembered once and performed on Configure. A spawn failure leaves the
// controller Idle and is returned after being logged.
func (c *Controller) RequestShow() error {
	switch c.state {
	case Destroyed:
		return ErrDestroyed
	case AwaitingConfig:
		if !c.showPending {
			c.opts.logger.Info("deferring show", "reason", ErrConfigurationMissing)
		}
		c.showPending = true
		return nil
	case Closing:
		c.opts.logger.Debug("show queued behind termination")
		c.showPending = true
		return nil
	case Visible:
		return nil
	}

	uri := launch.OSCURI(c.port)
	spec, err := launch.NewSpec(c.opts.command, uri)
	if err != nil {
		c.opts.logger.Error("cannot build ui command line", "command", c.opts.command, "err", err)
		return fmt.Errorf("%w: %w", runner.ErrSpawn, err)
	}
	if err := c.sup.Spawn(spec); err != nil {
		c.opts.logger.Error("external ui not shown", "uri", uri, "err", err)
		return err
	}

	c.setState(Visible)
	return nil
}

// RequestHide terminates a running UI and blocks until it has been reaped.
// A show that arrived meanwhile is performed afterwards. Before the port is
// known it withdraws a deferred show.
func (c *Controller) RequestHide() {
	switch c.state {
	case AwaitingConfig:
		c.showPending = false
		return
	case Visible:
	default:
		return
	}

	c.setState(Closing)
	c.sup.TerminateBlocking()
	c.setState(Idle)

	if c.showPending {
		c.showPending = false
		_ = c.RequestShow()
	}
}

// PollTick checks the UI without blocking and reports whether the session is
// done, i.e. no UI is running and none is about to be. Once per exited child
// the close notifier is invoked.
func (c *Controller) PollTick() (closed bool) {
	switch c.state {
	case Visible:
	case AwaitingConfig:
		return !c.showPending
	case Closing:
		return false
	default:
		return true
	}

	switch res := c.sup.Poll(); res {
	case runner.PollRunning:
		return false
	case runner.PollExited:
		c.opts.logger.Info("external ui closed")
		c.setState(Idle)
		if c.opts.onClose != nil {
			c.opts.onClose()
		}
		return true
	default:
		c.opts.logger.Warn("visible ui has no child process", "poll", res.String())
		c.setState(Idle)
		return true
	}
}

// Teardown terminates a running UI and leaves the controller Destroyed.
// Calling it again is a no-op.
func (c *Controller) Teardown() {
	if c.state == Destroyed {
		return
	}
	if c.sup.HasLiveChild() {
		c.setState(Closing)
		c.sup.TerminateBlocking()
	}
	c.showPending = false
	c.setState(Destroyed)
}

func (c *Controller) setState(to State) {
	from := c.state
	if from == to {
		return
	}
	c.state = to
	c.opts.logger.Debug("ui state changed", "from", from.String(), "to", to.String())
	c.opts.metrics.StateTransition(from.String(), to.String())
}
