package runner

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/SanjoDeundiak/extui/pkg/lib"
	"github.com/SanjoDeundiak/extui/pkg/lib/console"
	"github.com/SanjoDeundiak/extui/pkg/lib/launch"
)

// ExecRunner is the os/exec backend. A waiter goroutine turns cmd.Wait into
// a done channel so Poll never blocks.
type ExecRunner struct {
	opts options

	mu       sync.Mutex
	child    *execChild
	lastExit *lib.ExitInfo
	// output of the most recent child, kept after it exits for replay
	stdout *console.Capture
	stderr *console.Capture
}

type execChild struct {
	id      string
	cmd     *exec.Cmd
	pid     int
	started time.Time
	logger  *slog.Logger

	done chan struct{}
	// exit is written by the waiter before done is closed
	exit lib.ExitInfo
}

// NewExecRunner creates the os/exec backend.
func NewExecRunner(opts ...Option) *ExecRunner {
	o := newOptions(opts)
	if o.outputLimit == 0 {
		o.outputLimit = console.DefaultLimit
	}
	return &ExecRunner{opts: o}
}

// Spawn starts a new process for spec.
func (r *ExecRunner) Spawn(spec launch.Spec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.child != nil {
		return ErrChildAlive
	}

	id := lib.NewID()
	logger := r.opts.logger.With("child", id, "backend", string(BackendExec))

	cmd := exec.Command(spec.Executable(), spec.Args()...)
	cmd.SysProcAttr = sysProcAttr()

	stdout := console.New(r.opts.outputLimit, logger)
	stderr := console.New(r.opts.outputLimit, logger)

	// The child writes straight into pipes we own, so cmd.Wait tracks the
	// process alone and not helpers that inherited its output.
	pipes, err := newOutputPipes()
	if err != nil {
		stdout.Close()
		stderr.Close()
		logger.Error("failed to create output pipes", "err", err)
		r.opts.metrics.SpawnAttempt(string(BackendExec), err)
		return spawnError(spec, err)
	}

	// cmd.Stdin is left nil, so it will use /dev/null
	cmd.Stdout = pipes.stdoutW
	cmd.Stderr = pipes.stderrW

	logger.Info("starting external ui", "argv", spec.Argv())
	err = cmd.Start()
	pipes.closeWriters()
	if err != nil {
		pipes.closeReaders()
		stdout.Close()
		stderr.Close()
		logger.Error("failed to start external ui", "err", err)
		r.opts.metrics.SpawnAttempt(string(BackendExec), err)
		return spawnError(spec, err)
	}
	r.opts.metrics.SpawnAttempt(string(BackendExec), nil)

	child := &execChild{
		id:      id,
		cmd:     cmd,
		pid:     cmd.Process.Pid,
		started: time.Now(),
		logger:  logger.With("pid", cmd.Process.Pid),
		done:    make(chan struct{}),
	}

	go pump(pipes.stdoutR, stdout, child.logger)
	go pump(pipes.stderrR, stderr, child.logger)

	// Waiter
	go func() {
		err := cmd.Wait()

		code, signaled, signal := describeExit(cmd.ProcessState)
		child.exit = lib.ExitInfo{
			ID:       child.id,
			PID:      child.pid,
			Code:     code,
			Signaled: signaled,
			Signal:   signal,
			At:       time.Now(),
		}
		if err != nil && cmd.ProcessState == nil {
			child.logger.Error("waiting for external ui failed", "err", err)
		}

		close(child.done)
	}()

	r.child = child
	r.stdout = stdout
	r.stderr = stderr

	child.logger.Info("external ui started")
	return nil
}

type outputPipes struct {
	stdoutR, stdoutW *os.File
	stderrR, stderrW *os.File
}

func newOutputPipes() (*outputPipes, error) {
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		stdoutR.Close()
		stdoutW.Close()
		return nil, err
	}
	return &outputPipes{stdoutR: stdoutR, stdoutW: stdoutW, stderrR: stderrR, stderrW: stderrW}, nil
}

// closeWriters drops the parent's copies of the write ends. Once the child
// and everything it spawned are gone the readers see EOF.
func (p *outputPipes) closeWriters() {
	p.stdoutW.Close()
	p.stderrW.Close()
}

func (p *outputPipes) closeReaders() {
	p.stdoutR.Close()
	p.stderrR.Close()
}

// pump copies one output pipe into its capture until every writer is gone,
// then closes both.
func pump(r *os.File, c *console.Capture, logger *slog.Logger) {
	defer c.Close()
	defer r.Close()
	if _, err := io.Copy(c, r); err != nil && !errors.Is(err, os.ErrClosed) {
		logger.Warn("reading external ui output failed", "err", err)
	}
}
