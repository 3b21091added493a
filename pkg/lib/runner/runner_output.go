package runner

import (
	"context"
	"errors"
	"fmt"
)

// Stream names one of the child's output streams.
type Stream string

const (
	StreamStdout Stream = "stdout"
	StreamStderr Stream = "stderr"
)

// OutputSource is implemented by backends that capture child output.
type OutputSource interface {
	Output(ctx context.Context, stream Stream) (<-chan []byte, error)
}

// ErrNoOutput is returned when no child output has been captured yet.
var ErrNoOutput = errors.New("no external ui output captured")

// Output replays the most recent child's output on stream and follows it
// while the child runs. The channel closes once the child and any helper
// holding its output are gone and everything was delivered, or when ctx is
// done.
func (r *ExecRunner) Output(ctx context.Context, stream Stream) (<-chan []byte, error) {
	r.mu.Lock()
	stdout, stderr := r.stdout, r.stderr
	r.mu.Unlock()

	switch stream {
	case StreamStdout:
		if stdout == nil {
			return nil, ErrNoOutput
		}
		return stdout.Subscribe(ctx, 5), nil
	case StreamStderr:
		if stderr == nil {
			return nil, ErrNoOutput
		}
		return stderr.Subscribe(ctx, 5), nil
	default:
		return nil, fmt.Errorf("unknown output stream %q", stream)
	}
}
