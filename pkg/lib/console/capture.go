// Package console retains what the external UI process writes to its standard
// streams so the host can replay it after the fact or follow it live.
package console

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
)

// DefaultLimit bounds how many bytes a Capture retains per stream.
const DefaultLimit = 1 << 20

// node is an element of the singly linked chunk list.
type node struct {
	data []byte
	next atomic.Pointer[node]
}

// Capture is an append-only list of output chunks with a single writer and
// any number of concurrent readers. Once more than limit bytes are retained
// the oldest chunks are released; readers already past them are unaffected.
type Capture struct {
	// head is a sentinel whose data is never reported. Dropping the oldest
	// chunk means promoting it to sentinel.
	head atomic.Pointer[node]
	tail *node

	size  int
	limit int

	wake   *wakeup
	logger *slog.Logger
}

// New creates an empty Capture. A limit <= 0 disables retention trimming.
func New(limit int, logger *slog.Logger) *Capture {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sentinel := &node{}
	c := &Capture{
		tail:   sentinel,
		limit:  limit,
		wake:   newWakeup(),
		logger: logger,
	}
	c.head.Store(sentinel)
	return c
}

// Close marks the stream finished: live subscribers drain what is left and
// their channels close. Close is called once the child has exited.
func (c *Capture) Close() {
	if c == nil {
		return
	}
	c.wake.close()
}

// Append adds data to the end of the list. It must only be called from one
// goroutine at a time. The slice is retained as-is.
func (c *Capture) Append(data []byte) {
	if c == nil || len(data) == 0 {
		return
	}

	n := &node{data: data}
	c.tail.next.Store(n)
	c.tail = n
	c.size += len(data)

	for c.limit > 0 && c.size > c.limit {
		head := c.head.Load()
		oldest := head.next.Load()
		// The newest chunk is always kept, even when it alone exceeds the limit.
		if oldest == nil || oldest == c.tail {
			break
		}
		c.size -= len(oldest.data)
		c.head.Store(oldest)
	}

	c.wake.notify()
}

// Subscribe returns a channel replaying every retained chunk followed by new
// ones as they arrive. The channel closes after Close once everything has been
// delivered, or as soon as ctx is done.
func (c *Capture) Subscribe(ctx context.Context, capacity int) <-chan []byte {
	ch := make(chan []byte, capacity)
	signal, err := c.wake.subscribe()
	go c.stream(ctx, signal, err == nil, ch)
	return ch
}

func (c *Capture) stream(ctx context.Context, signal chan struct{}, live bool, ch chan<- []byte) {
	id := uuid.New()
	logger := c.logger.With("subscriber", id.String())
	logger.Debug("console subscriber started", "live", live)

	defer close(ch)
	if live {
		defer c.wake.unsubscribe(signal)
	}

	prev := c.head.Load()
	for {
		current := prev.next.Load()
		if current == nil {
			if !live {
				logger.Debug("console subscriber drained")
				return
			}
			select {
			case <-ctx.Done():
				return
			case _, ok := <-signal:
				if !ok {
					// Stream closed; one more pass delivers the tail.
					live = false
				}
			}
			continue
		}
		prev = current

		select {
		case ch <- current.data:
		case <-ctx.Done():
			return
		}
	}
}

// ForEach iterates over retained chunks in insertion order until iter returns
// false.
func (c *Capture) ForEach(iter func([]byte) bool) {
	if c == nil || iter == nil {
		return
	}
	for cur := c.head.Load().next.Load(); cur != nil; cur = cur.next.Load() {
		if !iter(cur.data) {
			return
		}
	}
}

// Bytes concatenates all retained chunks.
func (c *Capture) Bytes() []byte {
	var out []byte
	c.ForEach(func(b []byte) bool {
		out = append(out, b...)
		return true
	})
	return out
}

// String returns all retained chunks as one string.
func (c *Capture) String() string {
	return string(c.Bytes())
}
