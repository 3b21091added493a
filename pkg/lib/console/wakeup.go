package console

import (
	"errors"
	"sync"
)

var errWakeupClosed = errors.New("wakeup is closed")

// wakeup fans a "new data" signal out to every subscriber. Signals coalesce:
// a subscriber that has not consumed the previous one keeps a single pending
// signal, so a slow reader never blocks Append.
type wakeup struct {
	mu          sync.Mutex
	subscribers map[chan struct{}]struct{}
	closed      bool
}

func newWakeup() *wakeup {
	return &wakeup{subscribers: make(map[chan struct{}]struct{})}
}

func (w *wakeup) subscribe() (chan struct{}, error) {
	ch := make(chan struct{}, 1)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, errWakeupClosed
	}
	w.subscribers[ch] = struct{}{}
	return ch, nil
}

func (w *wakeup) unsubscribe(ch chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.subscribers[ch]; !ok {
		return
	}
	delete(w.subscribers, ch)
	if !w.closed {
		close(ch)
	}
}

func (w *wakeup) notify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for ch := range w.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// close closes every subscriber channel. Further subscribe calls fail.
func (w *wakeup) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	for ch := range w.subscribers {
		close(ch)
	}
	w.subscribers = nil
}
