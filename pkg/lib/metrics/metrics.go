// Package metrics collects counters about external UI launches and exits.
package metrics

import "time"

// Collector receives lifecycle events from the supervisor and the controller.
type Collector interface {
	// SpawnAttempt records a launch attempt and whether it succeeded.
	SpawnAttempt(backend string, err error)

	// ChildExited records a child whose exit was observed by a poll.
	ChildExited(backend string, code int, signaled bool)

	// ChildTerminated records a deliberate termination and how long it took.
	ChildTerminated(backend string, duration time.Duration, escalated bool)

	// StateTransition records a lifecycle state change.
	StateTransition(from, to string)

	// ReapFailure records a wait error that left the child state unknown.
	ReapFailure(backend string)
}

type noopCollector struct{}

func (noopCollector) SpawnAttempt(string, error)                  {}
func (noopCollector) ChildExited(string, int, bool)               {}
func (noopCollector) ChildTerminated(string, time.Duration, bool) {}
func (noopCollector) StateTransition(string, string)              {}
func (noopCollector) ReapFailure(string)                          {}

// NewNoop returns a Collector that discards everything.
func NewNoop() Collector {
	return noopCollector{}
}
