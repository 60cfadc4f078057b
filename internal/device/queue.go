package device

import "sync/atomic"

// Queue is the bounded, single-consumer event queue feeding the
// orchestrator. Producers run in interrupt-like contexts (hardware
// sampling, timers, network callbacks) and must never block: when the
// queue is full, Enqueue drops the event and returns false.
//
// Events are delivered strictly in arrival order.
type Queue struct {
	ch      chan Event
	dropped atomic.Uint64
}

// NewQueue creates a Queue with the given capacity.
func NewQueue(size int) *Queue {
	return &Queue{
		ch: make(chan Event, size),
	}
}

// Enqueue adds an event without blocking. Returns false if the queue is
// full and the event was dropped.
func (q *Queue) Enqueue(e Event) bool {
	select {
	case q.ch <- e:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Events returns the receive side of the queue. Only the orchestrator
// consumes from it.
func (q *Queue) Events() <-chan Event {
	return q.ch
}

// Dropped returns the number of events discarded because the queue was
// full.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
