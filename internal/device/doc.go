// Package device defines the shared state model of the strike controller:
// the lock, door, connectivity and session state enumerations, the
// persisted device configuration record, and the event types flowing into
// the orchestrator queue.
//
// Every other component imports this package; it imports nothing, which
// keeps event flow strictly one-directional (components enqueue events,
// only the orchestrator consumes them and calls back down).
package device
