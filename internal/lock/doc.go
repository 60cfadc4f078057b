// Package lock owns the door hardware signals: the strike trigger output
// (with configurable polarity) and the debounced door-reed input.
//
// The controller is passive: an external timer drives sampling through
// Tick, and accepted transitions are emitted as events for the
// orchestrator. Nothing in this package blocks.
package lock
