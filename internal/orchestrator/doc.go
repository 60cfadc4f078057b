// Package orchestrator is the single writer of device state.
//
// All shared state lives behind one goroutine draining one bounded event
// queue. Hardware sampling, timers, and the network layer only enqueue
// events; the drain loop applies them in order, recomputes the status
// indicator, and emits the resulting publishes. Factory reset and
// configuration submission both end in a controlled reboot, the only way
// the device switches between setup and station mode.
package orchestrator
