// Package indicator derives the status LED style from connectivity and
// session state.
//
// The mapping is a pure function, evaluated by the orchestrator after
// every event; the Indicator type latches the result so the LED driver
// sees only actual changes.
package indicator
