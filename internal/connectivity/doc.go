// Package connectivity owns the wireless interface mode and its
// connect/retry state machine.
//
// A boot makes exactly one mode decision: no configuration means setup
// mode (the device runs its own access point for the setup flow),
// otherwise station mode with a connect loop that retries failed
// associations on a capped exponential backoff, forever. Setup mode is
// terminal; the device reboots to leave it, which keeps the access-point
// and station roles mutually exclusive without live radio-mode switching.
//
// The actual radio is behind the Driver interface; this package contains
// no I/O of its own.
package connectivity
