package connectivity

import "errors"

// ErrAlreadyStarted is returned when a second mode is requested on an
// interface that already has one. The access-point and station roles are
// mutually exclusive; switching requires a reboot. Observing this error
// means a broken state machine, not a recoverable condition.
var ErrAlreadyStarted = errors.New("connectivity: interface mode already selected")
