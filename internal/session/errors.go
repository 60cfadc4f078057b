package session

import "errors"

// ErrAlreadyStarted is returned when Start is called while the connect
// loop is already running.
var ErrAlreadyStarted = errors.New("session: already started")
