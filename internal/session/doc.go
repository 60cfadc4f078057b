// Package session owns the broker connection lifecycle of the device.
//
// A session runs a single loop: dial the broker, publish the retained
// discovery descriptor, announce availability, publish the current lock
// and door state, then subscribe to the command topic. Any failure along
// that path tears the connection down and schedules a redial on a capped
// exponential backoff; the attempt counter resets once the subscription
// lands. A transport drop after a successful cycle re-enters the loop at
// the first backoff step.
//
// The session is eligible to run only while the wireless link is up. That
// policy lives in the orchestrator, which calls Start and Stop as
// connectivity changes; the session itself never inspects connectivity.
package session
