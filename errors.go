package xsession

import (
	"errors"
	"fmt"
)

// Common errors returned by session operations
var (
	// ErrNotRegistered indicates a service name is unknown to the supervisor
	ErrNotRegistered = errors.New("xsession: service not registered")

	// ErrAlreadyRegistered indicates a duplicate service name was registered
	ErrAlreadyRegistered = errors.New("xsession: service already registered")

	// ErrNotRunning indicates a stop was issued for a service that is down
	ErrNotRunning = errors.New("xsession: service not running")

	// ErrTargetStopped is returned by every Target stop. A stopped session
	// is not a resumable state; start the target again instead.
	ErrTargetStopped = errors.New("xsession: target stopped, restart to resume")

	// ErrNoDisplay indicates a display probe found no usable display
	ErrNoDisplay = errors.New("xsession: no free display")

	// ErrReadyTimeout indicates a daemon's ready path never appeared
	ErrReadyTimeout = errors.New("xsession: ready path timeout")
)

// OpError represents an error from a service operation
type OpError struct {
	// Op is the operation that failed ("start", "stop", or an action name)
	Op string
	// Service is the service the operation was issued against
	Service Identity
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *OpError) Error() string {
	return fmt.Sprintf("xsession %s %q: %v", e.Op, string(e.Service), e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *OpError) Unwrap() error {
	return e.Err
}

// StartError reports a starter sequence aborted by a member failure.
// Members started before the failure remain running; no compensating stop
// is issued.
type StartError struct {
	// Failed is the member whose start failed
	Failed Identity
	// Started lists the members already running when the sequence aborted
	Started []Identity
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *StartError) Error() string {
	return fmt.Sprintf("xsession start %q: %v (%d already started)", string(e.Failed), e.Err, len(e.Started))
}

// Unwrap returns the underlying error for error chain inspection
func (e *StartError) Unwrap() error {
	return e.Err
}
