package remote

import (
	"errors"
	"fmt"
)

// ErrUnsuccessful indicates the endpoint answered but reported success=false
// or omitted the favorites list.
var ErrUnsuccessful = errors.New("remote favorites request unsuccessful")

// ErrUnauthorized indicates the bearer token was rejected.
var ErrUnauthorized = errors.New("remote favorites token rejected")

// SyncError wraps any failure talking to the remote favorites endpoint.
// Callers log it; local state stays authoritative.
type SyncError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *SyncError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("favorites %s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("favorites %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
