package driver

import (
	"errors"
	"fmt"
)

// ErrReadyTimeout reports that an instance did not reach running status
// within the configured wait_timeout. The instance id was already persisted
// to run state, so a later destroy can still find it.
var ErrReadyTimeout = errors.New("timed out waiting for instance to become ready")

// ActionError wraps a provider or transport failure during a driver action
// into a single driver-level error carrying the provider's message. It is
// not retried.
type ActionError struct {
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s action failed: %s", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
