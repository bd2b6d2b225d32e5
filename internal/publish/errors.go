package publish

import (
	"errors"
	"fmt"
)

// ErrMissingPushURL is returned when a push client is built without an endpoint.
var ErrMissingPushURL = errors.New("push URL is required")

// PushError reports a failed delivery. Status is 0 when no response was received.
type PushError struct {
	Status int
	Body   string
	Err    error
}

func (e *PushError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("push failed: status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("push failed: %v", e.Err)
}

func (e *PushError) Unwrap() error {
	return e.Err
}
