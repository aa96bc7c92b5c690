package brevo

import (
	"errors"
	"fmt"
)

// ErrRemote matches any non-2xx upstream response.
var ErrRemote = errors.New("brevo: remote error")

// RemoteError carries the upstream status and body of a failed call.
type RemoteError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("brevo: remote error %d on %s: %s", e.StatusCode, e.Endpoint, e.Body)
}

// Is lets errors.Is(err, ErrRemote) match.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}
