package stream

import "fmt"

// PublishErrorKind classifies delivery failures.
type PublishErrorKind string

const (
	// PublishBadStatus means the backend answered outside the 2xx class.
	PublishBadStatus PublishErrorKind = "bad_status"
	// PublishTransport means the request never completed: connection
	// refused, timeout, interrupted mid-flight.
	PublishTransport PublishErrorKind = "transport"
)

// PublishError is a non-fatal delivery failure. Status is set for
// bad_status, Err for transport.
type PublishError struct {
	Kind   PublishErrorKind
	Status int
	Err    error
}

func (e *PublishError) Error() string {
	switch e.Kind {
	case PublishBadStatus:
		return fmt.Sprintf("publish failed: backend returned status %d", e.Status)
	default:
		return fmt.Sprintf("publish failed: %v", e.Err)
	}
}

func (e *PublishError) Unwrap() error { return e.Err }

func badStatus(code int) *PublishError {
	return &PublishError{Kind: PublishBadStatus, Status: code}
}

func transportErr(err error) *PublishError {
	return &PublishError{Kind: PublishTransport, Err: err}
}
