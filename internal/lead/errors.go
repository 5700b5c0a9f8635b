// internal/lead/errors.go
//
// Lead capture: error taxonomy.
//
// Context
// -------
// Validation problems never become Go errors; they surface as an Outcome
// with Kind ValidationFailure.  Anything that goes wrong during the single
// remote write is a *RemoteError whose Message is safe to show the visitor.
// Configuration errors live in internal/config and abort startup.
package lead

import "errors"

// FallbackMessage is shown when a remote failure carries no usable detail.
const FallbackMessage = "Something went wrong. Please try again or contact us directly."

// SubmitFailedPrefix is prepended to remote failure notifications.
const SubmitFailedPrefix = "Submission failed: "

// RemoteError reports a transport or server-side failure of one insert.
type RemoteError struct {
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return FallbackMessage
	}
	return e.Message
}

func (e *RemoteError) Unwrap() error { return e.Err }

// NewRemoteError wraps cause with the best message available: detail when
// non-empty, else cause's text, else FallbackMessage.
func NewRemoteError(detail string, cause error) *RemoteError {
	msg := detail
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	if msg == "" {
		msg = FallbackMessage
	}
	return &RemoteError{Message: msg, Err: cause}
}

// AsRemoteError converts any error into a *RemoteError, keeping an existing
// one untouched.  nil stays nil.
func AsRemoteError(err error) *RemoteError {
	if err == nil {
		return nil
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re
	}
	return NewRemoteError("", err)
}
