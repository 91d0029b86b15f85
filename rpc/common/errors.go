package common

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse is the cause of a ClientError created for an invalid response
var ErrInvalidResponse = errors.New("invalid response")

// ClientError is returned when a call failed and the client is configured to
// report failures as errors (see ClientConfig.ThrowExceptions).
// It keeps the envelope and the audit trail of the failed call.
type ClientError struct {
	Message    string
	Envelope   *Envelope
	AuditTrail []Audit
	Err        error
}

// NewClientError creates a ClientError for a failed call.
// The cause is the envelope's error, or ErrInvalidResponse if it has none.
func NewClientError(message string, env *Envelope) *ClientError {
	e := &ClientError{
		Message:  message,
		Envelope: env,
		Err:      ErrInvalidResponse,
	}
	if env != nil {
		e.AuditTrail = env.AuditTrail
		if env.Err != nil {
			e.Err = env.Err
		}
	}
	return e
}

func (e *ClientError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}
