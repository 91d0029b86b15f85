package common

import (
	"fmt"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Audit Trail
// --------------------------------------------------------------------------

// AuditEvent describes what happened during one attempt of a transport call
type AuditEvent string

const (
	AuditHealthyResponse  AuditEvent = "healthy response"
	AuditBadResponse      AuditEvent = "bad response"
	AuditTransportFailure AuditEvent = "transport failure"
	AuditNotConnected     AuditEvent = "not connected"
)

// Audit is a single entry in the audit trail of a call
type Audit struct {
	Event   AuditEvent
	Node    string
	Started time.Time
	Ended   time.Time
	Err     error
}

// String returns a one line representation of the audit entry
func (a Audit) String() string {
	s := fmt.Sprintf("[%s] node: %s took: %s", a.Event, a.Node, a.Ended.Sub(a.Started))
	if a.Err != nil {
		s += " error: " + a.Err.Error()
	}
	return s
}

// --------------------------------------------------------------------------
// Envelope
// --------------------------------------------------------------------------

// Envelope is the outcome of one completed transport call.
//
// If Success is false the Body may still be set (e.g. an error document of the
// server) but it must not be used as a source of domain fields.
type Envelope struct {
	// Success is true for 2xx responses and for explicitly allowed status codes
	Success bool

	// Status metadata
	StatusCode int
	Method     string
	URI        string

	// Body is the fully read response body, nil if there was none
	Body []byte

	// Err is set when the call failed (network error, unexpected status)
	Err error

	// AuditTrail has one entry per attempt
	AuditTrail []Audit
}

// NewFailedEnvelope creates an unsuccessful envelope for a request that could
// not be performed at all. The request may be nil.
func NewFailedEnvelope(req *Request, err error) *Envelope {
	env := &Envelope{Err: err}
	if req != nil {
		env.Method = req.Method
		env.URI = req.URI()
	}
	return env
}

// HasBody reports whether the envelope carries a non-empty body
func (e *Envelope) HasBody() bool {
	return len(e.Body) > 0
}

// DebugInformation returns a multi line description of the call, including the
// audit trail. Used in error messages and the CLI.
func (e *Envelope) DebugInformation() string {
	var sb strings.Builder

	if e.Success {
		sb.WriteString("Valid response built from a successful call on ")
	} else {
		sb.WriteString("Invalid response built from an unsuccessful call on ")
	}
	sb.WriteString(fmt.Sprintf("%s: %s\n", e.Method, e.URI))

	if e.StatusCode > 0 {
		sb.WriteString(fmt.Sprintf("  %-12s: %d\n", "Status", e.StatusCode))
	}
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf("  %-12s: %s\n", "Error", e.Err))
	}

	if len(e.AuditTrail) > 0 {
		sb.WriteString("Audit trail of this call:\n")
		for i, audit := range e.AuditTrail {
			sb.WriteString(fmt.Sprintf("  - %d %s\n", i+1, audit))
		}
	}
	return sb.String()
}
