package conjura

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/multierr"
)

// Client-side error codes.
const (
	CodeBaseURLNotSet    = "BASE_URL_NOT_SET"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeInvalidStructure = "INVALID_STRUCTURE"
	CodeNoResponse       = "RES_NONE"
	CodeFetchJSONFailed  = "FETCH_JSON_FAILED"
	CodeJSONInvalid      = "JSON_INVALID"
	CodeInvalidPayload   = "INVALID_PAYLOAD"
	CodeInvalidURL       = "INVALID_URL"
)

// HTTPCode returns the code used for a non-JSON failed response, e.g. HTTP_502.
func HTTPCode(status int) string {
	return "HTTP_" + strconv.Itoa(status)
}

// Error is a failure detected on the client side: configuration, structure
// or a non-JSON HTTP failure. CallSite is the caller supplied error code.
type Error struct {
	Code     string
	Message  string
	CallSite string
	Details  map[string]any
	Cause    error
}

func newError(code, message, callSite string) *Error {
	return &Error{Code: code, Message: message, CallSite: callSite}
}

// Error implements error.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.CallSite != "" {
		msg = fmt.Sprintf("[%s] %s", e.CallSite, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches another *Error with the same Code.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// BackendError is a single error reported by the backend envelope.
type BackendError struct {
	Code     string
	Message  string
	Status   int
	Source   string
	Details  map[string]any
	CallSite string
}

func newBackendError(d ErrorDescriptor, callSite string) *BackendError {
	return &BackendError{
		Code:     d.Code,
		Message:  d.Message,
		Status:   d.Status,
		Source:   d.Source,
		Details:  d.Details,
		CallSite: callSite,
	}
}

// Error implements error.
func (e *BackendError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s (status %d)", e.Code, e.Message, e.Status)
	if e.CallSite != "" {
		msg = fmt.Sprintf("[%s] %s", e.CallSite, msg)
	}
	return msg
}

// MultiError carries every error of an array-valued backend envelope.
type MultiError struct {
	Errors   []*BackendError
	CallSite string
}

// Error implements error.
func (e *MultiError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if len(e.Errors) == 0 {
		if e.CallSite == "" {
			return "backend reported an empty error list"
		}
		return fmt.Sprintf("[%s] backend reported an empty error list", e.CallSite)
	}
	return multierr.Combine(e.Unwrap()...).Error()
}

// Unwrap exposes the individual backend errors to errors.Is and errors.As.
func (e *MultiError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, 0, len(e.Errors))
	for _, be := range e.Errors {
		if be != nil {
			errs = append(errs, be)
		}
	}
	return errs
}

// HandleEnvelopeError converts a backend error envelope into a *BackendError
// or, for an array-valued error, a *MultiError.
func HandleEnvelopeError(env *EnvelopeError, callSite string) error {
	if env == nil {
		return newError(CodeInvalidStructure, "Invalid response structure", callSite)
	}
	if env.Multiple {
		out := &MultiError{CallSite: callSite, Errors: make([]*BackendError, 0, len(env.Errors))}
		for _, d := range env.Errors {
			out.Errors = append(out.Errors, newBackendError(d, callSite))
		}
		return out
	}
	if len(env.Errors) != 1 {
		return newError(CodeInvalidStructure, "Invalid response structure", callSite)
	}
	return newBackendError(env.Errors[0], callSite)
}

// IsBackendError reports whether err came from a backend error envelope.
func IsBackendError(err error) bool {
	var be *BackendError
	var me *MultiError
	return errors.As(err, &be) || errors.As(err, &me)
}
