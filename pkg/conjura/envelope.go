package conjura

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errEnvelopeShape = errors.New("envelope must contain exactly one of data or error")

// ErrorDescriptor is one backend error entry.
type ErrorDescriptor struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"status"`
	Source  string         `json:"source,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// EnvelopeError is the error side of an envelope. Multiple records whether
// the wire value was an array, even with a single entry.
type EnvelopeError struct {
	Errors   []ErrorDescriptor
	Multiple bool
}

// UnmarshalJSON accepts an object or an array of objects.
func (e *EnvelopeError) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) > 0 && b[0] == '[':
		var list []ErrorDescriptor
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		e.Errors, e.Multiple = list, true
	case len(b) > 0 && b[0] == '{':
		var one ErrorDescriptor
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		e.Errors, e.Multiple = []ErrorDescriptor{one}, false
	default:
		return errEnvelopeShape
	}
	return nil
}

// MarshalJSON writes the object or array form back.
func (e EnvelopeError) MarshalJSON() ([]byte, error) {
	if e.Multiple {
		if e.Errors == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(e.Errors)
	}
	if len(e.Errors) == 0 {
		return json.Marshal(ErrorDescriptor{})
	}
	return json.Marshal(e.Errors[0])
}

// Envelope is the backend response: Data on success, Error otherwise.
type Envelope[T any] struct {
	Data  T
	Error *EnvelopeError
}

// Success reports whether the envelope carries data.
func (e *Envelope[T]) Success() bool {
	return e != nil && e.Error == nil
}

// UnmarshalJSON enforces that exactly one of data and error is present.
func (e *Envelope[T]) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return errEnvelopeShape
	}
	data, hasData := fields["data"]
	rawErr, hasErr := fields["error"]
	if hasData == hasErr {
		return errEnvelopeShape
	}

	var out Envelope[T]
	if hasErr {
		out.Error = &EnvelopeError{}
		if err := json.Unmarshal(rawErr, out.Error); err != nil {
			return err
		}
	} else if err := json.Unmarshal(data, &out.Data); err != nil {
		return err
	}
	*e = out
	return nil
}

// MarshalJSON writes {"data": ...} or {"error": ...}.
func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	if e.Error != nil {
		return json.Marshal(struct {
			Error *EnvelopeError `json:"error"`
		}{e.Error})
	}
	return json.Marshal(struct {
		Data T `json:"data"`
	}{e.Data})
}
