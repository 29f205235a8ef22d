package conjura

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/samvad-hq/conjura/pkg/httpclient"
)

const jsonContentType = "application/json"

// isResponseJSON checks the content-type header only.
func isResponseJSON(resp *httpclient.Response) bool {
	return strings.Contains(resp.ContentType(), jsonContentType)
}

// classify turns a transport response into an envelope or a client-side error.
// A 2xx response that is not labelled JSON is always rejected.
func classify[T any](resp *httpclient.Response, callSite string) (*Envelope[T], error) {
	if !isResponseJSON(resp) {
		if !resp.OK() {
			return nil, httpFailure(resp, callSite)
		}
		return nil, newError(CodeInvalidJSON, "Invalid JSON response", callSite)
	}

	var env Envelope[T]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			e := newError(CodeInvalidJSON, "Invalid JSON response", callSite)
			e.Cause = err
			return nil, e
		}
		e := newError(CodeInvalidStructure, "Invalid response structure", callSite)
		e.Cause = err
		return nil, e
	}
	return &env, nil
}

// httpFailure builds the HTTP_<status> error for a failed non-JSON response.
// A body that parses as an error envelope still contributes its message and
// details; parse failures are ignored.
func httpFailure(resp *httpclient.Response, callSite string) *Error {
	var body struct {
		Error *struct {
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	_ = json.Unmarshal(resp.Body, &body)

	msg := resp.StatusText()
	var details map[string]any
	if body.Error != nil {
		if body.Error.Message != "" {
			msg = body.Error.Message
		}
		details = body.Error.Details
	}
	if msg == "" {
		msg = "HTTP error"
	}

	e := newError(HTTPCode(resp.StatusCode), msg, callSite)
	e.Details = details
	return e
}
