package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// Request is a single outbound call handed to a Sender.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
	// IncludeCredentials asks the sender to attach and store cookies for the call.
	IncludeCredentials bool
}

// Response is the fully read result of a Request.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// Sender abstracts the transport so callers can inject mocks or different transports.
type Sender interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// SenderFunc adapts a plain function to the Sender interface.
type SenderFunc func(ctx context.Context, req *Request) (*Response, error)

// Send calls f(ctx, req).
func (f SenderFunc) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode <= 299
}

// ContentType returns the raw content-type header value.
func (r *Response) ContentType() string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get("Content-Type")
}

// StatusText returns the reason phrase of the status line, or the standard
// text for the code when the transport did not report one.
func (r *Response) StatusText() string {
	if r == nil {
		return ""
	}
	status := strings.TrimSpace(r.Status)
	code := strconv.Itoa(r.StatusCode)
	if rest, ok := strings.CutPrefix(status, code); ok {
		status = strings.TrimSpace(rest)
	}
	if status != "" {
		return status
	}
	return http.StatusText(r.StatusCode)
}

// JSON decodes the body into out.
func (r *Response) JSON(out any) error {
	return json.Unmarshal(r.Body, out)
}
