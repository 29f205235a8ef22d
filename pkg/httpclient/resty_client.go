package httpclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// RestySender adapts resty.Client to the Sender interface. Neither client keeps
// cookies unless a jar is supplied with WithCookieJar; the jar is then used
// for credentialed calls only.
type RestySender struct {
	withCredentials *resty.Client
	anonymous       *resty.Client
}

// SenderOption configures a RestySender.
type SenderOption func(*senderOptions)

type senderOptions struct {
	jar http.CookieJar
}

// WithCookieJar stores response cookies in jar and replays them on
// credentialed calls. Only useful when one process serves one user.
func WithCookieJar(jar http.CookieJar) SenderOption {
	return func(o *senderOptions) {
		o.jar = jar
	}
}

// NewRestySender creates a RestySender. No timeout and no retries are configured.
func NewRestySender(opts ...SenderOption) *RestySender {
	var o senderOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	withCredentials := NewRestyHTTPClient()
	withCredentials.SetCookieJar(o.jar)
	return &RestySender{
		withCredentials: withCredentials,
		anonymous:       NewRestyHTTPClient(),
	}
}

// NewRestyHTTPClient returns a resty.Client without a cookie jar that sends
// request bodies for every verb.
func NewRestyHTTPClient() *resty.Client {
	c := resty.New()
	c.SetCookieJar(nil)
	c.SetAllowGetMethodPayload(true)
	return c
}

// Send performs req and reads the whole response body.
func (r *RestySender) Send(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	client := r.anonymous
	if req.IncludeCredentials {
		client = r.withCredentials
	}

	rr := client.R().SetContext(ctx)
	if len(req.Header) > 0 {
		rr.SetHeaderMultiValues(req.Header)
	}
	if req.Body != nil {
		rr.SetBody(req.Body)
	}

	resp, err := rr.Execute(req.Method, req.URL)
	if err != nil {
		return nil, err
	}
	return adaptRestyResponse(resp), nil
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestySender) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	rr := r.anonymous.R().SetContext(ctx)
	if len(headers) > 0 {
		rr.SetHeaders(headers)
	}
	resp, err := rr.Get(url)
	if err != nil {
		return nil, err
	}
	return adaptRestyResponse(resp), nil
}

// adaptRestyResponse copies resty.Response into a transport-neutral Response.
func adaptRestyResponse(resp *resty.Response) *Response {
	return &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}
}
