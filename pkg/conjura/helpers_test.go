package conjura

import (
	"context"
	"net/http"
	"testing"

	"github.com/samvad-hq/conjura/pkg/httpclient"
)

// clearBaseURLEnv blanks every process variable the resolver reads.
func clearBaseURLEnv(t *testing.T) {
	t.Helper()
	for _, name := range ProcessEnvNames {
		t.Setenv(name, "")
	}
	SetBaseURLHint("")
	t.Cleanup(func() { SetBaseURLHint("") })
}

// recorder is a Sender that stores the last request and replies with resp.
type recorder struct {
	last  *httpclient.Request
	calls int
	resp  *httpclient.Response
	err   error
}

func (r *recorder) Send(_ context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	r.last = req
	r.calls++
	return r.resp, r.err
}

func jsonResponse(status int, body string) *httpclient.Response {
	return &httpclient.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json; charset=utf-8"}},
		Body:       []byte(body),
	}
}

func textResponse(status int, contentType, body string) *httpclient.Response {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &httpclient.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     h,
		Body:       []byte(body),
	}
}

// newTestClient returns a client on private settings that sends through rec.
func newTestClient(t *testing.T, rec *recorder, opts ...Option) *Client {
	t.Helper()
	clearBaseURLEnv(t)
	all := append([]Option{WithBaseURL("https://api.example.com"), WithTransport(rec)}, opts...)
	return New(WithSettings(NewSettings(all...)), WithServerSide(true))
}
