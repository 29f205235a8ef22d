package conjura

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/samvad-hq/conjura/pkg/httpclient"
)

// Method is an HTTP verb accepted by the call helpers.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

// CallOptions are the per-call settings. A nil *CallOptions is valid.
type CallOptions struct {
	// AuthKey is sent as "Authorization: Bearer <AuthKey>".
	AuthKey string
	// Cookies are forwarded in a Cookie header when running server-side.
	Cookies []*http.Cookie
	// Payload is JSON encoded into the request body when non-nil.
	Payload any
	// Query replaces the query string of the resolved URL when non-nil.
	Query Query
	// BaseURL overrides the configured base URL for this call.
	BaseURL string
	// Client marks a Whisper call as browser-originated so credentials are sent.
	Client bool
}

// QueryParam is one query entry. Slice values expand to repeated keys.
type QueryParam struct {
	Key   string
	Value any
}

// Query is an ordered list of query parameters.
type Query []QueryParam

// Add appends key=value and returns the extended query.
func (q Query) Add(key string, value any) Query {
	return append(q, QueryParam{Key: key, Value: value})
}

// Encode renders q in order using form encoding.
func (q Query) Encode() string {
	var b strings.Builder
	for _, p := range q {
		for _, v := range queryValues(p.Value) {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(p.Key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

func queryValues(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return []string{val}
	case []string:
		return val
	case []byte:
		return []string{string(val)}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, fmt.Sprint(rv.Index(i).Interface()))
		}
		return out
	}
	return []string{fmt.Sprint(v)}
}

// CookiesFromMap builds a cookie list from m with names sorted.
func CookiesFromMap(m map[string]string) []*http.Cookie {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*http.Cookie, 0, len(names))
	for _, name := range names {
		out = append(out, &http.Cookie{Name: name, Value: m[name]})
	}
	return out
}

// cookieHeader joins cookies as "a=1; b=2". Empty values render as "a=".
func cookieHeader(cookies []*http.Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// joinURL strips trailing slashes from base and gives path exactly one
// leading slash.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// requestSpec is everything the builder needs for one call.
type requestSpec struct {
	path        string
	method      Method
	opts        *CallOptions
	callSite    string
	credentials bool
}

// buildRequest assembles headers, URL and body from a configuration snapshot.
func (c *Client) buildRequest(cfg Config, spec requestSpec) (*httpclient.Request, error) {
	opts := spec.opts
	if opts == nil {
		opts = &CallOptions{}
	}

	header := make(http.Header)
	for k, v := range cfg.DefaultHeaders {
		header.Set(k, v)
	}
	header.Set("Accept", jsonContentType)
	header.Set("Content-Type", jsonContentType)
	if opts.AuthKey != "" {
		header.Set("Authorization", "Bearer "+opts.AuthKey)
	}
	if c.serverSide {
		header.Set("x-ssr", "true")
		if cookie := cookieHeader(opts.Cookies); cookie != "" {
			header.Set("Cookie", cookie)
		}
	}

	var body []byte
	if opts.Payload != nil {
		b, err := json.Marshal(opts.Payload)
		if err != nil {
			e := newError(CodeInvalidPayload, "Payload is not JSON serializable", spec.callSite)
			e.Cause = err
			return nil, e
		}
		body = b
	}

	base := opts.BaseURL
	if base == "" {
		base = resolveBaseURL(cfg)
	}
	if base == "" {
		return nil, newError(CodeBaseURLNotSet,
			"Base URL is not configured. Call Configure(WithBaseURL(...)) once, or set VITE_BE_CORE_URL/CONJURA_BASE_URL env.",
			spec.callSite)
	}

	u, err := url.Parse(joinURL(base, spec.path))
	if err != nil || u.Scheme == "" || u.Host == "" {
		e := newError(CodeInvalidURL, fmt.Sprintf("Invalid request URL for base %q and path %q", base, spec.path), spec.callSite)
		e.Cause = err
		return nil, e
	}
	if opts.Query != nil {
		u.RawQuery = opts.Query.Encode()
	}

	method := spec.method
	if method == "" {
		method = MethodGet
	}

	return &httpclient.Request{
		Method:             string(method),
		URL:                u.String(),
		Header:             header,
		Body:               body,
		IncludeCredentials: spec.credentials,
	}, nil
}
