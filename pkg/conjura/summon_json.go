package conjura

import (
	"context"
	"fmt"
	"net/url"

	"github.com/samvad-hq/conjura/pkg/httpclient"
)

const defaultSummonJSONCallSite = "summonJSON"

// staticGetter is the transport used for static documents.
type staticGetter interface {
	Get(ctx context.Context, url string, headers map[string]string) (*httpclient.Response, error)
}

var staticTransport staticGetter = httpclient.NewRestySender()

// SummonJSON fetches a static JSON document. absoluteURL must be a full URL
// without the extension: "https://cdn.example.com/data/file" fetches
// ".../file.json". Configuration is ignored.
func SummonJSON[T any](ctx context.Context, absoluteURL string, callSite string) (T, error) {
	return summonJSON[T](ctx, staticTransport, absoluteURL, callSite)
}

func summonJSON[T any](ctx context.Context, getter staticGetter, absoluteURL string, callSite string) (T, error) {
	var zero T
	if callSite == "" {
		callSite = defaultSummonJSONCallSite
	}

	target := absoluteURL + ".json"
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		e := newError(CodeInvalidURL, fmt.Sprintf("Invalid absolute URL: %s", target), callSite)
		e.Cause = err
		return zero, e
	}

	resp, err := getter.Get(ctx, u.String(), map[string]string{"Accept": jsonContentType})
	if err != nil {
		return zero, err
	}
	if !resp.OK() {
		return zero, newError(CodeFetchJSONFailed,
			fmt.Sprintf("Failed to fetch JSON: %s (%d %s)", u, resp.StatusCode, resp.StatusText()),
			callSite)
	}

	var out T
	if err := resp.JSON(&out); err != nil {
		e := newError(CodeJSONInvalid, fmt.Sprintf("Invalid JSON in %s", u), callSite)
		e.Cause = err
		return zero, e
	}
	return out, nil
}
