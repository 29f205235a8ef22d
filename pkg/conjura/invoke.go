package conjura

import (
	"context"
)

// invoke builds the request, sends it with credentials and classifies the
// response. Transport errors are returned unmodified.
func invoke[T any](ctx context.Context, c *Client, path string, method Method, callSite string, opts *CallOptions) (*Envelope[T], error) {
	cfg := c.settings.Config()
	req, err := c.buildRequest(cfg, requestSpec{
		path:        path,
		method:      method,
		opts:        opts,
		callSite:    callSite,
		credentials: true,
	})
	if err != nil {
		c.log.DebugObj("request not built", "call", map[string]any{
			"path":      path,
			"call_site": callSite,
			"error":     err.Error(),
		})
		return nil, err
	}

	resp, err := c.sender(cfg).Send(ctx, req)
	if err != nil {
		c.log.DebugObj("transport failed", "call", map[string]any{
			"method":    req.Method,
			"url":       req.URL,
			"call_site": callSite,
			"error":     err.Error(),
		})
		return nil, err
	}
	if resp == nil {
		return nil, newError(CodeNoResponse, "No response from backend", callSite)
	}

	c.log.DebugObj("response received", "call", map[string]any{
		"method":       req.Method,
		"url":          req.URL,
		"status":       resp.StatusCode,
		"content_type": resp.ContentType(),
		"call_site":    callSite,
	})
	return classify[T](resp, callSite)
}
