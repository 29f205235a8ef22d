package conjura

import (
	"context"
	"fmt"
)

// Result is the only outcome of a Whisper call.
type Result struct {
	OK     bool `json:"ok"`
	Status int  `json:"status"`
}

// whisper never returns an error. Credentials are only sent for calls
// marked as client-side; the body is never read.
func whisper(ctx context.Context, c *Client, path string, method Method, opts *CallOptions) (res Result) {
	defer func() {
		// Transport overrides are user code and may panic.
		if r := recover(); r != nil {
			c.log.DebugObj("whisper recovered", "call", map[string]any{
				"path":  path,
				"panic": fmt.Sprint(r),
			})
			res = Result{}
		}
	}()

	cfg := c.settings.Config()
	req, err := c.buildRequest(cfg, requestSpec{
		path:        path,
		method:      method,
		opts:        opts,
		callSite:    facadeWhisper,
		credentials: opts != nil && opts.Client,
	})
	if err != nil {
		c.log.DebugObj("whisper dropped", "call", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		return Result{}
	}

	resp, err := c.sender(cfg).Send(ctx, req)
	if err != nil || resp == nil {
		c.log.DebugObj("whisper failed", "call", map[string]any{
			"method": req.Method,
			"url":    req.URL,
			"error":  fmt.Sprint(err),
		})
		return Result{}
	}
	return Result{OK: resp.OK(), Status: resp.StatusCode}
}
