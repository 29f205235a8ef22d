package conjura

import (
	"context"
	"encoding/json"

	"github.com/samvad-hq/conjura/pkg/httpclient"
)

// Client runs calls against one Settings. It holds no per-call state and is
// safe for concurrent use.
type Client struct {
	settings   *Settings
	log        Logger
	metrics    *Metrics
	serverSide bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithSettings binds the client to s instead of the package-level settings.
func WithSettings(s *Settings) ClientOption {
	return func(c *Client) {
		if s != nil {
			c.settings = s
		}
	}
}

// WithLogger sets the logger used for debug call traces.
func WithLogger(log Logger) ClientOption {
	return func(c *Client) {
		c.log = ensureLogger(log)
	}
}

// WithMetrics enables call counters.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithServerSide overrides environment detection. Server-side calls send
// x-ssr and forward cookies.
func WithServerSide(serverSide bool) ClientOption {
	return func(c *Client) {
		c.serverSide = serverSide
	}
}

// New creates a Client bound to the package-level settings unless
// WithSettings is given.
func New(opts ...ClientOption) *Client {
	c := &Client{
		settings:   defaultSettings,
		log:        noopLogger{},
		serverSide: defaultServerSide,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Default returns a Client on the package-level settings.
func Default() *Client {
	return New()
}

// Settings returns the settings the client reads.
func (c *Client) Settings() *Settings {
	return c.settings
}

// Invoke performs one call and returns the envelope as sent by the backend,
// with Data left undecoded. Backend error envelopes are returned, not raised.
func (c *Client) Invoke(ctx context.Context, path string, method Method, callSite string, opts *CallOptions) (*Envelope[json.RawMessage], error) {
	env, err := invoke[json.RawMessage](ctx, c, path, method, callSite, opts)
	c.metrics.observe(facadeInvoke, invokeOutcome(env, err))
	return env, err
}

// Summon performs one call and decodes the data into out (which may be nil).
// A backend error envelope is returned as *BackendError or *MultiError.
func (c *Client) Summon(ctx context.Context, path string, method Method, callSite string, opts *CallOptions, out any) error {
	data, err := summon[json.RawMessage](ctx, c, path, method, callSite, opts)
	if err == nil && out != nil && len(data) > 0 {
		if uerr := json.Unmarshal(data, out); uerr != nil {
			e := newError(CodeInvalidStructure, "Invalid response structure", callSite)
			e.Cause = uerr
			err = e
		}
	}
	c.metrics.observe(facadeSummon, outcomeOf(err))
	return err
}

// Whisper sends a call whose outcome is not critical. It never fails; any
// problem is reported as Result{OK: false, Status: 0}.
func (c *Client) Whisper(ctx context.Context, path string, method Method, opts *CallOptions) Result {
	res := whisper(ctx, c, path, method, opts)
	switch {
	case res.Status == 0:
		c.metrics.observe(facadeWhisper, outcomeFailed)
	case res.OK:
		c.metrics.observe(facadeWhisper, outcomeOK)
	default:
		c.metrics.observe(facadeWhisper, outcomeNotOK)
	}
	return res
}

// Invoke runs a call with the default client and decodes Data into T.
func Invoke[T any](ctx context.Context, path string, method Method, callSite string, opts *CallOptions) (*Envelope[T], error) {
	return InvokeWith[T](ctx, Default(), path, method, callSite, opts)
}

// InvokeWith is Invoke on a specific client.
func InvokeWith[T any](ctx context.Context, c *Client, path string, method Method, callSite string, opts *CallOptions) (*Envelope[T], error) {
	env, err := invoke[T](ctx, c, path, method, callSite, opts)
	c.metrics.observe(facadeInvoke, invokeOutcome(env, err))
	return env, err
}

// Summon runs a call with the default client and returns the decoded data.
func Summon[T any](ctx context.Context, path string, method Method, callSite string, opts *CallOptions) (T, error) {
	return SummonWith[T](ctx, Default(), path, method, callSite, opts)
}

// SummonWith is Summon on a specific client.
func SummonWith[T any](ctx context.Context, c *Client, path string, method Method, callSite string, opts *CallOptions) (T, error) {
	data, err := summon[T](ctx, c, path, method, callSite, opts)
	c.metrics.observe(facadeSummon, outcomeOf(err))
	return data, err
}

// Whisper runs a fire-and-forget call with the default client.
func Whisper(ctx context.Context, path string, method Method, opts *CallOptions) Result {
	return Default().Whisper(ctx, path, method, opts)
}

func (c *Client) sender(cfg Config) httpclient.Sender {
	return senderFor(cfg)
}
