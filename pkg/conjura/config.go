package conjura

import (
	"maps"
	"sync/atomic"

	"github.com/samvad-hq/conjura/pkg/httpclient"
)

// Config holds the process-wide optional settings.
type Config struct {
	// BaseURL for backend requests, e.g. https://api.example.com.
	BaseURL string
	// DefaultHeaders are applied to every request before per-call headers.
	DefaultHeaders map[string]string
	// Transport overrides the ambient sender (tests, proxies).
	Transport httpclient.Sender
	// BuildEnv holds build-time injected variables, see LoadBuildEnv.
	BuildEnv map[string]string
}

// Option replaces one field of a Config.
type Option func(*Config)

// WithBaseURL sets the explicit base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithDefaultHeaders replaces the default header set. Maps are not merged.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Config) {
		c.DefaultHeaders = maps.Clone(headers)
	}
}

// WithTransport sets the transport override.
func WithTransport(s httpclient.Sender) Option {
	return func(c *Config) {
		c.Transport = s
	}
}

// WithBuildEnv replaces the build environment map.
func WithBuildEnv(env map[string]string) Option {
	return func(c *Config) {
		c.BuildEnv = maps.Clone(env)
	}
}

// Settings is a shared configuration record. Writers publish a new snapshot;
// readers never observe a half-applied Configure. The zero value is empty
// and ready to use.
type Settings struct {
	cfg atomic.Pointer[Config]
}

// NewSettings returns Settings with opts applied.
func NewSettings(opts ...Option) *Settings {
	s := &Settings{}
	s.Configure(opts...)
	return s
}

// Configure shallow-merges opts into the current configuration.
func (s *Settings) Configure(opts ...Option) {
	next := s.Config()
	for _, opt := range opts {
		if opt != nil {
			opt(&next)
		}
	}
	s.cfg.Store(&next)
}

// SetBaseURL sets only the base URL.
func (s *Settings) SetBaseURL(url string) {
	s.Configure(WithBaseURL(url))
}

// Config returns a copy of the current configuration.
func (s *Settings) Config() Config {
	cur := s.cfg.Load()
	if cur == nil {
		return Config{}
	}
	out := *cur
	out.DefaultHeaders = maps.Clone(cur.DefaultHeaders)
	out.BuildEnv = maps.Clone(cur.BuildEnv)
	return out
}

// BaseURL resolves the effective base URL. It returns "" when unset.
func (s *Settings) BaseURL() string {
	return resolveBaseURL(s.Config())
}

// Sender returns the configured transport or the ambient one.
func (s *Settings) Sender() httpclient.Sender {
	return senderFor(s.Config())
}

// Reset clears all configuration. Intended for test isolation only.
func (s *Settings) Reset() {
	s.cfg.Store(&Config{})
}

func senderFor(cfg Config) httpclient.Sender {
	if cfg.Transport != nil {
		return cfg.Transport
	}
	return ambientSender
}

var (
	defaultSettings = &Settings{}
	ambientSender   = newAmbientSender()
)

// Configure merges opts into the package-level configuration.
func Configure(opts ...Option) { defaultSettings.Configure(opts...) }

// SetBaseURL sets the package-level base URL.
func SetBaseURL(url string) { defaultSettings.SetBaseURL(url) }

// GetConfig returns a copy of the package-level configuration.
func GetConfig() Config { return defaultSettings.Config() }

// GetBaseURL resolves the base URL from the package-level configuration.
func GetBaseURL() string { return defaultSettings.BaseURL() }

// GetSender returns the package-level transport.
func GetSender() httpclient.Sender { return defaultSettings.Sender() }

// ResetConfig clears the package-level configuration. Not safe while calls
// are in flight; use it between tests.
func ResetConfig() { defaultSettings.Reset() }
