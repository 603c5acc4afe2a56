package checker

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultConcurrency is the maximum number of validations in flight.
	DefaultConcurrency = 32
	// DefaultRequestTimeout bounds each request, including reading the body.
	DefaultRequestTimeout = 5 * time.Second
	// DefaultUserAgent identifies the checker to the servers it contacts.
	DefaultUserAgent = "linkchecker/1.0 (+https://github.com/SayVega/linkchecker)"
)

// Config holds checker configuration.
type Config struct {
	Concurrency    int                // Maximum simultaneous validations (default 32)
	RequestTimeout time.Duration      // Per-request timeout (default 5s)
	UserAgent      string             // User-Agent header sent with every request
	Logger         logrus.FieldLogger // Per-link debug logs (default: logrus standard logger)
	Metrics        *Metrics           // Optional run metrics (nil disables)
}

// DefaultConfig returns a Config with the standard cap, timeout, and user agent.
func DefaultConfig() Config {
	return Config{
		Concurrency:    DefaultConcurrency,
		RequestTimeout: DefaultRequestTimeout,
		UserAgent:      DefaultUserAgent,
	}
}

func (cfg Config) withDefaults() Config {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return cfg
}

// NewClient builds the HTTP client shared by all validations of a run. It
// applies the request timeout and user agent, and keeps enough idle
// connections per host for a full set of concurrent requests.
func NewClient(cfg Config) *http.Client {
	cfg = cfg.withDefaults()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = cfg.Concurrency

	return &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: &userAgentTransport{base: transport, userAgent: cfg.UserAgent},
	}
}

// userAgentTransport sets the User-Agent header on every outgoing request.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(clone)
}
