// Package transport builds the HTTP client used to retrieve resource
// descriptions. Timeouts, connection pooling and credentials live here so
// the retriever stays a pure request/parse component.
package transport

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "semrdf-retriever/1.0"

// maxRedirects bounds redirect chains followed by the client.
const maxRedirects = 5

// Config configures the HTTP client.
type Config struct {
	// Timeout bounds a whole exchange including the body. Zero means 30s.
	Timeout time.Duration
	// UserAgent is the User-Agent header value.
	UserAgent string
	// MaxIdleConns caps idle pooled connections. Zero means 10.
	MaxIdleConns int
	// Auth holds optional credentials.
	Auth AuthConfig
}

// AuthConfig holds credentials for the repository. At most one scheme may be set.
type AuthConfig struct {
	Username    string
	Password    string
	BearerToken string
}

// Enabled reports whether any credentials are configured.
func (a AuthConfig) Enabled() bool {
	return a.Username != "" || a.BearerToken != ""
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("max_idle_conns must be non-negative")
	}
	if c.Auth.Password != "" && c.Auth.Username == "" {
		return fmt.Errorf("auth: password requires a username")
	}
	if c.Auth.Username != "" && c.Auth.BearerToken != "" {
		return fmt.Errorf("auth: basic and bearer credentials are mutually exclusive")
	}
	return nil
}

// GetTimeout returns the timeout with default.
func (c Config) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.Timeout
}

// GetUserAgent returns the user agent with default.
func (c Config) GetUserAgent() string {
	if c.UserAgent == "" {
		return DefaultUserAgent
	}
	return c.UserAgent
}

// GetMaxIdleConns returns the idle connection cap with default.
func (c Config) GetMaxIdleConns() int {
	if c.MaxIdleConns <= 0 {
		return 10
	}
	return c.MaxIdleConns
}

// NewHTTPClient creates an *http.Client from cfg. The client is safe for
// concurrent use.
func NewHTTPClient(cfg Config) *http.Client {
	timeout := cfg.GetTimeout()

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          cfg.GetMaxIdleConns(),
		IdleConnTimeout:       90 * time.Second,
	}

	return &http.Client{
		Transport: &headerRoundTripper{
			next:      base,
			userAgent: cfg.GetUserAgent(),
			auth:      cfg.Auth,
		},
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects (max %d)", maxRedirects)
			}
			return nil
		},
	}
}

// headerRoundTripper sets the User-Agent and credentials on each request.
type headerRoundTripper struct {
	next      http.RoundTripper
	userAgent string
	auth      AuthConfig
}

// RoundTrip implements http.RoundTripper. The caller's request is not mutated.
// Credentials are only attached while the request stays on the host the
// redirect chain started from.
func (t *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", t.userAgent)
	}
	if !strings.EqualFold(out.URL.Host, originHost(req)) {
		return t.next.RoundTrip(out)
	}
	switch {
	case t.auth.BearerToken != "":
		out.Header.Set("Authorization", "Bearer "+t.auth.BearerToken)
	case t.auth.Username != "":
		out.SetBasicAuth(t.auth.Username, t.auth.Password)
	}
	return t.next.RoundTrip(out)
}

// originHost follows the redirect chain back to the first request.
func originHost(req *http.Request) string {
	for req.Response != nil && req.Response.Request != nil {
		req = req.Response.Request
	}
	return req.URL.Host
}
