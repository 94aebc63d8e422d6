// Package httpclient builds the shared HTTP client used for backend calls.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// ClientConfig holds transport options for the backend HTTP client.
//
// There is no overall request timeout here on purpose: each completion
// call carries its own per-sample timeout via its context, and a blanket
// client timeout would cut long multiline streams short.
type ClientConfig struct {
	// MaxIdleConnsPerHost keeps warm connections to the backend. Completion
	// requests arrive on every keystroke, so connection reuse dominates
	// perceived latency.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle keep-alive connection is retained.
	IdleConnTimeout time.Duration

	// DialTimeout bounds connection establishment.
	DialTimeout time.Duration

	// TLSHandshakeTimeout bounds the TLS handshake.
	TLSHandshakeTimeout time.Duration

	// ResponseHeaderTimeout bounds the wait for response headers. Streams
	// start quickly or not at all; keeping this short surfaces dead
	// backends before the per-sample timeout does.
	ResponseHeaderTimeout time.Duration
}

// DefaultConfig returns transport settings tuned for interactive
// completion traffic.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		DialTimeout:           5 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}
}

// NewHTTPClient creates an HTTP client with the provided configuration.
// If config is nil, DefaultConfig() is used.
func NewHTTPClient(config *ClientConfig) *http.Client {
	if config == nil {
		cfg := DefaultConfig()
		config = &cfg
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ResponseHeaderTimeout: config.ResponseHeaderTimeout,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{Transport: transport}
}

// NewDefaultHTTPClient creates an HTTP client with default configuration.
func NewDefaultHTTPClient() *http.Client {
	return NewHTTPClient(nil)
}
