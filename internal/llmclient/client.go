// Package llmclient provides the streaming HTTP client for the code-completion
// backend with:
// - Standardized error parsing (429, 4xx, 5xx)
// - Circuit breaking
// - Observability hooks
//
// Streaming requests are never retried: partial output may already have been
// consumed by the caller.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"codefill/internal/core"
	"codefill/internal/httpclient"
)

// Hooks are optional observability callbacks. Nil funcs are skipped.
type Hooks struct {
	// OnRequest fires right before a streaming call is dispatched.
	OnRequest func(model string)
	// OnSettled fires when the call settles, with the HTTP status (0 on
	// transport errors) and the total stream duration.
	OnSettled func(model string, status int, elapsed time.Duration, err error)
}

// Config holds configuration for the completions client.
type Config struct {
	// ProviderName identifies the provider for error messages.
	ProviderName string

	// BaseURL is the API base URL.
	BaseURL string

	// Endpoint is the streaming completions path (default: /v1/completions/code).
	Endpoint string

	// AccessToken is sent as a bearer token when set.
	AccessToken string

	// CircuitBreaker configuration; nil disables circuit breaking.
	CircuitBreaker *CircuitBreakerConfig

	Hooks Hooks
}

// DefaultEndpoint is the streaming completions path.
const DefaultEndpoint = "/v1/completions/code"

// Client issues streaming completion calls. Safe for concurrent use.
type Client struct {
	httpClient     *http.Client
	config         Config
	circuitBreaker *circuitBreaker
}

// New creates a new completions client with the given configuration.
func New(config Config) *Client {
	return NewWithHTTPClient(httpclient.NewDefaultHTTPClient(), config)
}

// NewWithHTTPClient creates a completions client with a custom HTTP client.
// If httpClient is nil, http.DefaultClient is used.
func NewWithHTTPClient(httpClient *http.Client, config Config) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	c := &Client{
		httpClient: httpClient,
		config:     config,
	}
	if config.CircuitBreaker != nil {
		c.circuitBreaker = newCircuitBreaker(
			config.CircuitBreaker.FailureThreshold,
			config.CircuitBreaker.SuccessThreshold,
			config.CircuitBreaker.Timeout,
		)
	}
	return c
}

// requestBody is the wire shape of one streaming completion call.
type requestBody struct {
	Messages          []core.Message `json:"messages"`
	Model             string         `json:"model"`
	Temperature       float64        `json:"temperature"`
	TopK              int            `json:"topK"`
	MaxTokensToSample int            `json:"maxTokensToSample"`
	StopSequences     []string       `json:"stopSequences,omitempty"`
	Stream            bool           `json:"stream"`
}

// Complete implements core.CompletionsClient. It starts one streaming
// request and returns a channel of incremental events; the channel is
// closed after the terminal (Done or Err) event. params.Timeout bounds
// this single call; the parent ctx shares cancellation across samples.
func (c *Client) Complete(ctx context.Context, params core.CompletionParams) (<-chan core.CompletionEvent, error) {
	if c.circuitBreaker != nil && !c.circuitBreaker.Allow() {
		return nil, core.NewBackendError(c.config.ProviderName, http.StatusServiceUnavailable,
			"circuit breaker is open - backend temporarily unavailable", nil)
	}

	var cancel context.CancelFunc
	if params.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	start := time.Now()
	if c.config.Hooks.OnRequest != nil {
		c.config.Hooks.OnRequest(params.Model)
	}

	resp, err := c.send(ctx, params)
	if err != nil {
		cancel()
		if c.circuitBreaker != nil {
			c.circuitBreaker.RecordFailure()
		}
		c.settled(params.Model, 0, start, err)
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if readErr != nil {
			body = []byte("failed to read error response")
		}
		_ = resp.Body.Close()
		cancel()
		if c.circuitBreaker != nil && (resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests) {
			c.circuitBreaker.RecordFailure()
		}
		perr := core.ParseBackendError(c.config.ProviderName, resp.StatusCode, body, nil)
		c.settled(params.Model, resp.StatusCode, start, perr)
		return nil, perr
	}

	if c.circuitBreaker != nil {
		c.circuitBreaker.RecordSuccess()
	}

	events := make(chan core.CompletionEvent)
	go func() {
		defer close(events)
		defer cancel()
		defer func() { _ = resp.Body.Close() }()

		err := c.readStream(ctx, resp.Body, events)
		c.settled(params.Model, resp.StatusCode, start, err)
	}()
	return events, nil
}

// send builds and dispatches the HTTP request.
func (c *Client) send(ctx context.Context, params core.CompletionParams) (*http.Response, error) {
	body := requestBody{
		Messages:          params.Messages,
		Model:             params.Model,
		Temperature:       params.Temperature,
		TopK:              params.TopK,
		MaxTokensToSample: params.MaxTokensToSample,
		StopSequences:     params.StopSequences,
		Stream:            true,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, core.NewInvalidRequestError("failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+c.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, core.NewInvalidRequestError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.config.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.NewBackendError(c.config.ProviderName, http.StatusBadGateway, "failed to send request: "+err.Error(), err)
	}
	return resp, nil
}

// readStream consumes SSE events from the response body and forwards text
// deltas on the events channel. The backend sends the cumulative completion
// in every event; deltas are derived from the previously seen text.
func (c *Client) readStream(ctx context.Context, body io.Reader, events chan<- core.CompletionEvent) error {
	reader := newSSEReader(body)
	var seen string

	emit := func(ev core.CompletionEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		event, err := reader.next()
		if err != nil {
			if err == io.EOF {
				// Stream ended without a done event; treat as done so the
				// accumulated text is still usable.
				emit(core.CompletionEvent{Done: true})
				return nil
			}
			if ctx.Err() != nil {
				emit(core.CompletionEvent{Err: ctx.Err()})
				return ctx.Err()
			}
			emit(core.CompletionEvent{Err: err})
			return err
		}

		switch event.name {
		case "completion":
			completion := gjson.GetBytes(event.data, "completion").String()
			delta := deltaFrom(seen, completion)
			seen = completion
			if delta == "" {
				continue
			}
			if !emit(core.CompletionEvent{Delta: delta}) {
				return ctx.Err()
			}
		case "error":
			message := gjson.GetBytes(event.data, "error").String()
			if message == "" {
				message = string(event.data)
			}
			err := core.NewBackendError(c.config.ProviderName, http.StatusBadGateway, message, nil)
			emit(core.CompletionEvent{Err: err})
			return err
		case "done":
			emit(core.CompletionEvent{Done: true})
			return nil
		}
	}
}

// deltaFrom derives the new text given the previously seen cumulative
// completion. A backend that restarts the completion (shorter text) is
// treated as a full replacement.
func deltaFrom(seen, completion string) string {
	if len(completion) >= len(seen) && completion[:len(seen)] == seen {
		return completion[len(seen):]
	}
	return completion
}

func (c *Client) settled(model string, status int, start time.Time, err error) {
	if c.config.Hooks.OnSettled != nil {
		c.config.Hooks.OnSettled(model, status, time.Since(start), err)
	}
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of failures before opening the circuit
	FailureThreshold int
	// SuccessThreshold is the number of successes needed to close an open circuit
	SuccessThreshold int
	// Timeout is how long to wait before attempting to close an open circuit
	Timeout time.Duration
}

// DefaultCircuitBreakerConfig returns the default breaker settings.
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
}

// circuitBreaker implements a simple circuit breaker pattern.
type circuitBreaker struct {
	mu               sync.RWMutex
	state            circuitState
	failures         int
	successes        int
	failureThreshold int
	successThreshold int
	timeout          time.Duration
	lastFailure      time.Time
}

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

func newCircuitBreaker(failureThreshold, successThreshold int, timeout time.Duration) *circuitBreaker {
	return &circuitBreaker{
		state:            circuitClosed,
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
	}
}

// Allow checks if a request should be allowed through the circuit breaker
func (cb *circuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case circuitClosed:
		return true
	case circuitOpen:
		if time.Since(cb.lastFailure) > cb.timeout {
			cb.state = circuitHalfOpen
			cb.successes = 0
			return true
		}
		return false
	case circuitHalfOpen:
		return true
	}
	return true
}

// RecordSuccess records a successful request
func (cb *circuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case circuitHalfOpen:
		cb.successes++
		if cb.successes >= cb.successThreshold {
			cb.state = circuitClosed
			cb.failures = 0
		}
	case circuitClosed:
		cb.failures = 0
	}
}

// RecordFailure records a failed request
func (cb *circuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailure = time.Now()

	switch cb.state {
	case circuitClosed:
		if cb.failures >= cb.failureThreshold {
			cb.state = circuitOpen
		}
	case circuitHalfOpen:
		cb.state = circuitOpen
		cb.successes = 0
	}
}

// State returns the current circuit state (for testing/monitoring)
func (cb *circuitBreaker) State() string {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	switch cb.state {
	case circuitClosed:
		return "closed"
	case circuitOpen:
		return "open"
	case circuitHalfOpen:
		return "half-open"
	}
	return "unknown"
}
