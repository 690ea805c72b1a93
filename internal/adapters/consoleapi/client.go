// Package consoleapi is the HTTP client for the remote PanAI API.
package consoleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/panai/console/internal/observability/metrics"
	"github.com/panai/console/internal/observability/statsd"
	"github.com/panai/console/internal/ports"
)

const (
	defaultBaseURL = "http://localhost:8000"
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 8 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Envelopes  EnvelopeConfig
	Metrics    statsd.Sink
	Logger     *slog.Logger
}

// Client wraps net/http with the API's conventions: JSON bodies, Token
// authorization and normalized errors. A Client without a TokenSource sends
// unauthenticated requests.
type Client struct {
	baseURL   string
	http      *http.Client
	envelopes *envelopes
	tokens    ports.TokenSource
	metrics   statsd.Sink
	logger    *slog.Logger
}

// New builds a Client. It fails when an envelope expression does not compile.
func New(opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	env, err := compileEnvelopes(opts.Envelopes)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   baseURL,
		http:      hc,
		envelopes: env,
		metrics:   opts.Metrics,
		logger:    logger.With("component", "consoleapi"),
	}, nil
}

// WithTokens returns a copy of c that authenticates with tokens.
func (c *Client) WithTokens(tokens ports.TokenSource) *Client {
	cp := *c
	cp.tokens = tokens
	return &cp
}

// Request describes one API call.
type Request struct {
	// Method defaults to GET.
	Method string
	// Path is appended to the base URL and may carry a query string.
	Path string
	// Body is JSON-encoded for methods other than GET and HEAD.
	Body any
	// Header entries override the defaults, except Authorization when a token is present.
	Header http.Header
	// Endpoint names the call in metrics; defaults to the path without its query.
	Endpoint string
}

// Do performs req and decodes a 2xx JSON body into out. A 204 leaves out untouched.
// Non-2xx statuses yield *APIError; a 401 revokes the session token first.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint, _, _ = strings.Cut(req.Path, "?")
	}

	body, err := encodeBody(method, req.Body)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to encode request body", "endpoint", endpoint, "error", err)
		return ErrInvalidRequestBody
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+req.Path, body)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, endpoint, err)
	}
	c.setHeaders(ctx, httpReq, req.Header)

	start := time.Now()
	status, err := c.roundTrip(ctx, httpReq, out)
	metrics.EmitAPICall(c.metrics, metrics.APICall{
		Endpoint: endpoint,
		Method:   method,
		Status:   status,
		Duration: time.Since(start),
		Err:      err,
	})
	return err
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request, overrides http.Header) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vs := range overrides {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if c.tokens == nil {
		return
	}
	if token, ok := c.tokens.Token(ctx); ok && token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
}

func (c *Client) roundTrip(ctx context.Context, req *http.Request, out any) (int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "api request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return 0, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.WarnContext(ctx, "api rejected token, clearing it", "path", req.URL.Path)
		if c.tokens != nil {
			c.tokens.Revoke(ctx)
		}
	}

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, newAPIError(resp, raw)
	}
	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if readErr != nil {
		return resp.StatusCode, fmt.Errorf("read %s response: %w", req.URL.Path, readErr)
	}
	if err := decodeJSON(raw, out); err != nil {
		c.logger.ErrorContext(ctx, "failed to parse api response", "path", req.URL.Path, "error", err)
		return resp.StatusCode, ErrInvalidJSON
	}
	return resp.StatusCode, nil
}

func encodeBody(method string, v any) (io.Reader, error) {
	if v == nil || method == http.MethodGet || method == http.MethodHead {
		return nil, nil //nolint:nilnil // no body is a valid outcome
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(raw), nil
}

// decodeJSON validates raw even when the caller does not want the result.
func decodeJSON(raw []byte, out any) error {
	if out == nil {
		if !json.Valid(raw) {
			return errors.New("response is not valid JSON")
		}
		return nil
	}
	return json.Unmarshal(raw, out)
}
