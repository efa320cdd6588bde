package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"skillsphere/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TokenSource supplies the bearer credential attached to every request.
// Returning an empty token is treated as "no credential".
type TokenSource interface {
	Token() (string, error)
}

// Client talks to the Skill-Sphere REST backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *observability.APILogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTransport replaces only the transport, keeping the client's timeout.
// Used by tests to route requests into an in-process fixture server.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a Client for the given base URL (e.g. "http://localhost:8080").
func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
		log:     observability.NewAPILogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// errorBody is the shape of error payloads returned by the backend.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do issues one request and decodes the JSON response into out (if non-nil).
// route is the metric/trace label and must not contain raw identifiers.
func (c *Client) do(ctx context.Context, method, route, path string, query url.Values, body, out any) error {
	ctx, span := observability.Tracer.Start(ctx, "api."+method+" "+route)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
	)

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("credential: %w: %v", ErrUnauthenticated, err)
	}
	if token == "" {
		return fmt.Errorf("credential missing: %w", ErrUnauthenticated)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.APIRequestDuration.WithLabelValues(method, route, "error").Observe(time.Since(start).Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		c.log.LogError(ctx, method, route, err)
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	observability.APIRequestDuration.
		WithLabelValues(method, route, strconv.Itoa(resp.StatusCode)).
		Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.log.LogRequest(ctx, method, route, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		msg := eb.Error
		if msg == "" {
			msg = eb.Message
		}
		err := statusToError(resp.StatusCode, msg)
		span.SetStatus(codes.Error, msg)
		return err
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
