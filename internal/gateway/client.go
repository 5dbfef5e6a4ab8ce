// Package gateway is the single egress point for API calls. It attaches the
// stored bearer token to every request and turns 401 responses into a
// global logout.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/felixgeelhaar/scribe/internal/errors"
	"github.com/felixgeelhaar/scribe/internal/log"
	"github.com/felixgeelhaar/scribe/internal/metrics"
	"github.com/felixgeelhaar/scribe/internal/telemetry"
)

// DefaultTimeout bounds every request
const DefaultTimeout = 15 * time.Second

// DefaultBaseURL is the local development API
const DefaultBaseURL = "http://127.0.0.1:8001/api/v1"

// RequestIDHeader carries a per-request correlation id
const RequestIDHeader = "X-Request-ID"

// maxErrorBody caps how much of an error response is read
const maxErrorBody = 1 << 20

// Client sends requests to the blog API
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
	logger         *log.Logger
	metrics        *metrics.Metrics
}

// Option configures a Client
type Option func(*Client)

// WithTransport replaces the HTTP transport
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

// WithTimeout overrides DefaultTimeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithUnauthorizedHandler sets the callback run once for every 401 response,
// after the stored token has been removed
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// WithLogger sets the request logger
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics enables request metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a client for the API at baseURL
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		tokens:  tokens,
		logger:  log.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends one request and decodes a successful JSON body into out.
// Error statuses come back as *errors.APIError, transport failures as
// *errors.NetworkError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	route := Route(path)
	ctx, span := telemetry.StartRequestSpan(ctx, method, route)
	defer span.End()

	requestID := uuid.NewString()
	span.SetAttributes(attribute.String("request_id", requestID))
	logger := c.logger.With("method", method, "route", route, "request_id", requestID)

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	req.Header.Set(RequestIDHeader, requestID)

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			logger.WithError(err).Warn("stored token unreadable, sending request without credentials")
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		netErr := &errors.NetworkError{
			Method:  method,
			URL:     req.URL.Redacted(),
			Timeout: isTimeout(err),
			Cause:   err,
		}
		c.metrics.RecordRequest(method, route, 0, elapsed)
		c.metrics.RecordNetworkError(route, netErr.Timeout)
		telemetry.RecordError(span, netErr)
		logger.WithError(netErr).Debug("request failed", "elapsed", elapsed)
		return netErr
	}
	defer resp.Body.Close()

	c.metrics.RecordRequest(method, route, resp.StatusCode, elapsed)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	logger.Debug("request completed", "status", resp.StatusCode, "elapsed", elapsed)

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp, requestID)
		if resp.StatusCode == http.StatusUnauthorized {
			c.handleUnauthorized(logger)
		}
		telemetry.RecordError(span, apiErr)
		return apiErr
	}

	telemetry.RecordSuccess(span)
	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errors.NetworkError{Method: method, URL: req.URL.Redacted(), Timeout: isTimeout(err), Cause: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(errors.ErrCodeAPIDecode, fmt.Sprintf("unexpected response from %s %s", method, route), err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeAPIRequest, "failed to encode request body", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAPIRequest, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) handleUnauthorized(logger *log.Logger) {
	if c.tokens != nil {
		if err := c.tokens.ClearToken(); err != nil {
			logger.WithError(err).Warn("failed to clear stored token after 401")
		}
	}
	c.metrics.RecordUnauthorized()
	logger.Info("session rejected by API, signing out")

	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func decodeError(resp *http.Response, requestID string) *errors.APIError {
	apiErr := &errors.APIError{
		StatusCode: resp.StatusCode,
		RequestID:  requestID,
	}
	if id := resp.Header.Get(RequestIDHeader); id != "" {
		apiErr.RequestID = id
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var env errors.ErrorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// the field errors may be malformed while the message is fine
		var msgOnly struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &msgOnly) == nil {
			apiErr.Message = msgOnly.Message
		}
		return apiErr
	}
	apiErr.Message = env.Message
	apiErr.Errors = env.Errors
	return apiErr
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

// Route replaces numeric path segments with ":id" so metrics and span names
// stay low-cardinality
func Route(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if _, err := strconv.ParseInt(seg, 10, 64); err == nil {
			segments[i] = ":id"
		}
	}
	return "/" + strings.Join(segments, "/")
}
