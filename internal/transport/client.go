// Package transport provides the single HTTP client through which every
// backend call flows. It stamps the bearer token when a session is
// installed, picks the wire encoding (JSON or multipart), intercepts
// unauthorized responses to evict the session, and surfaces every other
// failure as a typed RequestError. It performs no retries.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ViFerX/research-assistant/internal/domain"
	"github.com/ViFerX/research-assistant/internal/logger"
	"github.com/ViFerX/research-assistant/internal/resilience"
	"github.com/ViFerX/research-assistant/internal/session"
)

// Client is the configured HTTP client for the analysis backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   *session.Store
	breaker    *resilience.Breaker
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets a per-request timeout on the underlying http.Client.
// Zero keeps requests pending until the backend answers or the transport
// itself fails.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithBreaker attaches a circuit breaker to all outgoing calls.
func WithBreaker(b *resilience.Breaker) Option {
	return func(c *Client) { c.breaker = b }
}

// WithTelemetry instruments outgoing requests with OpenTelemetry spans.
func WithTelemetry() Option {
	return func(c *Client) {
		base := c.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.httpClient.Transport = otelhttp.NewTransport(base)
	}
}

// New creates a Client for the given backend base URL. The session store is
// consulted on every request; there is no cached token, so a login or
// logout is visible before the next request goes out.
func New(baseURL string, sessions *session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		sessions:   sessions,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Counts reports whether an error should trip the circuit breaker.
// Transport failures and server-side errors count; unauthorized and other
// client-side rejections do not.
func Counts(err error) bool {
	var re *domain.RequestError
	if errors.As(err, &re) {
		return re.Status == 0 || re.Status >= 500
	}
	return true
}

// DoJSON sends body as a JSON request and decodes the JSON response into
// out. body and out may each be nil.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, "application/json", reader, out)
}

// DoMultipart uploads a single file as multipart/form-data under the "file"
// field and decodes the JSON response into out. The whole body is buffered
// before sending so Content-Length is known, matching what the backend's
// form parser expects.
func (c *Client) DoMultipart(ctx context.Context, path, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("buffer file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, mw.FormDataContentType(), &buf, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	call := func() error {
		return c.roundTrip(ctx, method, path, contentType, body, out)
	}
	if c.breaker != nil {
		return c.breaker.Execute(call)
	}
	return call()
}

func (c *Client) roundTrip(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	// Stamp token and generation together: the generation gates the
	// unauthorized eviction to at most once per installed session.
	token, gen := c.sessions.Stamp()
	reqID := uuid.NewString()
	ctx = logger.WithRequestID(ctx, reqID)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.RequestError{Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.RequestError{Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Global interception: the session unwinds here, regardless of
		// which operation triggered the 401.
		c.sessions.Expire(gen)
		return &domain.RequestError{Status: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Debug("backend error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"request_id", reqID,
		)
		return &domain.RequestError{Status: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// errorMessage extracts a human-readable message from an error body.
// The backend reports errors as {"detail": "..."}; fall back to the raw
// body, then the status text.
func errorMessage(body []byte, status int) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if len(body) > 0 && len(body) <= 512 {
		return string(body)
	}
	return http.StatusText(status)
}
