package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/adoperator/internal/log"
	"github.com/nao1215/adoperator/internal/session"
	"golang.org/x/time/rate"
)

// Timeouts applied to a single call.
const (
	DefaultTimeout = 120 * time.Second
	// DefaultMediaTimeout covers uploads and creative generation.
	DefaultMediaTimeout = 10 * time.Minute
)

// maxErrorBody bounds the error body read to extract the detail message.
const maxErrorBody = 1 << 20

// Header names sent with every call.
const (
	HeaderLanguage  = "X-Language"
	HeaderRequestID = "X-Request-Id"
)

// TokenSource supplies the bearer token. *session.Session satisfies it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client calls the backend REST API.
type Client struct {
	baseURL      *url.URL
	httpClient   *http.Client
	tokens       TokenSource
	language     string
	headers      map[string]string
	limiter      *rate.Limiter
	timeout      time.Duration
	mediaTimeout time.Duration
	logger       *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithLanguage sets the X-Language header.
func WithLanguage(lang string) ClientOption {
	return func(cl *Client) {
		cl.language = lang
	}
}

// WithHeaders adds static headers to every call.
func WithHeaders(h map[string]string) ClientOption {
	return func(cl *Client) {
		for k, v := range h {
			cl.headers[k] = v
		}
	}
}

// WithRateLimit limits calls to perSecond with the given burst.
// A non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(cl *Client) {
		if perSecond <= 0 {
			cl.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		cl.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithTimeout sets the per-call timeout of regular calls.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		cl.timeout = d
	}
}

// WithMediaTimeout sets the per-call timeout of uploads and generation.
func WithMediaTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		cl.mediaTimeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(cl *Client) {
		cl.logger = l
	}
}

// New returns a client for the API rooted at baseURL (for example
// "https://app.example.com/api"). tokens may be nil for anonymous use.
func New(baseURL string, tokens TokenSource, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL:      u,
		httpClient:   http.DefaultClient,
		tokens:       tokens,
		language:     "pt",
		headers:      make(map[string]string),
		timeout:      DefaultTimeout,
		mediaTimeout: DefaultMediaTimeout,
		logger:       log.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// call describes one request.
type call struct {
	method      string
	path        string
	body        any
	raw         io.Reader
	contentType string
	anonymous   bool
	media       bool
}

// do performs cl and decodes a JSON response into out, which may be nil.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	timeout := c.timeout
	if cl.media {
		timeout = c.mediaTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api call",
		"method", cl.method,
		"path", cl.path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get(HeaderRequestID),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // best-effort detail extraction
		return &APIError{
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(body),
			Method:     cl.method,
			Path:       cl.path,
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode %s %s response: %w", cl.method, cl.path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	body := cl.raw
	contentType := cl.contentType
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	if body == nil {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL.String()+cl.path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.language != "" {
		req.Header.Set(HeaderLanguage, c.language)
	}
	req.Header.Set(HeaderRequestID, uuid.NewString())

	if !cl.anonymous && c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		switch {
		case err == nil:
			req.Header.Set("Authorization", "Bearer "+token)
		case errors.Is(err, session.ErrNotLoggedIn):
			// the backend answers 401, which maps to ErrUnauthorized
		default:
			return nil, fmt.Errorf("failed to read token: %w", err)
		}
	}
	return req, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, call{method: http.MethodGet, path: path}, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, call{method: http.MethodPost, path: path, body: body}, out)
}

// seg escapes a path segment.
func seg(s string) string {
	return url.PathEscape(s)
}
