package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Requester is the generic four-verb request layer plus uploads. It is
// implemented by *Client and can be faked in tests.
type Requester interface {
	Get(ctx context.Context, path string, dest any) error
	GetEnvelope(ctx context.Context, path string) (*Envelope, error)
	Post(ctx context.Context, path string, body any) (*Envelope, error)
	Put(ctx context.Context, path string, body any) (*Envelope, error)
	Delete(ctx context.Context, path string) (*Envelope, error)
	Upload(ctx context.Context, path, filename string, content io.Reader) (*Envelope, error)
}

// Ensure Client implements Requester at compile time.
var _ Requester = (*Client)(nil)

// TokenSource supplies the bearer token for each request. An empty token
// sends no Authorization header.
type TokenSource interface {
	Token() string
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Tokens    TokenSource
	Logger    *slog.Logger
}

// Client talks to the platform REST backend.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tokens    TokenSource
	logger    *slog.Logger
}

const (
	defaultBaseURL   = "http://127.0.0.1:8080/api"
	defaultUserAgent = "arisan-admin/0.1"
	defaultTimeout   = 10 * time.Second
)

// NewClient builds a Client for the backend rooted at opts.BaseURL.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: ua,
		tokens:    opts.Tokens,
		logger:    logger.With("component", "api"),
	}, nil
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// Get reads path and decodes the envelope's data into dest. A response
// without data is an error.
func (c *Client) Get(ctx context.Context, path string, dest any) error {
	env, err := c.GetEnvelope(ctx, path)
	if err != nil {
		return err
	}
	if !env.HasData() {
		return env.asError(http.MethodGet, path, "response has no data")
	}
	return env.DecodeData(dest)
}

// GetEnvelope reads path and returns the raw envelope.
func (c *Client) GetEnvelope(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, nil, "")
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.write(ctx, http.MethodPost, path, body)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.write(ctx, http.MethodPut, path, body)
}

// Delete removes the resource at path.
func (c *Client) Delete(ctx context.Context, path string) (*Envelope, error) {
	return c.write(ctx, http.MethodDelete, path, nil)
}

// Upload sends content as the multipart form field "file".
func (c *Client) Upload(ctx context.Context, path, filename string, content io.Reader) (*Envelope, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}
	env, err := c.send(ctx, http.MethodPost, path, &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	if !env.WriteOK() {
		return nil, env.asError(http.MethodPost, path, "upload rejected")
	}
	return env, nil
}

func (c *Client) write(ctx context.Context, method, path string, body any) (*Envelope, error) {
	env, err := c.do(ctx, method, path, body, "application/json")
	if err != nil {
		return nil, err
	}
	if !env.WriteOK() {
		return nil, env.asError(method, path, "request rejected")
	}
	return env, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, contentType string) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	return c.send(ctx, method, path, reader, contentType)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*Envelope, error) {
	reqURL := c.resolve(path)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := strings.TrimSpace(c.tokens.Token()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	env, decodeErr := decodeEnvelope(raw)
	if resp.StatusCode >= 400 {
		apiErr := &Error{Method: method, Path: path, Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Code = env.CodeValue()
			apiErr.Message = env.ErrorText()
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	env.HTTPStatus = resp.StatusCode
	return env, nil
}

// resolve joins path onto the base URL, keeping the base path prefix.
func (c *Client) resolve(path string) string {
	rel, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		rel = &url.URL{Path: strings.TrimLeft(path, "/")}
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + rel.Path
	u.RawQuery = rel.RawQuery
	return u.String()
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
