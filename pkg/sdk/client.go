package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeout    = 5 * time.Second
	DefaultHealthPath = "/api/health"

	snippetLength    = 200
	maxErrorBodySize = 64 << 10
)

// TokenSource supplies the session bearer token. An empty token means no
// session, in which case the client's default token is sent instead.
type TokenSource interface {
	AuthToken(ctx context.Context) (string, error)
}

type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) AuthToken(ctx context.Context) (string, error) {
	return f(ctx)
}

type Client struct {
	baseURL      string
	fallbacks    []string
	httpClient   *http.Client
	timeout      time.Duration
	healthPath   string
	defaultToken string
	tokens       TokenSource
	logger       zerolog.Logger
}

type Option func(*Client)

func WithFallbacks(urls ...string) Option {
	return func(c *Client) {
		c.fallbacks = append(c.fallbacks, urls...)
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithHealthPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.healthPath = path
		}
	}
}

func WithDefaultToken(token string) Option {
	return func(c *Client) {
		c.defaultToken = token
	}
}

func WithTokenSource(src TokenSource) Option {
	return func(c *Client) {
		c.tokens = src
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		healthPath: DefaultHealthPath,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Candidates returns the primary URL followed by the fallbacks, in order,
// without blanks or repeats.
func (c *Client) Candidates() []string {
	return Candidates(c.baseURL, c.fallbacks...)
}

// Candidates orders primary before fallbacks, trimming trailing slashes and
// dropping blanks and repeats.
func Candidates(primary string, fallbacks ...string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, u := range append([]string{primary}, fallbacks...) {
		u = strings.TrimRight(strings.TrimSpace(u), "/")
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

// Resolve probes the candidates in order and returns the first reachable one.
func (c *Client) Resolve(ctx context.Context) (string, error) {
	r := &Resolver{
		HTTPClient: c.httpClient,
		Timeout:    c.timeout,
		HealthPath: c.healthPath,
		Logger:     c.logger,
	}
	return r.Resolve(ctx, c.Candidates())
}

// Request sends a JSON request to the primary URL and walks the fallback
// URLs in order while attempts fail at the transport level. An HTTP error
// status from any server is returned as is. target may be nil.
func (c *Client) Request(ctx context.Context, method, path string, body, target any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request body: %w", err)
		}
		payload = data
	}

	requestID := uuid.NewString()
	header := c.header(ctx, requestID)

	candidates := c.Candidates()
	if len(candidates) == 0 {
		return ErrNoServerReachable
	}

	var lastErr error
	for i, base := range candidates {
		err := c.attempt(ctx, base, method, path, payload, header, target)
		if err == nil {
			return nil
		}
		if !IsNetworkError(err) {
			return err
		}
		lastErr = err
		c.logger.Warn().
			Err(err).
			Str("request_id", requestID).
			Str("base_url", base).
			Int("attempt", i+1).
			Int("candidates", len(candidates)).
			Msg("request failed at transport level")
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("request cancelled: %w", err)
		}
	}
	return fmt.Errorf("%w: %w", ErrNoServerReachable, lastErr)
}

func (c *Client) header(ctx context.Context, requestID string) http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("X-Request-ID", requestID)

	token := ""
	if c.tokens != nil {
		t, err := c.tokens.AuthToken(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("could not read session token, using default token")
		} else {
			token = t
		}
	}
	if token == "" {
		token = c.defaultToken
	}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func (c *Client) attempt(ctx context.Context, base, method, path string, payload []byte, header http.Header, target any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, bodyReader)
	if err != nil {
		return &NetworkError{BaseURL: base, Err: err}
	}
	req.Header = header.Clone()

	c.logger.Debug().
		Str("request_id", header.Get("X-Request-ID")).
		Str("method", method).
		Str("base_url", base).
		Str("path", path).
		Msg("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{BaseURL: base, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{BaseURL: base, Err: err}
	}

	if err := decodeJSON(resp.Header.Get("Content-Type"), raw, target); err != nil {
		var jsonErr *InvalidJSONError
		if errors.As(err, &jsonErr) {
			c.logger.Error().
				Str("request_id", header.Get("X-Request-ID")).
				Str("path", path).
				Str("content_type", jsonErr.ContentType).
				Str("body", jsonErr.Snippet).
				Msg("invalid JSON response")
		}
		return err
	}
	return nil
}

func decodeJSON(contentType string, raw []byte, target any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if !isJSONContentType(contentType) {
		return &InvalidJSONError{ContentType: contentType, Snippet: snippet(raw)}
	}
	if target == nil {
		if !json.Valid(raw) {
			return &InvalidJSONError{ContentType: contentType, Snippet: snippet(raw), Err: errors.New("malformed JSON")}
		}
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return &InvalidJSONError{ContentType: contentType, Snippet: snippet(raw), Err: err}
	}
	return nil
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	r := []rune(s)
	if len(r) > snippetLength {
		return string(r[:snippetLength])
	}
	return s
}

// errorMessage pulls a human readable message out of an error body.
func errorMessage(raw []byte) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err == nil {
		if msg := field(body, "message", "error", "detail"); msg != "" {
			return msg
		}
	}
	return snippet(raw)
}

func (c *Client) get(ctx context.Context, path string, target any) error {
	return c.Request(ctx, http.MethodGet, path, nil, target)
}

func (c *Client) post(ctx context.Context, path string, body, target any) error {
	return c.Request(ctx, http.MethodPost, path, body, target)
}

func (c *Client) put(ctx context.Context, path string, body, target any) error {
	return c.Request(ctx, http.MethodPut, path, body, target)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.Request(ctx, http.MethodDelete, path, nil, nil)
}
