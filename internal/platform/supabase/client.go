package supabase

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

	"github.com/booksaas/booksaas-api/internal/domain"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 1 << 20

var (
	// ErrInvalidURL is returned when the service base URL cannot be used.
	ErrInvalidURL = errors.New("invalid service URL")

	// ErrMissingAPIKey is returned when a client is created without a credential.
	ErrMissingAPIKey = errors.New("service API key is required")
)

// Client is a credentialed handle on the External Service. One Client exists per
// credential level; it holds no per-request state and is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for outbound calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every outbound call. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Transport: c.httpClient.Transport, Timeout: d}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the service at rawURL authenticated with apiKey.
func NewClient(rawURL, apiKey string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		baseURL:    u,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("component", "supabase_client"), slog.String("host", u.Host))

	return c, nil
}

// Auth returns the auth API of the service bound to this client's credential.
func (c *Client) Auth() *AuthClient {
	return &AuthClient{client: c}
}

// From starts a data API query against table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table, params: url.Values{}}
}

// newRequest builds a request to path below the base URL. When bearer is empty the
// client's own API key is sent as the bearer credential.
func (c *Client) newRequest(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	bearer string,
) (*http.Request, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// do sends req. Transport failures are returned wrapped; HTTP error statuses are
// left for the caller to inspect.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("service request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	c.logger.Debug("service request completed",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))
	return resp, nil
}

// doJSON sends req and decodes a successful JSON response into dest (if non-nil).
func (c *Client) doJSON(req *http.Request, dest any) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// errorBody covers the error documents of both the auth and the data API.
type errorBody struct {
	// auth API
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`

	// data API; the auth API also sends a numeric "code"
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
	Hint    string          `json:"hint"`
}

// decodeError turns an HTTP error response into a *domain.UpstreamError.
func decodeError(resp *http.Response) error {
	upstream := &domain.UpstreamError{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	if len(raw) == 0 || json.Unmarshal(raw, &body) != nil {
		upstream.Message = http.StatusText(resp.StatusCode)
		return upstream
	}

	upstream.Code = firstNonEmpty(body.ErrorCode, jsonString(body.Code))
	upstream.Message = firstNonEmpty(
		body.Msg,
		body.Message,
		body.ErrorDescription,
		body.Error,
		http.StatusText(resp.StatusCode),
	)
	upstream.Details = jsonString(body.Details)
	if upstream.Details == "" && len(body.Details) > 0 && string(body.Details) != "null" {
		upstream.Details = string(body.Details)
	}
	upstream.Hint = body.Hint

	return upstream
}

// jsonString returns the value of a JSON string, or "" for any other JSON value.
func jsonString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || raw[0] != '"' || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
