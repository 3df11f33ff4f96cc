package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultBaseURL is the address of a locally running StockSage backend.
const DefaultBaseURL = "http://localhost:5000"

// DefaultTimeout bounds every request made by a client from NewClient.
const DefaultTimeout = 30 * time.Second

const tracerName = "github.com/stocksage/sage/internal/api"

// credentialRoutes answer 401 for rejected credentials. That says nothing
// about the stored token, so OnUnauthorized is not called for them.
var credentialRoutes = map[string]bool{
	"/api/login":    true,
	"/api/register": true,
}

// TokenSource supplies the bearer token for a request.
// An empty token means the request is sent without an Authorization header.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to a TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token() string { return string(s) }

// Client handles HTTP requests to the StockSage API.
// It never retries; a failed call is reported to the caller as-is.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	// OnUnauthorized is called once for every 401 response, before the
	// response is handed back to the caller. Login and register are exempt.
	OnUnauthorized func()
	Logger         *zap.Logger
}

// NewClient creates a new API client for the given base URL.
// tokens may be nil for anonymous use.
func NewClient(baseURL string, tokens TokenSource) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Tokens:  tokens,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		Logger: zap.NewNop(),
	}
}

// WithUnauthorizedHandler sets the function called when the API answers 401.
func (c *Client) WithUnauthorizedHandler(fn func()) *Client {
	c.OnUnauthorized = fn
	return c
}

// WithLogger sets the logger used for request tracing at debug level.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.Logger = logger
	return c
}

// WithTimeout replaces the per-request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.HTTPClient.Timeout = d
	}
	return c
}

// Get performs a GET request to the specified path.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// GetWithParams performs a GET request to the specified path with query parameters.
func (c *Client) GetWithParams(ctx context.Context, path string, params map[string]string) (*http.Response, error) {
	if len(params) > 0 {
		query := url.Values{}
		for k, v := range params {
			query.Set(k, v)
		}
		path = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request to the specified path with the given body.
func (c *Client) Post(ctx context.Context, path string, body io.Reader) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request to the specified path with the given body.
func (c *Client) Put(ctx context.Context, path string, body io.Reader) (*http.Response, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Client) token() string {
	if c.Tokens == nil {
		return ""
	}
	return c.Tokens.Token()
}

// do performs a single HTTP request with auth header injection.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	target := c.BaseURL + path
	requestID := uuid.NewString()

	ctx, span := otel.Tracer(tracerName).Start(ctx, method+" "+routeOf(path),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", target),
			attribute.String("sage.request_id", requestID),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger().With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)
	log.Debug("api request")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no response")
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Debug("api request canceled", zap.Error(ctxErr))
			return nil, fmt.Errorf("request canceled: %w", ctxErr)
		}
		log.Debug("api unreachable", zap.Error(err))
		return nil, &UnreachableError{URL: c.BaseURL, Err: err}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	log.Debug("api response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized && c.OnUnauthorized != nil && !credentialRoutes[routeOf(path)] {
		c.OnUnauthorized()
	}

	return resp, nil
}

// routeOf strips the query string so span names stay low-cardinality.
func routeOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

// getJSON issues a GET and decodes a successful response into T.
func getJSON[T any](ctx context.Context, c *Client, path string, params map[string]string) (T, error) {
	var out T
	resp, err := c.GetWithParams(ctx, path, params)
	if err != nil {
		return out, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return out, err
	}
	if err := DecodeJSON(resp, &out); err != nil {
		return out, err
	}
	return out, nil
}

// sendJSON encodes in as the request body, issues method on path and decodes
// a successful response into T.
func sendJSON[T any](ctx context.Context, c *Client, method, path string, in any) (T, error) {
	var out T
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return out, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return out, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return out, err
	}
	if err := DecodeJSON(resp, &out); err != nil {
		return out, err
	}
	return out, nil
}
