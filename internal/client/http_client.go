package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"product-resource/internal/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

var HttpClientTracer = otel.Tracer("HttpClient")

// HTTPClient is a traced JSON client bound to one base URL. Cookies set by
// the server (the session) are kept for later requests.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	headers map[string]string
}

// RequestOptions for request configuration
type RequestOptions struct {
	Method      string
	URL         string
	Headers     map[string]string
	QueryParams map[string]string
	Body        interface{}
	Timeout     time.Duration
	Context     context.Context
}

// Response wrapper with generic type
type Response[T any] struct {
	Data       T
	StatusCode int
	Headers    http.Header
	RawBody    []byte
}

// APIError is a non-2xx answer. Message is the server's {"message"} when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	jar, _ := cookiejar.New(nil)
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: make(map[string]string),
	}
}

func (c *HTTPClient) SetDefaultHeader(key, value string) {
	c.headers[key] = value
}

// Do performs the request and decodes a JSON body into result. A 2xx with an
// empty body leaves result untouched.
func (c *HTTPClient) Do(opts RequestOptions, result interface{}) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	fullURL, err := c.buildURL(opts.URL, opts.QueryParams)
	if err != nil {
		logger.Error(ctx, "Failed to build URL", slog.Any("error", err))
		return fmt.Errorf("build URL: %w", err)
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		bodyBytes, err := c.encodeBody(opts.Body)
		if err != nil {
			logger.Error(ctx, "Failed to encode body", slog.Any("error", err))
			return fmt.Errorf("encode body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	ctx, span := HttpClientTracer.Start(ctx, "HttpClient "+opts.Method)
	defer span.End()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, fullURL, bodyReader)
	if err != nil {
		logger.Error(ctx, "Failed to create request", slog.Any("error", err))
		return fmt.Errorf("create request: %w", err)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	c.setHeaders(req, opts.Headers)
	req.Header.Set("X-Trace-ID", span.SpanContext().TraceID().String())

	logger.Info(ctx, "HTTP", logger.LogHTTPRequest(ctx, req, "outgoing::request")...)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Error(ctx, "Failed to execute request", slog.String("error", err.Error()))
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error(ctx, "Failed to read response body", slog.String("error", err.Error()))
		return fmt.Errorf("read response body: %w", err)
	}

	logger.Info(ctx, "HTTP", logger.LogHTTPResponse(ctx, req, resp.Header, resp.StatusCode,
		bytes.NewReader(rawBody), time.Since(start).Milliseconds(), "outgoing::response")...)

	if resp.StatusCode >= 400 {
		return newAPIError(resp.StatusCode, rawBody)
	}

	if respPtr, ok := result.(*Response[interface{}]); ok {
		var data interface{}
		if len(rawBody) > 0 {
			if err := json.Unmarshal(rawBody, &data); err != nil {
				data = string(rawBody)
			}
		}
		respPtr.Data = data
		respPtr.StatusCode = resp.StatusCode
		respPtr.Headers = resp.Header
		respPtr.RawBody = rawBody
		return nil
	}

	if result != nil && len(rawBody) > 0 {
		if err := json.Unmarshal(rawBody, result); err != nil {
			if err := c.assignRawBody(ctx, result, rawBody); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}
		}
	}
	return nil
}

func newAPIError(code int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return &APIError{StatusCode: code, Message: payload.Message}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return &APIError{StatusCode: code, Message: msg}
	}
	return &APIError{StatusCode: code, Message: http.StatusText(code)}
}

// DoWithResponse performs HTTP request and returns Response struct
func (c *HTTPClient) DoWithResponse(opts RequestOptions) (*Response[interface{}], error) {
	result := &Response[interface{}]{}
	err := c.Do(opts, result)
	return result, err
}

func (c *HTTPClient) Get(ctx context.Context, url string, result interface{}) error {
	return c.Do(RequestOptions{Context: ctx, Method: http.MethodGet, URL: url}, result)
}

func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}, result interface{}) error {
	return c.Do(RequestOptions{Context: ctx, Method: http.MethodPost, URL: url, Body: body}, result)
}

func (c *HTTPClient) Put(ctx context.Context, url string, body interface{}, result interface{}) error {
	return c.Do(RequestOptions{Context: ctx, Method: http.MethodPut, URL: url, Body: body}, result)
}

func (c *HTTPClient) Delete(ctx context.Context, url string, result interface{}) error {
	return c.Do(RequestOptions{Context: ctx, Method: http.MethodDelete, URL: url}, result)
}

// buildURL builds complete URL with query parameters
func (c *HTTPClient) buildURL(endpoint string, queryParams map[string]string) (string, error) {
	var fullURL string
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		fullURL = endpoint
	} else {
		endpoint = strings.TrimLeft(endpoint, "/")
		fullURL = fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	}

	if len(queryParams) > 0 {
		u, err := url.Parse(fullURL)
		if err != nil {
			return "", err
		}
		q := u.Query()
		for k, v := range queryParams {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
		fullURL = u.String()
	}

	return fullURL, nil
}

func (c *HTTPClient) encodeBody(body interface{}) ([]byte, error) {
	switch v := body.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case io.Reader:
		return io.ReadAll(v)
	default:
		return json.Marshal(body)
	}
}

// setHeaders applies defaults, then per-request overrides.
func (c *HTTPClient) setHeaders(req *http.Request, headers map[string]string) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if req.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

func (c *HTTPClient) assignRawBody(ctx context.Context, data interface{}, rawBody []byte) error {
	switch v := data.(type) {
	case *string:
		*v = string(rawBody)
		return nil
	case *[]byte:
		*v = rawBody
		return nil
	default:
		logger.Error(ctx, "Cannot assign raw body to type", slog.String("type", fmt.Sprintf("%T", data)))
		return fmt.Errorf("cannot assign raw body to type %T", data)
	}
}

func (r *Response[T]) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
