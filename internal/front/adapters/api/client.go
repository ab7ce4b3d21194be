// Package api содержит HTTP клиент удаленного REST API TCO.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"tcofront/internal/front/config"
	"tcofront/internal/front/metrics"
	"tcofront/internal/front/resilience"
	"tcofront/pkg/logger"
)

// Типы содержимого запросов.
const (
	ContentTypeJSON    = "application/json"
	ContentTypeJSONAPI = "application/vnd.api+json"
)

// Заголовки запросов.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderUserAgent     = "User-Agent"
	HeaderRequestID     = "X-Request-ID"
)

// Константы для логирования.
const (
	LogRequestSent   = "api request completed"
	LogRequestFailed = "api request failed"

	ErrBuildURL     = "failed to build request url"
	ErrEncodeBody   = "failed to encode request body"
	ErrCreateReq    = "failed to create http request"
	ErrSendRequest  = "failed to send request"
	ErrReadResponse = "failed to read response body"
	ErrDecodeBody   = "failed to decode response body"
)

// Request описывает запрос к API. Один Request соответствует одному логическому запросу,
// включая его возможный повтор после обновления токенов.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Headers     map[string]string
	Body        any
	ContentType string

	retried bool
	token   string
}

// Retried сообщает, что запрос уже прошел цикл обновления токенов.
func (r *Request) Retried() bool {
	return r.retried
}

// SetBearer устанавливает заголовок Authorization и запоминает токен.
func (r *Request) SetBearer(token string) {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.token = token
	r.Headers[HeaderAuthorization] = "Bearer " + token
}

// Response описывает ответ API.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// Decode декодирует тело ответа в v. Пустое тело оставляет v без изменений.
func (r *Response) Decode(v any) error {
	if r == nil || len(bytes.TrimSpace(r.Body)) == 0 || v == nil {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%s: %w", ErrDecodeBody, err)
	}
	return nil
}

// RequestInterceptor вызывается перед отправкой запроса.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor вызывается после получения ответа или ошибки.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response, err error) (*Response, error)

// Client отправляет запросы к API через цепочки перехватчиков.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	userAgent  string
	breaker    *resilience.CircuitBreaker
	metrics    *metrics.Metrics

	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient задает HTTP клиент.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCircuitBreaker задает Circuit Breaker.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

// WithMetrics задает сборщик метрик.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient создает клиент API.
func NewClient(cfg config.APIConfig, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrBuildURL, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
		userAgent:  cfg.UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = resilience.NewCircuitBreaker("tco-api", BreakerConfig(resilience.DefaultCircuitBreakerConfig(), c.metrics))
	}

	return c, nil
}

// BreakerConfig дополняет конфигурацию Circuit Breaker: отказом считаются только
// ошибки транспорта и ответы 5xx.
func BreakerConfig(cfg resilience.CircuitBreakerConfig, m *metrics.Metrics) resilience.CircuitBreakerConfig {
	cfg.IsFailure = func(err error) bool {
		if err == nil {
			return false
		}
		if errors.Is(err, context.Canceled) {
			return false
		}
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return apiErr.StatusCode >= http.StatusInternalServerError
		}
		return true
	}
	cfg.OnStateChange = func(_, to resilience.CircuitState) {
		m.SetBreakerOpen(to == resilience.StateOpen)
	}
	return cfg
}

// UseRequest добавляет перехватчик запросов.
func (c *Client) UseRequest(ic RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, ic)
}

// UseResponse добавляет перехватчик ответов.
func (c *Client) UseResponse(ic ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, ic)
}

// Do выполняет запрос через все перехватчики. Ответ с кодом вне 2xx возвращается как *Error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	for _, ic := range c.requestInterceptors {
		if err := ic(ctx, req); err != nil {
			return nil, err
		}
	}

	var resp *Response
	err := c.breaker.Execute(ctx, func() error {
		var err error
		resp, err = c.send(ctx, req)
		return err
	})

	for _, ic := range c.responseInterceptors {
		resp, err = ic(ctx, req, resp, err)
	}

	return resp, err
}

// JSON выполняет запрос и декодирует тело ответа в out.
func (c *Client) JSON(ctx context.Context, req *Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	log := logger.Log(ctx).With(zap.String("method", req.Method), zap.String("path", req.Path))

	u := c.buildURL(req.Path, req.Query)

	var body io.Reader
	if req.Body != nil {
		raw, err := encodeBody(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrEncodeBody, err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCreateReq, err)
	}
	c.setHeaders(ctx, httpReq, req)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		c.metrics.ObserveAPIRequest(req.Method, 0, duration)
		log.Warn(ctx, LogRequestFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrSendRequest, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrReadResponse, err)
	}
	c.metrics.ObserveAPIRequest(req.Method, httpResp.StatusCode, duration)

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       raw,
		Duration:   duration,
	}

	log.Debug(ctx, LogRequestSent, zap.Int("status", resp.StatusCode), zap.Duration("duration", duration))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, newError(req.Method, req.Path, resp.StatusCode, raw)
	}
	return resp, nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) setHeaders(ctx context.Context, httpReq *http.Request, req *Request) {
	if req.Body != nil {
		ct := req.ContentType
		if ct == "" {
			ct = ContentTypeJSON
		}
		httpReq.Header.Set(HeaderContentType, ct)
	}
	httpReq.Header.Set(HeaderAccept, ContentTypeJSON)
	if c.userAgent != "" {
		httpReq.Header.Set(HeaderUserAgent, c.userAgent)
	}

	httpReq.Header.Set(HeaderRequestID, logger.RequestIDOrNew(ctx))

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case json.RawMessage:
		return b, nil
	case []byte:
		return b, nil
	default:
		return json.Marshal(body)
	}
}
