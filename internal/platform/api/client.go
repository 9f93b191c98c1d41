package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	apperrors "wishlist-tool-client/internal/common/errors"
	"wishlist-tool-client/internal/common/logger"
)

// DefaultTimeout bounds a single request when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
)

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// AuthToken is sent as a Bearer token when set.
	AuthToken string
	// Headers are sent with every request and can be overridden per call.
	Headers    http.Header
	HTTPClient *http.Client
	// Limiter throttles outbound calls; nil disables throttling.
	Limiter *rate.Limiter
	Metrics *Metrics
}

// Client is the single request primitive every repository goes through.
// It issues exactly one call per Do and never retries.
type Client struct {
	baseURL    string
	timeout    time.Duration
	authToken  string
	headers    http.Header
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *Metrics
}

// Request describes one call relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	// Body is JSON-encoded; nil sends no body.
	Body interface{}
}

// New builds a Client. The trailing slash of the base URL is trimmed once here.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		timeout:    timeout,
		authToken:  cfg.AuthToken,
		headers:    cfg.Headers.Clone(),
		httpClient: httpClient,
		limiter:    cfg.Limiter,
		metrics:    cfg.Metrics,
	}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do executes req under the client timeout. The caller's ctx can end the
// call earlier (for example when the consumer goes away). Every failure is
// an *errors.AppError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestID := uuid.NewString()
	start := time.Now()
	c.metrics.begin()

	resp, err := c.do(ctx, req, requestID)

	outcome := "ok"
	if err != nil {
		outcome = string(apperrors.CodeOf(err))
	}
	c.metrics.observe(req.Method, outcome, time.Since(start))

	if err != nil {
		logger.Debug().
			Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Str("request_id", requestID).
			Dur("elapsed", time.Since(start)).
			Msg("api request failed")
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, req Request, requestID string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.annotate(contextError(ctx, err), req, requestID)
		}
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, c.annotate(apperrors.Wrap(err, apperrors.ErrCodeUnknown, "Неизвестная ошибка"), req, requestID)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.url(req), body)
	if err != nil {
		return nil, c.annotate(apperrors.Wrap(err, apperrors.ErrCodeUnknown, "Неизвестная ошибка"), req, requestID)
	}
	c.setHeaders(httpReq, req.Header, requestID)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, c.annotate(contextError(ctx, err), req, requestID)
		}
		return nil, c.annotate(apperrors.Wrap(err, apperrors.ErrCodeNetwork, "Ошибка сети: "+err.Error()), req, requestID)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, c.annotate(contextError(ctx, err), req, requestID)
		}
		return nil, c.annotate(apperrors.Wrap(err, apperrors.ErrCodeNetwork, "Ошибка сети: "+err.Error()), req, requestID)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		message, code := errorBody(httpResp.StatusCode, raw)
		return nil, c.annotate(apperrors.FromResponse(httpResp.StatusCode, message, code), req, requestID)
	}

	resp := &Response{
		Status:    httpResp.StatusCode,
		Header:    httpResp.Header,
		Body:      raw,
		RequestID: requestID,
	}
	if resp.IsJSON() && len(bytes.TrimSpace(raw)) > 0 && !gjson.ValidBytes(raw) {
		return nil, c.annotate(apperrors.New(apperrors.ErrCodeUnknown, "Неизвестная ошибка").
			WithDetail("reason", "malformed json body"), req, requestID)
	}
	return resp, nil
}

func (c *Client) url(req Request) string {
	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

func (c *Client) setHeaders(r *http.Request, extra http.Header, requestID string) {
	r.Header.Set(HeaderContentType, "application/json")
	r.Header.Set("Accept", "application/json")
	r.Header.Set(HeaderRequestID, requestID)
	if c.authToken != "" {
		r.Header.Set(HeaderAuthorization, "Bearer "+c.authToken)
	}
	for k, vs := range c.headers {
		r.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range extra {
		r.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
}

func (c *Client) annotate(err *apperrors.AppError, req Request, requestID string) *apperrors.AppError {
	return err.
		WithRequestID(requestID).
		WithContext("method", req.Method).
		WithContext("path", req.Path)
}

// contextError classifies an expired or cancelled call as TIMEOUT. The
// context error stays in the chain, so errors.Is(err, context.Canceled)
// tells a cancelled caller apart from a deadline.
func contextError(ctx context.Context, cause error) *apperrors.AppError {
	ctxErr := ctx.Err()
	if ctxErr == nil {
		// rate.Limiter refuses upfront when the wait would outlive the deadline
		ctxErr = context.DeadlineExceeded
	}
	if errors.Is(ctxErr, context.Canceled) {
		return apperrors.Wrap(ctxErr, apperrors.ErrCodeTimeout, "Запрос отменен").
			WithDetail("cause", cause.Error())
	}
	return apperrors.Wrap(ctxErr, apperrors.ErrCodeTimeout, "Запрос превысил время ожидания").
		WithDetail("cause", cause.Error())
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}
