package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	nethttp "net/http"
	"sync/atomic"
	"time"

	"github.com/gaborage/go-fleet/baseurl"
	"github.com/gaborage/go-fleet/failover"
	"github.com/gaborage/go-fleet/logger"
	"github.com/gaborage/go-fleet/trace"
)

// DefaultTimeout is the default per-attempt request timeout.
const DefaultTimeout = 30 * time.Second

// client implements the Client interface.
type client struct {
	httpClient           *nethttp.Client
	logger               logger.Logger
	bases                baseurl.List
	coordinator          *failover.Coordinator
	userAgent            string
	defaultHeaders       map[string]string
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	callCount            int64
}

// Get performs a GET request.
func (c *client) Get(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodGet, req)
}

// Post performs a POST request.
func (c *client) Post(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPost, req)
}

// Put performs a PUT request.
func (c *client) Put(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPut, req)
}

// Patch performs a PATCH request.
func (c *client) Patch(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPatch, req)
}

// Delete performs a DELETE request.
func (c *client) Delete(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodDelete, req)
}

// Do dispatches one request. Relative paths are resolved against the
// currently preferred server and failed over across the configured
// list on connection-level failures; absolute URLs are validated
// against the full list and attempted exactly once.
func (c *client) Do(ctx context.Context, method string, req *Request) (*Response, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()
	call := atomic.AddInt64(&c.callCount, 1)
	declared := baseurl.ParseDeclaredPath(req.Path)

	if declared.IsAbsolute() {
		return c.doAbsolute(ctx, method, req, declared, start, call)
	}
	return c.doRelative(ctx, method, req, declared, start, call)
}

// doAbsolute handles destination-pinned requests. The caller hard-coded
// a full URL, so server substitution never applies: an unrecognized URI
// is a permanent configuration mistake and a connection failure is
// surfaced after the single attempt.
func (c *client) doAbsolute(ctx context.Context, method string, req *Request, declared baseurl.DeclaredPath, start time.Time, call int64) (*Response, error) {
	target := declared.Value()
	if !c.bases.Recognizes(target) {
		c.logger.Warn().
			Str("url", target).
			Msg("Absolute request URI matches no configured server")
		return nil, NewUnrecognizedURIError(target)
	}

	resp, err := c.attempt(ctx, method, req, target, start, call, 1)
	if err != nil {
		if failover.IsConnectionError(err) {
			return nil, NewConnectionError("request execution failed", err)
		}
		return nil, err
	}
	return resp, nil
}

// doRelative resolves the path against the coordinator's preferred
// server and retries across the remaining servers on connection-level
// failures, one attempt per configured server.
func (c *client) doRelative(ctx context.Context, method string, req *Request, declared baseurl.DeclaredPath, start time.Time, call int64) (*Response, error) {
	var resp *Response
	attempts := 0

	err := c.coordinator.Execute(ctx, func(ctx context.Context, server int) error {
		attempts++
		target := c.bases[server].ResolveRelative(declared.Value())

		r, err := c.attempt(ctx, method, req, target, start, call, attempts)
		if err != nil {
			c.logger.Warn().
				Err(err).
				Str("url", target).
				Int("server", server).
				Msg("Request attempt failed")
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		var exhausted *failover.ExhaustedError
		if errors.As(err, &exhausted) {
			return nil, NewConnectionError("all configured servers unreachable", err)
		}
		return nil, err
	}
	return resp, nil
}

// attempt executes a single request against target. Transport errors
// are returned unwrapped so the coordinator can classify them.
func (c *client) attempt(ctx context.Context, method string, req *Request, target string, start time.Time, call int64, attemptNum int) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, method, req, target)
	if err != nil {
		return nil, err
	}

	c.logRequest(method, httpReq.URL.String(), req)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}

	resp, err := c.buildResponse(ctx, start, call, attemptNum, httpReq, httpResp)
	if err != nil {
		return nil, err
	}

	c.logResponse(resp)
	return resp, nil
}

// validateRequest validates the request before sending.
func (c *client) validateRequest(req *Request) error {
	if req == nil {
		return NewValidationError("request cannot be nil", "request")
	}
	return nil
}

// buildRequest constructs an *http.Request for one attempt, applies
// headers and the user agent, and runs request interceptors.
func (c *client) buildRequest(ctx context.Context, method string, req *Request, target string) (*nethttp.Request, error) {
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, NewValidationError("failed to build HTTP request: "+err.Error(), "url")
	}

	c.applyHeaders(httpReq, req)

	for _, interceptor := range c.requestInterceptors {
		if err := interceptor(ctx, httpReq); err != nil {
			return nil, NewInterceptorError("request interceptor failed", "request", err)
		}
	}
	return httpReq, nil
}

// applyHeaders applies default and per-request headers. The user agent
// fixed at construction always wins, with the library token appended
// after the caller's value.
func (c *client) applyHeaders(httpReq *nethttp.Request, req *Request) {
	for key, value := range c.defaultHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)

	if httpReq.Header.Get(trace.HeaderXRequestID) == "" {
		httpReq.Header.Set(trace.HeaderXRequestID, trace.EnsureRequestID(httpReq.Context()))
	}

	if httpReq.Header.Get("Content-Type") == "" && req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
}

// buildResponse runs response interceptors, reads the body, and builds
// a Response. Every HTTP status is a valid outcome here.
func (c *client) buildResponse(ctx context.Context, start time.Time, call int64, attempts int, httpReq *nethttp.Request, httpResp *nethttp.Response) (*Response, error) {
	defer httpResp.Body.Close()

	for _, interceptor := range c.responseInterceptors {
		if err := interceptor(ctx, httpReq, httpResp); err != nil {
			return nil, NewInterceptorError("response interceptor failed", "response", err)
		}
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		Headers:    httpResp.Header,
		Stats: Stats{
			ElapsedTime: time.Since(start),
			Attempts:    attempts,
			CallCount:   call,
		},
	}, nil
}

// logRequest logs the outgoing request.
func (c *client) logRequest(method, target string, req *Request) {
	logEvent := c.logger.Debug().
		Str("direction", "outbound").
		Str("method", method).
		Str("url", target)

	if len(req.Headers) > 0 {
		logEvent = logEvent.Interface("headers", req.Headers)
	}
	if len(req.Body) > 0 {
		logEvent = logEvent.Int("body_bytes", len(req.Body))
	}

	logEvent.Msg("HTTP client request")
}

// logResponse logs the incoming response.
func (c *client) logResponse(resp *Response) {
	c.logger.Debug().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Int("attempts", resp.Stats.Attempts).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int64("call_count", resp.Stats.CallCount).
		Msg("HTTP client response")
}
