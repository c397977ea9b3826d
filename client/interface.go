// Package client builds the resilient HTTP client that sits beneath a
// typed service contract: it normalizes declared request paths against
// the configured server bases, rejects absolute URLs that target an
// unknown server, attaches the validated user agent to every request,
// and transparently fails a request over to the next configured server
// when one is unreachable.
package client

import (
	"context"
	nethttp "net/http"
	"net/url"
	"time"
)

// Client is the request-dispatch contract handed to the service
// contract layer. Implementations are safe for concurrent use.
type Client interface {
	Get(ctx context.Context, req *Request) (*Response, error)
	Post(ctx context.Context, req *Request) (*Response, error)
	Put(ctx context.Context, req *Request) (*Response, error)
	Patch(ctx context.Context, req *Request) (*Response, error)
	Delete(ctx context.Context, req *Request) (*Response, error)
	Do(ctx context.Context, method string, req *Request) (*Response, error)
}

// Request carries the per-request data produced by the dispatch layer.
type Request struct {
	// Path is the declared path: a relative segment (possibly empty,
	// with or without leading slash) resolved against the currently
	// preferred server, or a full absolute URL pinned to its
	// destination.
	Path    string
	Headers map[string]string
	Query   url.Values
	// Body is the serialized request body, opaque to this layer.
	Body []byte
}

// Response is the transport outcome handed back to the dispatch
// layer. Any HTTP status, including 4xx/5xx, is a valid Response:
// status codes are never mapped to errors here.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// Stats contains request execution statistics.
type Stats struct {
	ElapsedTime time.Duration
	// Attempts is the number of servers tried for this request.
	Attempts  int
	CallCount int64
}

// RequestInterceptor is called before sending each attempt.
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// ResponseInterceptor is called after receiving a response.
type ResponseInterceptor func(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error
