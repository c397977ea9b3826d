package client

import (
	nethttp "net/http"
	"time"

	"github.com/gaborage/go-fleet/baseurl"
	"github.com/gaborage/go-fleet/failover"
	"github.com/gaborage/go-fleet/logger"
)

// Builder provides a fluent interface for configuring the client.
type Builder struct {
	log                  logger.Logger
	userAgent            string
	baseURLs             []string
	timeout              time.Duration
	httpClient           *nethttp.Client
	transport            nethttp.RoundTripper
	defaultHeaders       map[string]string
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewBuilder creates a new client builder.
func NewBuilder(log logger.Logger) *Builder {
	if log == nil {
		log = logger.New("info", false)
	}
	return &Builder{
		log:            log,
		timeout:        DefaultTimeout,
		defaultHeaders: make(map[string]string),
	}
}

// WithUserAgent sets the outbound identification string. It is
// validated at Build time.
func (b *Builder) WithUserAgent(agent string) *Builder {
	b.userAgent = agent
	return b
}

// WithBaseURLs sets the ordered list of server base URLs. Declaration
// order is failover order.
func (b *Builder) WithBaseURLs(urls ...string) *Builder {
	b.baseURLs = append(b.baseURLs[:0], urls...)
	return b
}

// WithTimeout sets the per-attempt request timeout.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	if timeout > 0 {
		b.timeout = timeout
	}
	return b
}

// WithHTTPClient supplies a pre-configured net/http client.
func (b *Builder) WithHTTPClient(hc *nethttp.Client) *Builder {
	b.httpClient = hc
	return b
}

// WithTransport sets the underlying round tripper, mainly for tests
// injecting transport-level failures.
func (b *Builder) WithTransport(rt nethttp.RoundTripper) *Builder {
	b.transport = rt
	return b
}

// WithDefaultHeader adds a header sent with every request.
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.defaultHeaders[key] = value
	return b
}

// WithRequestInterceptor adds a request interceptor.
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.requestInterceptors = append(b.requestInterceptors, interceptor)
	return b
}

// WithResponseInterceptor adds a response interceptor.
func (b *Builder) WithResponseInterceptor(interceptor ResponseInterceptor) *Builder {
	b.responseInterceptors = append(b.responseInterceptors, interceptor)
	return b
}

// Build validates the configuration and wires the composed client:
// base URL registry, path resolver and failover coordinator behind a
// single dispatch pipeline. Construction fails before any network
// activity when the user agent or base URLs are invalid.
func (b *Builder) Build() (Client, error) {
	if err := ValidateUserAgent(b.userAgent); err != nil {
		return nil, err
	}

	bases, err := baseurl.NewList(b.baseURLs)
	if err != nil {
		return nil, NewConfigurationError("invalid base URL configuration", err)
	}

	hc := b.httpClient
	if hc == nil {
		hc = &nethttp.Client{Timeout: b.timeout}
	}
	if hc.Timeout == 0 {
		hc.Timeout = b.timeout
	}
	if b.transport != nil {
		hc.Transport = b.transport
	}

	return &client{
		httpClient:           hc,
		logger:               b.log,
		bases:                bases,
		coordinator:          failover.NewCoordinator(len(bases)),
		userAgent:            decorateUserAgent(b.userAgent),
		defaultHeaders:       b.defaultHeaders,
		requestInterceptors:  b.requestInterceptors,
		responseInterceptors: b.responseInterceptors,
	}, nil
}
