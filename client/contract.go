package client

import (
	"context"
	"fmt"

	"github.com/gaborage/go-fleet/config"
	"github.com/gaborage/go-fleet/logger"
)

// Endpoint describes one operation of a service contract: a name the
// caller dispatches on, an HTTP method, and the declared path the
// resolver normalizes against the configured servers. The path may be
// relative (failed over) or a full absolute URL (destination-pinned).
type Endpoint struct {
	Name   string
	Method string
	Path   string
}

// Contract is the externally supplied service descriptor mapping
// endpoint names to declared paths.
type Contract struct {
	service   string
	endpoints map[string]Endpoint
}

// NewContract builds a contract for the named service. Endpoint names
// must be unique and non-empty.
func NewContract(service string, endpoints ...Endpoint) (*Contract, error) {
	if service == "" {
		return nil, NewValidationError("service name cannot be empty", "service")
	}

	byName := make(map[string]Endpoint, len(endpoints))
	for _, ep := range endpoints {
		if ep.Name == "" {
			return nil, NewValidationError("endpoint name cannot be empty", "name")
		}
		if _, dup := byName[ep.Name]; dup {
			return nil, NewValidationError(fmt.Sprintf("duplicate endpoint %q", ep.Name), "name")
		}
		byName[ep.Name] = ep
	}

	return &Contract{service: service, endpoints: byName}, nil
}

// Service returns the contract's service name.
func (c *Contract) Service() string { return c.service }

// Endpoint looks up an endpoint by name.
func (c *Contract) Endpoint(name string) (Endpoint, bool) {
	ep, ok := c.endpoints[name]
	return ep, ok
}

// ServiceClient dispatches contract endpoints through the composed
// resilient client.
type ServiceClient struct {
	contract *Contract
	client   Client
}

// Create validates the construction parameters and wires the full
// pipeline for a service contract: user agent validation, base URL
// normalization and the failover coordinator. It fails with a typed
// error, before any network activity, when the user agent or the
// configured base URLs are invalid.
func Create(contract *Contract, userAgent string, cfg *config.Config) (*ServiceClient, error) {
	if contract == nil {
		return nil, NewValidationError("contract cannot be nil", "contract")
	}
	if cfg == nil {
		return nil, NewConfigurationError("configuration cannot be nil", nil)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty).
		WithFields(map[string]any{"service": contract.Service()})

	cli, err := NewBuilder(log).
		WithUserAgent(userAgent).
		WithBaseURLs(cfg.Client.BaseURLs...).
		WithTimeout(cfg.Client.Timeout).
		Build()
	if err != nil {
		return nil, err
	}

	return &ServiceClient{contract: contract, client: cli}, nil
}

// NewServiceClient wraps an already built Client with a contract, for
// callers that configured the client through the Builder.
func NewServiceClient(contract *Contract, cli Client) (*ServiceClient, error) {
	if contract == nil {
		return nil, NewValidationError("contract cannot be nil", "contract")
	}
	if cli == nil {
		return nil, NewValidationError("client cannot be nil", "client")
	}
	return &ServiceClient{contract: contract, client: cli}, nil
}

// Call dispatches the named endpoint. The request's Path is taken from
// the contract; req may be nil when the endpoint needs no headers,
// query or body.
func (s *ServiceClient) Call(ctx context.Context, endpoint string, req *Request) (*Response, error) {
	ep, ok := s.contract.Endpoint(endpoint)
	if !ok {
		return nil, NewValidationError(fmt.Sprintf("unknown endpoint %q", endpoint), "endpoint")
	}

	dispatched := Request{Path: ep.Path}
	if req != nil {
		dispatched.Headers = req.Headers
		dispatched.Query = req.Query
		dispatched.Body = req.Body
	}

	return s.client.Do(ctx, ep.Method, &dispatched)
}

// Client returns the underlying composed client.
func (s *ServiceClient) Client() Client { return s.client }
