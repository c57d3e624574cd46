package provider

import (
	"context"

	"github.com/certen/evmscan/chainregistry"
	"github.com/certen/evmscan/infra"
)

// AuthMode names how an adapter injects credentials into a request.
type AuthMode string

const (
	AuthQuery  AuthMode = "QUERY"
	AuthHeader AuthMode = "HEADER"
	AuthNone   AuthMode = "NONE"
)

// Adapter is also called a Scanner: a per-provider binding of logical
// methods to HTTP requests for one chain. An Adapter is instantiated per
// (provider, chain, api-key) triple and validates the chain at construction.
type Adapter interface {
	// Name is the provider name this adapter was registered under.
	Name() string
	// Version is the provider version this adapter was registered under.
	Version() string
	// Chain is the ChainInfo this adapter instance was constructed for.
	Chain() chainregistry.ChainInfo
	// Supports reports whether this adapter has an EndpointSpec for method.
	Supports(method LogicalMethod) bool
	// SupportedMethods enumerates every LogicalMethod this adapter implements.
	SupportedMethods() []LogicalMethod
	// Cacheable reports whether method's EndpointSpec declares its result
	// cacheable. Supports(method) must be true for the result to be
	// meaningful.
	Cacheable(method LogicalMethod) bool
	// Call dispatches a logical method through the adapter's HTTP port,
	// applying the EndpointSpec's Parser to the response. It returns
	// MethodNotSupported immediately, without any network call, if Supports
	// would be false.
	Call(ctx context.Context, method LogicalMethod, params map[string]string) (any, error)
}

// Deps bundles the infrastructure ports an adapter's Call implementation
// needs: the HTTP transport and the retry policy wrapping it. Rate limiting,
// caching, and telemetry are the Unified Client's concern, not the adapter's.
type Deps struct {
	HTTP  infra.HTTPDoer
	Retry infra.RetryPolicy
}

// Constructor builds an Adapter for one chain and optional API key. Every
// adapter package registers one of these under its (name, version) pair.
type Constructor func(chain chainregistry.ChainInfo, apiKey string, deps Deps) (Adapter, error)
