// Package client implements the Unified Client: a thin composition of one
// Provider Adapter and the shared infrastructure ports, resolving a chain
// reference and dispatching logical calls through the five-step pipeline.
package client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/certen/evmscan/chainregistry"
	"github.com/certen/evmscan/infra"
	"github.com/certen/evmscan/provider"
)

// Config describes how to build a Client. ProviderName/ProviderVersion
// select the adapter from the Provider Registry; Chain selects the
// ChainInfo from Registry (or chainregistry.Default() if Registry is nil).
type Config struct {
	ProviderName    string
	ProviderVersion string
	Chain           chainregistry.Ref
	APIKey          string
	Registry        *chainregistry.Registry
	Ports           infra.Ports
	DefaultCacheTTL time.Duration
}

// Option mutates a Config before construction, mirroring the
// functional-option constructors used throughout this module.
type Option func(*Config)

// WithRegistry overrides the Chain Registry used to resolve Config.Chain.
func WithRegistry(reg *chainregistry.Registry) Option {
	return func(c *Config) { c.Registry = reg }
}

// WithDefaultCacheTTL overrides the TTL applied to cacheable responses.
func WithDefaultCacheTTL(d time.Duration) Option {
	return func(c *Config) { c.DefaultCacheTTL = d }
}

// Client is a thin composition: one Provider Adapter plus the shared
// infrastructure ports.
type Client struct {
	adapter         provider.Adapter
	ports           infra.Ports
	defaultCacheTTL time.Duration
}

// New resolves cfg.Chain against the Chain Registry, looks up the
// requested provider in the Provider Registry, and constructs its adapter
// for that chain — validating the chain against the adapter immediately,
// matching this module's fail-fast constructor style.
func New(cfg Config, opts ...Option) (*Client, error) {
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = chainregistry.Default()
	}
	if cfg.DefaultCacheTTL == 0 {
		cfg.DefaultCacheTTL = 30 * time.Second
	}

	chain, err := cfg.Registry.Resolve(cfg.Chain)
	if err != nil {
		var unknown *chainregistry.UnknownChainError
		if errors.As(err, &unknown) {
			return nil, provider.NewError(provider.KindUnknownChain, cfg.ProviderName, "", "").WithErr(err)
		}
		return nil, err
	}

	ctor, err := provider.Lookup(cfg.ProviderName, cfg.ProviderVersion)
	if err != nil {
		return nil, err
	}

	adapter, err := ctor(chain, cfg.APIKey, provider.Deps{HTTP: cfg.Ports.HTTP, Retry: cfg.Ports.Retry})
	if err != nil {
		return nil, err
	}

	return &Client{adapter: adapter, ports: cfg.Ports, defaultCacheTTL: cfg.DefaultCacheTTL}, nil
}

// Chain returns the ChainInfo this client's adapter was constructed for.
func (c *Client) Chain() chainregistry.ChainInfo { return c.adapter.Chain() }

// Adapter exposes the underlying Provider Adapter, mainly for the
// Aggregator, which needs Supports/Call directly.
func (c *Client) Adapter() provider.Adapter { return c.adapter }

// Call performs the five-step pipeline: telemetry span start, rate-limit
// acquire, cache lookup (if cacheable and a Cache port is configured),
// adapter dispatch (under the adapter's own retry policy), cache store,
// telemetry span end. Errors from the adapter propagate to the caller
// unchanged; Call never swallows a domain error.
func (c *Client) Call(ctx context.Context, method provider.LogicalMethod, params map[string]string) (any, error) {
	start := time.Now()
	chain := c.adapter.Chain()

	emit := func(outcome string, callErr error) {
		if c.ports.Telemetry == nil {
			return
		}
		c.ports.Telemetry.Emit(ctx, infra.Event{
			Name:       "client.call",
			Provider:   c.adapter.Name(),
			ChainID:    chain.ChainID,
			ChainName:  chain.DisplayName,
			Method:     string(method),
			Outcome:    outcome,
			DurationMS: time.Since(start).Milliseconds(),
			Err:        callErr,
		})
	}

	if c.ports.RateLimiter != nil {
		if err := c.ports.RateLimiter.Acquire(ctx); err != nil {
			wrapped := provider.NewError(provider.KindCanceled, c.adapter.Name(), chain.DisplayName, method).WithErr(err)
			emit("canceled", wrapped)
			return nil, wrapped
		}
	}

	cacheable := c.adapter.Supports(method) && c.adapter.Cacheable(method)
	key := ""
	if cacheable && c.ports.Cache != nil {
		key = CacheKey(c.adapter.Name(), c.adapter.Version(), chain.ChainID, method, params)
		if cached, ok := c.ports.Cache.Get(ctx, key); ok {
			var result any
			if err := json.Unmarshal(cached, &result); err == nil {
				emit("ok", nil)
				return result, nil
			}
			// a corrupt cache entry is treated as a miss, not an error
		}
	}

	result, err := c.adapter.Call(ctx, method, params)
	if err != nil {
		emit("error", err)
		return nil, err
	}

	if cacheable && c.ports.Cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			c.ports.Cache.Set(ctx, key, raw, c.defaultCacheTTL)
		}
	}

	emit("ok", nil)
	return result, nil
}

// CacheKey builds the deterministic cache key (provider, version, chain_id,
// method, canonicalized_params) the Call pipeline uses. Parameters are
// canonicalized by sorting keys before hashing, so callers that pass the
// same logical parameters in different map iteration orders still hit the
// same cache entry.
func CacheKey(providerName, version string, chainID uint64, method provider.LogicalMethod, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
		b.WriteByte('&')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%s:%s:%d:%s:%s", providerName, version, chainID, method, hex.EncodeToString(sum[:]))
}
