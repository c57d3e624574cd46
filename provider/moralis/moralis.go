// Package moralis implements the Moralis-style REST (HEADER auth) Provider
// Adapter: path-templated requests against a single host, chain conveyed as
// a hex id query parameter, direct/field-pick response parsing.
package moralis

import (
	"context"
	"fmt"

	"github.com/certen/evmscan/chainregistry"
	"github.com/certen/evmscan/endpoint"
	"github.com/certen/evmscan/provider"
)

const (
	ProviderName = "moralis"
	Version      = "v1"

	baseURL = "https://deep-index.moralis.io/api/v2.2"
)

func init() {
	provider.Register(ProviderName, Version, New)
}

func methodTable() map[provider.LogicalMethod]endpoint.Spec {
	return map[provider.LogicalMethod]endpoint.Spec{
		provider.AccountBalance: {
			HTTPMethod:   "GET",
			PathTemplate: "/{address}/balance",
			PathParams:   map[string]bool{"address": true},
			Parser:       endpoint.FieldPick("balance"),
		},
		provider.TokenBalance: {
			HTTPMethod:   "GET",
			PathTemplate: "/{address}/erc20",
			PathParams:   map[string]bool{"address": true},
			ParamMap:     map[string]string{"contract_address": "token_addresses"},
			Parser:       endpoint.DirectParser(),
		},
		provider.AccountERC20Transfers: {
			HTTPMethod:   "GET",
			PathTemplate: "/{address}/erc20/transfers",
			PathParams:   map[string]bool{"address": true},
			ParamMap: map[string]string{
				"startblock": "from_block",
				"endblock":   "to_block",
			},
			Parser:    endpoint.FieldPick("result"),
			Cacheable: true,
		},
		provider.TxByHash: {
			HTTPMethod:   "GET",
			PathTemplate: "/transaction/{txhash}",
			PathParams:   map[string]bool{"txhash": true},
			Parser:       endpoint.DirectParser(),
			Cacheable:    true,
		},
		provider.BlockByNumber: {
			HTTPMethod:   "GET",
			PathTemplate: "/block/{block_number}",
			PathParams:   map[string]bool{"block_number": true},
			Parser:       endpoint.DirectParser(),
			Cacheable:    true,
		},
	}
}

// Adapter is the Moralis-style Provider Adapter.
type Adapter struct {
	chain   chainregistry.ChainInfo
	apiKey  string
	methods map[provider.LogicalMethod]endpoint.Spec
	deps    provider.Deps
}

var _ provider.Adapter = (*Adapter)(nil)

// New constructs a Moralis adapter for chain. It validates at construction
// that chain carries a Moralis hint.
func New(chain chainregistry.ChainInfo, apiKey string, deps provider.Deps) (provider.Adapter, error) {
	if chain.Moralis == nil {
		return nil, provider.NewError(provider.KindChainNotSupportedByProvider, ProviderName, chain.DisplayName, "")
	}
	return &Adapter{chain: chain, apiKey: apiKey, methods: methodTable(), deps: deps}, nil
}

func (a *Adapter) Name() string                  { return ProviderName }
func (a *Adapter) Version() string                { return Version }
func (a *Adapter) Chain() chainregistry.ChainInfo { return a.chain }

func (a *Adapter) Supports(m provider.LogicalMethod) bool {
	_, ok := a.methods[m]
	return ok
}

func (a *Adapter) SupportedMethods() []provider.LogicalMethod {
	out := make([]provider.LogicalMethod, 0, len(a.methods))
	for m := range a.methods {
		out = append(out, m)
	}
	return out
}

func (a *Adapter) Cacheable(method provider.LogicalMethod) bool {
	return a.methods[method].Cacheable
}

// Call dispatches method against the adapter's method table, injecting the
// chain's Moralis hex id into the "chain" query parameter on every call.
func (a *Adapter) Call(ctx context.Context, method provider.LogicalMethod, params map[string]string) (any, error) {
	spec, ok := a.methods[method]
	if !ok {
		return nil, provider.NewError(provider.KindMethodNotSupported, ProviderName, a.chain.DisplayName, method)
	}

	callParams := make(map[string]string, len(params)+1)
	for k, v := range params {
		callParams[k] = v
	}
	callParams["chain"] = a.chain.Moralis.HexChainID

	req, err := endpoint.Dispatch(endpoint.Input{
		ProviderName: ProviderName,
		ChainDisplay: a.chain.DisplayName,
		Method:       method,
		Spec:         spec,
		Params:       callParams,
		BaseURL:      baseURL,
		AuthMode:     provider.AuthHeader,
		AuthKeyName:  "X-API-Key",
		APIKey:       a.apiKey,
	})
	if err != nil {
		return nil, err
	}

	status, body, err := a.deps.Retry.Execute(ctx, func(ctx context.Context) (int, []byte, error) {
		return a.deps.HTTP.Do(ctx, req.HTTPMethod, req.URL, req.Headers, nil)
	})
	if err != nil {
		return nil, provider.NewError(provider.KindTransportError, ProviderName, a.chain.DisplayName, method).WithErr(err)
	}
	if status == 429 {
		return nil, provider.NewError(provider.KindRateLimited, ProviderName, a.chain.DisplayName, method)
	}
	if status >= 400 {
		return nil, provider.NewError(provider.KindProviderError, ProviderName, a.chain.DisplayName, method).
			WithErr(fmt.Errorf("moralis: http status %d", status))
	}

	result, err := spec.Parser(body)
	if err != nil {
		provider.StampContext(err, ProviderName, a.chain.DisplayName, method)
		return nil, err
	}
	return result, nil
}
