// Package etherscan implements the Etherscan-family (QUERY auth) Provider
// Adapter: a single v2 multichain base URL with chainid injected per call,
// and an apikey query parameter for authentication.
package etherscan

import (
	"context"
	"fmt"

	"github.com/certen/evmscan/chainregistry"
	"github.com/certen/evmscan/endpoint"
	"github.com/certen/evmscan/provider"
)

const (
	ProviderName = "etherscan"
	Version      = "v2"

	baseURL = "https://api.etherscan.io/v2/api"
)

func init() {
	provider.Register(ProviderName, Version, New)
}

// MethodTable returns a fresh copy of the Etherscan-family method table, one
// entry per LogicalMethod this adapter shape implements. It is exported so
// Blockscout (Etherscan-compatible for the methods it supports) can build
// its own adapter by copying this table and overriding a few entries,
// composition rather than inheritance.
func MethodTable() map[provider.LogicalMethod]endpoint.Spec {
	return map[provider.LogicalMethod]endpoint.Spec{
		provider.AccountBalance: {
			HTTPMethod: "GET",
			Query:      map[string]string{"module": "account", "action": "balance", "tag": "latest"},
			ParamMap:   map[string]string{"address": "address"},
			Parser:     endpoint.EnvelopeParser(),
		},
		provider.AccountTransactions: {
			HTTPMethod: "GET",
			Query:      map[string]string{"module": "account", "action": "txlist", "sort": "asc"},
			ParamMap: map[string]string{
				"address":    "address",
				"startblock": "startblock",
				"endblock":   "endblock",
				"page":       "page",
				"offset":     "offset",
			},
			Parser:    endpoint.EnvelopeParser(),
			Cacheable: true,
		},
		provider.AccountInternalTxs: {
			HTTPMethod: "GET",
			Query:      map[string]string{"module": "account", "action": "txlistinternal", "sort": "asc"},
			ParamMap: map[string]string{
				"address":    "address",
				"startblock": "startblock",
				"endblock":   "endblock",
				"page":       "page",
				"offset":     "offset",
			},
			Parser:    endpoint.EnvelopeParser(),
			Cacheable: true,
		},
		provider.AccountERC20Transfers: {
			HTTPMethod: "GET",
			Query:      map[string]string{"module": "account", "action": "tokentx", "sort": "asc"},
			ParamMap: map[string]string{
				"address":    "address",
				"startblock": "startblock",
				"endblock":   "endblock",
				"page":       "page",
				"offset":     "offset",
			},
			Parser:    endpoint.EnvelopeParser(),
			Cacheable: true,
		},
		provider.TokenBalance: {
			HTTPMethod: "GET",
			Query:      map[string]string{"module": "account", "action": "tokenbalance", "tag": "latest"},
			ParamMap:   map[string]string{"address": "address", "contract_address": "contractaddress"},
			Parser:     endpoint.EnvelopeParser(),
		},
		provider.TxByHash: {
			HTTPMethod: "GET",
			Query:      map[string]string{"module": "proxy", "action": "eth_getTransactionByHash"},
			ParamMap:   map[string]string{"txhash": "txhash"},
			Parser:     endpoint.EnvelopeParser(),
			Cacheable:  true,
		},
		provider.TxReceiptStatus: {
			HTTPMethod: "GET",
			Query:      map[string]string{"module": "transaction", "action": "gettxreceiptstatus"},
			ParamMap:   map[string]string{"txhash": "txhash"},
			Parser:     endpoint.EnvelopeParser(),
			Cacheable:  true,
		},
		provider.BlockByNumber: {
			HTTPMethod: "GET",
			Query:      map[string]string{"module": "proxy", "action": "eth_getBlockByNumber", "boolean": "true"},
			ParamMap:   map[string]string{"block_number": "tag"},
			Parser:     endpoint.EnvelopeParser(),
			Cacheable:  true,
		},
		provider.BlockReward: {
			HTTPMethod: "GET",
			Query:      map[string]string{"module": "block", "action": "getblockreward"},
			ParamMap:   map[string]string{"block_number": "blockno"},
			Parser:     endpoint.EnvelopeParser(),
			Cacheable:  true,
		},
		provider.EventLogs: {
			HTTPMethod: "GET",
			Query:      map[string]string{"module": "logs", "action": "getLogs"},
			ParamMap: map[string]string{
				"address":    "address",
				"startblock": "fromBlock",
				"endblock":   "toBlock",
				"page":       "page",
				"offset":     "offset",
				"topic0":     "topic0",
			},
			Parser:    endpoint.EnvelopeParser(),
			Cacheable: true,
		},
		provider.ContractABI: {
			HTTPMethod: "GET",
			Query:      map[string]string{"module": "contract", "action": "getabi"},
			ParamMap:   map[string]string{"contract_address": "address"},
			Parser:     endpoint.EnvelopeParser(),
			Cacheable:  true,
		},
		provider.ContractSource: {
			HTTPMethod: "GET",
			Query:      map[string]string{"module": "contract", "action": "getsourcecode"},
			ParamMap:   map[string]string{"contract_address": "address"},
			Parser:     endpoint.EnvelopeParser(),
			Cacheable:  true,
		},
		provider.GasOracle: {
			HTTPMethod: "GET",
			Query:      map[string]string{"module": "gastracker", "action": "gasoracle"},
			Parser:     endpoint.EnvelopeParser(),
		},
		provider.EthPrice: {
			HTTPMethod: "GET",
			Query:      map[string]string{"module": "stats", "action": "ethprice"},
			Parser:     endpoint.EnvelopeParser(),
		},
		provider.EthSupply: {
			HTTPMethod: "GET",
			Query:      map[string]string{"module": "stats", "action": "ethsupply"},
			Parser:     endpoint.EnvelopeParser(),
		},
	}
}

// Adapter is the Etherscan-family Provider Adapter. It is also reused
// verbatim by provider/blockscout, whose method table, base URL, and auth
// mode differ but whose dispatch logic does not.
type Adapter struct {
	providerName string
	version      string
	chain        chainregistry.ChainInfo
	baseURL      string
	authMode     provider.AuthMode
	authKeyName  string
	apiKey       string
	methods       map[provider.LogicalMethod]endpoint.Spec
	deps          provider.Deps
	injectChainID bool
}

var _ provider.Adapter = (*Adapter)(nil)

// New constructs the canonical Etherscan v2 adapter for chain. It validates
// at construction that chain carries an Etherscan hint.
func New(chain chainregistry.ChainInfo, apiKey string, deps provider.Deps) (provider.Adapter, error) {
	if chain.Etherscan == nil {
		return nil, provider.NewError(provider.KindChainNotSupportedByProvider, ProviderName, chain.DisplayName, "")
	}
	return newAdapter(ProviderName, Version, chain, baseURL, provider.AuthQuery, "apikey", apiKey, MethodTable(), deps, true), nil
}

// NewCustomAdapter builds an Adapter with an overridden name, base URL, auth
// mode, and method table, for Etherscan-compatible providers such as
// Blockscout. It performs no chain-hint validation itself — the caller is
// responsible for checking the hint its own provider needs. The v2
// multichain chainid-injection behavior is specific to the canonical
// Etherscan adapter and is never applied here.
func NewCustomAdapter(
	providerName, version string,
	chain chainregistry.ChainInfo,
	baseURL string,
	authMode provider.AuthMode,
	authKeyName, apiKey string,
	methods map[provider.LogicalMethod]endpoint.Spec,
	deps provider.Deps,
) *Adapter {
	return newAdapter(providerName, version, chain, baseURL, authMode, authKeyName, apiKey, methods, deps, false)
}

func newAdapter(
	providerName, version string,
	chain chainregistry.ChainInfo,
	baseURL string,
	authMode provider.AuthMode,
	authKeyName, apiKey string,
	methods map[provider.LogicalMethod]endpoint.Spec,
	deps provider.Deps,
	injectChainID bool,
) *Adapter {
	return &Adapter{
		providerName:  providerName,
		version:       version,
		chain:         chain,
		baseURL:       baseURL,
		authMode:      authMode,
		authKeyName:   authKeyName,
		apiKey:        apiKey,
		methods:       methods,
		deps:          deps,
		injectChainID: injectChainID,
	}
}

func (a *Adapter) Name() string                        { return a.providerName }
func (a *Adapter) Version() string                     { return a.version }
func (a *Adapter) Chain() chainregistry.ChainInfo       { return a.chain }
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

// Call dispatches method against the adapter's method table. For an adapter
// built by New on a chain whose Etherscan hint is v2, it injects the chainid
// query parameter the multichain API requires; adapters built by
// NewCustomAdapter never inject it.
func (a *Adapter) Call(ctx context.Context, method provider.LogicalMethod, params map[string]string) (any, error) {
	spec, ok := a.methods[method]
	if !ok {
		return nil, provider.NewError(provider.KindMethodNotSupported, a.providerName, a.chain.DisplayName, method)
	}

	callParams := make(map[string]string, len(params)+1)
	for k, v := range params {
		callParams[k] = v
	}
	if a.injectChainID && a.chain.Etherscan != nil && a.chain.Etherscan.APIKind == "v2" {
		callParams["chainid"] = a.chain.Etherscan.NetworkCode
	}

	req, err := endpoint.Dispatch(endpoint.Input{
		ProviderName: a.providerName,
		ChainDisplay: a.chain.DisplayName,
		Method:       method,
		Spec:         spec,
		Params:       callParams,
		BaseURL:      a.baseURL,
		AuthMode:     a.authMode,
		AuthKeyName:  a.authKeyName,
		APIKey:       a.apiKey,
	})
	if err != nil {
		return nil, err
	}

	status, body, err := a.deps.Retry.Execute(ctx, func(ctx context.Context) (int, []byte, error) {
		return a.deps.HTTP.Do(ctx, req.HTTPMethod, req.URL, req.Headers, nil)
	})
	if err != nil {
		return nil, provider.NewError(provider.KindTransportError, a.providerName, a.chain.DisplayName, method).WithErr(err)
	}
	if status == 429 {
		return nil, provider.NewError(provider.KindRateLimited, a.providerName, a.chain.DisplayName, method)
	}
	if status >= 400 {
		return nil, provider.NewError(provider.KindProviderError, a.providerName, a.chain.DisplayName, method).
			WithErr(fmt.Errorf("etherscan: http status %d", status))
	}

	result, err := spec.Parser(body)
	if err != nil {
		provider.StampContext(err, a.providerName, a.chain.DisplayName, method)
		return nil, err
	}
	return result, nil
}
