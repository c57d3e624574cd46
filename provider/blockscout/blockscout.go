// Package blockscout implements the Blockscout Provider Adapter. Per-chain
// Blockscout instances are Etherscan-compatible for the methods they
// support, so this adapter is built by copying etherscan.MethodTable and
// overriding base-URL derivation and auth mode — composition, not
// inheritance, between the two adapter shapes.
package blockscout

import (
	"github.com/certen/evmscan/chainregistry"
	"github.com/certen/evmscan/provider"
	"github.com/certen/evmscan/provider/etherscan"
)

const (
	ProviderName = "blockscout"
	Version      = "v1"
)

func init() {
	provider.Register(ProviderName, Version, New)
}

// unsupportedMethods lists the LogicalMethods most public Blockscout
// instances do not implement. Dropping them from the copied method table
// makes Supports/Call return MethodNotSupported rather than issuing a
// request that would 404.
var unsupportedMethods = []provider.LogicalMethod{
	provider.BlockReward,
	provider.EthSupply,
}

// New constructs a Blockscout adapter for chain. It validates at
// construction that chain carries a Blockscout hint.
func New(chain chainregistry.ChainInfo, apiKey string, deps provider.Deps) (provider.Adapter, error) {
	if chain.Blockscout == nil {
		return nil, provider.NewError(provider.KindChainNotSupportedByProvider, ProviderName, chain.DisplayName, "")
	}

	methods := etherscan.MethodTable()
	for _, m := range unsupportedMethods {
		delete(methods, m)
	}
	// Blockscout's gas oracle shape differs enough from Etherscan's that it
	// is not offered here; chains needing it should query Etherscan directly.
	delete(methods, provider.GasOracle)
	delete(methods, provider.EthPrice)

	baseURL := "https://" + chain.Blockscout.Host + "/api"

	// Auth mode is NONE by default: most instances accept requests
	// unauthenticated, and an apikey, when present, is optional rather than
	// required, so AuthHeader/AuthQuery would wrongly reject a missing key.
	authMode := provider.AuthNone
	authKeyName := ""
	if apiKey != "" {
		authMode = provider.AuthQuery
		authKeyName = "apikey"
	}

	return etherscan.NewCustomAdapter(ProviderName, Version, chain, baseURL, authMode, authKeyName, apiKey, methods, deps), nil
}
