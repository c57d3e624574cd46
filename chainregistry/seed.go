package chainregistry

import (
	"fmt"
	"sync"
)

// Seed is the registry's pre-populated ChainInfo table, grounded on the
// publicly documented chain ids, Etherscan v2 network codes, Blockscout
// instance hostnames, and Moralis hex chain ids for a representative set of
// mainnets and one testnet. It exists so callers have a usable registry
// without running a separate generator step.
var Seed = []ChainInfo{
	{
		ChainID:        1,
		Name:           "ethereum",
		DisplayName:    "Ethereum Mainnet",
		Aliases:        []string{"eth", "mainnet", "ethmainnet"},
		NativeCurrency: "ETH",
		Etherscan:      &EtherscanHint{NetworkCode: "1", APIKind: "v2"},
		Blockscout:     &BlockscoutHint{Host: "eth.blockscout.com"},
		Moralis:        &MoralisHint{HexChainID: "0x1"},
	},
	{
		ChainID:        11155111,
		Name:           "sepolia",
		DisplayName:    "Ethereum Sepolia Testnet",
		Aliases:        []string{"eth-sepolia"},
		NativeCurrency: "ETH",
		IsTestnet:      true,
		Etherscan:      &EtherscanHint{NetworkCode: "11155111", APIKind: "v2"},
		Blockscout:     &BlockscoutHint{Host: "eth-sepolia.blockscout.com"},
		Moralis:        &MoralisHint{HexChainID: "0xaa36a7"},
	},
	{
		ChainID:        8453,
		Name:           "base",
		DisplayName:    "Base",
		Aliases:        []string{"base-mainnet"},
		NativeCurrency: "ETH",
		Etherscan:      &EtherscanHint{NetworkCode: "8453", APIKind: "v2"},
		Blockscout:     &BlockscoutHint{Host: "base.blockscout.com"},
		Moralis:        &MoralisHint{HexChainID: "0x2105"},
	},
	{
		ChainID:        137,
		Name:           "polygon",
		DisplayName:    "Polygon Mainnet",
		Aliases:        []string{"matic", "polygon-pos"},
		NativeCurrency: "POL",
		Etherscan:      &EtherscanHint{NetworkCode: "137", APIKind: "v2"},
		// Polygon has no official Blockscout instance; Blockscout stays nil.
		Moralis: &MoralisHint{HexChainID: "0x89"},
	},
	{
		ChainID:        42161,
		Name:           "arbitrum",
		DisplayName:    "Arbitrum One",
		Aliases:        []string{"arb", "arbitrum-one"},
		NativeCurrency: "ETH",
		Etherscan:      &EtherscanHint{NetworkCode: "42161", APIKind: "v2"},
		Blockscout:     &BlockscoutHint{Host: "arbitrum.blockscout.com"},
		Moralis:        &MoralisHint{HexChainID: "0xa4b1"},
	},
	{
		ChainID:        10,
		Name:           "optimism",
		DisplayName:    "OP Mainnet",
		Aliases:        []string{"op", "optimism-mainnet"},
		NativeCurrency: "ETH",
		Etherscan:      &EtherscanHint{NetworkCode: "10", APIKind: "v2"},
		Blockscout:     &BlockscoutHint{Host: "optimism.blockscout.com"},
		Moralis:        &MoralisHint{HexChainID: "0xa"},
	},
	{
		ChainID:        56,
		Name:           "bnb",
		DisplayName:    "BNB Smart Chain",
		Aliases:        []string{"bsc", "binance"},
		NativeCurrency: "BNB",
		Etherscan:      &EtherscanHint{NetworkCode: "56", APIKind: "v2"},
		// BNB Smart Chain has no official Blockscout instance; Blockscout stays nil.
		Moralis: &MoralisHint{HexChainID: "0x38"},
	},
	{
		ChainID:        43114,
		Name:           "avalanche",
		DisplayName:    "Avalanche C-Chain",
		Aliases:        []string{"avax", "avalanche-c"},
		NativeCurrency: "AVAX",
		Etherscan:      &EtherscanHint{NetworkCode: "43114", APIKind: "v2"},
		Blockscout:     &BlockscoutHint{Host: "avax.blockscout.com"},
		Moralis:        &MoralisHint{HexChainID: "0xa86a"},
	},
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the package-level Registry built from Seed. It panics if
// Seed itself fails validation, which would indicate a bug in this module
// rather than in caller input.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := New(Seed)
		if err != nil {
			panic(fmt.Sprintf("chainregistry: seed table is invalid: %v", err))
		}
		defaultReg = reg
	})
	return defaultReg
}
