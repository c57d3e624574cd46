// Package chainregistry is the immutable catalogue of EVM chains the client
// knows how to talk to, and the per-provider hints needed to reach each one.
package chainregistry

import (
	"fmt"
	"sort"
	"strings"
)

// ChainInfo is an immutable description of one EVM chain.
type ChainInfo struct {
	ChainID        uint64
	Name           string // canonical short name, lowercase
	DisplayName    string
	Aliases        []string // lowercase
	NativeCurrency string
	IsTestnet      bool

	Etherscan  *EtherscanHint
	Blockscout *BlockscoutHint
	Moralis    *MoralisHint
}

// EtherscanHint carries what an Etherscan-family adapter needs to address
// this chain. For the v2 multichain API, NetworkCode is the chainid query
// value; for a v1-style family member it would be a subdomain code instead,
// but this registry only seeds v2-shaped hints.
type EtherscanHint struct {
	NetworkCode string
	APIKind     string // "v1" or "v2"
}

// BlockscoutHint carries the per-chain Blockscout instance hostname. Not
// every chain has one — absence means ChainNotSupportedByProvider.
type BlockscoutHint struct {
	Host string
}

// MoralisHint carries the hex-encoded chain id Moralis-style REST APIs
// expect in their `chain` query parameter.
type MoralisHint struct {
	HexChainID string
}

// UnknownChainError is raised when a chain reference does not resolve. It
// carries the caller's input verbatim plus a short list of closest matches,
// per the resolution contract.
type UnknownChainError struct {
	Input       string
	Suggestions []string
}

func (e *UnknownChainError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("chainregistry: unknown chain %q", e.Input)
	}
	return fmt.Sprintf("chainregistry: unknown chain %q (closest matches: %s)", e.Input, strings.Join(e.Suggestions, ", "))
}

// DuplicateAliasError is raised at construction when two chains claim the
// same alias or canonical name.
type DuplicateAliasError struct {
	Alias   string
	ChainA  uint64
	ChainB  uint64
}

func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("chainregistry: alias %q claimed by both chain %d and chain %d", e.Alias, e.ChainA, e.ChainB)
}

// Ref identifies a chain by numeric id or by string (canonical name or
// alias). Build one with ByID or ByName.
type Ref struct {
	id     uint64
	name   string
	hasID  bool
}

// ByID builds a Ref from a numeric EIP-155 chain id.
func ByID(id uint64) Ref { return Ref{id: id, hasID: true} }

// ByName builds a Ref from a canonical name or alias, matched case-insensitively.
func ByName(name string) Ref { return Ref{name: name} }

// Registry is an immutable, read-only-after-construction chain catalogue.
type Registry struct {
	byID    map[uint64]ChainInfo
	byName  map[string]uint64
	byAlias map[string]uint64
	order   []uint64 // insertion order, for stable List output
}

// New validates and builds a Registry from a slice of ChainInfo. It fails
// fast: duplicate chain ids, duplicate aliases, and aliases colliding with
// another chain's canonical name are all construction errors, matching the
// fail-fast-at-construction style used throughout this module.
func New(chains []ChainInfo) (*Registry, error) {
	r := &Registry{
		byID:    make(map[uint64]ChainInfo, len(chains)),
		byName:  make(map[string]uint64, len(chains)),
		byAlias: make(map[string]uint64, len(chains)),
	}

	for _, c := range chains {
		if _, exists := r.byID[c.ChainID]; exists {
			return nil, fmt.Errorf("chainregistry: duplicate chain id %d", c.ChainID)
		}

		name := strings.ToLower(c.Name)
		if existing, exists := r.byName[name]; exists {
			return nil, &DuplicateAliasError{Alias: name, ChainA: existing, ChainB: c.ChainID}
		}
		if existing, exists := r.byAlias[name]; exists {
			return nil, &DuplicateAliasError{Alias: name, ChainA: existing, ChainB: c.ChainID}
		}

		for _, alias := range c.Aliases {
			alias = strings.ToLower(alias)
			if existing, exists := r.byAlias[alias]; exists {
				return nil, &DuplicateAliasError{Alias: alias, ChainA: existing, ChainB: c.ChainID}
			}
			if existing, exists := r.byName[alias]; exists {
				return nil, &DuplicateAliasError{Alias: alias, ChainA: existing, ChainB: c.ChainID}
			}
			r.byAlias[alias] = c.ChainID
		}

		r.byID[c.ChainID] = c
		r.byName[name] = c.ChainID
		r.order = append(r.order, c.ChainID)
	}

	return r, nil
}

// Resolve looks up a ChainInfo by reference: (1) numeric id is a direct
// lookup; (2) a string is lowercased and matched against canonical names;
// (3) otherwise the alias set is searched. A miss raises UnknownChainError
// with closest-prefix suggestions.
func (r *Registry) Resolve(ref Ref) (ChainInfo, error) {
	if ref.hasID {
		if ci, ok := r.byID[ref.id]; ok {
			return ci, nil
		}
		return ChainInfo{}, &UnknownChainError{Input: fmt.Sprintf("%d", ref.id)}
	}

	lname := strings.ToLower(ref.name)
	if id, ok := r.byName[lname]; ok {
		return r.byID[id], nil
	}
	if id, ok := r.byAlias[lname]; ok {
		return r.byID[id], nil
	}
	return ChainInfo{}, &UnknownChainError{Input: ref.name, Suggestions: r.suggest(lname)}
}

// suggest returns up to three canonical names sharing the longest
// case-insensitive prefix with input.
func (r *Registry) suggest(input string) []string {
	type scored struct {
		name  string
		score int
	}
	var results []scored
	for name := range r.byName {
		if score := commonPrefixLen(input, name); score > 0 {
			results = append(results, scored{name, score})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].name < results[j].name
	})

	const maxSuggestions = 3
	out := make([]string, 0, maxSuggestions)
	for i, s := range results {
		if i >= maxSuggestions {
			break
		}
		out = append(out, s.name)
	}
	return out
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// Filter narrows List's output. The zero value matches everything.
type Filter struct {
	Provider  string // "etherscan", "blockscout", "moralis"; "" = no filter
	Testnet   *bool  // nil = no filter
}

// List returns every ChainInfo matching filter, in registration order.
func (r *Registry) List(filter Filter) []ChainInfo {
	out := make([]ChainInfo, 0, len(r.order))
	for _, id := range r.order {
		ci := r.byID[id]
		if filter.Testnet != nil && ci.IsTestnet != *filter.Testnet {
			continue
		}
		switch filter.Provider {
		case "":
		case "etherscan":
			if ci.Etherscan == nil {
				continue
			}
		case "blockscout":
			if ci.Blockscout == nil {
				continue
			}
		case "moralis":
			if ci.Moralis == nil {
				continue
			}
		}
		out = append(out, ci)
	}
	return out
}
