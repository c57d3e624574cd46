package chainregistry

import (
	"errors"
	"testing"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := New(Seed)
	if err != nil {
		t.Fatalf("New(Seed): %v", err)
	}
	return reg
}

func TestResolveByID(t *testing.T) {
	reg := testRegistry(t)
	ci, err := reg.Resolve(ByID(1))
	if err != nil {
		t.Fatalf("Resolve(ByID(1)): %v", err)
	}
	if ci.Name != "ethereum" {
		t.Errorf("Name = %q, want %q", ci.Name, "ethereum")
	}
}

func TestResolveByCanonicalName(t *testing.T) {
	reg := testRegistry(t)
	ci, err := reg.Resolve(ByName("ETHEREUM"))
	if err != nil {
		t.Fatalf("Resolve(ByName(ETHEREUM)): %v", err)
	}
	if ci.ChainID != 1 {
		t.Errorf("ChainID = %d, want 1", ci.ChainID)
	}
}

func TestResolveByAlias(t *testing.T) {
	reg := testRegistry(t)
	ci, err := reg.Resolve(ByName("bsc"))
	if err != nil {
		t.Fatalf("Resolve(ByName(bsc)): %v", err)
	}
	if ci.Name != "bnb" {
		t.Errorf("Name = %q, want %q", ci.Name, "bnb")
	}
}

func TestResolveUnknownChainCarriesInputAndSuggestions(t *testing.T) {
	reg := testRegistry(t)
	_, err := reg.Resolve(ByName("etherium")) // common misspelling, close to "ethereum"

	var unknown *UnknownChainError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownChainError, got %v", err)
	}
	if unknown.Input != "etherium" {
		t.Errorf("Input = %q, want %q", unknown.Input, "etherium")
	}
	found := false
	for _, s := range unknown.Suggestions {
		if s == "ethereum" {
			found = true
		}
	}
	if !found {
		t.Errorf("Suggestions = %v, want to contain %q", unknown.Suggestions, "ethereum")
	}
}

func TestResolveUnknownNumericChain(t *testing.T) {
	reg := testRegistry(t)
	_, err := reg.Resolve(ByID(999999999))
	var unknown *UnknownChainError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownChainError, got %v", err)
	}
	if unknown.Input != "999999999" {
		t.Errorf("Input = %q, want %q", unknown.Input, "999999999")
	}
}

// TestResolutionDeterminism is testable property 1: resolving a reference and
// then resolving the result's own canonical name must yield the same chain.
func TestResolutionDeterminism(t *testing.T) {
	reg := testRegistry(t)
	for _, ref := range []Ref{ByID(1), ByName("arb"), ByName("Polygon")} {
		ci, err := reg.Resolve(ref)
		if err != nil {
			t.Fatalf("Resolve(%v): %v", ref, err)
		}

		again, err := reg.Resolve(ByName(ci.Name))
		if err != nil {
			t.Fatalf("Resolve(ByName(%s)): %v", ci.Name, err)
		}
		if again.ChainID != ci.ChainID {
			t.Errorf("re-resolved ChainID = %d, want %d", again.ChainID, ci.ChainID)
		}
	}
}

func TestDuplicateChainIDRejected(t *testing.T) {
	_, err := New([]ChainInfo{
		{ChainID: 1, Name: "ethereum"},
		{ChainID: 1, Name: "ethereum-again"},
	})
	if err == nil {
		t.Fatal("expected error for duplicate chain id")
	}
}

func TestDuplicateAliasRejected(t *testing.T) {
	_, err := New([]ChainInfo{
		{ChainID: 1, Name: "ethereum", Aliases: []string{"eth"}},
		{ChainID: 56, Name: "bnb", Aliases: []string{"eth"}},
	})
	var dup *DuplicateAliasError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateAliasError, got %v", err)
	}
	if dup.Alias != "eth" {
		t.Errorf("Alias = %q, want %q", dup.Alias, "eth")
	}
}

func TestAliasCollidingWithCanonicalNameRejected(t *testing.T) {
	_, err := New([]ChainInfo{
		{ChainID: 1, Name: "ethereum"},
		{ChainID: 56, Name: "bnb", Aliases: []string{"ethereum"}},
	})
	if err == nil {
		t.Fatal("expected error for alias colliding with canonical name")
	}
}

// TestChainHintCoherence is testable property 10.
func TestChainHintCoherence(t *testing.T) {
	reg := testRegistry(t)

	polygon, err := reg.Resolve(ByName("polygon"))
	if err != nil {
		t.Fatalf("Resolve(ByName(polygon)): %v", err)
	}
	if polygon.Blockscout != nil {
		t.Errorf("polygon.Blockscout = %+v, want nil", polygon.Blockscout)
	}
	for _, ci := range reg.List(Filter{Provider: "blockscout"}) {
		if ci.Blockscout == nil {
			t.Errorf("%s: Blockscout hint missing despite blockscout filter", ci.Name)
		}
	}
}

func TestListFiltersByTestnet(t *testing.T) {
	reg := testRegistry(t)
	testnetOnly := true
	chains := reg.List(Filter{Testnet: &testnetOnly})
	if len(chains) != 1 {
		t.Fatalf("len(chains) = %d, want 1", len(chains))
	}
	if chains[0].Name != "sepolia" {
		t.Errorf("chains[0].Name = %q, want %q", chains[0].Name, "sepolia")
	}
}

func TestDefaultSingletonBuildsOnce(t *testing.T) {
	a := Default()
	b := Default()
	if a != b {
		t.Error("Default() returned distinct registry instances")
	}
}
