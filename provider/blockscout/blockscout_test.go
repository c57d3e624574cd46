package blockscout

import (
	"context"
	"strings"
	"testing"

	"github.com/certen/evmscan/chainregistry"
	"github.com/certen/evmscan/provider"
)

type fakeHTTP struct {
	status  int
	body    []byte
	lastURL string
}

func (f *fakeHTTP) Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (int, []byte, error) {
	f.lastURL = url
	return f.status, f.body, nil
}

type passthroughRetry struct{}

func (passthroughRetry) Execute(ctx context.Context, op func(ctx context.Context) (int, []byte, error)) (int, []byte, error) {
	return op(ctx)
}

func ethereumChain(t *testing.T) chainregistry.ChainInfo {
	t.Helper()
	ci, err := chainregistry.Default().Resolve(chainregistry.ByName("ethereum"))
	if err != nil {
		t.Fatalf("Resolve(ethereum): %v", err)
	}
	return ci
}

func polygonChain(t *testing.T) chainregistry.ChainInfo {
	t.Helper()
	ci, err := chainregistry.Default().Resolve(chainregistry.ByName("polygon"))
	if err != nil {
		t.Fatalf("Resolve(polygon): %v", err)
	}
	return ci
}

func TestBlockscoutUsesInstanceHostnameNoAuthByDefault(t *testing.T) {
	http := &fakeHTTP{status: 200, body: []byte(`{"status":"1","message":"OK","result":"123"}`)}
	adapter, err := New(ethereumChain(t), "", provider.Deps{HTTP: http, Retry: passthroughRetry{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := adapter.Call(context.Background(), provider.AccountBalance, map[string]string{"address": "0xabc"}); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !strings.Contains(http.lastURL, "eth.blockscout.com") {
		t.Errorf("URL = %q, want to contain eth.blockscout.com", http.lastURL)
	}
	if strings.Contains(http.lastURL, "apikey") {
		t.Errorf("URL = %q, want no apikey param", http.lastURL)
	}
	// unlike the Etherscan v2 adapter, Blockscout never injects chainid: the
	// instance hostname already scopes every request to one chain.
	if strings.Contains(http.lastURL, "chainid") {
		t.Errorf("URL = %q, want no chainid param", http.lastURL)
	}
}

func TestBlockscoutChainWithoutHintIsUnsupported(t *testing.T) {
	_, err := New(polygonChain(t), "", provider.Deps{HTTP: &fakeHTTP{}, Retry: passthroughRetry{}})
	perr, ok := err.(*provider.Error)
	if !ok {
		t.Fatalf("expected *provider.Error, got %T (%v)", err, err)
	}
	if perr.Kind != provider.KindChainNotSupportedByProvider {
		t.Errorf("Kind = %v, want %v", perr.Kind, provider.KindChainNotSupportedByProvider)
	}
}

func TestBlockscoutDropsUnsupportedMethods(t *testing.T) {
	adapter, err := New(ethereumChain(t), "", provider.Deps{HTTP: &fakeHTTP{}, Retry: passthroughRetry{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if adapter.Supports(provider.BlockReward) {
		t.Error("expected Supports(BlockReward) to be false")
	}
	if adapter.Supports(provider.EthSupply) {
		t.Error("expected Supports(EthSupply) to be false")
	}
	if !adapter.Supports(provider.AccountBalance) {
		t.Error("expected Supports(AccountBalance) to be true")
	}

	_, err = adapter.Call(context.Background(), provider.BlockReward, nil)
	perr, ok := err.(*provider.Error)
	if !ok {
		t.Fatalf("expected *provider.Error, got %T (%v)", err, err)
	}
	if perr.Kind != provider.KindMethodNotSupported {
		t.Errorf("Kind = %v, want %v", perr.Kind, provider.KindMethodNotSupported)
	}
}

func TestBlockscoutOptionalAPIKey(t *testing.T) {
	http := &fakeHTTP{status: 200, body: []byte(`{"status":"1","message":"OK","result":"123"}`)}
	adapter, err := New(ethereumChain(t), "OPTIONALKEY", provider.Deps{HTTP: http, Retry: passthroughRetry{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := adapter.Call(context.Background(), provider.AccountBalance, map[string]string{"address": "0xabc"}); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !strings.Contains(http.lastURL, "apikey=OPTIONALKEY") {
		t.Errorf("URL = %q, want to contain apikey=OPTIONALKEY", http.lastURL)
	}
}
