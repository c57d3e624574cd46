package client

import (
	"context"
	"testing"
	"time"

	"github.com/certen/evmscan/chainregistry"
	"github.com/certen/evmscan/infra"
	"github.com/certen/evmscan/provider"

	_ "github.com/certen/evmscan/provider/etherscan"
)

type fakeHTTP struct {
	status int
	body   []byte
	calls  int
}

func (f *fakeHTTP) Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (int, []byte, error) {
	f.calls++
	return f.status, f.body, nil
}

type passthroughRetry struct{}

func (passthroughRetry) Execute(ctx context.Context, op func(ctx context.Context) (int, []byte, error)) (int, []byte, error) {
	return op(ctx)
}

type noopRateLimiter struct{}

func (noopRateLimiter) Acquire(ctx context.Context) error { return ctx.Err() }

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(ctx context.Context, key string) ([]byte, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	m.data[key] = value
}

func TestClientCallHappyPath(t *testing.T) {
	http := &fakeHTTP{status: 200, body: []byte(`{"status":"1","message":"OK","result":"123"}`)}
	c, err := New(Config{
		ProviderName:    "etherscan",
		ProviderVersion: "v2",
		Chain:           chainregistry.ByName("ethereum"),
		APIKey:          "KEY",
		Ports: infra.Ports{
			HTTP:        http,
			Retry:       passthroughRetry{},
			RateLimiter: noopRateLimiter{},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := c.Call(context.Background(), provider.AccountBalance, map[string]string{"address": "0xabc"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result != "123" {
		t.Errorf("result = %v, want %q", result, "123")
	}
}

func TestClientCallCachesSecondRequest(t *testing.T) {
	http := &fakeHTTP{status: 200, body: []byte(`{"status":"1","message":"OK","result":["0x1"]}`)}
	cache := newMemCache()
	c, err := New(Config{
		ProviderName:    "etherscan",
		ProviderVersion: "v2",
		Chain:           chainregistry.ByName("ethereum"),
		APIKey:          "KEY",
		Ports: infra.Ports{
			HTTP:        http,
			Retry:       passthroughRetry{},
			RateLimiter: noopRateLimiter{},
			Cache:       cache,
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	params := map[string]string{"address": "0xabc", "startblock": "0", "endblock": "100"}
	if _, err := c.Call(context.Background(), provider.AccountTransactions, params); err != nil {
		t.Fatalf("first Call: %v", err)
	}
	if _, err := c.Call(context.Background(), provider.AccountTransactions, params); err != nil {
		t.Fatalf("second Call: %v", err)
	}

	if http.calls != 1 {
		t.Errorf("http.calls = %d, want 1 (second call should be served from cache)", http.calls)
	}
}

func TestClientUnknownChain(t *testing.T) {
	_, err := New(Config{
		ProviderName:    "etherscan",
		ProviderVersion: "v2",
		Chain:           chainregistry.ByName("not-a-real-chain"),
		Ports:           infra.Ports{HTTP: &fakeHTTP{}, Retry: passthroughRetry{}},
	})
	perr, ok := err.(*provider.Error)
	if !ok {
		t.Fatalf("expected *provider.Error, got %T (%v)", err, err)
	}
	if perr.Kind != provider.KindUnknownChain {
		t.Errorf("Kind = %v, want %v", perr.Kind, provider.KindUnknownChain)
	}
}

func TestClientUnknownProvider(t *testing.T) {
	_, err := New(Config{
		ProviderName:    "does-not-exist",
		ProviderVersion: "v1",
		Chain:           chainregistry.ByName("ethereum"),
		Ports:           infra.Ports{HTTP: &fakeHTTP{}, Retry: passthroughRetry{}},
	})
	perr, ok := err.(*provider.Error)
	if !ok {
		t.Fatalf("expected *provider.Error, got %T (%v)", err, err)
	}
	if perr.Kind != provider.KindUnknownProvider {
		t.Errorf("Kind = %v, want %v", perr.Kind, provider.KindUnknownProvider)
	}
}

func TestCacheKeyStableAcrossParamOrder(t *testing.T) {
	k1 := CacheKey("etherscan", "v2", 1, provider.AccountBalance, map[string]string{"a": "1", "b": "2"})
	k2 := CacheKey("etherscan", "v2", 1, provider.AccountBalance, map[string]string{"b": "2", "a": "1"})
	if k1 != k2 {
		t.Errorf("CacheKey not stable across param order: %q != %q", k1, k2)
	}
}
