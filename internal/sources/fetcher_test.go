package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
	"github.com/bedrijfslens/kvk-intel-api/internal/logger"
	"github.com/bedrijfslens/kvk-intel-api/internal/models"
	"github.com/bedrijfslens/kvk-intel-api/internal/ratelimit"
)

// flakyStore fails every key-value operation but keeps the sorted-set
// operations working, like a store with a corrupted keyspace.
type flakyStore struct {
	cache.Store
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("store kapot")
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("store kapot")
}

func TestFetchStoreOutageDegradesToUncached(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	inner := cache.NewMemoryStore()
	store := &flakyStore{Store: inner}
	fetcher := NewFetcher(store, ratelimit.New(inner, logger.Nop()), logger.Nop())
	client := NewRegistryClient(fetcher, NewHTTPClient(time.Second), server.URL, "")

	req := &models.IntelRequest{Query: "acme", Type: models.QueryByName}

	for i := 0; i < 2; i++ {
		results, fromCache, err := client.Search(context.Background(), req)
		if err != nil {
			t.Fatalf("Store outage must not fail the lookup: %v", err)
		}
		if fromCache {
			t.Error("Nothing can be served from a broken store")
		}
		if len(results) != 1 {
			t.Errorf("Expected 1 result, got %d", len(results))
		}
	}

	// Every lookup goes upstream while the store is down
	if requests != 2 {
		t.Errorf("Expected 2 upstream requests, got %d", requests)
	}
}
