package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bedrijfslens/kvk-intel-api/internal/apperrors"
	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
	"github.com/bedrijfslens/kvk-intel-api/internal/logger"
	"github.com/bedrijfslens/kvk-intel-api/internal/models"
	"github.com/bedrijfslens/kvk-intel-api/internal/ratelimit"
)

func newTestFetcher() (*Fetcher, cache.Store, *ratelimit.Limiter) {
	store := cache.NewMemoryStore()
	limiter := ratelimit.New(store, logger.Nop())
	return NewFetcher(store, limiter, logger.Nop()), store, limiter
}

const searchPayload = `{
	"resultaten": [
		{
			"kvknummer": "69599084",
			"naam": "Acme Widgets BV",
			"rechtsvorm": "Besloten Vennootschap",
			"straat": "Keizersgracht",
			"huisnummer": "12",
			"postcode": "1015CN",
			"plaats": "Amsterdam",
			"actief": true,
			"sbi": [{"code": "6201", "omschrijving": "Softwareontwikkeling", "hoofdactiviteit": true}]
		},
		{
			"kvknummer": "12345678",
			"naam": "Acme Oud BV",
			"plaats": "Amsterdam",
			"actief": false
		}
	],
	"totaal": 2
}`

func TestSearchServesFromCache(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	fetcher, _, _ := newTestFetcher()
	client := NewRegistryClient(fetcher, NewHTTPClient(time.Second), server.URL, "")

	req := &models.IntelRequest{Query: "acme", Type: models.QueryByName}

	results, fromCache, err := client.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if fromCache {
		t.Error("First lookup should not come from cache")
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 active result, got %d", len(results))
	}
	if results[0].KvkNummer != "69599084" {
		t.Errorf("Unexpected kvkNummer %s", results[0].KvkNummer)
	}
	if results[0].Hoofdactiviteit != "Softwareontwikkeling" {
		t.Errorf("Unexpected hoofdactiviteit %s", results[0].Hoofdactiviteit)
	}

	_, fromCache, err = client.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Second search failed: %v", err)
	}
	if !fromCache {
		t.Error("Second lookup should come from cache")
	}
	if requests != 1 {
		t.Errorf("Expected 1 upstream request, got %d", requests)
	}
}

func TestSearchInactiveFilterSharesCacheEntry(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	fetcher, _, _ := newTestFetcher()
	client := NewRegistryClient(fetcher, NewHTTPClient(time.Second), server.URL, "")

	active, _, err := client.Search(context.Background(), &models.IntelRequest{Query: "acme", Type: models.QueryByName})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("Expected inactive companies to be filtered, got %d results", len(active))
	}

	all, fromCache, err := client.Search(context.Background(), &models.IntelRequest{
		Query: "acme", Type: models.QueryByName, InclusiefInactief: true,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 results including inactive, got %d", len(all))
	}
	if !fromCache || requests != 1 {
		t.Errorf("Both filter settings should share one cache entry, got fromCache=%v requests=%d", fromCache, requests)
	}
}

func TestSearchNoResultsIsNegativeCached(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"resultaten": [], "totaal": 0}`))
	}))
	defer server.Close()

	fetcher, _, _ := newTestFetcher()
	client := NewRegistryClient(fetcher, NewHTTPClient(time.Second), server.URL, "")

	req := &models.IntelRequest{Query: "bestaatniet", Type: models.QueryByName}

	results, _, err := client.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected zero results to be a success, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected empty result set, got %d", len(results))
	}

	results, fromCache, err := client.Search(context.Background(), req)
	if err != nil || len(results) != 0 {
		t.Fatalf("Second lookup failed: %v", err)
	}
	if !fromCache {
		t.Error("Second lookup should hit the negative cache")
	}
	if requests != 1 {
		t.Errorf("Expected the negative cache to absorb the second request, got %d requests", requests)
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher, _, _ := newTestFetcher()
	client := NewRegistryClient(fetcher, NewHTTPClient(time.Second), server.URL, "")

	_, _, err := client.Search(context.Background(), &models.IntelRequest{Query: "acme", Type: models.QueryByName})
	if err == nil {
		t.Fatal("Expected error for upstream failure")
	}
	if apperrors.CodeOf(err) != apperrors.ErrCodeSource {
		t.Errorf("Expected SOURCE_ERROR, got %s", apperrors.CodeOf(err))
	}
}

func TestSearchRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	fetcher, _, limiter := newTestFetcher()
	client := NewRegistryClient(fetcher, NewHTTPClient(time.Second), server.URL, "")

	// Exhaust the registry budget before the lookup
	budget := ratelimit.LimitFor(SourceRegistry)
	for i := 0; i < budget.MaxRequests; i++ {
		limiter.CheckAndReserve(context.Background(), SourceRegistry, budget)
	}

	_, _, err := client.Search(context.Background(), &models.IntelRequest{Query: "acme", Type: models.QueryByName})
	if apperrors.CodeOf(err) != apperrors.ErrCodeRateLimited {
		t.Fatalf("Expected RATE_LIMITED, got %v", err)
	}
	appErr, _ := apperrors.As(err)
	if appErr.RetryAfter < 1 {
		t.Errorf("Expected a retry hint of at least 1s, got %d", appErr.RetryAfter)
	}
}

func TestProfileNormalization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profiel/69599084" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{
			"kvknummer": "69599084",
			"naam": "Acme Widgets BV",
			"rechtsvorm": "Besloten Vennootschap",
			"oprichtingsdatum": "2017-08-14",
			"werknemers": 25,
			"straat": "Keizersgracht",
			"huisnummer": "12",
			"postcode": "1015CN",
			"plaats": "Amsterdam",
			"actief": true,
			"sbi": [{"code": "0113", "omschrijving": "Teelt van groenten", "hoofdactiviteit": true}]
		}`))
	}))
	defer server.Close()

	fetcher, _, _ := newTestFetcher()
	client := NewRegistryClient(fetcher, NewHTTPClient(time.Second), server.URL, "")

	profile, _, err := client.Profile(context.Background(), "69599084")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profile == nil {
		t.Fatal("Expected a profile")
	}
	if profile.Registry.WerknemersKlasse != "10-49" {
		t.Errorf("Expected bucket 10-49, got %s", profile.Registry.WerknemersKlasse)
	}
	// Leading zeros in SBI codes are significant
	if profile.Registry.SbiCodes[0].Code != "0113" {
		t.Errorf("Expected verbatim SBI code 0113, got %s", profile.Registry.SbiCodes[0].Code)
	}
	if profile.Adres.Plaats != "Amsterdam" {
		t.Errorf("Unexpected plaats %s", profile.Adres.Plaats)
	}
}

func TestProfileNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher, _, _ := newTestFetcher()
	client := NewRegistryClient(fetcher, NewHTTPClient(time.Second), server.URL, "")

	profile, _, err := client.Profile(context.Background(), "00000000")
	if err != nil {
		t.Fatalf("Not-found should not be an error, got %v", err)
	}
	if profile != nil {
		t.Error("Expected nil profile for not-found")
	}
}
