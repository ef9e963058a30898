package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
	"github.com/bedrijfslens/kvk-intel-api/internal/logger"
	"github.com/bedrijfslens/kvk-intel-api/internal/models"
	"github.com/bedrijfslens/kvk-intel-api/internal/ratelimit"
	"github.com/bedrijfslens/kvk-intel-api/internal/sources"
)

// TestRunRepeatedRequestIsIdentical runs the same full-profile request twice
// against real source clients, a shared memory store and live httptest
// upstreams. The second run must produce a profile identical to the first
// except for meta timing, and must be served entirely from cache.
func TestRunRepeatedRequestIsIdentical(t *testing.T) {
	mux := http.NewServeMux()
	var siteURL string

	mux.HandleFunc("/zoeken", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resultaten":[{"kvknummer":"69599084","naam":"Acme Widgets BV","straat":"Keizersgracht","huisnummer":"12","postcode":"1015CX","plaats":"Amsterdam","actief":true,"sbi":[{"code":"6201","omschrijving":"Softwareontwikkeling","hoofdactiviteit":true}]}],"totaal":1}`))
	})
	mux.HandleFunc("/profiel/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"kvknummer":"69599084","naam":"Acme Widgets BV","handelsnamen":["Acme"],"rechtsvorm":"Besloten Vennootschap","oprichtingsdatum":"2017-08-14","werknemers":25,"straat":"Keizersgracht","huisnummer":"12","postcode":"1015CX","plaats":"Amsterdam","actief":true,"sbi":[{"code":"6201","omschrijving":"Softwareontwikkeling","hoofdactiviteit":true}]}`))
	})
	mux.HandleFunc("/publicaties", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"publicaties":[{"soort":"faillissement","rechtbank":"Amsterdam","zaaknummer":"F.13/24/100","datum":"2024-03-01"}]}`))
	})
	mux.HandleFunc("/bekendmakingen", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bekendmakingen":[{"datum":"2024-04-01","soort":"registratie","omschrijving":"Statutenwijziging","publicatie":"Staatscourant"}]}`))
	})
	mux.HandleFunc("/bestuurders/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bestuurders":[{"naam":"J. Jansen","functie":"directeur","soort":"natuurlijk","aangetreden":"2017-08-14"}]}`))
	})
	mux.HandleFunc("/relaties/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"moeder":{"kvknummer":"11111111","naam":"Acme Holding BV","methode":"register"}}`))
	})
	mux.HandleFunc("/discover/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"resultaten":[{"url":%q,"titel":"Acme Widgets"}]}`, siteURL)
	})
	mux.HandleFunc("/site", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><meta name="generator" content="WordPress 6.4">
<script src="/wp-content/themes/acme/app.js"></script></head>
<body><a href="mailto:info@acme.nl">mail</a>
<a href="https://www.linkedin.com/company/acme">in</a></body></html>`))
	})
	mux.HandleFunc("/artikelen", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"artikelen":[{"titel":"Acme groeit door","url":"https://nieuws.example/acme","bron":"FD","gepubliceerd":"2026-05-01"}]}`))
	})
	mux.HandleFunc("/samenvatting", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"gemiddeldeScore":4.4,"aantalReviews":12,"platformen":["google"]}`))
	})

	var mu sync.Mutex
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	defer server.Close()
	siteURL = server.URL + "/site"

	store := cache.NewMemoryStore()
	limiter := ratelimit.New(store, logger.Nop())
	fetcher := sources.NewFetcher(store, limiter, logger.Nop())
	httpClient := sources.NewHTTPClient(2 * time.Second)
	defer httpClient.Close()

	orchestrator := NewOrchestrator(Deps{
		Registry:      sources.NewRegistryClient(fetcher, httpClient, server.URL, ""),
		Insolvency:    sources.NewInsolvencyClient(fetcher, httpClient, server.URL),
		Announcements: sources.NewAnnouncementsClient(fetcher, httpClient, server.URL),
		Directors:     sources.NewDirectorsClient(fetcher, httpClient, server.URL, ""),
		Relations:     sources.NewRelationsClient(fetcher, httpClient, server.URL, ""),
		Website:       sources.NewWebsiteClient(fetcher, httpClient, server.URL+"/discover"),
		TechStack:     sources.NewTechStackClient(fetcher, httpClient),
		Socials:       sources.NewSocialsClient(fetcher, httpClient),
		News:          sources.NewNewsClient(fetcher, httpClient, server.URL),
		Reviews:       sources.NewReviewsClient(fetcher, httpClient, server.URL),
		Logger:        logger.Nop(),
	})

	req := &models.IntelRequest{
		Query:          "acme",
		Type:           models.QueryByName,
		Plaats:         "Amsterdam",
		GetFullProfile: true,
		Include:        models.IncludeFlags{Directors: true, Relations: true, LegalStatus: true, Financial: true},
		Enrichments:    models.EnrichmentFlags{Website: true, Socials: true, TechStack: true, News: true, Reviews: true},
	}

	first, err := orchestrator.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if first.Profile == nil {
		t.Fatal("Expected a profile outcome")
	}
	if len(first.Profile.Meta.Errors) != 0 {
		t.Fatalf("Expected a clean first run, got errors %v", first.Profile.Meta.Errors)
	}

	mu.Lock()
	upstreamAfterFirst := requests
	mu.Unlock()

	second, err := orchestrator.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if second.Profile == nil {
		t.Fatal("Expected a profile outcome")
	}

	if !reflect.DeepEqual(first.Profile.Meta.Bronnen, second.Profile.Meta.Bronnen) {
		t.Errorf("Attribution must be stable across runs: %v vs %v",
			first.Profile.Meta.Bronnen, second.Profile.Meta.Bronnen)
	}

	a := *first.Profile
	b := *second.Profile
	a.Meta = models.Meta{}
	b.Meta = models.Meta{}
	firstJSON, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	secondJSON, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(firstJSON) != string(secondJSON) {
		t.Errorf("Profiles differ outside meta timing:\n%s\n%s", firstJSON, secondJSON)
	}

	// The second run must not reach any upstream
	mu.Lock()
	upstreamAfterSecond := requests
	mu.Unlock()
	if upstreamAfterSecond != upstreamAfterFirst {
		t.Errorf("Expected the second run to be fully cached, got %d extra upstream requests",
			upstreamAfterSecond-upstreamAfterFirst)
	}
}
