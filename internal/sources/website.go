package sources

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
)

// WebsiteClient discovers a company's website via a public search API
type WebsiteClient struct {
	fetcher *Fetcher
	http    *HTTPClient
	baseURL string
}

// NewWebsiteClient creates a website discovery client
func NewWebsiteClient(fetcher *Fetcher, httpClient *HTTPClient, baseURL string) *WebsiteClient {
	return &WebsiteClient{fetcher: fetcher, http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

type discoveryResponse struct {
	Resultaten []discoveryHit `json:"resultaten"`
}

type discoveryHit struct {
	URL   string `json:"url"`
	Titel string `json:"titel"`
}

type websiteDiscovery struct {
	URL string `json:"url"`
}

// Domains that show up in search results but are never the company's own site
var excludedDomains = []string{
	"facebook.com", "linkedin.com", "instagram.com", "twitter.com", "x.com",
	"kvk.nl", "youtube.com", "wikipedia.org", "marktplaats.nl",
}

// Discover returns the most plausible website URL for a company, or an
// empty string when discovery found nothing usable.
func (c *WebsiteClient) Discover(ctx context.Context, naam, plaats string) (string, bool, error) {
	identifier := strings.TrimSpace(naam + " " + plaats)

	discovery, fromCache, err := fetchTyped[websiteDiscovery](ctx, c.fetcher, cache.CategoryWebsite, identifier, SourceWebsite,
		func(ctx context.Context) (*websiteDiscovery, bool, error) {
			return c.lookup(ctx, identifier)
		})
	if err != nil {
		return "", fromCache, err
	}
	if discovery == nil {
		return "", fromCache, nil
	}
	return discovery.URL, fromCache, nil
}

func (c *WebsiteClient) lookup(ctx context.Context, query string) (*websiteDiscovery, bool, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")

	var raw discoveryResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/?"+params.Encode(), nil, &raw)
	if errors.Is(err, ErrUpstreamNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	for _, hit := range raw.Resultaten {
		if plausibleCompanySite(hit.URL) {
			return &websiteDiscovery{URL: hit.URL}, true, nil
		}
	}
	return nil, false, nil
}

func plausibleCompanySite(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := strings.ToLower(strings.TrimPrefix(parsed.Host, "www."))
	for _, excluded := range excludedDomains {
		if host == excluded || strings.HasSuffix(host, "."+excluded) {
			return false
		}
	}
	return true
}
