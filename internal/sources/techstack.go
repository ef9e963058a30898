package sources

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
	"github.com/bedrijfslens/kvk-intel-api/internal/models"
)

// TechStackClient fingerprints the technology behind a company website by
// inspecting its homepage HTML.
type TechStackClient struct {
	fetcher *Fetcher
	http    *HTTPClient
}

// NewTechStackClient creates a tech-stack fingerprint client
func NewTechStackClient(fetcher *Fetcher, httpClient *HTTPClient) *TechStackClient {
	return &TechStackClient{fetcher: fetcher, http: httpClient}
}

// fingerprint rules: substring of a script/link URL or generator tag,
// mapped to category and technology name.
var fingerprintRules = []struct {
	Needle   string
	Category string
	Name     string
}{
	{"wp-content", "cms", "WordPress"},
	{"wp-includes", "cms", "WordPress"},
	{"cdn.shopify.com", "cms", "Shopify"},
	{"/sites/default/files", "cms", "Drupal"},
	{"/_next/", "frameworks", "Next.js"},
	{"react", "frameworks", "React"},
	{"vue", "frameworks", "Vue.js"},
	{"angular", "frameworks", "Angular"},
	{"jquery", "frameworks", "jQuery"},
	{"bootstrap", "frameworks", "Bootstrap"},
	{"googletagmanager.com", "analytics", "Google Tag Manager"},
	{"google-analytics.com", "analytics", "Google Analytics"},
	{"gtag/js", "analytics", "Google Analytics"},
	{"hotjar", "analytics", "Hotjar"},
	{"matomo", "analytics", "Matomo"},
	{"mollie.com", "payments", "Mollie"},
	{"js.stripe.com", "payments", "Stripe"},
	{"paypal.com", "payments", "PayPal"},
	{"cloudflare", "hosting", "Cloudflare"},
	{"cloudfront.net", "hosting", "Amazon CloudFront"},
	{"azureedge.net", "hosting", "Microsoft Azure"},
}

// Fingerprint returns the categorized technology fingerprint of a website
func (c *TechStackClient) Fingerprint(ctx context.Context, websiteURL string) (*models.TechStack, bool, error) {
	return fetchTyped[models.TechStack](ctx, c.fetcher, cache.CategoryTechStack, websiteURL, SourceTechStack,
		func(ctx context.Context) (*models.TechStack, bool, error) {
			doc, err := c.http.GetDocument(ctx, websiteURL)
			if errors.Is(err, ErrUpstreamNotFound) {
				return nil, false, nil
			}
			if err != nil {
				return nil, false, err
			}
			stack := detectTechnologies(doc)
			if stack.TotaalGevonden == 0 {
				return nil, false, nil
			}
			return stack, true, nil
		})
}

func detectTechnologies(doc *goquery.Document) *models.TechStack {
	stack := &models.TechStack{Categorieen: make(map[string][]string)}
	seen := make(map[string]bool)

	record := func(category, name string) {
		if seen[category+"/"+name] {
			return
		}
		seen[category+"/"+name] = true
		stack.Categorieen[category] = append(stack.Categorieen[category], name)
		stack.TotaalGevonden++
	}

	// Explicit generator tags are the strongest CMS signal
	if generator, ok := doc.Find(`meta[name="generator"]`).Attr("content"); ok {
		record("cms", strings.TrimSpace(strings.SplitN(generator, " ", 2)[0]))
	}

	var references []string
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			references = append(references, strings.ToLower(src))
		}
	})
	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			references = append(references, strings.ToLower(href))
		}
	})

	for _, reference := range references {
		for _, rule := range fingerprintRules {
			if strings.Contains(reference, rule.Needle) {
				record(rule.Category, rule.Name)
			}
		}
	}

	return stack
}
