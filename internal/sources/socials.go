package sources

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
	"github.com/bedrijfslens/kvk-intel-api/internal/models"
)

// SocialsClient extracts social profiles and contact details from a
// company's homepage.
type SocialsClient struct {
	fetcher *Fetcher
	http    *HTTPClient
}

// NewSocialsClient creates a social profile extraction client
func NewSocialsClient(fetcher *Fetcher, httpClient *HTTPClient) *SocialsClient {
	return &SocialsClient{fetcher: fetcher, http: httpClient}
}

var socialPlatforms = map[string]string{
	"linkedin.com":  "linkedin",
	"facebook.com":  "facebook",
	"instagram.com": "instagram",
	"twitter.com":   "twitter",
	"x.com":         "twitter",
	"youtube.com":   "youtube",
	"tiktok.com":    "tiktok",
}

// Extract returns the social profiles and contact details found on the
// website. The returned OnlinePresence never has Website set; the caller
// owns that field.
func (c *SocialsClient) Extract(ctx context.Context, websiteURL string) (*models.OnlinePresence, bool, error) {
	return fetchTyped[models.OnlinePresence](ctx, c.fetcher, cache.CategorySocials, websiteURL, SourceSocials,
		func(ctx context.Context) (*models.OnlinePresence, bool, error) {
			doc, err := c.http.GetDocument(ctx, websiteURL)
			if errors.Is(err, ErrUpstreamNotFound) {
				return nil, false, nil
			}
			if err != nil {
				return nil, false, err
			}
			presence := extractPresence(doc)
			if presence.Email == "" && presence.Telefoon == "" && len(presence.Socials) == 0 {
				return nil, false, nil
			}
			return presence, true, nil
		})
}

func extractPresence(doc *goquery.Document) *models.OnlinePresence {
	presence := &models.OnlinePresence{Socials: make(map[string]string)}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		lower := strings.ToLower(href)
		switch {
		case strings.HasPrefix(lower, "mailto:"):
			if presence.Email == "" {
				presence.Email = strings.SplitN(strings.TrimPrefix(href, "mailto:"), "?", 2)[0]
			}
		case strings.HasPrefix(lower, "tel:"):
			if presence.Telefoon == "" {
				presence.Telefoon = strings.TrimPrefix(href, "tel:")
			}
		default:
			for domain, platform := range socialPlatforms {
				if strings.Contains(lower, domain) && presence.Socials[platform] == "" {
					presence.Socials[platform] = href
				}
			}
		}
	})

	if len(presence.Socials) == 0 {
		presence.Socials = nil
	}
	return presence
}
