package sources

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
	"github.com/bedrijfslens/kvk-intel-api/internal/models"
)

// ReviewsClient queries an aggregated review API
type ReviewsClient struct {
	fetcher *Fetcher
	http    *HTTPClient
	baseURL string
}

// NewReviewsClient creates a reviews client
func NewReviewsClient(fetcher *Fetcher, httpClient *HTTPClient, baseURL string) *ReviewsClient {
	return &ReviewsClient{fetcher: fetcher, http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

type reviewsResponse struct {
	GemiddeldeScore float64  `json:"gemiddeldeScore"`
	AantalReviews   int      `json:"aantalReviews"`
	Platformen      []string `json:"platformen"`
}

// Summary returns the aggregated review summary for a company. No reviews
// means no sub-record: absent, never fabricated.
func (c *ReviewsClient) Summary(ctx context.Context, naam, plaats string) (*models.ReviewSummary, bool, error) {
	identifier := strings.TrimSpace(naam + " " + plaats)

	return fetchTyped[models.ReviewSummary](ctx, c.fetcher, cache.CategoryReviews, identifier, SourceReviews,
		func(ctx context.Context) (*models.ReviewSummary, bool, error) {
			params := url.Values{}
			params.Set("naam", naam)
			if plaats != "" {
				params.Set("plaats", plaats)
			}

			var raw reviewsResponse
			err := c.http.GetJSON(ctx, c.baseURL+"/samenvatting?"+params.Encode(), nil, &raw)
			if errors.Is(err, ErrUpstreamNotFound) {
				return nil, false, nil
			}
			if err != nil {
				return nil, false, err
			}
			if raw.AantalReviews == 0 {
				return nil, false, nil
			}

			return &models.ReviewSummary{
				GemiddeldeScore: raw.GemiddeldeScore,
				AantalReviews:   raw.AantalReviews,
				Platformen:      raw.Platformen,
			}, true, nil
		})
}
