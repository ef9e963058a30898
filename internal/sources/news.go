package sources

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
	"github.com/bedrijfslens/kvk-intel-api/internal/models"
)

// NewsClient queries a news aggregation API for recent articles
type NewsClient struct {
	fetcher *Fetcher
	http    *HTTPClient
	baseURL string
}

// NewNewsClient creates a news client
func NewNewsClient(fetcher *Fetcher, httpClient *HTTPClient, baseURL string) *NewsClient {
	return &NewsClient{fetcher: fetcher, http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

type newsResponse struct {
	Artikelen []rawArticle `json:"artikelen"`
}

type rawArticle struct {
	Titel        string `json:"titel"`
	URL          string `json:"url"`
	Bron         string `json:"bron"`
	Gepubliceerd string `json:"gepubliceerd"`
}

// Recent returns recent news article references for a company name
func (c *NewsClient) Recent(ctx context.Context, naam string) (*models.NewsInfo, bool, error) {
	return fetchTyped[models.NewsInfo](ctx, c.fetcher, cache.CategoryNews, naam, SourceNews,
		func(ctx context.Context) (*models.NewsInfo, bool, error) {
			return c.lookup(ctx, naam)
		})
}

func (c *NewsClient) lookup(ctx context.Context, naam string) (*models.NewsInfo, bool, error) {
	params := url.Values{}
	params.Set("q", naam)

	var raw newsResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/artikelen?"+params.Encode(), nil, &raw)
	if errors.Is(err, ErrUpstreamNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(raw.Artikelen) == 0 {
		return nil, false, nil
	}

	info := &models.NewsInfo{Artikelen: make([]models.NewsArticle, 0, len(raw.Artikelen))}
	for _, article := range raw.Artikelen {
		info.Artikelen = append(info.Artikelen, models.NewsArticle{
			Titel:        article.Titel,
			URL:          article.URL,
			Bron:         article.Bron,
			Gepubliceerd: article.Gepubliceerd,
		})
	}
	return info, true, nil
}
