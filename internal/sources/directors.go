package sources

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
	"github.com/bedrijfslens/kvk-intel-api/internal/models"
)

// DirectorsClient discovers directors via the relations source. Many free
// sources cannot supply directors at all; a missing record is an empty
// result, not an error.
type DirectorsClient struct {
	fetcher *Fetcher
	http    *HTTPClient
	baseURL string
	apiKey  string
}

// NewDirectorsClient creates a directors client
func NewDirectorsClient(fetcher *Fetcher, httpClient *HTTPClient, baseURL, apiKey string) *DirectorsClient {
	return &DirectorsClient{
		fetcher: fetcher,
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type directorsResponse struct {
	Bestuurders []rawDirector `json:"bestuurders"`
}

type rawDirector struct {
	Naam        string `json:"naam"`
	Functie     string `json:"functie"`
	Soort       string `json:"soort"`
	Aangetreden string `json:"aangetreden"`
}

// Directors returns the ordered list of directors for a registration number
func (c *DirectorsClient) Directors(ctx context.Context, kvkNummer string) (*models.DirectorInfo, bool, error) {
	return fetchTyped[models.DirectorInfo](ctx, c.fetcher, cache.CategoryDirectors, kvkNummer, SourceDirectors,
		func(ctx context.Context) (*models.DirectorInfo, bool, error) {
			return c.lookup(ctx, kvkNummer)
		})
}

func (c *DirectorsClient) lookup(ctx context.Context, kvkNummer string) (*models.DirectorInfo, bool, error) {
	var raw directorsResponse
	endpoint := fmt.Sprintf("%s/bestuurders/%s", c.baseURL, url.PathEscape(kvkNummer))
	err := c.http.GetJSON(ctx, endpoint, c.headers(), &raw)
	if errors.Is(err, ErrUpstreamNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(raw.Bestuurders) == 0 {
		return nil, false, nil
	}

	info := &models.DirectorInfo{Bestuurders: make([]models.Director, 0, len(raw.Bestuurders))}
	for _, director := range raw.Bestuurders {
		info.Bestuurders = append(info.Bestuurders, models.Director{
			Naam:          director.Naam,
			Functie:       director.Functie,
			Type:          normalizeDirectorType(director.Soort),
			AangetredenOp: director.Aangetreden,
		})
	}
	return info, true, nil
}

func normalizeDirectorType(soort string) string {
	switch strings.ToLower(soort) {
	case "rechtspersoon", "legal":
		return "rechtspersoon"
	default:
		return "natuurlijk"
	}
}

func (c *DirectorsClient) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"ovio-api-key": c.apiKey}
}
