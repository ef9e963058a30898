package sources

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
	"github.com/bedrijfslens/kvk-intel-api/internal/models"
)

// InsolvencyClient queries the public insolvency register
type InsolvencyClient struct {
	fetcher *Fetcher
	http    *HTTPClient
	baseURL string
}

// NewInsolvencyClient creates an insolvency register client
func NewInsolvencyClient(fetcher *Fetcher, httpClient *HTTPClient, baseURL string) *InsolvencyClient {
	return &InsolvencyClient{fetcher: fetcher, http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

type insolvencyResponse struct {
	Publicaties []insolvencyPublication `json:"publicaties"`
}

type insolvencyPublication struct {
	Soort      string `json:"soort"`
	Rechtbank  string `json:"rechtbank"`
	Zaaknummer string `json:"zaaknummer"`
	Datum      string `json:"datum"`
	Curator    string `json:"curator"`
}

// insolvencyRecords is the normalized, cacheable result
type insolvencyRecords struct {
	Zaken []models.InsolvencyCase `json:"zaken"`
}

// Cases returns insolvency records for a registration number. A company
// without records yields an empty slice, which is the normal outcome.
func (c *InsolvencyClient) Cases(ctx context.Context, kvkNummer string) ([]models.InsolvencyCase, bool, error) {
	records, fromCache, err := fetchTyped[insolvencyRecords](ctx, c.fetcher, cache.CategoryInsolvency, kvkNummer, SourceInsolvency,
		func(ctx context.Context) (*insolvencyRecords, bool, error) {
			return c.lookup(ctx, kvkNummer)
		})
	if err != nil {
		return nil, fromCache, err
	}
	if records == nil {
		return []models.InsolvencyCase{}, fromCache, nil
	}
	return records.Zaken, fromCache, nil
}

func (c *InsolvencyClient) lookup(ctx context.Context, kvkNummer string) (*insolvencyRecords, bool, error) {
	params := url.Values{}
	params.Set("kvknummer", kvkNummer)

	var raw insolvencyResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/publicaties?"+params.Encode(), nil, &raw)
	if errors.Is(err, ErrUpstreamNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(raw.Publicaties) == 0 {
		return nil, false, nil
	}

	records := &insolvencyRecords{Zaken: make([]models.InsolvencyCase, 0, len(raw.Publicaties))}
	for _, publication := range raw.Publicaties {
		records.Zaken = append(records.Zaken, models.InsolvencyCase{
			Type:       normalizeCaseType(publication.Soort),
			Rechtbank:  publication.Rechtbank,
			Zaaknummer: publication.Zaaknummer,
			Datum:      publication.Datum,
			Curator:    publication.Curator,
		})
	}
	return records, true, nil
}

func normalizeCaseType(soort string) string {
	switch strings.ToLower(soort) {
	case "faillissement", "bankruptcy":
		return "faillissement"
	case "surseance", "surseance van betaling":
		return "surseance"
	case "ontbinding", "dissolution":
		return "ontbinding"
	default:
		return strings.ToLower(soort)
	}
}
