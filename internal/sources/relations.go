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

// RelationsClient discovers parent, subsidiary and related companies. Each
// relation carries its discovery method so callers can judge confidence.
type RelationsClient struct {
	fetcher *Fetcher
	http    *HTTPClient
	baseURL string
	apiKey  string
}

// NewRelationsClient creates a relations client
func NewRelationsClient(fetcher *Fetcher, httpClient *HTTPClient, baseURL, apiKey string) *RelationsClient {
	return &RelationsClient{
		fetcher: fetcher,
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type relationsResponse struct {
	Moeder      *rawRelation  `json:"moeder"`
	Dochters    []rawRelation `json:"dochters"`
	Gerelateerd []rawRelation `json:"gerelateerd"`
}

type rawRelation struct {
	KvkNummer string `json:"kvknummer"`
	Naam      string `json:"naam"`
	Methode   string `json:"methode"`
}

// Relations returns the discovered company relations for a registration number
func (c *RelationsClient) Relations(ctx context.Context, kvkNummer string) (*models.RelationInfo, bool, error) {
	return fetchTyped[models.RelationInfo](ctx, c.fetcher, cache.CategoryRelations, kvkNummer, SourceRelations,
		func(ctx context.Context) (*models.RelationInfo, bool, error) {
			return c.lookup(ctx, kvkNummer)
		})
}

func (c *RelationsClient) lookup(ctx context.Context, kvkNummer string) (*models.RelationInfo, bool, error) {
	var raw relationsResponse
	endpoint := fmt.Sprintf("%s/relaties/%s", c.baseURL, url.PathEscape(kvkNummer))
	err := c.http.GetJSON(ctx, endpoint, c.headers(), &raw)
	if errors.Is(err, ErrUpstreamNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if raw.Moeder == nil && len(raw.Dochters) == 0 && len(raw.Gerelateerd) == 0 {
		return nil, false, nil
	}

	info := &models.RelationInfo{}
	if raw.Moeder != nil {
		parent := normalizeRelation(*raw.Moeder, "moeder")
		info.Moeder = &parent
	}
	for _, relation := range raw.Dochters {
		info.Dochters = append(info.Dochters, normalizeRelation(relation, "dochter"))
	}
	for _, relation := range raw.Gerelateerd {
		info.Gerelateerd = append(info.Gerelateerd, normalizeRelation(relation, "gerelateerd"))
	}
	return info, true, nil
}

func normalizeRelation(raw rawRelation, relatie string) models.CompanyRelation {
	return models.CompanyRelation{
		KvkNummer:          raw.KvkNummer,
		Naam:               raw.Naam,
		Relatie:            relatie,
		Ontdekkingsmethode: normalizeDiscoveryMethod(raw.Methode),
	}
}

func normalizeDiscoveryMethod(methode string) string {
	switch strings.ToLower(methode) {
	case "adres", "gedeeld_adres", "shared_address":
		return models.DiscoveryByAddress
	case "bestuurders", "gedeelde_bestuurders", "shared_directors":
		return models.DiscoveryByDirectors
	default:
		return models.DiscoveryByRegistry
	}
}

func (c *RelationsClient) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"ovio-api-key": c.apiKey}
}
