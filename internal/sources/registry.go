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

// RegistryClient queries the trade register for company search and profiles
type RegistryClient struct {
	fetcher *Fetcher
	http    *HTTPClient
	baseURL string
	apiKey  string
}

// NewRegistryClient creates a registry client
func NewRegistryClient(fetcher *Fetcher, httpClient *HTTPClient, baseURL, apiKey string) *RegistryClient {
	return &RegistryClient{
		fetcher: fetcher,
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// registrySearchResponse is the raw upstream search payload
type registrySearchResponse struct {
	Resultaten []registryCompany `json:"resultaten"`
	Totaal     int               `json:"totaal"`
}

// registryCompany is one raw upstream company record
type registryCompany struct {
	KvkNummer    string           `json:"kvknummer"`
	Naam         string           `json:"naam"`
	Handelsnamen []string         `json:"handelsnamen"`
	Rechtsvorm   string           `json:"rechtsvorm"`
	Oprichting   string           `json:"oprichtingsdatum"`
	Werknemers   int              `json:"werknemers"`
	Straat       string           `json:"straat"`
	Huisnummer   string           `json:"huisnummer"`
	Postcode     string           `json:"postcode"`
	Plaats       string           `json:"plaats"`
	Provincie    string           `json:"provincie"`
	Latitude     *float64         `json:"latitude"`
	Longitude    *float64         `json:"longitude"`
	Actief       bool             `json:"actief"`
	SbiCodes     []registrySbi    `json:"sbi"`
}

type registrySbi struct {
	Code         string `json:"code"`
	Omschrijving string `json:"omschrijving"`
	Hoofd        bool   `json:"hoofdactiviteit"`
}

// searchResultSet is the normalized, cacheable search result
type searchResultSet struct {
	Results []models.CompanySearchResult `json:"results"`
	Total   int                          `json:"total"`
}

// Search resolves candidate companies for a query. The cache entry holds
// the unfiltered candidate set; the inactive filter is applied afterwards
// so both filter settings share one entry.
func (c *RegistryClient) Search(ctx context.Context, req *models.IntelRequest) ([]models.CompanySearchResult, bool, error) {
	identifier := searchIdentifier(req)

	set, fromCache, err := fetchTyped[searchResultSet](ctx, c.fetcher, cache.CategoryRegistrySearch, identifier, SourceRegistry,
		func(ctx context.Context) (*searchResultSet, bool, error) {
			return c.search(ctx, req)
		})
	if err != nil {
		return nil, fromCache, err
	}
	if set == nil {
		return []models.CompanySearchResult{}, fromCache, nil
	}

	results := set.Results
	if !req.InclusiefInactief {
		filtered := make([]models.CompanySearchResult, 0, len(results))
		for _, candidate := range results {
			if candidate.Actief {
				filtered = append(filtered, candidate)
			}
		}
		results = filtered
	}
	return results, fromCache, nil
}

func (c *RegistryClient) search(ctx context.Context, req *models.IntelRequest) (*searchResultSet, bool, error) {
	params := url.Values{}
	switch req.Type {
	case models.QueryByName:
		params.Set("naam", req.Query)
	case models.QueryByKvkNumber:
		params.Set("kvknummer", req.Query)
	case models.QueryByPostcode:
		params.Set("postcode", req.Query)
	case models.QueryBySbiCode:
		params.Set("sbi", req.Query)
	}
	if req.Plaats != "" {
		params.Set("plaats", req.Plaats)
	}
	if req.Postcode != "" && req.Type != models.QueryByPostcode {
		params.Set("postcode", req.Postcode)
	}
	if req.Provincie != "" {
		params.Set("provincie", req.Provincie)
	}
	if req.SbiCode != "" && req.Type != models.QueryBySbiCode {
		params.Set("sbi", req.SbiCode)
	}

	var raw registrySearchResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/zoeken?"+params.Encode(), c.headers(), &raw)
	if errors.Is(err, ErrUpstreamNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(raw.Resultaten) == 0 {
		return nil, false, nil
	}

	set := &searchResultSet{Total: raw.Totaal, Results: make([]models.CompanySearchResult, 0, len(raw.Resultaten))}
	for _, company := range raw.Resultaten {
		set.Results = append(set.Results, normalizeSearchResult(company))
	}
	if set.Total == 0 {
		set.Total = len(set.Results)
	}
	return set, true, nil
}

// Profile fetches the full registry profile for a registration number
func (c *RegistryClient) Profile(ctx context.Context, kvkNummer string) (*models.RegistryProfile, bool, error) {
	return fetchTyped[models.RegistryProfile](ctx, c.fetcher, cache.CategoryRegistryProfile, kvkNummer, SourceRegistry,
		func(ctx context.Context) (*models.RegistryProfile, bool, error) {
			var raw registryCompany
			err := c.http.GetJSON(ctx, fmt.Sprintf("%s/profiel/%s", c.baseURL, url.PathEscape(kvkNummer)), c.headers(), &raw)
			if errors.Is(err, ErrUpstreamNotFound) {
				return nil, false, nil
			}
			if err != nil {
				return nil, false, err
			}
			profile := normalizeProfile(raw)
			return &profile, true, nil
		})
}

func (c *RegistryClient) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"ovio-api-key": c.apiKey}
}

func normalizeSearchResult(raw registryCompany) models.CompanySearchResult {
	address := normalizeAddress(raw)
	result := models.CompanySearchResult{
		KvkNummer: raw.KvkNummer,
		Naam:      raw.Naam,
		Adres:     address,
		Actief:    raw.Actief,
		SbiCodes:  normalizeSbiCodes(raw.SbiCodes),
	}
	for _, code := range result.SbiCodes {
		if code.Hoofdactiviteit {
			result.Hoofdactiviteit = code.Omschrijving
			break
		}
	}
	return result
}

func normalizeProfile(raw registryCompany) models.RegistryProfile {
	return models.RegistryProfile{
		Registry: models.RegistryData{
			Naam:             raw.Naam,
			Handelsnamen:     raw.Handelsnamen,
			Rechtsvorm:       raw.Rechtsvorm,
			Oprichtingsdatum: raw.Oprichting,
			WerknemersKlasse: bucketEmployees(raw.Werknemers),
			SbiCodes:         normalizeSbiCodes(raw.SbiCodes),
			Actief:           raw.Actief,
		},
		Adres: normalizeAddress(raw),
	}
}

func normalizeAddress(raw registryCompany) models.Address {
	address := models.Address{
		Straat:     raw.Straat,
		Huisnummer: raw.Huisnummer,
		Postcode:   raw.Postcode,
		Plaats:     raw.Plaats,
		Provincie:  raw.Provincie,
		Latitude:   raw.Latitude,
		Longitude:  raw.Longitude,
	}
	address.Geformatteerd = address.Format()
	return address
}

// normalizeSbiCodes keeps codes as verbatim strings: leading zeros are
// significant in SBI classification.
func normalizeSbiCodes(raw []registrySbi) []models.SbiCode {
	if len(raw) == 0 {
		return nil
	}
	codes := make([]models.SbiCode, 0, len(raw))
	for _, sbi := range raw {
		codes = append(codes, models.SbiCode{
			Code:            sbi.Code,
			Omschrijving:    sbi.Omschrijving,
			Hoofdactiviteit: sbi.Hoofd,
		})
	}
	return codes
}

// bucketEmployees maps an exact count onto the published bucket ranges.
// Free sources report rough counts at best, so buckets are the only honest
// representation.
func bucketEmployees(count int) string {
	switch {
	case count <= 0:
		return ""
	case count < 10:
		return "1-9"
	case count < 50:
		return "10-49"
	case count < 250:
		return "50-249"
	default:
		return "250+"
	}
}

// searchIdentifier combines the query and filters into one cache identifier
func searchIdentifier(req *models.IntelRequest) string {
	return strings.Join([]string{
		string(req.Type), req.Query, req.Plaats, req.Postcode, req.Provincie, req.SbiCode,
	}, "|")
}
