package models

// QueryType selects how the registry search interprets the query string
type QueryType string

// Supported query types
const (
	QueryByName      QueryType = "naam"
	QueryByKvkNumber QueryType = "kvkNummer"
	QueryByPostcode  QueryType = "postcode"
	QueryBySbiCode   QueryType = "sbiCode"
)

// Valid reports whether the query type is one of the supported values
func (t QueryType) Valid() bool {
	switch t {
	case QueryByName, QueryByKvkNumber, QueryByPostcode, QueryBySbiCode:
		return true
	}
	return false
}

// IncludeFlags selects which optional profile stages run
type IncludeFlags struct {
	Directors   bool `json:"directors"`
	Relations   bool `json:"relations"`
	LegalStatus bool `json:"legalStatus"`
	Financial   bool `json:"financial"`
}

// EnrichmentFlags selects which enrichment lookups run
type EnrichmentFlags struct {
	Website    bool `json:"website"`
	Socials    bool `json:"socials"`
	TechStack  bool `json:"techStack"`
	News       bool `json:"news"`
	Reviews    bool `json:"reviews"`
	AIAnalysis bool `json:"aiAnalysis"`
}

// IntelRequest is the engine's entry shape: a search query plus flags that
// decide whether a full profile is assembled and which stages run.
type IntelRequest struct {
	Query             string          `json:"query"`
	Type              QueryType       `json:"type"`
	Plaats            string          `json:"plaats,omitempty"`
	Postcode          string          `json:"postcode,omitempty"`
	Provincie         string          `json:"provincie,omitempty"`
	SbiCode           string          `json:"sbiCode,omitempty"`
	InclusiefInactief bool            `json:"inclusiefInactief,omitempty"`
	GetFullProfile    bool            `json:"getFullProfile,omitempty"`
	Include           IncludeFlags    `json:"include,omitempty"`
	Enrichments       EnrichmentFlags `json:"enrichments,omitempty"`
}

// Validate rejects malformed requests before any source client runs
func (r *IntelRequest) Validate() error {
	if r.Query == "" {
		return errEmptyQuery
	}
	if !r.Type.Valid() {
		return errInvalidType
	}
	return nil
}
