package models

// Response type discriminators
const (
	ResponseTypeSearch  = "search"
	ResponseTypeProfile = "profile"
	ResponseTypeError   = "error"
)

// NoResultsMessage is appended to meta.errors when a search matches nothing
const NoResultsMessage = "Geen bedrijven gevonden"

// SearchResponse is returned when only search results were requested or
// when the search matched nothing.
type SearchResponse struct {
	Type    string                `json:"type"`
	Results []CompanySearchResult `json:"results"`
	Total   int                   `json:"total"`
	Meta    Meta                  `json:"meta"`
}

// ProfileResponse is returned for a successful full-profile request
type ProfileResponse struct {
	Type    string          `json:"type"`
	Profile *CompanyProfile `json:"profile"`
}

// ErrorBody is the error payload of an ErrorResponse
type ErrorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	RetryAfter *int   `json:"retryAfter,omitempty"`
}

// ErrorResponse is returned when the request terminates with an error
type ErrorResponse struct {
	Type  string    `json:"type"`
	Error ErrorBody `json:"error"`
	Meta  Meta      `json:"meta"`
}
