package models

import (
	"strings"

	"github.com/bedrijfslens/kvk-intel-api/internal/apperrors"
)

var (
	errEmptyQuery  = apperrors.ValidationError("query is verplicht")
	errInvalidType = apperrors.ValidationError("type moet naam, kvkNummer, postcode of sbiCode zijn")
)

// Address is a structured Dutch address plus its single formatted form
type Address struct {
	Straat        string   `json:"straat"`
	Huisnummer    string   `json:"huisnummer"`
	Postcode      string   `json:"postcode"`
	Plaats        string   `json:"plaats"`
	Provincie     string   `json:"provincie,omitempty"`
	Geformatteerd string   `json:"geformatteerd"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
}

// Format builds the single formatted address string from the structured
// fields, skipping empty parts.
func (a *Address) Format() string {
	street := strings.TrimSpace(a.Straat + " " + a.Huisnummer)
	parts := make([]string, 0, 3)
	if street != "" {
		parts = append(parts, street)
	}
	locality := strings.TrimSpace(a.Postcode + " " + a.Plaats)
	if locality != "" {
		parts = append(parts, locality)
	}
	if a.Provincie != "" {
		parts = append(parts, a.Provincie)
	}
	return strings.Join(parts, ", ")
}

// SbiCode is a standard business classification code. Codes are verbatim
// strings: leading zeros are significant.
type SbiCode struct {
	Code            string `json:"code"`
	Omschrijving    string `json:"omschrijving"`
	Hoofdactiviteit bool   `json:"hoofdactiviteit"`
}

// CompanySearchResult is one candidate from a registry search.
// Identity key is the registration number; immutable once returned.
type CompanySearchResult struct {
	KvkNummer       string    `json:"kvkNummer"`
	Naam            string    `json:"naam"`
	Adres           Address   `json:"adres"`
	Actief          bool      `json:"actief"`
	SbiCodes        []SbiCode `json:"sbiCodes,omitempty"`
	Hoofdactiviteit string    `json:"hoofdactiviteit,omitempty"`
}
