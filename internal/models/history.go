package models

import "time"

// LookupRecord is one persisted engine invocation, used by the surrounding
// application for usage accounting.
type LookupRecord struct {
	RequestID  string    `json:"requestId"`
	Query      string    `json:"query"`
	Type       string    `json:"type"`
	KvkNummer  string    `json:"kvkNummer,omitempty"`
	Success    bool      `json:"success"`
	DurationMs int64     `json:"durationMs"`
	Bronnen    []string  `json:"bronnen"`
	ErrorCount int       `json:"errorCount"`
	CreatedAt  time.Time `json:"createdAt"`
}
