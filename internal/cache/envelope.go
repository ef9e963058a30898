package cache

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope wraps every cached value with provenance and expiry metadata
type Envelope struct {
	Data      json.RawMessage `json:"data"`
	CachedAt  time.Time       `json:"cachedAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Source    string          `json:"source"`
}

// WrapEnvelope marshals a value into a cached envelope
func WrapEnvelope(value interface{}, source string, ttl time.Duration) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache value: %w", err)
	}
	now := time.Now().UTC()
	envelope := Envelope{
		Data:      raw,
		CachedAt:  now,
		ExpiresAt: now.Add(ttl),
		Source:    source,
	}
	encoded, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache envelope: %w", err)
	}
	return encoded, nil
}

// OpenEnvelope parses a cached envelope
func OpenEnvelope(raw []byte) (*Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse cache envelope: %w", err)
	}
	return &envelope, nil
}

// Expired reports whether the envelope's TTL has passed
func (e *Envelope) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
