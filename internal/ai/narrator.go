// Package ai wraps the external text-generation service that narrates an
// assembled company profile. The engine only depends on the interface in
// the profile package; this is the HTTP-backed implementation.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bedrijfslens/kvk-intel-api/internal/models"
)

// HTTPNarrator calls a hosted text-generation API
type HTTPNarrator struct {
	client   *http.Client
	endpoint string
	apiKey   string
	model    string
}

// NewHTTPNarrator creates a narrator for the configured service
func NewHTTPNarrator(endpoint, apiKey, model string, timeout time.Duration) *HTTPNarrator {
	return &HTTPNarrator{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// Summarize produces a short narrative for the assembled profile
func (n *HTTPNarrator) Summarize(ctx context.Context, profile *models.CompanyProfile) (*models.AIAnalysis, error) {
	body, err := json.Marshal(generateRequest{Model: n.model, Prompt: buildPrompt(profile)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(respBody))
	}

	var generated generateResponse
	if err := json.Unmarshal(respBody, &generated); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if strings.TrimSpace(generated.Text) == "" {
		return nil, fmt.Errorf("empty narrative returned")
	}

	return &models.AIAnalysis{
		Samenvatting:  strings.TrimSpace(generated.Text),
		Model:         n.model,
		GegenereerdOp: time.Now().UTC(),
	}, nil
}

// buildPrompt condenses the profile into the facts the narrative may use.
// Only assembled data goes in: the narrator must not fill gaps.
func buildPrompt(profile *models.CompanyProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Schrijf een zakelijke samenvatting (maximaal 150 woorden) van dit bedrijf.\n")
	fmt.Fprintf(&b, "Gebruik uitsluitend onderstaande gegevens.\n\n")
	fmt.Fprintf(&b, "Naam: %s (KVK %s)\n", profile.Naam, profile.KvkNummer)

	if reg := profile.Basisgegevens.Data; reg != nil {
		if reg.Rechtsvorm != "" {
			fmt.Fprintf(&b, "Rechtsvorm: %s\n", reg.Rechtsvorm)
		}
		if reg.Oprichtingsdatum != "" {
			fmt.Fprintf(&b, "Opgericht: %s\n", reg.Oprichtingsdatum)
		}
		if reg.WerknemersKlasse != "" {
			fmt.Fprintf(&b, "Werknemers: %s\n", reg.WerknemersKlasse)
		}
		for _, sbi := range reg.SbiCodes {
			if sbi.Hoofdactiviteit {
				fmt.Fprintf(&b, "Hoofdactiviteit: %s\n", sbi.Omschrijving)
			}
		}
	}
	if legal := profile.JuridischeStatus.Data; legal != nil {
		fmt.Fprintf(&b, "Risico-indicator: %s\n", legal.RisicoIndicator)
	}
	if presence := profile.OnlineAanwezigheid.Data; presence != nil && presence.Website != "" {
		fmt.Fprintf(&b, "Website: %s\n", presence.Website)
	}
	return b.String()
}
