package profile

import (
	"sort"
	"time"

	"github.com/bedrijfslens/kvk-intel-api/internal/models"
)

// SourceDerived marks sub-records computed from other sources
const SourceDerived = "afgeleid"

// Risk indicator values
const (
	RiskLow      = "laag"
	RiskElevated = "verhoogd"
	RiskHigh     = "hoog"
)

// deriveRisk maps insolvency records to a coarse indicator. Any bankruptcy
// is high, any other case is elevated, no cases is low.
func deriveRisk(zaken []models.InsolvencyCase) string {
	risk := RiskLow
	for _, zaak := range zaken {
		if zaak.Type == "faillissement" {
			return RiskHigh
		}
		risk = RiskElevated
	}
	return risk
}

// buildFinancial derives the coarse financial indicators from registry data.
// Returns nil when nothing can be derived.
func buildFinancial(registry *models.RegistryData, now time.Time) *models.FinancialIndicators {
	if registry == nil {
		return nil
	}

	indicators := &models.FinancialIndicators{WerknemersKlasse: registry.WerknemersKlasse}
	if founded, err := time.Parse("2006-01-02", registry.Oprichtingsdatum); err == nil {
		years := int(now.Sub(founded).Hours() / 24 / 365.25)
		if years >= 0 {
			indicators.BedrijfsleeftijdJaren = &years
		}
	}

	if indicators.BedrijfsleeftijdJaren == nil && indicators.WerknemersKlasse == "" {
		return nil
	}
	return indicators
}

// buildTimeline assembles the chronological company history from the
// registry founding date, insolvency records and announcements. Events
// without a date are dropped; the rest are sorted oldest first.
func buildTimeline(registry *models.RegistryData, legal *models.LegalStatusInfo) []models.TimelineEvent {
	events := make([]models.TimelineEvent, 0)

	if registry != nil && registry.Oprichtingsdatum != "" {
		events = append(events, models.TimelineEvent{
			Datum:        registry.Oprichtingsdatum,
			Type:         "oprichting",
			Omschrijving: "Inschrijving in het handelsregister",
			Bron:         "handelsregister",
		})
	}

	if legal != nil {
		for _, zaak := range legal.Zaken {
			if zaak.Datum == "" {
				continue
			}
			events = append(events, models.TimelineEvent{
				Datum:        zaak.Datum,
				Type:         zaak.Type,
				Omschrijving: describeCase(zaak),
				Bron:         "insolventieregister",
			})
		}
		for _, bekendmaking := range legal.Bekendmakingen {
			if bekendmaking.Datum == "" {
				continue
			}
			events = append(events, models.TimelineEvent{
				Datum:        bekendmaking.Datum,
				Type:         bekendmaking.Type,
				Omschrijving: bekendmaking.Omschrijving,
				Bron:         "bekendmakingen",
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Datum < events[j].Datum
	})
	return events
}

func describeCase(zaak models.InsolvencyCase) string {
	switch zaak.Type {
	case "faillissement":
		return "Faillissement uitgesproken"
	case "surseance":
		return "Surseance van betaling verleend"
	case "ontbinding":
		return "Ontbinding geregistreerd"
	}
	return "Insolventiezaak geregistreerd"
}

// mergePresence combines the discovered website with the extracted contact
// details and social profiles into one sub-record.
func mergePresence(websiteURL string, extracted *models.OnlinePresence) *models.OnlinePresence {
	presence := &models.OnlinePresence{Website: websiteURL}
	if extracted != nil {
		presence.Email = extracted.Email
		presence.Telefoon = extracted.Telefoon
		presence.Socials = extracted.Socials
	}
	if presence.Website == "" && presence.Email == "" && presence.Telefoon == "" && len(presence.Socials) == 0 {
		return nil
	}
	return presence
}
