package profile

import (
	"testing"
	"time"

	"github.com/bedrijfslens/kvk-intel-api/internal/models"
)

func TestDeriveRisk(t *testing.T) {
	if risk := deriveRisk(nil); risk != RiskLow {
		t.Errorf("Expected laag without cases, got %s", risk)
	}

	elevated := []models.InsolvencyCase{{Type: "surseance", Datum: "2023-01-10"}}
	if risk := deriveRisk(elevated); risk != RiskElevated {
		t.Errorf("Expected verhoogd for surseance, got %s", risk)
	}

	high := []models.InsolvencyCase{
		{Type: "surseance"},
		{Type: "faillissement"},
	}
	if risk := deriveRisk(high); risk != RiskHigh {
		t.Errorf("Expected hoog for faillissement, got %s", risk)
	}
}

func TestBuildFinancial(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	registry := &models.RegistryData{
		Oprichtingsdatum: "2017-08-14",
		WerknemersKlasse: "10-49",
	}
	indicators := buildFinancial(registry, now)
	if indicators == nil {
		t.Fatal("Expected indicators")
	}
	if indicators.BedrijfsleeftijdJaren == nil || *indicators.BedrijfsleeftijdJaren != 9 {
		t.Errorf("Expected age 9, got %v", indicators.BedrijfsleeftijdJaren)
	}
	if indicators.WerknemersKlasse != "10-49" {
		t.Errorf("Unexpected klasse %s", indicators.WerknemersKlasse)
	}

	if buildFinancial(nil, now) != nil {
		t.Error("Expected nil for missing registry data")
	}
	if buildFinancial(&models.RegistryData{}, now) != nil {
		t.Error("Expected nil when nothing can be derived")
	}

	// An unparseable date still yields the employee bucket
	partial := buildFinancial(&models.RegistryData{Oprichtingsdatum: "onbekend", WerknemersKlasse: "1-9"}, now)
	if partial == nil || partial.BedrijfsleeftijdJaren != nil || partial.WerknemersKlasse != "1-9" {
		t.Errorf("Unexpected partial indicators %+v", partial)
	}
}

func TestBuildTimeline(t *testing.T) {
	registry := &models.RegistryData{Oprichtingsdatum: "2017-08-14"}
	legal := &models.LegalStatusInfo{
		Zaken: []models.InsolvencyCase{
			{Type: "faillissement", Datum: "2023-01-10"},
			{Type: "surseance"}, // no date, dropped
		},
		Bekendmakingen: []models.Announcement{
			{Datum: "2019-05-01", Type: "wijziging", Omschrijving: "Statutenwijziging"},
		},
	}

	events := buildTimeline(registry, legal)
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	if events[0].Type != "oprichting" || events[0].Datum != "2017-08-14" {
		t.Errorf("Expected founding first, got %+v", events[0])
	}
	if events[1].Datum != "2019-05-01" || events[2].Datum != "2023-01-10" {
		t.Errorf("Expected chronological order, got %+v", events)
	}
}

func TestBuildTimelineEmpty(t *testing.T) {
	events := buildTimeline(nil, nil)
	if events == nil || len(events) != 0 {
		t.Errorf("Expected empty non-nil timeline, got %v", events)
	}
}

func TestMergePresence(t *testing.T) {
	extracted := &models.OnlinePresence{Email: "info@acme.nl", Socials: map[string]string{"linkedin": "https://linkedin.com/company/acme"}}

	merged := mergePresence("https://acme.nl", extracted)
	if merged == nil || merged.Website != "https://acme.nl" || merged.Email != "info@acme.nl" {
		t.Errorf("Unexpected merge result %+v", merged)
	}

	if mergePresence("", nil) != nil {
		t.Error("Expected nil when nothing was found")
	}

	onlyWebsite := mergePresence("https://acme.nl", nil)
	if onlyWebsite == nil || onlyWebsite.Website != "https://acme.nl" {
		t.Errorf("Expected website-only presence, got %+v", onlyWebsite)
	}
}
