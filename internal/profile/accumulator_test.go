package profile

import (
	"errors"
	"testing"

	"github.com/bedrijfslens/kvk-intel-api/internal/apperrors"
)

func TestAccumulatorDeduplicatesAndSortsSources(t *testing.T) {
	acc := NewAccumulator()
	acc.AddSource("nieuws")
	acc.AddSource("handelsregister")
	acc.AddSource("handelsregister")

	bronnen := acc.Bronnen()
	if len(bronnen) != 2 {
		t.Fatalf("Expected 2 sources, got %v", bronnen)
	}
	if bronnen[0] != "handelsregister" || bronnen[1] != "nieuws" {
		t.Errorf("Expected canonical order regardless of recording order, got %v", bronnen)
	}
}

func TestAccumulatorErrorStrings(t *testing.T) {
	acc := NewAccumulator()
	acc.AddError("bestuurders", apperrors.SourceError("bestuurders", "bron niet beschikbaar", errors.New("timeout")))
	acc.AddMessage("Geen bedrijven gevonden")

	strs := acc.ErrorStrings()
	if len(strs) != 2 {
		t.Fatalf("Expected 2 entries, got %v", strs)
	}
	if strs[0] != "bestuurders: bron niet beschikbaar" {
		t.Errorf("Unexpected formatted error %q", strs[0])
	}
	if strs[1] != "Geen bedrijven gevonden" {
		t.Errorf("Messages without a source should not carry a prefix, got %q", strs[1])
	}

	structured := acc.Errors()
	if structured[0].Code != apperrors.ErrCodeSource {
		t.Errorf("Expected structured code SOURCE_ERROR, got %s", structured[0].Code)
	}
	if acc.ErrorCount() != 2 {
		t.Errorf("Expected count 2, got %d", acc.ErrorCount())
	}
}
