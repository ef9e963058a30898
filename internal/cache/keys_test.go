package cache

import (
	"strings"
	"testing"
	"time"
)

func TestKeyNormalization(t *testing.T) {
	// Case and whitespace differences must map to the same entry
	a := Key(CategoryRegistrySearch, "Acme  Widgets   BV")
	b := Key(CategoryRegistrySearch, "acme widgets bv")
	if a != b {
		t.Errorf("Expected normalized keys to match, got %s and %s", a, b)
	}

	c := Key(CategoryRegistrySearch, "acme widgets nv")
	if a == c {
		t.Error("Expected different identifiers to produce different keys")
	}
}

func TestKeyCategoryPrefix(t *testing.T) {
	key := Key(CategoryInsolvency, "69599084")
	if !strings.HasPrefix(key, CategoryInsolvency+":") {
		t.Errorf("Expected key to carry category prefix, got %s", key)
	}

	// Same identifier in another category must not collide
	other := Key(CategoryDirectors, "69599084")
	if key == other {
		t.Error("Expected category to separate keys for the same identifier")
	}
}

func TestNegativeKey(t *testing.T) {
	key := Key(CategoryNews, "acme")
	neg := NegativeKey(CategoryNews, "acme")
	if neg != key+":neg" {
		t.Errorf("Expected negative key %s, got %s", key+":neg", neg)
	}
}

func TestTTLTable(t *testing.T) {
	if ttl := TTL(CategoryRegistryProfile); ttl != 72*time.Hour {
		t.Errorf("Expected profile TTL of 72h, got %v", ttl)
	}
	if ttl := TTL(CategoryNews); ttl != 2*time.Hour {
		t.Errorf("Expected news TTL of 2h, got %v", ttl)
	}
	if ttl := TTL("onbekend"); ttl != time.Hour {
		t.Errorf("Expected default TTL of 1h, got %v", ttl)
	}
	if NegativeTTL != 15*time.Minute {
		t.Errorf("Expected negative TTL of 15m, got %v", NegativeTTL)
	}
}
