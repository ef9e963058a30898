package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache categories, one per data source lookup. The prefix is part of every
// derived key so a whole category can be invalidated with DeleteByPrefix.
const (
	CategoryRegistrySearch  = "kvk:zoeken"
	CategoryRegistryProfile = "kvk:profiel"
	CategoryInsolvency      = "insolventie"
	CategoryAnnouncements   = "bekendmakingen"
	CategoryDirectors       = "bestuurders"
	CategoryRelations       = "relaties"
	CategoryWebsite         = "website"
	CategoryTechStack       = "techstack"
	CategorySocials         = "socials"
	CategoryNews            = "nieuws"
	CategoryReviews         = "reviews"
)

// NegativeTTL is the short TTL for cached not-found markers, so a source is
// not hammered for data that does not exist.
const NegativeTTL = 15 * time.Minute

// ttlTable maps category to TTL, reflecting how volatile each category is.
var ttlTable = map[string]time.Duration{
	CategoryRegistrySearch:  24 * time.Hour,
	CategoryRegistryProfile: 72 * time.Hour,
	CategoryInsolvency:      6 * time.Hour,
	CategoryAnnouncements:   6 * time.Hour,
	CategoryDirectors:       24 * time.Hour,
	CategoryRelations:       24 * time.Hour,
	CategoryWebsite:         24 * time.Hour,
	CategoryTechStack:       7 * 24 * time.Hour,
	CategorySocials:         24 * time.Hour,
	CategoryNews:            2 * time.Hour,
	CategoryReviews:         4 * time.Hour,
}

// TTL returns the cache TTL for a category
func TTL(category string) time.Duration {
	if ttl, ok := ttlTable[category]; ok {
		return ttl
	}
	return time.Hour
}

// Key derives a deterministic cache key for a category and free-text
// identifier. The identifier is lowercased and whitespace-collapsed before
// hashing so queries differing only in casing hit the same entry.
func Key(category, identifier string) string {
	return category + ":" + hashIdentifier(identifier)
}

// NegativeKey derives the key under which a not-found marker is stored
func NegativeKey(category, identifier string) string {
	return Key(category, identifier) + ":neg"
}

func hashIdentifier(identifier string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(identifier), " "))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:16]
}
