// Package sources contains one client per upstream data source. Every
// client follows the same template: check cache, check the source's rate
// budget, perform the network call with a bounded timeout, normalize, and
// write back to cache. Definitive not-found responses are negative-cached
// and returned as empty results, not errors.
package sources

// Source names, used for rate-limit buckets, cache provenance and attribution
const (
	SourceRegistry      = "handelsregister"
	SourceInsolvency    = "insolventieregister"
	SourceAnnouncements = "bekendmakingen"
	SourceDirectors     = "bestuurders"
	SourceRelations     = "relaties"
	SourceWebsite       = "website"
	SourceTechStack     = "techstack"
	SourceSocials       = "socials"
	SourceNews          = "nieuws"
	SourceReviews       = "reviews"
	SourceAI            = "ai_analyse"
)
