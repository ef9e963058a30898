package profile

import (
	"context"

	"github.com/bedrijfslens/kvk-intel-api/internal/models"
)

// The orchestrator depends on one small interface per source client so the
// state machine is testable with in-memory fakes.

// RegistrySource resolves candidates and registry profiles
type RegistrySource interface {
	Search(ctx context.Context, req *models.IntelRequest) ([]models.CompanySearchResult, bool, error)
	Profile(ctx context.Context, kvkNummer string) (*models.RegistryProfile, bool, error)
}

// InsolvencySource returns insolvency records
type InsolvencySource interface {
	Cases(ctx context.Context, kvkNummer string) ([]models.InsolvencyCase, bool, error)
}

// AnnouncementsSource returns official announcements
type AnnouncementsSource interface {
	Recent(ctx context.Context, kvkNummer string) ([]models.Announcement, bool, error)
}

// DirectorsSource returns the directors of a company
type DirectorsSource interface {
	Directors(ctx context.Context, kvkNummer string) (*models.DirectorInfo, bool, error)
}

// RelationsSource returns discovered company relations
type RelationsSource interface {
	Relations(ctx context.Context, kvkNummer string) (*models.RelationInfo, bool, error)
}

// WebsiteSource discovers a company website
type WebsiteSource interface {
	Discover(ctx context.Context, naam, plaats string) (string, bool, error)
}

// TechStackSource fingerprints a website's technology
type TechStackSource interface {
	Fingerprint(ctx context.Context, websiteURL string) (*models.TechStack, bool, error)
}

// SocialsSource extracts social profiles and contact details
type SocialsSource interface {
	Extract(ctx context.Context, websiteURL string) (*models.OnlinePresence, bool, error)
}

// NewsSource returns recent article references
type NewsSource interface {
	Recent(ctx context.Context, naam string) (*models.NewsInfo, bool, error)
}

// ReviewsSource returns an aggregated review summary
type ReviewsSource interface {
	Summary(ctx context.Context, naam, plaats string) (*models.ReviewSummary, bool, error)
}

// Narrator generates the optional AI narrative for an assembled profile
type Narrator interface {
	Summarize(ctx context.Context, profile *models.CompanyProfile) (*models.AIAnalysis, error)
}

// HistoryRecorder persists one lookup for usage accounting
type HistoryRecorder interface {
	Record(ctx context.Context, entry models.LookupRecord) error
}
