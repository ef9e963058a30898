package models

import "time"

// RegistryData holds the core registry fields of a company
type RegistryData struct {
	Naam             string   `json:"naam"`
	Handelsnamen     []string `json:"handelsnamen,omitempty"`
	Rechtsvorm       string   `json:"rechtsvorm,omitempty"`
	Oprichtingsdatum string   `json:"oprichtingsdatum,omitempty"` // YYYY-MM-DD
	// WerknemersKlasse is a bucketed range ("10-49"), never an exact count
	WerknemersKlasse string    `json:"werknemersKlasse,omitempty"`
	SbiCodes         []SbiCode `json:"sbiCodes,omitempty"`
	Actief           bool      `json:"actief"`
}

// RegistryProfile is the registry-profile client's combined result
type RegistryProfile struct {
	Registry RegistryData `json:"basisgegevens"`
	Adres    Address      `json:"adres"`
}

// Director is one natural or legal person with a role in the company
type Director struct {
	Naam          string `json:"naam"`
	Functie       string `json:"functie"`
	Type          string `json:"type"` // natuurlijk | rechtspersoon
	AangetredenOp string `json:"aangetredenOp,omitempty"`
}

// DirectorInfo is the directors sub-record
type DirectorInfo struct {
	Bestuurders []Director `json:"bestuurders"`
}

// Relation discovery methods, carried per relation so confidence is inspectable
const (
	DiscoveryByRegistry  = "register"
	DiscoveryByAddress   = "gedeeld_adres"
	DiscoveryByDirectors = "gedeelde_bestuurders"
)

// CompanyRelation is a discovered related company
type CompanyRelation struct {
	KvkNummer          string `json:"kvkNummer"`
	Naam               string `json:"naam"`
	Relatie            string `json:"relatie"` // moeder | dochter | gerelateerd
	Ontdekkingsmethode string `json:"ontdekkingsmethode"`
}

// RelationInfo is the company-relations sub-record
type RelationInfo struct {
	Moeder      *CompanyRelation  `json:"moeder,omitempty"`
	Dochters    []CompanyRelation `json:"dochters,omitempty"`
	Gerelateerd []CompanyRelation `json:"gerelateerd,omitempty"`
}

// InsolvencyCase is one bankruptcy, suspension or dissolution record
type InsolvencyCase struct {
	Type       string `json:"type"` // faillissement | surseance | ontbinding
	Rechtbank  string `json:"rechtbank,omitempty"`
	Zaaknummer string `json:"zaaknummer,omitempty"`
	Datum      string `json:"datum,omitempty"` // YYYY-MM-DD
	Curator    string `json:"curator,omitempty"`
}

// Announcement is one official publication concerning the company
type Announcement struct {
	Datum        string `json:"datum,omitempty"` // YYYY-MM-DD
	Type         string `json:"type"`
	Omschrijving string `json:"omschrijving"`
	Bron         string `json:"bron,omitempty"`
}

// LegalStatusInfo combines insolvency records, a derived risk indicator and
// official announcements.
type LegalStatusInfo struct {
	Zaken           []InsolvencyCase `json:"zaken,omitempty"`
	RisicoIndicator string           `json:"risicoIndicator"` // laag | verhoogd | hoog
	Bekendmakingen  []Announcement   `json:"bekendmakingen,omitempty"`
}

// FinancialIndicators are coarse free-tier signals only, never exact
// financials: no free source provides those.
type FinancialIndicators struct {
	BedrijfsleeftijdJaren *int   `json:"bedrijfsleeftijdJaren,omitempty"`
	WerknemersKlasse      string `json:"werknemersKlasse,omitempty"`
}

// OnlinePresence holds the discovered web footprint
type OnlinePresence struct {
	Website  string            `json:"website,omitempty"`
	Email    string            `json:"email,omitempty"`
	Telefoon string            `json:"telefoon,omitempty"`
	Socials  map[string]string `json:"socials,omitempty"` // platform -> profile URL
}

// TechStack is the categorized technology fingerprint of a website
type TechStack struct {
	Categorieen    map[string][]string `json:"categorieen"` // cms, frameworks, analytics, payments, hosting
	TotaalGevonden int                 `json:"totaalGevonden"`
}

// ReviewSummary aggregates review ratings and counts across platforms
type ReviewSummary struct {
	GemiddeldeScore float64  `json:"gemiddeldeScore"`
	AantalReviews   int      `json:"aantalReviews"`
	Platformen      []string `json:"platformen,omitempty"`
}

// NewsArticle references one recent article
type NewsArticle struct {
	Titel        string `json:"titel"`
	URL          string `json:"url"`
	Bron         string `json:"bron,omitempty"`
	Gepubliceerd string `json:"gepubliceerd,omitempty"` // YYYY-MM-DD
}

// NewsInfo is the news sub-record
type NewsInfo struct {
	Artikelen []NewsArticle `json:"artikelen"`
}

// AIAnalysis is the optional narrative produced by the external
// text-generation collaborator.
type AIAnalysis struct {
	Samenvatting  string    `json:"samenvatting"`
	Model         string    `json:"model,omitempty"`
	GegenereerdOp time.Time `json:"gegenereerdOp"`
}

// TimelineEvent is one chronologically ordered event in the company history
type TimelineEvent struct {
	Datum        string `json:"datum"` // YYYY-MM-DD
	Type         string `json:"type"`
	Omschrijving string `json:"omschrijving"`
	Bron         string `json:"bron,omitempty"`
}

// Meta carries provenance and diagnostics for a profile or search response
type Meta struct {
	Timestamp       time.Time `json:"timestamp"`
	Bronnen         []string  `json:"bronnen"`
	Verwerkingstijd int64     `json:"verwerkingstijd"` // milliseconds
	Errors          []string  `json:"errors"`
}

// CompanyProfile is the aggregated root entity, keyed by registration
// number. Every sub-record is independently optional: a failed or skipped
// stage leaves a SourceResult with nil data, never a placeholder.
type CompanyProfile struct {
	KvkNummer string `json:"kvkNummer"`
	Naam      string `json:"naam"`

	Basisgegevens         SourceResult[RegistryData]        `json:"basisgegevens"`
	Adres                 SourceResult[Address]             `json:"adres"`
	Bestuurders           SourceResult[DirectorInfo]        `json:"bestuurders"`
	Relaties              SourceResult[RelationInfo]        `json:"relaties"`
	JuridischeStatus      SourceResult[LegalStatusInfo]     `json:"juridischeStatus"`
	FinancieleIndicatoren SourceResult[FinancialIndicators] `json:"financieleIndicatoren"`
	OnlineAanwezigheid    SourceResult[OnlinePresence]      `json:"onlineAanwezigheid"`
	Technologie           SourceResult[TechStack]           `json:"technologie"`
	Reviews               SourceResult[ReviewSummary]       `json:"reviews"`
	Nieuws                SourceResult[NewsInfo]            `json:"nieuws"`
	AIAnalyse             SourceResult[AIAnalysis]          `json:"aiAnalyse"`
	Tijdlijn              []TimelineEvent                   `json:"tijdlijn"`

	Meta Meta `json:"meta"`
}
