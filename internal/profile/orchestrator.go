// Package profile contains the aggregation state machine. One request moves
// through SEARCHING, PROFILING and ENRICHING; only the search stage can fail
// the request, everything after it degrades per source.
package profile

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bedrijfslens/kvk-intel-api/internal/apperrors"
	"github.com/bedrijfslens/kvk-intel-api/internal/logger"
	"github.com/bedrijfslens/kvk-intel-api/internal/models"
	"github.com/bedrijfslens/kvk-intel-api/internal/sources"
)

const defaultSourceTimeout = 8 * time.Second

// Deps bundles the orchestrator's collaborators. Narrator and History are
// optional; a nil Narrator degrades the AI stage, a nil History skips
// usage accounting.
type Deps struct {
	Registry      RegistrySource
	Insolvency    InsolvencySource
	Announcements AnnouncementsSource
	Directors     DirectorsSource
	Relations     RelationsSource
	Website       WebsiteSource
	TechStack     TechStackSource
	Socials       SocialsSource
	News          NewsSource
	Reviews       ReviewsSource
	Narrator      Narrator
	History       HistoryRecorder

	Logger        *logger.Logger
	SourceTimeout time.Duration
}

// Orchestrator runs one intelligence request end to end
type Orchestrator struct {
	deps    Deps
	log     *logger.Logger
	timeout time.Duration
	now     func() time.Time
}

// Outcome is the result of one run: exactly one of Search or Profile is set
type Outcome struct {
	Search  *models.SearchResponse
	Profile *models.CompanyProfile
}

// NewOrchestrator creates an orchestrator from its collaborators
func NewOrchestrator(deps Deps) *Orchestrator {
	timeout := deps.SourceTimeout
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{deps: deps, log: log, timeout: timeout, now: time.Now}
}

// SetClock replaces the time source, for tests
func (o *Orchestrator) SetClock(now func() time.Time) {
	o.now = now
}

// Run executes the state machine for one request. Validation failures and
// search-stage failures return an error; every later failure is folded into
// the result's meta instead.
func (o *Orchestrator) Run(ctx context.Context, req *models.IntelRequest) (*Outcome, error) {
	start := o.now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	requestID := uuid.New().String()
	acc := NewAccumulator()

	searchCtx, cancel := context.WithTimeout(ctx, o.timeout)
	results, _, err := o.deps.Registry.Search(searchCtx, req)
	cancel()
	if err != nil {
		o.log.Warn().Str("bron", sources.SourceRegistry).Err(err).Msg("zoekopdracht mislukt")
		o.record(ctx, requestID, req, "", false, acc, start)
		return nil, err
	}
	acc.AddSource(sources.SourceRegistry)

	// Zero matches is a successful outcome, not an error
	if len(results) == 0 {
		acc.AddMessage(models.NoResultsMessage)
		outcome := &Outcome{Search: &models.SearchResponse{
			Type:    models.ResponseTypeSearch,
			Results: []models.CompanySearchResult{},
			Total:   0,
			Meta:    o.meta(acc, start),
		}}
		o.record(ctx, requestID, req, "", true, acc, start)
		return outcome, nil
	}

	if !req.GetFullProfile {
		outcome := &Outcome{Search: &models.SearchResponse{
			Type:    models.ResponseTypeSearch,
			Results: results,
			Total:   len(results),
			Meta:    o.meta(acc, start),
		}}
		o.record(ctx, requestID, req, "", true, acc, start)
		return outcome, nil
	}

	// Full profile: the first candidate is the primary match
	primary := results[0]
	prof := o.assemble(ctx, req, primary, acc)
	prof.Meta = o.meta(acc, start)

	o.record(ctx, requestID, req, primary.KvkNummer, true, acc, start)
	return &Outcome{Profile: prof}, nil
}

// assemble runs the PROFILING and ENRICHING stages for the primary match
func (o *Orchestrator) assemble(ctx context.Context, req *models.IntelRequest, primary models.CompanySearchResult, acc *Accumulator) *models.CompanyProfile {
	prof := &models.CompanyProfile{
		KvkNummer: primary.KvkNummer,
		Naam:      primary.Naam,
		Tijdlijn:  []models.TimelineEvent{},
	}

	// Core registry fields from the search hit survive a failed profile call
	base := models.RegistryData{
		Naam:     primary.Naam,
		SbiCodes: primary.SbiCodes,
		Actief:   primary.Actief,
	}
	adres := primary.Adres
	prof.Basisgegevens = models.OK(sources.SourceRegistry, &base)
	prof.Adres = models.OK(sources.SourceRegistry, &adres)

	var mu sync.Mutex
	var wg sync.WaitGroup
	run := func(fn func(ctx context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, o.timeout)
			defer cancel()
			fn(callCtx)
		}()
	}

	run(func(ctx context.Context) {
		registryProfile, _, err := o.deps.Registry.Profile(ctx, primary.KvkNummer)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			o.sourceFailed(acc, sources.SourceRegistry, err)
			return
		}
		if registryProfile == nil {
			return
		}
		registry := registryProfile.Registry
		registryAdres := registryProfile.Adres
		prof.Basisgegevens = models.OK(sources.SourceRegistry, &registry)
		prof.Adres = models.OK(sources.SourceRegistry, &registryAdres)
		if registry.Naam != "" {
			prof.Naam = registry.Naam
		}
	})

	if req.Include.Directors {
		run(func(ctx context.Context) {
			info, _, err := o.deps.Directors.Directors(ctx, primary.KvkNummer)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				o.sourceFailed(acc, sources.SourceDirectors, err)
				prof.Bestuurders = models.Failed[models.DirectorInfo](sources.SourceDirectors, errorMessage(err))
				return
			}
			acc.AddSource(sources.SourceDirectors)
			prof.Bestuurders = models.OK(sources.SourceDirectors, info)
		})
	}

	if req.Include.Relations {
		run(func(ctx context.Context) {
			info, _, err := o.deps.Relations.Relations(ctx, primary.KvkNummer)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				o.sourceFailed(acc, sources.SourceRelations, err)
				prof.Relaties = models.Failed[models.RelationInfo](sources.SourceRelations, errorMessage(err))
				return
			}
			acc.AddSource(sources.SourceRelations)
			prof.Relaties = models.OK(sources.SourceRelations, info)
		})
	}

	if req.Include.LegalStatus {
		run(func(ctx context.Context) {
			zaken, _, insolvencyErr := o.deps.Insolvency.Cases(ctx, primary.KvkNummer)
			bekendmakingen, _, announcementErr := o.deps.Announcements.Recent(ctx, primary.KvkNummer)

			mu.Lock()
			defer mu.Unlock()
			if insolvencyErr != nil {
				o.sourceFailed(acc, sources.SourceInsolvency, insolvencyErr)
			} else {
				acc.AddSource(sources.SourceInsolvency)
			}
			if announcementErr != nil {
				o.sourceFailed(acc, sources.SourceAnnouncements, announcementErr)
			} else {
				acc.AddSource(sources.SourceAnnouncements)
			}

			if insolvencyErr != nil && announcementErr != nil {
				prof.JuridischeStatus = models.Failed[models.LegalStatusInfo](sources.SourceInsolvency,
					errorMessage(insolvencyErr), errorMessage(announcementErr))
				return
			}

			legal := &models.LegalStatusInfo{
				Zaken:           zaken,
				RisicoIndicator: deriveRisk(zaken),
				Bekendmakingen:  bekendmakingen,
			}
			result := models.OK(sources.SourceInsolvency, legal)
			if insolvencyErr != nil {
				result.Errors = append(result.Errors, errorMessage(insolvencyErr))
			}
			if announcementErr != nil {
				result.Errors = append(result.Errors, errorMessage(announcementErr))
			}
			prof.JuridischeStatus = result
		})
	}

	wg.Wait()

	// Derived from registry data, so it runs after the profiling stage
	if req.Include.Financial {
		if indicators := buildFinancial(prof.Basisgegevens.Data, o.now()); indicators != nil {
			prof.FinancieleIndicatoren = models.OK(SourceDerived, indicators)
		} else {
			prof.FinancieleIndicatoren = models.Failed[models.FinancialIndicators](SourceDerived)
		}
	}

	o.enrich(ctx, req, prof, acc)

	prof.Tijdlijn = buildTimeline(prof.Basisgegevens.Data, prof.JuridischeStatus.Data)

	if req.Enrichments.AIAnalysis {
		o.narrate(ctx, prof, acc)
	}

	return prof
}

// enrich runs the ENRICHING stage. The website is resolved first because
// techstack and socials operate on its URL; the rest fans out.
func (o *Orchestrator) enrich(ctx context.Context, req *models.IntelRequest, prof *models.CompanyProfile, acc *Accumulator) {
	enrichments := req.Enrichments

	var mu sync.Mutex
	var wg sync.WaitGroup
	run := func(fn func(ctx context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, o.timeout)
			defer cancel()
			fn(callCtx)
		}()
	}

	var websiteURL string
	var websiteErr error
	if enrichments.Website || enrichments.TechStack || enrichments.Socials {
		callCtx, cancel := context.WithTimeout(ctx, o.timeout)
		websiteURL, _, websiteErr = o.deps.Website.Discover(callCtx, prof.Naam, req.Plaats)
		cancel()
		if websiteErr != nil {
			o.sourceFailed(acc, sources.SourceWebsite, websiteErr)
		} else {
			acc.AddSource(sources.SourceWebsite)
		}
	}

	var extracted *models.OnlinePresence
	var socialsErr error

	if enrichments.TechStack {
		if websiteURL == "" {
			prof.Technologie = models.Failed[models.TechStack](sources.SourceTechStack)
		} else {
			run(func(ctx context.Context) {
				stack, _, err := o.deps.TechStack.Fingerprint(ctx, websiteURL)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					o.sourceFailed(acc, sources.SourceTechStack, err)
					prof.Technologie = models.Failed[models.TechStack](sources.SourceTechStack, errorMessage(err))
					return
				}
				acc.AddSource(sources.SourceTechStack)
				prof.Technologie = models.OK(sources.SourceTechStack, stack)
			})
		}
	}

	if enrichments.Socials && websiteURL != "" {
		run(func(ctx context.Context) {
			presence, _, err := o.deps.Socials.Extract(ctx, websiteURL)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				o.sourceFailed(acc, sources.SourceSocials, err)
				socialsErr = err
				return
			}
			acc.AddSource(sources.SourceSocials)
			extracted = presence
		})
	}

	if enrichments.News {
		run(func(ctx context.Context) {
			news, _, err := o.deps.News.Recent(ctx, prof.Naam)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				o.sourceFailed(acc, sources.SourceNews, err)
				prof.Nieuws = models.Failed[models.NewsInfo](sources.SourceNews, errorMessage(err))
				return
			}
			acc.AddSource(sources.SourceNews)
			prof.Nieuws = models.OK(sources.SourceNews, news)
		})
	}

	if enrichments.Reviews {
		run(func(ctx context.Context) {
			summary, _, err := o.deps.Reviews.Summary(ctx, prof.Naam, req.Plaats)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				o.sourceFailed(acc, sources.SourceReviews, err)
				prof.Reviews = models.Failed[models.ReviewSummary](sources.SourceReviews, errorMessage(err))
				return
			}
			acc.AddSource(sources.SourceReviews)
			prof.Reviews = models.OK(sources.SourceReviews, summary)
		})
	}

	wg.Wait()

	if enrichments.Website || enrichments.Socials {
		switch {
		case websiteErr != nil:
			prof.OnlineAanwezigheid = models.Failed[models.OnlinePresence](sources.SourceWebsite, errorMessage(websiteErr))
		default:
			result := models.OK(sources.SourceWebsite, mergePresence(websiteURL, extracted))
			if socialsErr != nil {
				result.Errors = append(result.Errors, errorMessage(socialsErr))
			}
			prof.OnlineAanwezigheid = result
		}
	}
}

// narrate runs the optional AI stage on the assembled profile
func (o *Orchestrator) narrate(ctx context.Context, prof *models.CompanyProfile, acc *Accumulator) {
	if o.deps.Narrator == nil {
		prof.AIAnalyse = models.Failed[models.AIAnalysis](sources.SourceAI, "geen AI-dienst geconfigureerd")
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	analysis, err := o.deps.Narrator.Summarize(callCtx, prof)
	if err != nil {
		o.sourceFailed(acc, sources.SourceAI, err)
		prof.AIAnalyse = models.Failed[models.AIAnalysis](sources.SourceAI, errorMessage(err))
		return
	}
	acc.AddSource(sources.SourceAI)
	prof.AIAnalyse = models.OK(sources.SourceAI, analysis)
}

func (o *Orchestrator) meta(acc *Accumulator, start time.Time) models.Meta {
	return models.Meta{
		Timestamp:       o.now().UTC(),
		Bronnen:         acc.Bronnen(),
		Verwerkingstijd: o.now().Sub(start).Milliseconds(),
		Errors:          acc.ErrorStrings(),
	}
}

func (o *Orchestrator) sourceFailed(acc *Accumulator, source string, err error) {
	acc.AddError(source, err)
	o.log.Warn().Str("bron", source).Err(err).Msg("bron niet beschikbaar")
}

func (o *Orchestrator) record(ctx context.Context, requestID string, req *models.IntelRequest, kvkNummer string, success bool, acc *Accumulator, start time.Time) {
	if o.deps.History == nil {
		return
	}
	entry := models.LookupRecord{
		RequestID:  requestID,
		Query:      req.Query,
		Type:       string(req.Type),
		KvkNummer:  kvkNummer,
		Success:    success,
		DurationMs: o.now().Sub(start).Milliseconds(),
		Bronnen:    acc.Bronnen(),
		ErrorCount: acc.ErrorCount(),
		CreatedAt:  o.now().UTC(),
	}
	if err := o.deps.History.Record(ctx, entry); err != nil {
		o.log.Warn().Err(err).Msg("kon opzoekactie niet registreren")
	}
}

func errorMessage(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.Message
	}
	return err.Error()
}
