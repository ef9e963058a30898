package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/bedrijfslens/kvk-intel-api/internal/ai"
	"github.com/bedrijfslens/kvk-intel-api/internal/api"
	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
	"github.com/bedrijfslens/kvk-intel-api/internal/database"
	"github.com/bedrijfslens/kvk-intel-api/internal/logger"
	"github.com/bedrijfslens/kvk-intel-api/internal/profile"
	"github.com/bedrijfslens/kvk-intel-api/internal/ratelimit"
	"github.com/bedrijfslens/kvk-intel-api/internal/repository"
	"github.com/bedrijfslens/kvk-intel-api/internal/sources"
	"github.com/bedrijfslens/kvk-intel-api/pkg/config"
)

func main() {
	godotenv.Load()

	cfg := config.New()
	log := logger.New(logger.Config{Env: cfg.Environment, Level: cfg.LogLevel})

	// Optional postgres for lookup history and API consumers
	var db *database.DB
	var history repository.HistoryRepository
	var consumers repository.ConsumerRepository
	if cfg.HasDatabase() {
		var err error
		db, err = database.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("database niet bereikbaar")
		}
		defer db.Close()

		if err := db.RunMigrations(); err != nil {
			log.Fatal().Err(err).Msg("migraties mislukt")
		}

		history = repository.NewHistoryRepository(db.DB)
		consumers = repository.NewConsumerRepository(db.DB)
	} else {
		log.Warn().Msg("geen DATABASE_URL, geschiedenis en API-sleutels uitgeschakeld")
	}

	// Shared KV store: redis when configured, in-memory otherwise
	var store cache.Store
	if cfg.HasRedis() {
		redisStore, err := cache.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis niet bereikbaar")
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		log.Warn().Msg("geen REDIS_URL, in-memory store actief")
		store = cache.NewMemoryStore()
	}

	limiter := ratelimit.New(store, log)
	fetcher := sources.NewFetcher(store, limiter, log)
	httpClient := sources.NewHTTPClient(cfg.SourceTimeout)
	defer httpClient.Close()

	var narrator profile.Narrator
	if cfg.HasAIService() {
		narrator = ai.NewHTTPNarrator(cfg.AIServiceURL, cfg.AIServiceKey, cfg.AIServiceModel, cfg.SourceTimeout)
	}

	orchestrator := profile.NewOrchestrator(profile.Deps{
		Registry:      sources.NewRegistryClient(fetcher, httpClient, cfg.RegistryBaseURL, cfg.RegistryAPIKey),
		Insolvency:    sources.NewInsolvencyClient(fetcher, httpClient, cfg.InsolvencyBaseURL),
		Announcements: sources.NewAnnouncementsClient(fetcher, httpClient, cfg.AnnouncementsBaseURL),
		Directors:     sources.NewDirectorsClient(fetcher, httpClient, cfg.RegistryBaseURL, cfg.RegistryAPIKey),
		Relations:     sources.NewRelationsClient(fetcher, httpClient, cfg.RelationsBaseURL, cfg.RegistryAPIKey),
		Website:       sources.NewWebsiteClient(fetcher, httpClient, cfg.DiscoveryBaseURL),
		TechStack:     sources.NewTechStackClient(fetcher, httpClient),
		Socials:       sources.NewSocialsClient(fetcher, httpClient),
		News:          sources.NewNewsClient(fetcher, httpClient, cfg.NewsBaseURL),
		Reviews:       sources.NewReviewsClient(fetcher, httpClient, cfg.ReviewsBaseURL),
		Narrator:      narrator,
		History:       history,
		Logger:        log,
		SourceTimeout: cfg.SourceTimeout,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if proxies := cfg.GetTrustedProxies(); len(proxies) > 0 {
		if err := r.SetTrustedProxies(proxies); err != nil {
			log.Fatal().Err(err).Msg("ongeldige trusted proxies")
		}
	}

	api.SetupRoutes(r, api.Deps{
		Config:    cfg,
		Logger:    log,
		Runner:    orchestrator,
		Store:     store,
		DB:        db,
		History:   history,
		Consumers: consumers,
	})

	log.Info().Str("port", cfg.Port).Msg("server gestart")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server gestopt")
	}
}
