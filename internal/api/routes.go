package api

import (
	"github.com/gin-gonic/gin"

	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
	"github.com/bedrijfslens/kvk-intel-api/internal/database"
	"github.com/bedrijfslens/kvk-intel-api/internal/gate"
	"github.com/bedrijfslens/kvk-intel-api/internal/logger"
	"github.com/bedrijfslens/kvk-intel-api/internal/middleware"
	"github.com/bedrijfslens/kvk-intel-api/internal/repository"
	"github.com/bedrijfslens/kvk-intel-api/pkg/config"
)

// Deps bundles everything the routes need. DB, History and Consumers are
// nil when no database is configured; those routes then degrade.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Runner    IntelRunner
	Store     cache.Store
	DB        *database.DB
	History   repository.HistoryRepository
	Consumers repository.ConsumerRepository
}

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, deps Deps) {
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(deps.Config))
	r.Use(middleware.InputValidation(deps.Config))

	jwtService := gate.NewJWTService(deps.Config.JWTSecret)

	intelHandler := NewIntelHandler(deps.Runner, deps.Logger)
	healthHandler := NewHealthHandler(deps.Store, deps.DB)
	authHandler := NewAuthHandler(jwtService, deps.Consumers, deps.Logger)
	historyHandler := NewHistoryHandler(deps.History)

	r.GET("/health", healthHandler.Health)

	public := r.Group("/api/v1")
	{
		public.POST("/auth/token", authHandler.Token)
	}

	protected := r.Group("/api/v1")
	protected.Use(gate.Middleware(jwtService, deps.Consumers))
	{
		protected.POST("/bedrijf/intel", intelHandler.Lookup)
		protected.POST("/auth/consumers", authHandler.CreateConsumer)
		protected.POST("/auth/consumers/:id/key", authHandler.RotateKey)
		protected.DELETE("/auth/consumers/:id", authHandler.DeactivateConsumer)
		protected.GET("/history", historyHandler.Recent)
	}
}
