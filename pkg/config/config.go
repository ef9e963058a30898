package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DatabaseURL string
	RedisURL    string
	JWTSecret   string

	// Upstream data sources
	RegistryBaseURL      string
	RegistryAPIKey       string
	InsolvencyBaseURL    string
	AnnouncementsBaseURL string
	RelationsBaseURL     string
	DiscoveryBaseURL     string
	NewsBaseURL          string
	ReviewsBaseURL       string

	// AI narrative collaborator
	AIServiceURL   string
	AIServiceKey   string
	AIServiceModel string

	// Per-source request timeout and security settings
	SourceTimeout  time.Duration
	AllowedOrigins string
	TrustedProxies string
	MaxRequestSize int64
}

// New creates a new configuration instance from environment variables
func New() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),

		RegistryBaseURL:      getEnv("REGISTRY_BASE_URL", "https://api.overheid.io/openkvk"),
		RegistryAPIKey:       getEnv("REGISTRY_API_KEY", ""),
		InsolvencyBaseURL:    getEnv("INSOLVENCY_BASE_URL", "https://insolventies.rechtspraak.nl/api"),
		AnnouncementsBaseURL: getEnv("ANNOUNCEMENTS_BASE_URL", "https://zoek.officielebekendmakingen.nl/api"),
		RelationsBaseURL:     getEnv("RELATIONS_BASE_URL", "https://api.overheid.io/openkvk"),
		DiscoveryBaseURL:     getEnv("DISCOVERY_BASE_URL", "https://api.duckduckgo.com"),
		NewsBaseURL:          getEnv("NEWS_BASE_URL", "https://nieuws.bedrijfslens.nl/api"),
		ReviewsBaseURL:       getEnv("REVIEWS_BASE_URL", "https://reviews.bedrijfslens.nl/api"),

		AIServiceURL:   getEnv("AI_SERVICE_URL", ""),
		AIServiceKey:   getEnv("AI_SERVICE_KEY", ""),
		AIServiceModel: getEnv("AI_SERVICE_MODEL", "gpt-4o-mini"),

		SourceTimeout:  time.Duration(getEnvAsInt("SOURCE_TIMEOUT_SECONDS", 8)) * time.Second,
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
		TrustedProxies: getEnv("TRUSTED_PROXIES", ""),
		MaxRequestSize: getEnvAsInt64("MAX_REQUEST_SIZE", 1024*1024), // 1MB default
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasDatabase returns true if a PostgreSQL connection is configured
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// HasRedis returns true if a Redis cache store is configured
func (c *Config) HasRedis() bool {
	return c.RedisURL != ""
}

// HasAIService returns true if the narrative service is configured
func (c *Config) HasAIService() bool {
	return c.AIServiceURL != "" && c.AIServiceKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetAllowedOrigins returns a slice of allowed CORS origins
func (c *Config) GetAllowedOrigins() []string {
	if c.AllowedOrigins == "" {
		return []string{}
	}
	return strings.Split(c.AllowedOrigins, ",")
}

// GetTrustedProxies returns a slice of trusted proxy IPs
func (c *Config) GetTrustedProxies() []string {
	if c.TrustedProxies == "" {
		return []string{}
	}
	return strings.Split(c.TrustedProxies, ",")
}
