package gate

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bedrijfslens/kvk-intel-api/internal/repository"
)

// Middleware authorizes requests with either a bearer token or an API key
// in the X-Api-Key header. The consumer repository is optional: without it
// only bearer tokens are accepted.
func Middleware(service *JWTService, consumers repository.ConsumerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey := c.GetHeader("X-Api-Key"); apiKey != "" {
			authorizeAPIKey(c, consumers, apiKey)
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			c.Abort()
			return
		}

		claims, err := service.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(ConsumerIDKey, claims.ConsumerID)
		c.Set(ConsumerRoleKey, claims.Role)
		c.Next()
	}
}

func authorizeAPIKey(c *gin.Context, consumers repository.ConsumerRepository, apiKey string) {
	if consumers == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "API keys not supported"})
		c.Abort()
		return
	}

	consumerID, secret, err := ParseAPIKey(apiKey)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		c.Abort()
		return
	}

	consumer, err := consumers.GetByID(c.Request.Context(), consumerID)
	if err != nil || !consumer.Active || !CheckSecret(secret, consumer.KeyHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		c.Abort()
		return
	}

	c.Set(ConsumerIDKey, consumer.ID)
	c.Set(ConsumerRoleKey, consumer.Role)
	c.Next()
}
