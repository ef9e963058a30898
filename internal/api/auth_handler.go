package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bedrijfslens/kvk-intel-api/internal/gate"
	"github.com/bedrijfslens/kvk-intel-api/internal/logger"
	"github.com/bedrijfslens/kvk-intel-api/internal/repository"
)

// AuthHandler exchanges API keys for bearer tokens and manages consumers
type AuthHandler struct {
	jwtService *gate.JWTService
	consumers  repository.ConsumerRepository
	log        *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtService *gate.JWTService, consumers repository.ConsumerRepository, log *logger.Logger) *AuthHandler {
	return &AuthHandler{jwtService: jwtService, consumers: consumers, log: log}
}

type tokenRequest struct {
	APIKey string `json:"apiKey" binding:"required"`
}

// Token handles POST /api/v1/auth/token: exchanges a valid API key for a
// short-lived bearer token.
func (h *AuthHandler) Token(c *gin.Context) {
	if h.consumers == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Consumer store not configured"})
		return
	}

	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "apiKey is required"})
		return
	}

	consumerID, secret, err := gate.ParseAPIKey(req.APIKey)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	consumer, err := h.consumers.GetByID(c.Request.Context(), consumerID)
	if err != nil || !consumer.Active || !gate.CheckSecret(secret, consumer.KeyHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	token, expiresAt, err := h.jwtService.GenerateToken(gate.Claims{
		ConsumerID: consumer.ID,
		Email:      consumer.Email,
		Role:       consumer.Role,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("kon token niet genereren")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt,
	})
}

type createConsumerRequest struct {
	Naam  string `json:"naam" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

// CreateConsumer handles POST /api/v1/auth/consumers (admin only). The
// full API key is returned once and never stored.
func (h *AuthHandler) CreateConsumer(c *gin.Context) {
	role, exists := c.Get(gate.ConsumerRoleKey)
	if !exists || role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}
	if h.consumers == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Consumer store not configured"})
		return
	}

	var req createConsumerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "naam and email are required"})
		return
	}
	if req.Role == "" {
		req.Role = "consumer"
	}

	if _, err := h.consumers.GetByEmail(c.Request.Context(), req.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	consumer := &repository.Consumer{
		ID:     uuid.New(),
		Naam:   req.Naam,
		Email:  req.Email,
		Role:   req.Role,
		Active: true,
	}

	key, hash, err := gate.NewAPIKey(consumer.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("kon API-sleutel niet genereren")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate API key"})
		return
	}
	consumer.KeyHash = hash

	if err := h.consumers.Create(c.Request.Context(), consumer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create consumer"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"consumer": consumer,
		"apiKey":   key,
	})
}

// RotateKey handles POST /api/v1/auth/consumers/:id/key (admin only). The
// old key stops working immediately; the new key is returned once.
func (h *AuthHandler) RotateKey(c *gin.Context) {
	role, exists := c.Get(gate.ConsumerRoleKey)
	if !exists || role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}
	if h.consumers == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Consumer store not configured"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consumer id"})
		return
	}

	consumer, err := h.consumers.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Consumer not found"})
		return
	}

	key, hash, err := gate.NewAPIKey(consumer.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("kon API-sleutel niet genereren")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate API key"})
		return
	}
	consumer.KeyHash = hash

	if err := h.consumers.Update(c.Request.Context(), consumer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate key"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"apiKey": key})
}

// DeactivateConsumer handles DELETE /api/v1/auth/consumers/:id (admin only)
func (h *AuthHandler) DeactivateConsumer(c *gin.Context) {
	role, exists := c.Get(gate.ConsumerRoleKey)
	if !exists || role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}
	if h.consumers == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Consumer store not configured"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consumer id"})
		return
	}

	if err := h.consumers.Deactivate(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Consumer not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
