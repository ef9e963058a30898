package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bedrijfslens/kvk-intel-api/internal/apperrors"
	"github.com/bedrijfslens/kvk-intel-api/internal/logger"
	"github.com/bedrijfslens/kvk-intel-api/internal/models"
	"github.com/bedrijfslens/kvk-intel-api/internal/profile"
)

// IntelRunner runs one intelligence request end to end
type IntelRunner interface {
	Run(ctx context.Context, req *models.IntelRequest) (*profile.Outcome, error)
}

// IntelHandler handles company-intelligence requests
type IntelHandler struct {
	runner IntelRunner
	log    *logger.Logger
}

// NewIntelHandler creates a new intelligence handler
func NewIntelHandler(runner IntelRunner, log *logger.Logger) *IntelHandler {
	return &IntelHandler{runner: runner, log: log}
}

// Lookup handles POST /api/v1/bedrijf/intel
func (h *IntelHandler) Lookup(c *gin.Context) {
	var req models.IntelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperrors.ValidationError("ongeldige aanvraag: "+err.Error()))
		return
	}

	outcome, err := h.runner.Run(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if outcome.Profile != nil {
		c.JSON(http.StatusOK, models.ProfileResponse{
			Type:    models.ResponseTypeProfile,
			Profile: outcome.Profile,
		})
		return
	}
	c.JSON(http.StatusOK, outcome.Search)
}

// writeError maps an error to the response shape and status code
func (h *IntelHandler) writeError(c *gin.Context, err error) {
	body := models.ErrorBody{Code: apperrors.ErrCodeInternal, Message: "interne fout"}
	status := http.StatusInternalServerError

	if appErr, ok := apperrors.As(err); ok {
		body.Code = appErr.Code
		body.Message = appErr.Message
		switch appErr.Code {
		case apperrors.ErrCodeValidation:
			status = http.StatusBadRequest
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeRateLimited:
			status = http.StatusTooManyRequests
			retryAfter := appErr.RetryAfter
			body.RetryAfter = &retryAfter
			c.Header("Retry-After", strconv.Itoa(retryAfter))
		case apperrors.ErrCodeSource:
			status = http.StatusBadGateway
		}
	}

	if status >= 500 {
		h.log.Error().Err(err).Msg("aanvraag mislukt")
	}

	c.JSON(status, models.ErrorResponse{
		Type:  models.ResponseTypeError,
		Error: body,
		Meta: models.Meta{
			Timestamp: time.Now().UTC(),
			Bronnen:   []string{},
			Errors:    []string{body.Message},
		},
	})
}
