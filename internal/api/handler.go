// Package api exposes the complaint service over HTTP.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	infrajwt "github.com/ZP-ING/reportebuenaventura-backend/infrastructure/jwt"
	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/complaint"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/directory"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/stats"
)

// Error codes returned in the "code" field.
const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeValidation     = "VALIDATION_ERROR"
	codeNotFound       = "NOT_FOUND"
	codeForbidden      = "FORBIDDEN"
	codeUnknownEntity  = "UNKNOWN_ENTITY"
	codeConflict       = "CONFLICT"
	codeInternal       = "INTERNAL_ERROR"
)

// Handler serves the REST API.
type Handler struct {
	complaints *complaint.Service
	directory  *directory.Directory
	entities   *directory.Manager
	stats      *stats.Service
	log        logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(
	complaints *complaint.Service,
	dir *directory.Directory,
	entities *directory.Manager,
	statsService *stats.Service,
	log logger.Logger,
) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		complaints: complaints,
		directory:  dir,
		entities:   entities,
		stats:      statsService,
		log:        log,
	}
}

// identity converts token claims into the caller identity. Without claims
// the identity is empty and user-only operations are refused downstream.
func identity(c *gin.Context) domain.Identity {
	claims, ok := infrajwt.GetClaims(c)
	if !ok {
		return domain.Identity{}
	}
	return domain.Identity{
		UserID:  claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Phone:   claims.Phone,
		IsAdmin: claims.IsAdmin(),
	}
}

// requireAdmin rejects callers without the admin role.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identity(c).IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "administrator role required",
				"code":  codeForbidden,
			})
			return
		}
		c.Next()
	}
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context(), h.log).Debug("Invalid request body", logger.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error(), "code": codeInvalidRequest})
}

// respondError maps the domain error taxonomy onto HTTP status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field, "code": codeValidation})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": codeNotFound})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "code": codeForbidden})
	case errors.Is(err, domain.ErrUnknownEntity):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": codeUnknownEntity})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": codeConflict})
	default:
		logger.FromContext(c.Request.Context(), h.log).Error("Request failed",
			logger.String("path", c.FullPath()),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": codeInternal})
	}
}
