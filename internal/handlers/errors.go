package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"galleria/api/internal/repository"
	"galleria/api/internal/security"
	"galleria/api/internal/service"
)

// respondError converts the service/repository error taxonomy to HTTP.
// Anything unclassified surfaces as a generic 500: the detail is logged,
// never leaked to the caller.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrFileRequired),
		errors.Is(err, service.ErrUnsupportedImage),
		errors.Is(err, service.ErrEmptyComment),
		errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidIDToken),
		errors.Is(err, security.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, repository.ErrImageNotFound),
		errors.Is(err, repository.ErrLikeNotFound),
		errors.Is(err, repository.ErrAdminNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, repository.ErrAlreadyLiked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrImageHost):
		h.log.Error().Err(err).Msg("image host failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "image host unavailable"})

	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
	}
}
