package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/databoard/databoard-backend/internal/domain"
)

// RespondError maps the error taxonomy onto HTTP statuses. Validation
// failures and malformed selectors surface their reason; unexpected
// failures are logged with full detail but answered with a generic body
// so driver internals never reach the client.
func RespondError(c *gin.Context, log zerolog.Logger, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Reason})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidQuery),
		errors.Is(err, domain.ErrUnknownBackend):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
