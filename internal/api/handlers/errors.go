package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/bjl5029/WSD-3/internal/services"

	"github.com/gin-gonic/gin"
)

// statusFor maps a service error kind to its HTTP status. Unknown errors, and transient
// store failures that survived the retries, are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body for err. Client-facing messages come from
// *services.Error; everything else is logged and answered with fallback.
func respondError(c *gin.Context, op string, err error, fallback string) {
	status := statusFor(err)

	var svcErr *services.Error
	switch {
	case status == http.StatusInternalServerError:
		log.Printf("%s: %v", op, err)
		c.JSON(status, gin.H{"error": fallback})
	case errors.As(err, &svcErr):
		c.JSON(status, gin.H{"error": svcErr.Message})
	default:
		c.JSON(status, gin.H{"error": http.StatusText(status)})
	}
}
