package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	userCtx             = "currentUser" // Key to store the authenticated user in context
)

// Authenticator resolves a bearer token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}

// JWTAuthMiddleware authenticates the bearer token and stores the user in the context.
func JWTAuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authorizationHeader)
		if authHeader == "" {
			abortUnauthorized(c, "Not authenticated")
			return
		}

		headerParts := strings.Fields(authHeader)
		if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
			log.Println("Auth middleware: Invalid Authorization header format")
			abortUnauthorized(c, "Not authenticated")
			return
		}

		user, err := authn.Authenticate(c.Request.Context(), headerParts[1])
		if err != nil {
			var svcErr *services.Error
			switch {
			case errors.Is(err, services.ErrForbidden) && errors.As(err, &svcErr):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": svcErr.Message})
			case errors.Is(err, services.ErrUnauthorized) && errors.As(err, &svcErr):
				abortUnauthorized(c, svcErr.Message)
			default:
				log.Printf("Auth middleware: Error authenticating request: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate request"})
			}
			return
		}

		c.Set(userCtx, user)
		c.Next()
	}
}

// RequirePostingManager lets through only users the authorizer allows to manage postings.
// It must run after JWTAuthMiddleware.
func RequirePostingManager(authz services.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetUserFromContext(c)
		if err != nil {
			abortUnauthorized(c, "Not authenticated")
			return
		}
		if !authz.CanManagePostings(user) {
			log.Printf("Auth middleware: user %d denied posting management", user.ID)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
			return
		}
		c.Next()
	}
}

// GetUserFromContext returns the user stored by JWTAuthMiddleware.
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	userAny, exists := c.Get(userCtx)
	if !exists {
		return nil, errors.New("user not found in context")
	}

	user, ok := userAny.(*models.User)
	if !ok || user == nil {
		return nil, errors.New("user in context is of invalid type")
	}

	return user, nil
}

// SetUserInContext stores user the way JWTAuthMiddleware does.
func SetUserInContext(c *gin.Context, user *models.User) {
	c.Set(userCtx, user)
}
