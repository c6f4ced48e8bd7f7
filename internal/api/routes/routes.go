package routes

import (
	"context"
	"log"

	"github.com/bjl5029/WSD-3/internal/api/handlers"
	"github.com/bjl5029/WSD-3/internal/api/middleware"
	"github.com/bjl5029/WSD-3/internal/api/openapi"
	"github.com/bjl5029/WSD-3/internal/app"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up the API routes by calling resource-specific registration functions
func RegisterRoutes(ctx context.Context, router *gin.Engine, app *app.Application) error {
	doc, err := openapi.Load(ctx)
	if err != nil {
		return err
	}
	docHandler, err := openapi.Handler(doc)
	if err != nil {
		return err
	}

	authHandler := handlers.NewAuthHandler(app.Auth, app.Validator)
	postingHandler := handlers.NewPostingHandler(app.Postings, app.Validator)
	applicationHandler := handlers.NewApplicationHandler(app.Applications, app.Validator)
	bookmarkHandler := handlers.NewBookmarkHandler(app.Bookmarks, app.Resumes, app.Validator)

	authMiddleware := middleware.JWTAuthMiddleware(app.Auth)
	adminOnly := middleware.RequirePostingManager(app.Authorizer)
	limiter := middleware.NewRateLimiter(app.RedisClient, app.Config.Auth.LoginAttempts, app.Config.Auth.LoginWindow)

	root := router.Group("")
	RegisterAuthRoutes(root, authHandler, authMiddleware, middleware.LoginRateLimit(limiter))
	RegisterJobRoutes(root, postingHandler, authMiddleware, adminOnly, openapi.RequestValidator(doc))
	RegisterApplicationRoutes(root, applicationHandler, authMiddleware)
	RegisterBookmarkRoutes(root, bookmarkHandler, authMiddleware)

	var pinger handlers.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	router.GET("/health", handlers.HealthCheck(pinger))

	router.GET("/openapi.json", docHandler)
	log.Println("Configuring Swagger UI handler")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/openapi.json")))
	return nil
}
