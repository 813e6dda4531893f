// Package router wires handlers and middleware into the HTTP surface.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "eosoracle/internal/docs" // swagger docs
	"eosoracle/internal/handlers"
	"eosoracle/internal/middleware"
	"eosoracle/internal/services"
)

// Options configures the HTTP surface.
type Options struct {
	Credentials middleware.Credentials
	UIPath      string
}

// New builds the gin engine. Mutating routes require Basic credentials;
// unmatched requests fall back to the UI.
func New(securityService services.SecurityServicer, opts Options) *gin.Engine {
	securityHandler := handlers.NewSecurityHandler(securityService, services.NewAuditService())
	staticHandler := handlers.NewStaticHandler(opts.UIPath)

	router := gin.New()
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	router.GET("/securities", securityHandler.ListSecurities)
	router.GET("/prices", securityHandler.GetPrices)
	router.GET("/securityTypes", securityHandler.ListSecurityTypes)

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.BasicAuth(opts.Credentials))
	protected.POST("/createSecurity", securityHandler.CreateSecurity)
	protected.DELETE("/security", securityHandler.EraseSecurity)
	protected.POST("/setPrice", securityHandler.SetPrice)

	router.NoRoute(staticHandler.Fallback)

	return router
}
