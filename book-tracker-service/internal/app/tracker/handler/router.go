package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookhive/pkg/logger"
	"bookhive/pkg/metrics"
	"bookhive/pkg/roles"
)

// SetupRoutes настраивает все маршруты book-tracker-service.
// Чтение доступных книг требует book:read, работа с записями реестра -
// права user:*.
func SetupRoutes(loanHandler *LoanHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	loans := router.Group("/api/v0/loans")
	loans.Use(authMiddleware.Authenticate())
	{
		loans.GET("/available", authMiddleware.RequirePermission(roles.PermBookRead), loanHandler.GetAvailable)
		loans.POST("", authMiddleware.RequirePermission(roles.PermUserWrite), loanHandler.Create)
		loans.GET("", authMiddleware.RequirePermission(roles.PermUserRead), loanHandler.List)
		loans.GET("/:id", authMiddleware.RequirePermission(roles.PermUserRead), loanHandler.GetByID)
		loans.PATCH("/:id/status", authMiddleware.RequirePermission(roles.PermUserWrite), loanHandler.UpdateStatus)
		loans.DELETE("/:id", authMiddleware.RequirePermission(roles.PermUserDelete), loanHandler.Delete)
	}

	return router
}
