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

// SetupRoutes настраивает все маршруты auth-service.
// Публичны только register/authenticate/refresh-token: это единственные
// операции, доступные без токена.
func SetupRoutes(authHandler *AuthHandler, userHandler *UserHandler, authMiddleware *AuthMiddleware) *gin.Engine {
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

	// Публичные эндпоинты (без аутентификации)
	auth := router.Group("/api/v0/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/authenticate", authHandler.Authenticate)
		auth.POST("/refresh-token", authHandler.RefreshToken)
	}

	// Административные эндпоинты с проверкой разрешений user:*
	users := router.Group("/api/v0/users")
	users.Use(authMiddleware.Authenticate())
	{
		users.POST("", authMiddleware.RequirePermission(roles.PermUserWrite), userHandler.Create)
		users.GET("", authMiddleware.RequirePermission(roles.PermUserRead), userHandler.List)
		users.GET("/:id", authMiddleware.RequirePermission(roles.PermUserRead), userHandler.GetByID)
		users.PUT("/:id", authMiddleware.RequirePermission(roles.PermUserWrite), userHandler.Update)
		users.DELETE("/:id", authMiddleware.RequirePermission(roles.PermUserDelete), userHandler.Delete)
	}

	return router
}
