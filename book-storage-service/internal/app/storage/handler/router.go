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

// SetupRoutes настраивает все маршруты book-storage-service.
// Все эндпоинты каталога требуют токен, права по операциям:
// чтение - book:read, создание и правка - book:create, удаление - book:delete.
func SetupRoutes(bookHandler *BookHandler, authMiddleware *AuthMiddleware) *gin.Engine {
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

	books := router.Group("/api/v0/books")
	books.Use(authMiddleware.Authenticate())
	{
		books.POST("", authMiddleware.RequirePermission(roles.PermBookCreate), bookHandler.Create)
		books.GET("", authMiddleware.RequirePermission(roles.PermBookRead), bookHandler.GetAll)
		books.GET("/ids", authMiddleware.RequirePermission(roles.PermBookRead), bookHandler.GetByIDs)
		books.GET("/isbn/:isbn", authMiddleware.RequirePermission(roles.PermBookRead), bookHandler.GetByISBN)
		books.GET("/:id", authMiddleware.RequirePermission(roles.PermBookRead), bookHandler.GetByID)
		books.PUT("/:id", authMiddleware.RequirePermission(roles.PermBookCreate), bookHandler.Update)
		books.DELETE("/:id", authMiddleware.RequirePermission(roles.PermBookDelete), bookHandler.Delete)
	}

	return router
}
