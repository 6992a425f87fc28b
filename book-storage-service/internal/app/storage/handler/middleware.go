package handler

import (
	"net/http"
	"strings"

	"bookhive/pkg/metrics"
	"bookhive/pkg/roles"
	"bookhive/pkg/token"

	"github.com/gin-gonic/gin"
)

const serviceName = "book-storage-service"

// AuthMiddleware проверяет bearer токены на границе запроса.
// Секрет и issuer общие с auth-service, проверка чисто локальная.
type AuthMiddleware struct {
	tokenManager *token.Manager
}

// NewAuthMiddleware создает новый middleware для аутентификации
func NewAuthMiddleware(tokenManager *token.Manager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tokenManager}
}

// Authenticate извлекает и верифицирует токен, кладет identity в контекст Gin.
// Причина отказа токена намеренно не раскрывается в ответе.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Authorization header required",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := m.tokenManager.VerifyAccessToken(parts[1])
		if err != nil {
			metrics.RecordTokenRejection(serviceName)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Invalid token",
			})
			c.Abort()
			return
		}

		c.Set("email", claims.Subject)
		c.Set("authorities", claims.Authorities)
		c.Set("auth_token", parts[1])

		c.Next()
	}
}

// RequirePermission пропускает только вызовы с требуемым разрешением
func (m *AuthMiddleware) RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("authorities")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Unauthorized",
			})
			c.Abort()
			return
		}

		authorities, ok := value.([]string)
		if !ok || !roles.HasPermission(authorities, permission) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
