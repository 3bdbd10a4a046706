package middleware

import (
	"net/http"
	"strings"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - middleware проверки JWT.
// Принимаются только access токены; отозванные отклоняются.
func AuthMiddleware(tokens *auth.TokenManager, blacklist auth.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ParseType(tokenStr, auth.TokenTypeAccess)
		if err != nil {
			msg := "Invalid token"
			if err == auth.ErrTokenExpired {
				msg = "Token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}

		if blacklist != nil && blacklist.IsRevoked(tokenStr) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token has been revoked"})
			return
		}

		// Сохраняем claims в контекст запроса и в контекст логгера
		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRoles - middleware для проверки нескольких возможных ролей
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[models.UserRole(strings.ToLower(string(r)))] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied: no role"})
			return
		}

		roleStr, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied: invalid role type"})
			return
		}

		if !roleSet[models.UserRole(strings.ToLower(roleStr))] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied: insufficient role"})
			return
		}

		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}

// GetUserRole извлекает роль пользователя из контекста
func GetUserRole(c *gin.Context) models.UserRole {
	roleVal, exists := c.Get("role")
	if !exists {
		return ""
	}

	roleStr, ok := roleVal.(string)
	if !ok {
		return ""
	}

	return models.UserRole(strings.ToLower(roleStr))
}

// OptionalAuthMiddleware - как AuthMiddleware, но отсутствие или
// невалидность токена не прерывает запрос: он идет дальше анонимно.
// Нужен публичным маршрутам, где автор видит больше, чем посетитель.
func OptionalAuthMiddleware(tokens *auth.TokenManager, blacklist auth.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ParseType(tokenStr, auth.TokenTypeAccess)
		if err != nil || (blacklist != nil && blacklist.IsRevoked(tokenStr)) {
			c.Next()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
