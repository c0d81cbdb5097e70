package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moricehq/morice-backend/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey      = "userID"
	ContextProfileTypeKey = "profileType"
)

// AuthMiddleware проверяет JWT access токен.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentification requise"})
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		userID, profileType, err := tokens.ParseAccess(raw)
		if err != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "jeton invalide ou expiré"})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextProfileTypeKey, profileType)
		c.Next()
	}
}
