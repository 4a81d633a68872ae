package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todoapi/internal/auth"
)

// Context keys populated by AuthMiddleware.
const (
	ContextUsername = "username"
	ContextUserID   = "userID"
	ContextRole     = "role"
)

// AuthMiddleware creates a Gin middleware for JWT authentication. The token
// is taken from the Authorization header, or from the access_token cookie
// when no header is present. All failures return the same 401 body.
func AuthMiddleware(tokens *auth.TokenManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			logger.Debug("Token verification failed", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		// Set user claims in context, once per request
		c.Set(ContextUsername, claims.Subject)
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

func extractToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", false
		}
		return parts[1], true
	}

	if cookie, err := c.Cookie("access_token"); err == nil && cookie != "" {
		return cookie, true
	}

	return "", false
}
