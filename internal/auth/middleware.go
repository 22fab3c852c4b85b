package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"codeberg.org/adcraft/server/internal/errors"
)

const clientIDKey = "client_id"

// validates JWT tokens and adds the client id to context
func Middleware(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.Unauthorized(c, "authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			errors.Unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := issuer.ValidateJWT(parts[1])
		if err != nil {
			errors.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(clientIDKey, claims.ClientID)
		c.Next()
	}
}

// extracts client_id from context after Middleware
func GetClientID(c *gin.Context) (string, bool) {
	value, exists := c.Get(clientIDKey)
	if !exists {
		return "", false
	}

	clientID, ok := value.(string)
	return clientID, ok && clientID != ""
}
