package auth

import (
	"codeberg.org/adcraft/server/internal/auth"
	"github.com/gin-gonic/gin"
)

// registers all authentication routes
func RegisterRoutes(router *gin.RouterGroup, issuer *auth.Issuer, limit gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/anonymous", limit, AnonymousHandler(issuer))
		authGroup.GET("/me", auth.Middleware(issuer), MeHandler)
	}
}
