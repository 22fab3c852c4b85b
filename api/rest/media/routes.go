package media

import (
	"codeberg.org/adcraft/server/adcraft/workspaces"
	"codeberg.org/adcraft/server/internal/auth"
	"codeberg.org/adcraft/server/internal/media"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, manager *workspaces.Manager, previews *media.PreviewStore, issuer *auth.Issuer, maxBytes int64, limit gin.HandlerFunc) {
	// preview ids are unguessable and short-lived, the browser fetches them without a token
	router.GET("/media/preview/:id", PreviewHandler(previews))

	mediaGroup := router.Group("/media")
	mediaGroup.Use(auth.Middleware(issuer))
	{
		mediaGroup.GET("", GetMediaHandler(manager))
		mediaGroup.POST("", limit, SelectMediaHandler(manager, previews, maxBytes))
		mediaGroup.DELETE("", ClearMediaHandler(manager))
	}
}
