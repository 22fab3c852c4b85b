package generate

import (
	"codeberg.org/adcraft/server/adcraft/workspaces"
	"codeberg.org/adcraft/server/internal/agent"
	"codeberg.org/adcraft/server/internal/auth"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, a *agent.Agent, manager *workspaces.Manager, issuer *auth.Issuer, limit gin.HandlerFunc) {
	router.POST("/generate", auth.Middleware(issuer), limit, GenerateHandler(a, manager))
	router.GET("/export/csv", auth.Middleware(issuer), ExportCSVHandler(a, manager))
}
