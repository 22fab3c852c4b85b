package usage

import (
	"codeberg.org/adcraft/server/internal/agent"
	"codeberg.org/adcraft/server/internal/auth"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, a *agent.Agent, issuer *auth.Issuer, limit gin.HandlerFunc) {
	router.GET("/plans", ListPlansHandler)

	usageGroup := router.Group("/usage")
	usageGroup.Use(auth.Middleware(issuer))
	{
		usageGroup.GET("", GetUsageHandler(a))
		usageGroup.PUT("/plan", limit, SetPlanHandler(a))
	}
}
