package main

import (
	"net/http"

	"codeberg.org/adcraft/server/api/rest/auth"
	"codeberg.org/adcraft/server/api/rest/generate"
	"codeberg.org/adcraft/server/api/rest/health"
	"codeberg.org/adcraft/server/api/rest/media"
	"codeberg.org/adcraft/server/api/rest/usage"
	_ "codeberg.org/adcraft/server/docs"
	"codeberg.org/adcraft/server/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(server.config.AllowedOrigins))
	router.GET("/health", health.Handler)

	limit := server.limiter.Middleware()
	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)
		v1.GET("/openapi.json", OpenAPIHandler)

		auth.RegisterRoutes(v1, server.issuer, limit)
		usage.RegisterRoutes(v1, server.services.Agent, server.issuer, limit)
		media.RegisterRoutes(v1, server.workspaces, server.previews, server.issuer, server.config.MaxUploadBytes, limit)
		generate.RegisterRoutes(v1, server.services.Agent, server.workspaces, server.issuer, limit)
	}
}

// serves the registered OpenAPI document
func OpenAPIHandler(c *gin.Context) {
	doc, err := swag.ReadDoc()
	if err != nil {
		errors.InternalError(c, "failed to read api docs", err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}
