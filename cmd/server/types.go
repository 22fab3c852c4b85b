package main

import (
	"codeberg.org/adcraft/server/adcraft/workspaces"
	"codeberg.org/adcraft/server/internal/adcopy"
	"codeberg.org/adcraft/server/internal/agent"
	"codeberg.org/adcraft/server/internal/auth"
	"codeberg.org/adcraft/server/internal/config"
	"codeberg.org/adcraft/server/internal/kvstore"
	"codeberg.org/adcraft/server/internal/llm"
	"codeberg.org/adcraft/server/internal/media"
	"codeberg.org/adcraft/server/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// holds all dependencies and state for the API server
type Server struct {
	config     *config.Config
	store      kvstore.Store
	services   *Services
	workspaces *workspaces.Manager
	previews   *media.PreviewStore
	issuer     *auth.Issuer
	limiter    *ratelimit.Limiter
	router     *gin.Engine
}

// holds the generation pipeline
type Services struct {
	Agent  *agent.Agent
	AdCopy *adcopy.Client
	LLM    llm.ContentGenerator
}
