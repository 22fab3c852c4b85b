package auth

import (
	"net/http"

	"codeberg.org/adcraft/server/internal/auth"
	"codeberg.org/adcraft/server/internal/errors"
	"codeberg.org/adcraft/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// AnonymousHandler godoc
// @Summary Issue an anonymous token
// @Description Creates a new anonymous client id and returns a bearer token for it
// @Tags auth
// @Produce json
// @Success 201 {object} AnonymousTokenResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/auth/anonymous [post]
func AnonymousHandler(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, token, err := issuer.IssueAnonymousToken()
		if err != nil {
			errors.InternalError(c, "failed to issue token", err)
			return
		}

		logger.FromContext(c.Request.Context()).Info("anonymous client created", "client_id", clientID)

		c.JSON(http.StatusCreated, AnonymousTokenResponse{
			ClientID: clientID,
			Token:    token,
		})
	}
}

// MeHandler godoc
// @Summary Current client
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/auth/me [get]
func MeHandler(c *gin.Context) {
	clientID, ok := auth.GetClientID(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, MeResponse{ClientID: clientID})
}
