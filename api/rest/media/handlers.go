package media

import (
	"encoding/base64"
	stderrors "errors"
	"net/http"
	"strings"

	"codeberg.org/adcraft/server/adcraft/workspaces"
	"codeberg.org/adcraft/server/internal/auth"
	"codeberg.org/adcraft/server/internal/errors"
	"codeberg.org/adcraft/server/internal/logger"
	"codeberg.org/adcraft/server/internal/media"
	"github.com/gin-gonic/gin"
)

// SelectMediaHandler godoc
// @Summary Select a creative
// @Description Uploads an image or video as multipart field "file" or as JSON {mime_type, data}.
// @Description Replaces the current selection and discards the last result.
// @Tags media
// @Accept mpfd,json
// @Produce json
// @Security BearerAuth
// @Param file formData file false "Image or video"
// @Success 200 {object} MediaResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/media [post]
func SelectMediaHandler(manager *workspaces.Manager, previews *media.PreviewStore, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, ok := auth.GetClientID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bodyLimit(maxBytes))

		payload, err := readPayload(c, maxBytes)
		if err != nil {
			if _, isEncoding := err.(*media.EncodingError); isEncoding {
				errors.EncodingFailed(c, err)
				return
			}

			errors.ValidationError(c, err)
			return
		}

		preview, err := media.NewPreview(previews, payload)
		if err != nil {
			errors.InternalError(c, "failed to create preview", err)
			return
		}

		ws := manager.Get(clientID)
		ws.SelectMedia(payload, preview, manager.Now())

		logger.FromContext(c.Request.Context()).Info("media selected",
			"client_id", clientID,
			"mime_type", payload.MIMEType,
			"size", payload.Size,
		)

		c.JSON(http.StatusOK, newMediaResponse(ws.View()))
	}
}

// GetMediaHandler godoc
// @Summary Current selection
// @Tags media
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MediaResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/media [get]
func GetMediaHandler(manager *workspaces.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, ok := auth.GetClientID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		c.JSON(http.StatusOK, newMediaResponse(manager.Get(clientID).View()))
	}
}

// ClearMediaHandler godoc
// @Summary Clear the selection
// @Description Drops the selected creative, its preview and the last result
// @Tags media
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/media [delete]
func ClearMediaHandler(manager *workspaces.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, ok := auth.GetClientID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		if ws, exists := manager.Lookup(clientID); exists {
			ws.ClearMedia(manager.Now())
		}

		c.Status(http.StatusNoContent)
	}
}

// PreviewHandler godoc
// @Summary Preview bytes
// @Description Serves the selected creative. The id is only valid while the creative stays selected.
// @Tags media
// @Param id path string true "Preview id"
// @Success 200 {file} binary
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/media/preview/{id} [get]
func PreviewHandler(previews *media.PreviewStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		mimeType, data, ok := previews.Get(c.Param("id"))
		if !ok {
			errors.NotFound(c, "preview")
			return
		}

		c.Header("Cache-Control", "no-store")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Content-Security-Policy", previewCSP)
		c.Data(http.StatusOK, mimeType, data)
	}
}

func readPayload(c *gin.Context, maxBytes int64) (*media.Payload, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			if bodyTooLarge(err) {
				return nil, &media.EncodingError{Err: media.ErrTooLarge}
			}

			return nil, &media.EncodingError{Err: media.ErrUnreadable}
		}

		if header.Size > maxBytes {
			return nil, &media.EncodingError{Filename: header.Filename, Err: media.ErrTooLarge}
		}

		f, err := header.Open()
		if err != nil {
			return nil, &media.EncodingError{Filename: header.Filename, Err: media.ErrUnreadable}
		}
		defer f.Close()

		return media.Encode(f, header.Filename, header.Header.Get("Content-Type"), maxBytes)
	}

	var req SelectMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if bodyTooLarge(err) {
			return nil, &media.EncodingError{Err: media.ErrTooLarge}
		}

		return nil, err
	}

	return media.DecodePayload(req.MIMEType, req.Data, maxBytes)
}

// largest request body accepted for a creative of maxBytes; base64 in JSON is the larger encoding
func bodyLimit(maxBytes int64) int64 {
	if maxBytes <= 0 {
		maxBytes = media.DefaultMaxBytes
	}

	return int64(base64.StdEncoding.EncodedLen(int(maxBytes))) + bodyOverhead
}

func bodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return stderrors.As(err, &maxErr)
}

func newMediaResponse(view workspaces.View) MediaResponse {
	resp := MediaResponse{Workspace: view}

	if view.PreviewID != "" {
		resp.PreviewURL = previewPath + view.PreviewID
	}

	return resp
}
