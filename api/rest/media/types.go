package media

import "codeberg.org/adcraft/server/adcraft/workspaces"

// JSON alternative to a multipart upload
type SelectMediaRequest struct {
	MIMEType string `json:"mime_type" binding:"required"`
	Data     string `json:"data" binding:"required"`
}

type MediaResponse struct {
	Workspace  workspaces.View `json:"workspace"`
	PreviewURL string          `json:"preview_url,omitempty"`
}

// base path previews are served from
const previewPath = "/api/v1/media/preview/"

// room for the JSON envelope, a data-URL prefix or multipart headers
const bodyOverhead = 64 << 10

// sent with every preview so an uploaded file can never run as a page
const previewCSP = "default-src 'none'; sandbox"
