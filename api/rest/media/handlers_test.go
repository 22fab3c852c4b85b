package media

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/adcraft/server/adcraft/workspaces"
	"codeberg.org/adcraft/server/internal/auth"
	"codeberg.org/adcraft/server/internal/errors"
	"codeberg.org/adcraft/server/internal/media"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type testEnv struct {
	router   *gin.Engine
	previews *media.PreviewStore
	token    string
}

func newTestEnv(t *testing.T, maxBytes int64) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := auth.NewIssuer("media-test-secret")
	require.NoError(t, err)

	_, token, err := issuer.IssueAnonymousToken()
	require.NoError(t, err)

	manager := workspaces.NewManager(time.Hour)
	t.Cleanup(manager.Close)

	previews := media.NewPreviewStore()

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), manager, previews, issuer, maxBytes, func(c *gin.Context) { c.Next() })

	return &testEnv{router: router, previews: previews, token: token}
}

func (e *testEnv) upload(t *testing.T, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return e.serve(req)
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	return w
}

func decodeMedia(t *testing.T, w *httptest.ResponseRecorder) MediaResponse {
	t.Helper()

	var resp MediaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return resp
}

func TestSelectMediaHandler_Multipart(t *testing.T) {
	env := newTestEnv(t, media.DefaultMaxBytes)

	w := env.upload(t, "ad.png", pngBytes)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeMedia(t, w)
	assert.True(t, resp.Workspace.HasMedia)
	assert.Equal(t, "image/png", resp.Workspace.MIMEType)
	assert.Equal(t, "ad.png", resp.Workspace.Filename)
	require.True(t, strings.HasPrefix(resp.PreviewURL, previewPath))

	// previews are fetched without a token
	req := httptest.NewRequest(http.MethodGet, resp.PreviewURL, nil)
	pw := httptest.NewRecorder()
	env.router.ServeHTTP(pw, req)

	require.Equal(t, http.StatusOK, pw.Code)
	assert.Equal(t, "image/png", pw.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", pw.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'none'; sandbox", pw.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "no-store", pw.Header().Get("Cache-Control"))
	assert.Equal(t, pngBytes, pw.Body.Bytes())
}

func TestSelectMediaHandler_JSON(t *testing.T) {
	env := newTestEnv(t, media.DefaultMaxBytes)

	body := `{"mime_type":"image/png","data":"data:image/png;base64,` + base64.StdEncoding.EncodeToString(pngBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := env.serve(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "image/png", decodeMedia(t, w).Workspace.MIMEType)
	assert.Equal(t, 1, env.previews.Len())
}

func TestSelectMediaHandler_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		maxBytes int64
	}{
		{name: "unsupported type", filename: "notes.pdf", data: []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n"), maxBytes: media.DefaultMaxBytes},
		{name: "empty file", filename: "ad.png", data: nil, maxBytes: media.DefaultMaxBytes},
		{name: "too large", filename: "ad.png", data: pngBytes, maxBytes: 8},
		{name: "svg with script", filename: "x.svg", data: []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(document.domain)</script></svg>`), maxBytes: media.DefaultMaxBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.maxBytes)

			w := env.upload(t, tt.filename, tt.data)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp errors.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

			assert.Equal(t, errors.CodeEncodingFailed, resp.Error)
			assert.Equal(t, "cannot read file", resp.Message)
			assert.Zero(t, env.previews.Len(), "no preview is created for a rejected file")
		})
	}
}

func TestReplacingMediaRevokesPreviousPreview(t *testing.T) {
	env := newTestEnv(t, media.DefaultMaxBytes)

	first := decodeMedia(t, env.upload(t, "a.png", pngBytes))
	second := decodeMedia(t, env.upload(t, "b.png", pngBytes))

	assert.NotEqual(t, first.PreviewURL, second.PreviewURL)
	assert.Equal(t, 1, env.previews.Len())

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, first.PreviewURL, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClearMediaHandler(t *testing.T) {
	env := newTestEnv(t, media.DefaultMaxBytes)
	require.Equal(t, http.StatusOK, env.upload(t, "ad.png", pngBytes).Code)

	w := env.serve(httptest.NewRequest(http.MethodDelete, "/api/v1/media", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, env.previews.Len())

	w = env.serve(httptest.NewRequest(http.MethodGet, "/api/v1/media", nil))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeMedia(t, w)
	assert.False(t, resp.Workspace.HasMedia)
	assert.Empty(t, resp.PreviewURL)
}

func TestPreviewHandler_Unknown(t *testing.T) {
	env := newTestEnv(t, media.DefaultMaxBytes)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, previewPath+"missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// counts how much of the request body the handler pulled in
type countingReader struct {
	r    io.Reader
	read int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	return n, err
}

func TestSelectMediaHandler_OversizeBodyIsCutOff(t *testing.T) {
	const maxBytes = 1 << 10
	huge := strings.Repeat("A", 8<<20)

	var multipartBody bytes.Buffer
	mw := multipart.NewWriter(&multipartBody)
	part, err := mw.CreateFormFile("file", "huge.png")
	require.NoError(t, err)
	_, err = part.Write(append(append([]byte{}, pngBytes...), huge...))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	tests := []struct {
		name        string
		contentType string
		body        io.Reader
	}{
		{
			name:        "json",
			contentType: "application/json",
			body: io.MultiReader(
				strings.NewReader(`{"mime_type":"image/png","data":"`),
				strings.NewReader(huge),
				strings.NewReader(`"}`),
			),
		},
		{
			name:        "multipart",
			contentType: mw.FormDataContentType(),
			body:        &multipartBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, maxBytes)
			body := &countingReader{r: tt.body}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/media", body)
			req.Header.Set("Content-Type", tt.contentType)

			w := env.serve(req)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp errors.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, errors.CodeEncodingFailed, resp.Error)

			assert.LessOrEqual(t, body.read, bodyLimit(maxBytes)+1)
			assert.Zero(t, env.previews.Len())
		})
	}
}

func TestBodyLimit(t *testing.T) {
	assert.Equal(t, int64(1368+bodyOverhead), bodyLimit(1<<10))
	assert.Equal(t, bodyLimit(media.DefaultMaxBytes), bodyLimit(0))
	assert.Greater(t, bodyLimit(media.DefaultMaxBytes), media.DefaultMaxBytes)
}
