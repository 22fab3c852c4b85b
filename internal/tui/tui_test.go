package tui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/adcraft/server/api/rest/generate"
	"codeberg.org/adcraft/server/internal/adcopy"
	"codeberg.org/adcraft/server/internal/usage"
)

// fakeAPI serves the subset of the API the client talks to
type fakeAPI struct {
	plan        usage.Plan
	uploads     atomic.Int32
	generations atomic.Int32
	quotaHit    bool
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/anonymous", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{"client_id": "c1", "token": "tok"})
	})

	mux.HandleFunc("GET /api/v1/usage", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"usage": f.snapshot(), "message": f.snapshot().Summary()})
	})

	mux.HandleFunc("PUT /api/v1/usage/plan", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Plan string `json:"plan"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.plan = usage.Plan(req.Plan)
		writeJSON(w, http.StatusOK, map[string]any{"usage": f.snapshot(), "message": f.snapshot().Summary()})
	})

	mux.HandleFunc("POST /api/v1/media", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		data, err := io.ReadAll(file)
		require.NoError(t, err)

		f.uploads.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{
			"workspace":   map[string]any{"has_media": true, "filename": header.Filename, "mime_type": "image/png", "size": len(data)},
			"preview_url": "/api/v1/media/preview/p1",
		})
	})

	mux.HandleFunc("POST /api/v1/generate", func(w http.ResponseWriter, _ *http.Request) {
		if f.quotaHit {
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":           "quota_exceeded",
				"message":         "daily free generations used up",
				"upgrade_options": []string{"pro", "agency"},
			})
			return
		}

		f.generations.Add(1)
		writeJSON(w, http.StatusOK, generate.GenerateResponse{
			Result: &adcopy.Result{Variants: []adcopy.Variant{{Tone: "Social Proof", Headline: "Loved by 10k"}}},
			Usage:  usage.Snapshot{Plan: usage.PlanFree, GenerationCount: 1, DailyLimit: 2, Remaining: 1},
			Stored: true,
		})
	})

	mux.HandleFunc("GET /api/v1/export/csv", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "\"Tone\"\n")
	})

	mux.HandleFunc("DELETE /api/v1/media", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func (f *fakeAPI) snapshot() usage.Snapshot {
	plan := f.plan
	if plan == "" {
		plan = usage.PlanFree
	}

	if plan != usage.PlanFree {
		return usage.Snapshot{Plan: plan, Remaining: -1, Unlimited: true}
	}

	return usage.Snapshot{Plan: plan, DailyLimit: 2, Remaining: 2}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestModel(t *testing.T, api *fakeAPI) *Model {
	t.Helper()

	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	return NewApp(NewClient(srv.URL, ""), t.TempDir())
}

// runs cmd and feeds the resulting message back, ignoring batched cursor blinks
func drive(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()

	if cmd == nil {
		return
	}

	msg := cmd()

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}

			if inner := c(); isAppMsg(inner) {
				m.Update(inner)
			}
		}

		return
	}

	if isAppMsg(msg) {
		m.Update(msg)
	}
}

func isAppMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case usageMsg, generatedMsg, mediaSelectedMsg, exportedMsg, clearedMsg, errMsg:
		return true
	}

	return false
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func writeCreative(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ad.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0o600))

	return path
}

func TestModel_GenerateFlow(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api)

	drive(t, m, m.Init())
	require.NotNil(t, m.usage)
	assert.Equal(t, "2 generations left", m.usage.Message)

	m.pathInput.SetValue(writeCreative(t))

	_, cmd := m.Update(key("enter"))
	assert.True(t, m.isFetching)

	// a second enter while fetching does nothing
	_, again := m.Update(key("enter"))
	assert.Nil(t, again)

	drive(t, m, cmd)

	assert.False(t, m.isFetching)
	require.NoError(t, m.err)
	require.NotNil(t, m.result)
	assert.Len(t, m.result.Variants, 1)
	assert.Equal(t, "1 generation left", m.usage.Message)
	assert.Equal(t, int32(1), api.uploads.Load())

	// same path is not uploaded again
	_, cmd = m.Update(key("enter"))
	drive(t, m, cmd)
	assert.Equal(t, int32(1), api.uploads.Load())
	assert.Equal(t, int32(2), api.generations.Load())

	assert.Contains(t, m.View(), "Loved by 10k")
}

func TestModel_RequiresMedia(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})

	_, cmd := m.Update(key("enter"))

	assert.Nil(t, cmd)
	assert.False(t, m.isFetching)
	assert.Contains(t, m.status, "path of an image or video")
}

func TestModel_QuotaError(t *testing.T) {
	api := &fakeAPI{quotaHit: true}
	m := newTestModel(t, api)
	drive(t, m, m.Init())

	m.pathInput.SetValue(writeCreative(t))
	_, cmd := m.Update(key("enter"))
	drive(t, m, cmd)

	require.Error(t, m.err)
	assert.ErrorIs(t, m.err, ErrQuotaExceeded)
	assert.NotNil(t, m.media, "upload succeeded even though generation was refused")
	assert.Contains(t, m.View(), "upgrade")
}

func TestModel_CommandKeys(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api)
	drive(t, m, m.Init())

	// "p" is plain text while an input has focus
	m.Update(key("p"))
	assert.Equal(t, "p", m.pathInput.Value())

	m.Update(key("esc"))
	require.Equal(t, focusCommands, m.focus)

	_, cmd := m.Update(key("p"))
	drive(t, m, cmd)
	assert.Equal(t, usage.PlanPro, m.usage.Usage.Plan)
	assert.Equal(t, "Unlimited generations", m.usage.Message)

	_, cmd = m.Update(key("e"))
	assert.Nil(t, cmd, "nothing to export before a generation")

	m.result = &adcopy.Result{Variants: []adcopy.Variant{{Tone: "Urgency/FOMO"}}}
	_, cmd = m.Update(key("e"))
	drive(t, m, cmd)

	require.NoError(t, m.err)
	assert.True(t, strings.HasSuffix(m.status, "adcraft-ad-copy.csv"))

	data, err := os.ReadFile(filepath.Join(m.exportDir, "adcraft-ad-copy.csv"))
	require.NoError(t, err)
	assert.Equal(t, "\"Tone\"\n", string(data))

	_, cmd = m.Update(key("ctrl+l"))
	drive(t, m, cmd)
	assert.Nil(t, m.result)
	assert.Empty(t, m.pathInput.Value())
	assert.Equal(t, focusPath, m.focus)
}

func TestNextPlan(t *testing.T) {
	assert.Equal(t, usage.PlanPro, nextPlan(usage.PlanFree))
	assert.Equal(t, usage.PlanAgency, nextPlan(usage.PlanPro))
	assert.Equal(t, usage.PlanFree, nextPlan(usage.PlanAgency))
	assert.Equal(t, usage.PlanFree, nextPlan("legacy"))
}

func TestFormatMarkdown(t *testing.T) {
	assert.Empty(t, FormatMarkdown(nil))

	md := FormatMarkdown(&adcopy.Result{
		Variants: []adcopy.Variant{
			{Tone: "Urgency/FOMO", Headline: "Ends tonight", Description: "d1", PrimaryTextParagraph: "p1", PrimaryTextBullets: "- b1"},
			{Tone: "Benefit-Driven", Headline: "Sleep better", Description: "d2", PrimaryTextParagraph: "p2", PrimaryTextBullets: "- b2"},
		},
		Model: "gemini-2.5-flash",
	})

	assert.Contains(t, md, "## Urgency/FOMO")
	assert.Contains(t, md, "**Headline:** Sleep better")
	assert.Equal(t, 1, strings.Count(md, "---"))
	assert.Contains(t, md, "_model: gemini-2.5-flash_")
}

func TestClient_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")

	_, err := c.Usage(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "upstream down")
}
