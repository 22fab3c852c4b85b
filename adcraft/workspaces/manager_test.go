package workspaces

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"codeberg.org/adcraft/server/internal/adcopy"
	"codeberg.org/adcraft/server/internal/media"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func selectPNG(t *testing.T, ws *Workspace, store *media.PreviewStore) *media.Preview {
	t.Helper()

	payload, err := media.Encode(bytes.NewReader(pngBytes), "ad.png", "", 0)
	require.NoError(t, err)

	preview, err := media.NewPreview(store, payload)
	require.NoError(t, err)

	ws.SelectMedia(payload, preview, time.Now())

	return preview
}

func TestManager_GetCreatesAndReuses(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	a := m.Get("client-a")
	again := m.Get("client-a")
	b := m.Get("client-b")

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, m.Count())

	_, ok := m.Lookup("client-c")
	assert.False(t, ok)
}

func TestWorkspace_SelectReplacesPreview(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	store := media.NewPreviewStore()
	ws := m.Get("c")

	first := selectPNG(t, ws, store)
	second := selectPNG(t, ws, store)

	_, _, ok := store.Get(first.ID())
	assert.False(t, ok, "replaced preview must be released")

	_, _, ok = store.Get(second.ID())
	assert.True(t, ok)
	assert.Equal(t, second.ID(), ws.PreviewID())

	payload, _ := ws.Media()
	require.NotNil(t, payload)
	assert.Equal(t, "image/png", payload.MIMEType)
}

func TestWorkspace_ClearReleasesPreviewAndResult(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	store := media.NewPreviewStore()
	ws := m.Get("c")

	selectPNG(t, ws, store)
	_, version := ws.Media()
	require.True(t, ws.SetResult(version, &adcopy.Result{Model: "m"}, time.Now()))

	ws.ClearMedia(time.Now())
	ws.ClearMedia(time.Now())

	payload, _ := ws.Media()
	assert.Nil(t, payload)
	assert.Nil(t, ws.Result())
	assert.Empty(t, ws.PreviewID())
	assert.Equal(t, 0, store.Len())
}

func TestWorkspace_StaleResultIsDropped(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	store := media.NewPreviewStore()
	ws := m.Get("c")

	selectPNG(t, ws, store)
	_, version := ws.Media()

	// user picked another creative while the first generation ran
	selectPNG(t, ws, store)

	assert.False(t, ws.SetResult(version, &adcopy.Result{Model: "stale"}, time.Now()))
	assert.Nil(t, ws.Result())

	_, current := ws.Media()
	assert.True(t, ws.SetResult(current, &adcopy.Result{Model: "fresh"}, time.Now()))
	assert.Equal(t, "fresh", ws.Result().Model)
}

func TestWorkspace_View(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	ws := m.Get("c")
	assert.False(t, ws.View().HasMedia)

	preview := selectPNG(t, ws, media.NewPreviewStore())

	view := ws.View()
	assert.Equal(t, "c", view.ClientID)
	assert.True(t, view.HasMedia)
	assert.Equal(t, "ad.png", view.Filename)
	assert.Equal(t, int64(len(pngBytes)), view.Size)
	assert.Equal(t, preview.ID(), view.PreviewID)
}

func TestManager_ExpiresIdleWorkspaces(t *testing.T) {
	clock := &testClock{now: time.Now()}
	m := newManager(time.Hour, clock.Now)
	defer m.Close()

	store := media.NewPreviewStore()
	selectPNG(t, m.Get("idle"), store)
	m.Get("busy")

	clock.advance(50 * time.Minute)
	m.Get("busy")

	clock.advance(20 * time.Minute)

	_, ok := m.Lookup("idle")
	assert.False(t, ok, "expired workspace is invisible before cleanup runs")

	removed := m.removeExpired()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, m.Count())
	assert.Equal(t, 0, store.Len(), "expiry releases previews")

	_, ok = m.Lookup("busy")
	assert.True(t, ok)
}

func TestManager_GetReplacesExpired(t *testing.T) {
	clock := &testClock{now: time.Now()}
	m := newManager(time.Hour, clock.Now)
	defer m.Close()

	store := media.NewPreviewStore()
	old := m.Get("c")
	selectPNG(t, old, store)

	clock.advance(2 * time.Hour)

	fresh := m.Get("c")
	assert.NotSame(t, old, fresh)
	assert.Equal(t, 0, store.Len())
}

func TestManager_DeleteAndClose(t *testing.T) {
	m := NewManager(time.Hour)
	store := media.NewPreviewStore()

	selectPNG(t, m.Get("a"), store)
	selectPNG(t, m.Get("b"), store)

	m.Delete("a")
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, m.Count())

	m.Close()
	m.Close()

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, m.Count())
}
