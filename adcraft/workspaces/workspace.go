package workspaces

import (
	"time"

	"codeberg.org/adcraft/server/internal/adcopy"
	"codeberg.org/adcraft/server/internal/media"
)

// installs new media, releasing the previous preview and discarding the last result
func (w *Workspace) SelectMedia(payload *media.Payload, preview *media.Preview, now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.payload = payload
	w.preview.Replace(preview)
	w.lastResult = nil
	w.version++
	w.LastActivity = now
}

// drops the selected media and its preview
func (w *Workspace) ClearMedia(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.payload = nil
	w.preview.Clear()
	w.lastResult = nil
	w.version++
	w.LastActivity = now
}

// returns the selected media and a token identifying the selection
func (w *Workspace) Media() (*media.Payload, uint64) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.payload, w.version
}

// stores a result unless the media changed since the generation started
func (w *Workspace) SetResult(version uint64, result *adcopy.Result, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if version != w.version {
		return false
	}

	w.lastResult = result
	w.LastActivity = now

	return true
}

func (w *Workspace) Result() *adcopy.Result {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.lastResult
}

func (w *Workspace) PreviewID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if p := w.preview.Current(); p != nil {
		return p.ID()
	}

	return ""
}

func (w *Workspace) Touch(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.LastActivity = now
}

func (w *Workspace) lastActivity() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.LastActivity
}

func (w *Workspace) View() View {
	w.mu.RLock()
	defer w.mu.RUnlock()

	v := View{
		ClientID:     w.ClientID,
		LastResult:   w.lastResult,
		LastActivity: w.LastActivity,
	}

	if w.payload != nil {
		v.HasMedia = true
		v.MIMEType = w.payload.MIMEType
		v.Filename = w.payload.Filename
		v.Size = w.payload.Size
	}

	if p := w.preview.Current(); p != nil {
		v.PreviewID = p.ID()
	}

	return v
}

// releases everything the workspace holds
func (w *Workspace) close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.payload = nil
	w.lastResult = nil
	w.preview.Close()
}
