package workspaces

import (
	"sync"
	"time"

	"codeberg.org/adcraft/server/internal/adcopy"
	"codeberg.org/adcraft/server/internal/media"
)

type Manager struct {
	workspaces map[string]*Workspace
	mu         sync.RWMutex
	ttl        time.Duration
	now        func() time.Time
	stopChan   chan struct{}
	stopOnce   sync.Once
	done       chan struct{}
}

// per-client state of the current editing session
type Workspace struct {
	ClientID     string
	CreatedAt    time.Time
	LastActivity time.Time

	payload    *media.Payload
	preview    media.Slot
	version    uint64
	lastResult *adcopy.Result
	mu         sync.RWMutex
}

// read-only copy for presentation
type View struct {
	ClientID     string         `json:"client_id"`
	HasMedia     bool           `json:"has_media"`
	MIMEType     string         `json:"mime_type,omitempty"`
	Filename     string         `json:"filename,omitempty"`
	Size         int64          `json:"size,omitempty"`
	PreviewID    string         `json:"preview_id,omitempty"`
	LastResult   *adcopy.Result `json:"last_result,omitempty"`
	LastActivity time.Time      `json:"last_activity"`
}
