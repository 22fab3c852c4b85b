package media

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Resources creates and revokes temporary preview handles.
type Resources interface {
	Create(p *Payload) (string, error)
	Revoke(id string)
}

type previewEntry struct {
	mimeType  string
	data      []byte
	createdAt time.Time
}

// PreviewStore keeps preview bytes in memory until revoked.
type PreviewStore struct {
	mu      sync.RWMutex
	entries map[string]previewEntry
}

func NewPreviewStore() *PreviewStore {
	return &PreviewStore{
		entries: make(map[string]previewEntry),
	}
}

func (s *PreviewStore) Create(p *Payload) (string, error) {
	if p == nil {
		return "", fmt.Errorf("payload is required")
	}

	data, err := p.shared()
	if err != nil {
		return "", err
	}

	id := uuid.NewString()

	s.mu.Lock()
	s.entries[id] = previewEntry{
		mimeType:  p.MIMEType,
		data:      data,
		createdAt: time.Now(),
	}
	s.mu.Unlock()

	return id, nil
}

func (s *PreviewStore) Revoke(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// returns the MIME type and bytes of a live preview
func (s *PreviewStore) Get(id string) (string, []byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return "", nil, false
	}

	return entry.mimeType, entry.data, true
}

func (s *PreviewStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Preview is a scoped handle; Release revokes the underlying resource once.
type Preview struct {
	id        string
	resources Resources
	once      sync.Once
}

func NewPreview(resources Resources, p *Payload) (*Preview, error) {
	id, err := resources.Create(p)
	if err != nil {
		return nil, fmt.Errorf("failed to create preview: %w", err)
	}

	return &Preview{id: id, resources: resources}, nil
}

func (p *Preview) ID() string {
	return p.id
}

func (p *Preview) Release() {
	if p == nil {
		return
	}

	p.once.Do(func() {
		p.resources.Revoke(p.id)
	})
}

// Slot holds the preview of the currently selected creative.
type Slot struct {
	mu      sync.Mutex
	current *Preview
}

// installs next and releases whatever was there before
func (s *Slot) Replace(next *Preview) {
	s.mu.Lock()
	prev := s.current
	s.current = next
	s.mu.Unlock()

	if prev != nil && prev != next {
		prev.Release()
	}
}

func (s *Slot) Clear() {
	s.Replace(nil)
}

func (s *Slot) Current() *Preview {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

func (s *Slot) Close() {
	s.Clear()
}
