// Package workspaces keeps each client's in-progress session in memory: the
// selected creative, its preview and the last generation result. Idle
// workspaces expire and release their previews.
package workspaces

import (
	"time"

	"codeberg.org/adcraft/server/internal/logger"
)

const (
	DefaultTTL = time.Hour
	minCleanup = time.Second
)

// creates a manager and starts its cleanup goroutine
func NewManager(ttl time.Duration) *Manager {
	return newManager(ttl, time.Now)
}

func newManager(ttl time.Duration, now func() time.Time) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	m := &Manager{
		workspaces: make(map[string]*Workspace),
		ttl:        ttl,
		now:        now,
		stopChan:   make(chan struct{}),
		done:       make(chan struct{}),
	}

	go m.cleanupExpired(max(ttl/4, minCleanup))

	return m
}

// returns the client's workspace, creating it when missing or expired
func (m *Manager) Get(clientID string) *Workspace {
	now := m.now()

	m.mu.RLock()
	ws, exists := m.workspaces[clientID]
	m.mu.RUnlock()

	if exists && now.Sub(ws.lastActivity()) <= m.ttl {
		ws.Touch(now)
		return ws
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// another request may have replaced it meanwhile
	if current, ok := m.workspaces[clientID]; ok {
		if now.Sub(current.lastActivity()) <= m.ttl {
			current.Touch(now)
			return current
		}

		current.close()
	}

	ws = &Workspace{
		ClientID:     clientID,
		CreatedAt:    now,
		LastActivity: now,
	}
	m.workspaces[clientID] = ws

	return ws
}

// returns the workspace only if it exists and is live
func (m *Manager) Lookup(clientID string) (*Workspace, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ws, exists := m.workspaces[clientID]
	if !exists || m.now().Sub(ws.lastActivity()) > m.ttl {
		return nil, false
	}

	return ws, true
}

func (m *Manager) Delete(clientID string) {
	m.mu.Lock()
	ws, exists := m.workspaces[clientID]
	delete(m.workspaces, clientID)
	m.mu.Unlock()

	if exists {
		ws.close()
	}
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.workspaces)
}

func (m *Manager) Now() time.Time {
	return m.now()
}

// periodically removes expired workspaces
func (m *Manager) cleanupExpired(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := m.removeExpired(); removed > 0 {
				logger.Debug("expired idle workspaces", "count", removed)
			}
		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) removeExpired() int {
	now := m.now()

	m.mu.Lock()
	var expired []*Workspace

	for id, ws := range m.workspaces {
		if now.Sub(ws.lastActivity()) > m.ttl {
			expired = append(expired, ws)
			delete(m.workspaces, id)
		}
	}
	m.mu.Unlock()

	for _, ws := range expired {
		ws.close()
	}

	return len(expired)
}

// stops the cleanup goroutine and releases every workspace
func (m *Manager) Close() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		<-m.done

		m.mu.Lock()
		all := m.workspaces
		m.workspaces = make(map[string]*Workspace)
		m.mu.Unlock()

		for _, ws := range all {
			ws.close()
		}
	})
}
