package session

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calc/pkg/events"
)

// Manager owns named sessions, creating them on first use.
type Manager struct {
	hub *events.EventHub

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(hub *events.EventHub) *Manager {
	return &Manager{
		hub:      hub,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session named id, creating it if needed.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		s = New(id, m.hub)
		m.sessions[id] = s
		logrus.WithField("session", id).Debug("session created")
	}
	return s
}

// Lookup returns the session named id without creating it.
func (m *Manager) Lookup(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete drops a session. It reports whether the session existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	logrus.WithField("session", id).Debug("session deleted")
	return true
}

// IDs lists session names in sorted order.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Prune drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (m *Manager) Prune(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.sessions {
		if time.Since(s.LastUsed()) > maxIdle {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
