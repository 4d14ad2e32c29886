// Package session wraps a calculator engine so it can be shared: calls are
// serialized and every action is announced on an event hub.
package session

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calc/pkg/calculator"
	"github.com/charlie0129/calc/pkg/events"
	"github.com/charlie0129/calc/pkg/keymap"
)

// Session is a calculator engine safe for concurrent use.
type Session struct {
	id  string
	hub *events.EventHub

	mu     sync.Mutex
	engine *calculator.Engine
	last   time.Time
}

// New creates a session. hub may be nil.
func New(id string, hub *events.EventHub) *Session {
	e := calculator.New()
	e.SetLogger(logrus.WithField("session", id))
	return &Session{
		id:     id,
		hub:    hub,
		engine: e,
		last:   time.Now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Press applies actions in order and returns the display after the last one.
func (s *Session) Press(actions ...keymap.Action) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range actions {
		now := time.Now()
		s.hub.KeyPressed(s.id, a.Label(), now)
		keymap.Apply(s.engine, a)
		s.hub.DisplayChanged(s.id, s.engine.Display(), now)
		s.last = now
	}

	return s.engine.Display()
}

func (s *Session) Display() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Display()
}

func (s *Session) State() calculator.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

// LastUsed is the time of the last action, or creation time.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
