package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// subscriberBuffer is how many events a subscriber may fall behind before
// it starts missing them.
const subscriberBuffer = 16

// EventHub fans calculator events out to subscribers. Publishing never
// blocks: a subscriber whose buffer is full misses the event.
type EventHub struct {
	mu   sync.RWMutex
	subs map[chan Event]subscription
}

type subscription struct {
	names map[string]bool // nil means every event
}

func (s subscription) wants(name string) bool {
	return s.names == nil || s.names[name]
}

func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[chan Event]subscription)}
}

// Subscribe returns a channel receiving events with the given names, or all
// events when no name is given. Release it with Unsubscribe.
func (h *EventHub) Subscribe(names ...string) chan Event {
	var sub subscription
	if len(names) > 0 {
		sub.names = make(map[string]bool, len(names))
		for _, n := range names {
			sub.names[n] = true
		}
	}

	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = sub
	h.mu.Unlock()
	return ch
}

// Unsubscribe stops delivery to ch and closes it. Unknown channels are
// ignored.
func (h *EventHub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

// Subscribers is the number of open subscriptions.
func (h *EventHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish sends payload, encoded as JSON, to every interested subscriber.
// A nil hub discards everything.
func (h *EventHub) Publish(name string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		logrus.Debugf("dropping event %s: %v", name, err)
		return
	}
	ev := Event{Name: name, Data: b}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch, sub := range h.subs {
		if !sub.wants(name) {
			continue
		}
		select {
		case ch <- ev:
		default:
			logrus.Tracef("subscriber is full, dropping %s", name)
		}
	}
}

// KeyPressed announces that the button labelled label was triggered.
func (h *EventHub) KeyPressed(session, label string, at time.Time) {
	h.Publish(KeyPressed, KeyPressedEvent{Session: session, Label: label, Ts: at.UnixMilli()})
}

// DisplayChanged announces the display of session after an action.
func (h *EventHub) DisplayChanged(session, display string, at time.Time) {
	h.Publish(DisplayChanged, DisplayChangedEvent{Session: session, Display: display, Ts: at.UnixMilli()})
}
