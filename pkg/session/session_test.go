package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/charlie0129/calc/pkg/events"
	"github.com/charlie0129/calc/pkg/keymap"
)

func mustSequence(t *testing.T, s string) []keymap.Action {
	t.Helper()
	actions, err := keymap.ParseSequence(s)
	if err != nil {
		t.Fatalf("ParseSequence(%q) error = %v", s, err)
	}
	return actions
}

func TestSession_Press(t *testing.T) {
	s := New("test", nil)

	if got := s.Press(mustSequence(t, "5+3+2")...); got != "2" {
		t.Errorf("Press() = %q, want %q", got, "2")
	}
	if got := s.Press(mustSequence(t, "=")...); got != "10" {
		t.Errorf("Press() = %q, want %q", got, "10")
	}
	if got := s.Display(); got != "10" {
		t.Errorf("Display() = %q, want %q", got, "10")
	}
}

func TestSession_PublishesEvents(t *testing.T) {
	hub := events.NewEventHub()
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s := New("s1", hub)
	s.Press(mustSequence(t, "7*")...)

	var got []string
	for i := 0; i < 4; i++ {
		select {
		case ev := <-ch:
			switch ev.Name {
			case events.KeyPressed:
				p, err := events.DecodeAs[events.KeyPressedEvent](ev)
				if err != nil {
					t.Fatal(err)
				}
				got = append(got, "key "+p.Label)
			case events.DisplayChanged:
				p, err := events.DecodeAs[events.DisplayChangedEvent](ev)
				if err != nil {
					t.Fatal(err)
				}
				if p.Session != "s1" {
					t.Errorf("event session = %q, want %q", p.Session, "s1")
				}
				got = append(got, "display "+p.Display)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out after %d events", i)
		}
	}

	want := []string{"key 7", "display 7", "key ×", "display 7"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestSession_ConcurrentPress(t *testing.T) {
	s := New("busy", nil)
	one := mustSequence(t, "1")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Press(one...)
		}()
	}
	wg.Wait()

	if got := len(s.Display()); got != 50 {
		t.Errorf("display has %d digits, want 50", got)
	}
}

func TestManager(t *testing.T) {
	m := NewManager(nil)

	a := m.Get("a")
	if m.Get("a") != a {
		t.Errorf("Get() returned a different session for the same id")
	}
	m.Get("b").Press(mustSequence(t, "9")...)
	a.Press(mustSequence(t, "1+1=")...)

	if got := m.Get("b").Display(); got != "9" {
		t.Errorf("session b display = %q, want %q", got, "9")
	}
	if diff := cmp.Diff([]string{"a", "b"}, m.IDs()); diff != "" {
		t.Errorf("IDs() (-want +got):\n%s", diff)
	}

	if !m.Delete("a") {
		t.Errorf("Delete(a) = false, want true")
	}
	if m.Delete("a") {
		t.Errorf("second Delete(a) = true, want false")
	}
	if _, ok := m.Lookup("a"); ok {
		t.Errorf("Lookup(a) found a deleted session")
	}
	if got := m.Get("a").Display(); got != "0" {
		t.Errorf("recreated session display = %q, want %q", got, "0")
	}
}

func TestManager_Prune(t *testing.T) {
	m := NewManager(nil)
	m.Get("old")
	m.Get("new")

	m.mu.Lock()
	m.sessions["old"].last = time.Now().Add(-time.Hour)
	m.mu.Unlock()

	if n := m.Prune(time.Minute); n != 1 {
		t.Errorf("Prune() = %d, want 1", n)
	}
	if diff := cmp.Diff([]string{"new"}, m.IDs()); diff != "" {
		t.Errorf("IDs() (-want +got):\n%s", diff)
	}
}
