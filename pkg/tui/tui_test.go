package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/charlie0129/calc/pkg/config"
)

func newTestUI(t *testing.T) (*UI, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 12)

	conf := config.NewFileFromConfig(nil, filepath.Join(t.TempDir(), "calc.json"))
	return New(screen, conf), screen
}

// row returns the text on line y of the simulated screen.
func row(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(b.String(), " ")
}

func typeKeys(ui *UI, keys string) {
	for _, r := range keys {
		ui.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func TestUI_DrawsDisplay(t *testing.T) {
	tests := []struct {
		name string
		keys func(ui *UI)
		want string
	}{
		{
			name: "initial",
			keys: func(*UI) {},
			want: "0",
		},
		{
			name: "chained sum",
			keys: func(ui *UI) {
				typeKeys(ui, "5+3+2")
				ui.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
			},
			want: "10",
		},
		{
			name: "division by zero",
			keys: func(ui *UI) { typeKeys(ui, "7/0=") },
			want: "Error",
		},
		{
			name: "backspace",
			keys: func(ui *UI) {
				typeKeys(ui, "123")
				ui.handleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
			},
			want: "12",
		},
		{
			name: "escape clears",
			keys: func(ui *UI) {
				typeKeys(ui, "9*9")
				ui.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
			},
			want: "0",
		},
		{
			name: "unknown keys are ignored",
			keys: func(ui *UI) { typeKeys(ui, "4a%2") },
			want: "42",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui, screen := newTestUI(t)
			tt.keys(ui)
			ui.draw()
			screen.Show()

			line := row(screen, displayRow)
			want := tt.want + " │"
			if !strings.HasSuffix(line, want) {
				t.Errorf("display row = %q, want suffix %q", line, want)
			}
		})
	}
}

func TestUI_Keypad(t *testing.T) {
	ui, screen := newTestUI(t)
	ui.draw()
	screen.Show()

	for r, labels := range buttons {
		line := row(screen, gridTop+r)
		for _, label := range labels {
			if !strings.Contains(line, label) {
				t.Errorf("row %d = %q, missing %q", r, line, label)
			}
		}
	}
	if status := row(screen, gridTop+len(buttons)+2); !strings.Contains(status, "theme: dark") {
		t.Errorf("status line = %q", status)
	}
}

func TestUI_LongDisplayIsClipped(t *testing.T) {
	ui, screen := newTestUI(t)
	typeKeys(ui, strings.Repeat("9", 40))
	ui.draw()
	screen.Show()

	line := row(screen, displayRow)
	if !strings.Contains(line, "…") {
		t.Errorf("display row = %q, want a clipped value", line)
	}
	if got := len([]rune(line)); got != boxWidth {
		t.Errorf("display row is %d columns wide, want %d", got, boxWidth)
	}
}

func TestUI_Mouse(t *testing.T) {
	ui, _ := newTestUI(t)

	click := func(label string) {
		t.Helper()
		for r, labels := range buttons {
			for c, l := range labels {
				if l == label {
					x, y := 1+c*cellWidth+2, gridTop+r
					ui.handleMouse(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
					ui.handleMouse(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
					return
				}
			}
		}
		t.Fatalf("no button %q", label)
	}

	for _, label := range []string{"9", "×", "4", "−", "6", "="} {
		click(label)
	}
	if got := ui.session.Display(); got != "30" {
		t.Errorf("display = %q, want %q", got, "30")
	}

	// clicks outside the keypad do nothing
	ui.handleMouse(tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone))
	ui.handleMouse(tcell.NewEventMouse(0, 0, tcell.ButtonNone, tcell.ModNone))
	ui.handleMouse(tcell.NewEventMouse(30, gridTop, tcell.Button1, tcell.ModNone))
	if got := ui.session.Display(); got != "30" {
		t.Errorf("display = %q, want %q", got, "30")
	}
}

func TestUI_MouseDragPressesOnce(t *testing.T) {
	ui, _ := newTestUI(t)

	// press on "7", then drag across "8" and "9" with the button held
	for c := 0; c < 3; c++ {
		ui.handleMouse(tcell.NewEventMouse(1+c*cellWidth+2, gridTop+1, tcell.Button1, tcell.ModNone))
	}
	if got := ui.session.Display(); got != "7" {
		t.Errorf("display after drag = %q, want %q", got, "7")
	}

	// release over "9", then click "9"
	ui.handleMouse(tcell.NewEventMouse(1+2*cellWidth+2, gridTop+1, tcell.ButtonNone, tcell.ModNone))
	ui.handleMouse(tcell.NewEventMouse(1+2*cellWidth+2, gridTop+1, tcell.Button1, tcell.ModNone))
	if got := ui.session.Display(); got != "79" {
		t.Errorf("display after click = %q, want %q", got, "79")
	}
}

func TestButtonAt(t *testing.T) {
	tests := []struct {
		x, y   int
		want   string
		wantOK bool
	}{
		{x: 1, y: gridTop, want: "C", wantOK: true},
		{x: 7, y: gridTop, want: "CE", wantOK: true},
		{x: 24, y: gridTop, want: "÷", wantOK: true},
		{x: 3, y: gridTop + 4, want: "0", wantOK: true},
		{x: 19, y: gridTop + 4},
		{x: 0, y: gridTop},
		{x: 3, y: gridTop - 1},
		{x: 3, y: gridTop + len(buttons)},
	}
	for _, tt := range tests {
		got, ok := buttonAt(tt.x, tt.y)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("buttonAt(%d, %d) = %q, %v, want %q, %v", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestUI_CycleThemePersists(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()

	path := filepath.Join(t.TempDir(), "calc.json")
	conf := config.NewFileFromConfig(nil, path)
	ui := New(screen, conf)

	ui.handleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))

	reloaded, err := config.NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Theme(); got != config.ThemeLight {
		t.Errorf("saved theme = %v, want %v", got, config.ThemeLight)
	}
}

func TestUI_RunHighlightsAndQuits(t *testing.T) {
	ui, screen := newTestUI(t)

	done := make(chan struct{})
	go func() {
		ui.Run()
		close(done)
	}()

	screen.InjectKey(tcell.KeyRune, '8', tcell.ModNone)

	deadline := time.After(time.Second)
	for !ui.isPressed("8") {
		select {
		case <-deadline:
			t.Fatal("button 8 was never highlighted")
		case <-time.After(5 * time.Millisecond):
		}
	}

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after q")
	}

	if got := ui.session.Display(); got != "8" {
		t.Errorf("display = %q, want %q", got, "8")
	}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "Enter"},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "Escape"},
		{tcell.NewEventKey(tcell.KeyBackspace, 0, tcell.ModNone), "Backspace"},
		{tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), "Delete"},
		{tcell.NewEventKey(tcell.KeyRune, '/', tcell.ModNone), "/"},
		{tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), ""},
	}
	for _, tt := range tests {
		if got := keyName(tt.ev); got != tt.want {
			t.Errorf("keyName(%s) = %q, want %q", tt.ev.Name(), got, tt.want)
		}
	}
}
