// Package tui draws the calculator in a terminal and feeds it keyboard and
// mouse input.
package tui

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calc/pkg/calculator"
	"github.com/charlie0129/calc/pkg/config"
	"github.com/charlie0129/calc/pkg/events"
	"github.com/charlie0129/calc/pkg/keymap"
	"github.com/charlie0129/calc/pkg/session"
)

const (
	// How long a button stays highlighted after it was pressed.
	pressDuration = 100 * time.Millisecond

	cellWidth  = 6
	gridCols   = 4
	boxWidth   = cellWidth*gridCols + 3
	displayRow = 1
	gridTop    = 3
)

// buttons is the keypad, row by row. Each label is also a valid action name.
var buttons = [][]string{
	{"C", "CE", "⌫", "÷"},
	{"7", "8", "9", "×"},
	{"4", "5", "6", "−"},
	{"1", "2", "3", "+"},
	{"0", ".", "="},
}

// UI is one calculator drawn on one screen.
type UI struct {
	screen  tcell.Screen
	conf    config.Config
	hub     *events.EventHub
	session *session.Session

	// mouse buttons held at the last mouse event, event loop only
	held tcell.ButtonMask

	mu      sync.Mutex
	pressed map[string]time.Time
	message string
}

// New builds a UI on an initialized screen.
func New(screen tcell.Screen, conf config.Config) *UI {
	hub := events.NewEventHub()
	return &UI{
		screen:  screen,
		conf:    conf,
		hub:     hub,
		session: session.New("tui", hub),
		pressed: make(map[string]time.Time),
	}
}

// Run opens the terminal and blocks until the user quits.
func Run(conf config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to create screen")
	}
	if err := screen.Init(); err != nil {
		return pkgerrors.Wrap(err, "failed to initialize screen")
	}
	defer screen.Fini()

	screen.EnableMouse(tcell.MouseButtonEvents)
	screen.Clear()

	New(screen, conf).Run()
	return nil
}

// Run processes events until the user quits.
func (ui *UI) Run() {
	sub := ui.hub.Subscribe(events.KeyPressed)
	defer ui.hub.Unsubscribe(sub)

	done := make(chan struct{})
	defer close(done)
	go ui.watchPresses(sub, done)

	for {
		ui.draw()
		ui.screen.Show()

		switch ev := ui.screen.PollEvent().(type) {
		case nil:
			// screen finalized
			return
		case *tcell.EventResize:
			ui.screen.Sync()
		case *tcell.EventKey:
			if ui.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ui.handleMouse(ev)
		case *tcell.EventInterrupt:
			// redraw for the pressed-button highlight
		}
	}
}

// watchPresses records key.pressed events and keeps redrawing while a
// highlight is visible.
func (ui *UI) watchPresses(sub chan events.Event, done chan struct{}) {
	ticker := time.NewTicker(pressDuration / 2)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			p, err := events.DecodeAs[events.KeyPressedEvent](ev)
			if err != nil {
				logrus.Debugf("bad key.pressed payload: %v", err)
				continue
			}
			ui.mu.Lock()
			ui.pressed[p.Label] = time.UnixMilli(p.Ts)
			ui.mu.Unlock()
		case <-ticker.C:
			if ui.highlightActive() {
				_ = ui.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}
}

func (ui *UI) highlightActive() bool {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	active := false
	for label, at := range ui.pressed {
		if time.Since(at) < 2*pressDuration {
			active = true
		} else {
			delete(ui.pressed, label)
		}
	}
	return active
}

func (ui *UI) isPressed(label string) bool {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	at, ok := ui.pressed[label]
	return ok && time.Since(at) < pressDuration
}

// keyName converts a terminal key event to the key names keymap.ParseKey
// understands.
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyEnter:
		return "Enter"
	case tcell.KeyEscape:
		return "Escape"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "Backspace"
	case tcell.KeyDelete:
		return "Delete"
	case tcell.KeyRune:
		return string(ev.Rune())
	}
	return ""
}

// handleKey returns true when the UI should exit.
func (ui *UI) handleKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyCtrlC, ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
		return true
	case ev.Key() == tcell.KeyTab:
		ui.cycleTheme()
		return false
	}

	name := keyName(ev)
	a, err := keymap.ParseKey(name)
	if err != nil {
		logrus.Tracef("ignoring key %q", ev.Name())
		return false
	}
	ui.press(a)
	return false
}

// handleMouse presses the button under the pointer when the primary button
// goes down. Drags with the button held press nothing.
func (ui *UI) handleMouse(ev *tcell.EventMouse) {
	prev := ui.held
	ui.held = ev.Buttons()
	if ui.held&tcell.Button1 == 0 || prev&tcell.Button1 != 0 {
		return
	}
	x, y := ev.Position()
	label, ok := buttonAt(x, y)
	if !ok {
		return
	}
	a, err := keymap.ParseAction(label)
	if err != nil {
		return
	}
	ui.press(a)
}

func (ui *UI) press(a keymap.Action) {
	ui.mu.Lock()
	ui.message = ""
	ui.mu.Unlock()
	ui.session.Press(a)
}

func (ui *UI) cycleTheme() {
	next := ui.conf.Theme().Next()
	ui.conf.SetTheme(next)

	msg := ""
	if err := ui.conf.Save(); err != nil {
		logrus.Errorf("failed to save theme: %v", err)
		msg = "could not save theme"
	}

	ui.mu.Lock()
	ui.message = msg
	ui.mu.Unlock()
}

// buttonAt maps screen coordinates to the button drawn there.
func buttonAt(x, y int) (string, bool) {
	row := y - gridTop
	if row < 0 || row >= len(buttons) || x < 1 {
		return "", false
	}
	col := (x - 1) / cellWidth
	if col >= len(buttons[row]) {
		return "", false
	}
	return buttons[row][col], true
}

func (ui *UI) draw() {
	p := paletteFor(ui.conf.Theme())
	ui.screen.Fill(' ', p.base)

	// frame
	ui.drawBox(0, 0, boxWidth, gridTop+len(buttons)+1, p.border)
	ui.drawHLine(0, displayRow+1, boxWidth, p.border)

	// display, right aligned
	display := ui.session.Display()
	style := p.display
	if display == calculator.ErrorDisplay {
		style = p.errText
	}
	display = clipLeft(display, boxWidth-4)
	ui.drawString(boxWidth-2-runewidth.StringWidth(display), displayRow, display, style)

	// keypad
	for r, row := range buttons {
		for c, label := range row {
			style := p.button
			if _, err := calculator.ParseOperator(label); err == nil {
				style = p.operator
			}
			if ui.isPressed(label) {
				style = p.pressed
			}
			x := 1 + c*cellWidth
			cell := " " + label + " "
			ui.drawString(x+(cellWidth-runewidth.StringWidth(cell))/2, gridTop+r, cell, style)
		}
	}

	// status line
	ui.mu.Lock()
	msg := ui.message
	ui.mu.Unlock()
	if msg == "" {
		msg = "theme: " + ui.conf.Theme().String() + "  [tab] theme  [q] quit"
	}
	ui.drawString(0, gridTop+len(buttons)+2, msg, p.status)
}

// clipLeft keeps the rightmost digits of s that fit in width columns.
func clipLeft(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && runewidth.StringWidth("…"+string(runes)) > width {
		runes = runes[1:]
	}
	return "…" + string(runes)
}

func (ui *UI) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ui.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (ui *UI) drawHLine(x, y, w int, style tcell.Style) {
	ui.screen.SetContent(x, y, '├', nil, style)
	for col := x + 1; col < x+w-1; col++ {
		ui.screen.SetContent(col, y, '─', nil, style)
	}
	ui.screen.SetContent(x+w-1, y, '┤', nil, style)
}

func (ui *UI) drawBox(x, y, w, h int, style tcell.Style) {
	for col := x + 1; col < x+w-1; col++ {
		ui.screen.SetContent(col, y, '─', nil, style)
		ui.screen.SetContent(col, y+h-1, '─', nil, style)
	}
	for row := y + 1; row < y+h-1; row++ {
		ui.screen.SetContent(x, row, '│', nil, style)
		ui.screen.SetContent(x+w-1, row, '│', nil, style)
	}
	ui.screen.SetContent(x, y, '┌', nil, style)
	ui.screen.SetContent(x+w-1, y, '┐', nil, style)
	ui.screen.SetContent(x, y+h-1, '└', nil, style)
	ui.screen.SetContent(x+w-1, y+h-1, '┘', nil, style)
}
