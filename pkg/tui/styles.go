package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/charlie0129/calc/pkg/config"
)

type palette struct {
	base     tcell.Style
	border   tcell.Style
	display  tcell.Style
	errText  tcell.Style
	button   tcell.Style
	operator tcell.Style
	pressed  tcell.Style
	status   tcell.Style
}

var palettes = map[config.Theme]palette{
	config.ThemeDark: {
		base:     tcell.StyleDefault,
		border:   tcell.StyleDefault.Foreground(tcell.ColorGray),
		display:  tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true),
		errText:  tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
		button:   tcell.StyleDefault.Foreground(tcell.ColorSilver),
		operator: tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true),
		pressed:  tcell.StyleDefault.Background(tcell.ColorSilver).Foreground(tcell.ColorBlack),
		status:   tcell.StyleDefault.Foreground(tcell.ColorGray),
	},
	config.ThemeLight: {
		base:     tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack),
		border:   tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorDarkGray),
		display:  tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack).Bold(true),
		errText:  tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorMaroon).Bold(true),
		button:   tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack),
		operator: tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorNavy).Bold(true),
		pressed:  tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite),
		status:   tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorGray),
	},
	config.ThemeNeon: {
		base:     tcell.StyleDefault.Background(tcell.ColorBlack),
		border:   tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorFuchsia),
		display:  tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorAqua).Bold(true),
		errText:  tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorRed).Bold(true),
		button:   tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorLime),
		operator: tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorFuchsia).Bold(true),
		pressed:  tcell.StyleDefault.Background(tcell.ColorAqua).Foreground(tcell.ColorBlack),
		status:   tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorPurple),
	},
	config.ThemeRetro: {
		base:     tcell.StyleDefault.Background(tcell.ColorOlive),
		border:   tcell.StyleDefault.Background(tcell.ColorOlive).Foreground(tcell.ColorBlack),
		display:  tcell.StyleDefault.Background(tcell.NewRGBColor(155, 188, 15)).Foreground(tcell.NewRGBColor(15, 56, 15)).Bold(true),
		errText:  tcell.StyleDefault.Background(tcell.NewRGBColor(155, 188, 15)).Foreground(tcell.ColorMaroon).Bold(true),
		button:   tcell.StyleDefault.Background(tcell.ColorOlive).Foreground(tcell.ColorBeige),
		operator: tcell.StyleDefault.Background(tcell.ColorOlive).Foreground(tcell.ColorYellow).Bold(true),
		pressed:  tcell.StyleDefault.Background(tcell.ColorBeige).Foreground(tcell.ColorOlive),
		status:   tcell.StyleDefault.Background(tcell.ColorOlive).Foreground(tcell.ColorBeige),
	},
}

func paletteFor(t config.Theme) palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[config.DefaultTheme]
}
