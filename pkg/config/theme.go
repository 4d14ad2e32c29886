package config

import (
	"fmt"
	"strings"
)

// Theme is the colour scheme of the calculator display.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
	ThemeNeon  Theme = "neon"
	ThemeRetro Theme = "retro"

	DefaultTheme = ThemeDark
)

// Themes lists every theme in display order.
var Themes = []Theme{ThemeDark, ThemeLight, ThemeNeon, ThemeRetro}

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Themes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown theme %q, must be one of %v", s, Themes)
}

// Next returns the theme after t, wrapping around.
func (t Theme) Next() Theme {
	for i, known := range Themes {
		if t == known {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return DefaultTheme
}

func (t Theme) String() string {
	return string(t)
}
