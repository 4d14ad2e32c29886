package config

import "testing"

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{in: "dark", want: ThemeDark},
		{in: "Light", want: ThemeLight},
		{in: " neon ", want: ThemeNeon},
		{in: "retro", want: ThemeRetro},
		{in: "sepia", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseTheme(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTheme(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTheme(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTheme_Next(t *testing.T) {
	theme := ThemeDark
	seen := map[Theme]bool{}
	for range Themes {
		seen[theme] = true
		theme = theme.Next()
	}
	if theme != ThemeDark {
		t.Errorf("cycling through all themes ended on %v, want %v", theme, ThemeDark)
	}
	if len(seen) != len(Themes) {
		t.Errorf("visited %d themes, want %d", len(seen), len(Themes))
	}
	if got := Theme("sepia").Next(); got != DefaultTheme {
		t.Errorf("Next() of unknown theme = %v, want %v", got, DefaultTheme)
	}
}
