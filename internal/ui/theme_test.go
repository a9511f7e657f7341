package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 {
		t.Fatalf("ThemeNames() returned %d names, want 2", len(names))
	}
	if names[0] != "Dark" || names[1] != "Light" {
		t.Fatalf("ThemeNames() = %v, want [Dark Light]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Dark"); got != "Light" {
		t.Fatalf("NextTheme(Dark) = %q, want Light", got)
	}
	if got := NextTheme("Light"); got != "Dark" {
		t.Fatalf("NextTheme(Light) = %q, want Dark", got)
	}
	if got := NextTheme("Unknown"); got != "Dark" {
		t.Fatalf("NextTheme(Unknown) = %q, want Dark", got)
	}
}

func TestGetThemeFallsBackToDark(t *testing.T) {
	if got := GetTheme("Solarized").Name; got != "Dark" {
		t.Fatalf("GetTheme(Solarized).Name = %q, want Dark", got)
	}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		if th.Name != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, th.Name)
		}
		if th.Text == "" || th.MatchBg == "" || th.Surface == "" {
			t.Fatalf("theme %q has empty colors: %+v", name, th)
		}
	}
}
