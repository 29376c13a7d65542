package ui

import "testing"

func TestThemeLookups(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate) = %q", got)
	}
	if got := GetTheme("missing").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(missing) = %q, want Nightfox", got)
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	seen := map[string]bool{}
	name := themeOrder[0]
	for range themeOrder {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != themeOrder[0] || len(seen) != len(themeOrder) {
		t.Fatalf("NextTheme did not cycle through every theme: %v", seen)
	}
	if got := NextTheme("unknown"); got != themeOrder[0] {
		t.Fatalf("NextTheme(unknown) = %q", got)
	}
}

func TestStyles_CarryThemeColors(t *testing.T) {
	th := GetTheme("Nightfox")
	s := th.Styles()
	if s.theme.Danger != th.Danger || s.theme.Warning != th.Warning {
		t.Fatal("Styles should keep the theme palette")
	}
}
