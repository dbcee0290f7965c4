package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	if p.Name != "saffron" {
		t.Errorf("name = %q", p.Name)
	}
	if len(p.Colors) != 10 {
		t.Errorf("colors = %d", len(p.Colors))
	}
}

func TestLookup(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}
	if got := p.Lookup(-1); got != (RGB{0, 0, 0}) {
		t.Errorf("Lookup(-1) = %v", got)
	}
	if got := p.Lookup(2); got != (RGB{200, 100, 50}) {
		t.Errorf("Lookup(2) = %v", got)
	}
	if got := p.Lookup(0.5); got != (RGB{100, 50, 25}) {
		t.Errorf("Lookup(0.5) = %v", got)
	}

	single := &Palette{Colors: []RGB{{1, 2, 3}}}
	if got := single.Lookup(0.5); got != (RGB{1, 2, 3}) {
		t.Errorf("single color Lookup = %v", got)
	}
}

func TestParseGPL(t *testing.T) {
	if _, err := ParseGPL(strings.NewReader("GIMP Palette\nName: empty\n# nothing\n")); err == nil {
		t.Error("expected error for palette without colors")
	}

	path := filepath.Join(t.TempDir(), "two.gpl")
	doc := "GIMP Palette\nName: two\nColumns: 2\n#\n255 0 0 red\n  0 0 255\tblue\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadOrDefault(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "two" || len(p.Colors) != 2 || p.Colors[1] != (RGB{0, 0, 255}) {
		t.Errorf("parsed = %+v", p)
	}
}

func TestThemeColors(t *testing.T) {
	th := Default()
	if string(th.Accent()) == "" || string(th.Accent())[0] != '#' {
		t.Errorf("Accent() = %q", th.Accent())
	}
	if th.Symbols.StepActive != '●' {
		t.Errorf("StepActive = %q", th.Symbols.StepActive)
	}
}
