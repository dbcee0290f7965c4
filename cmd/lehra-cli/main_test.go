package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lehra/export"
)

func TestList(t *testing.T) {
	var out bytes.Buffer
	if err := list(&out, []string{"--taal", "Jhaptaal"}); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	if !strings.Contains(text, "Yaman Madhya") || strings.Contains(text, "Tintal") {
		t.Errorf("list output:\n%s", text)
	}

	out.Reset()
	if err := list(&out, []string{"--taal", "Roopak", "--instrument", "harmonium"}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "No loops found matching all criteria." {
		t.Errorf("empty list output: %q", out.String())
	}
}

func TestRenderNotes(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	err := render(&out, []string{
		"--notes", "C4 - E4 G4",
		"--instrument", "synth",
		"--rate", "8000",
		"--tempo", "240",
		"--midi",
		"-o", dir,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Lehra-4beats-synth.wav", "Lehra-4beats-synth.mid"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if !strings.Contains(out.String(), "at 240 BPM") {
		t.Errorf("output: %s", out.String())
	}
}

func TestRenderEmpty(t *testing.T) {
	err := render(&bytes.Buffer{}, []string{"--notes", "- - -", "-o", t.TempDir()})
	if !errors.Is(err, export.ErrEmptyComposition) {
		t.Errorf("err = %v", err)
	}
}

func TestPickSource(t *testing.T) {
	if _, err := pickSource("", -1, "", ""); err == nil {
		t.Error("no source accepted")
	}
	if _, err := pickSource("", 1, "", "C4"); err == nil {
		t.Error("two sources accepted")
	}
	src, err := pickSource("", 2, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if src.instrument != "sarangi" || src.seq.Len() != 7 {
		t.Errorf("loop 2 = %+v", src)
	}
	if _, err := pickSource("", 42, "", ""); err == nil {
		t.Error("missing id accepted")
	}
}
