package note

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Pitch
	}{
		{"C4", 60},
		{"A4", 69},
		{"F#4", 66},
		{"Gb4", 66},
		{"Db4", 61},
		{"Bb3", 58},
		{"B3", 59},
		{"C5", 72},
		{"C-1", 0},
		{"G9", 127},
		{"c4", 60},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "C", "H4", "C#", "Cx4", "G#9", "Cb-1", "C+4", "F#+3"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for p := MinPitch; p <= MaxPitch; p++ {
		back, err := Parse(p.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", p.String(), err)
		}
		if back != p {
			t.Fatalf("%d -> %q -> %d", p, p.String(), back)
		}
	}
	if Rest.String() != "-" {
		t.Errorf("Rest.String() = %q", Rest.String())
	}
}

func TestFrequency(t *testing.T) {
	if f := MustParse("A4").Frequency(); f != 440 {
		t.Errorf("A4 = %v Hz", f)
	}
	if f := MustParse("A5").Frequency(); math.Abs(f-880) > 1e-9 {
		t.Errorf("A5 = %v Hz", f)
	}
	if f := MiddleC.Frequency(); math.Abs(f-261.6256) > 1e-3 {
		t.Errorf("C4 = %v Hz", f)
	}
}

func TestParseSequence(t *testing.T) {
	seq, err := ParseSequence("C4 E4  G4 - ~ .\n B3")
	if err != nil {
		t.Fatal(err)
	}
	want := Sequence{60, 64, 67, Rest, Rest, Rest, 59}
	if len(seq) != len(want) {
		t.Fatalf("len = %d, want %d", len(seq), len(want))
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Errorf("slot %d = %v, want %v", i, seq[i], want[i])
		}
	}
	if seq.Notes() != 4 {
		t.Errorf("Notes() = %d", seq.Notes())
	}
	if _, err := ParseSequence("C4 Q4"); err == nil {
		t.Error("expected error for Q4")
	}
}

func TestSequenceAt(t *testing.T) {
	seq := Sequence{60, Rest}
	if seq.At(0) != 60 || seq.At(1) != Rest || seq.At(5) != Rest || seq.At(-1) != Rest {
		t.Error("At out of range should be Rest")
	}
	if !NewSequence(4).Empty() {
		t.Error("new sequence should be empty")
	}
	if seq.Empty() {
		t.Error("sequence with a note is not empty")
	}
}

func TestSequenceJSON(t *testing.T) {
	seq := Sequence{MustParse("F#4"), Rest, MustParse("Db4")}
	data, err := json.Marshal(seq)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["F#4",null,"Db4"]` {
		t.Fatalf("marshal = %s", data)
	}

	var back Sequence
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.String() != seq.String() {
		t.Errorf("unmarshal = %v, want %v", back, seq)
	}
}

func TestGrid(t *testing.T) {
	rows := DefaultGrid()
	if len(rows) != 36 {
		t.Fatalf("rows = %d, want 36", len(rows))
	}
	if rows[0].Pitch != MustParse("B5") || rows[0].Label != "Ni'" {
		t.Errorf("top row = %+v", rows[0])
	}
	if rows[35].Pitch != MustParse("C3") || rows[35].Label != "Sa." {
		t.Errorf("bottom row = %+v", rows[35])
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Pitch != rows[i-1].Pitch-1 {
			t.Fatalf("row %d not chromatic: %v after %v", i, rows[i].Pitch, rows[i-1].Pitch)
		}
	}

	sa := RowOf(rows, MiddleC)
	if sa < 0 || rows[sa].Label != "Sa" {
		t.Errorf("middle C row = %d", sa)
	}
	if l := Label(MustParse("F#4")); l != "Ma#" {
		t.Errorf("F#4 label = %q", l)
	}
	if l := Label(MustParse("Db3")); l != "re." {
		t.Errorf("Db3 label = %q", l)
	}
	if RowOf(rows, MustParse("C7")) != -1 {
		t.Error("C7 should not be in the default grid")
	}
}
