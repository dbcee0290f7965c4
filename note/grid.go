package note

// Sargam names relative to Sa = C. Lower case is komal, # is tivra.
var sargam = [12]string{"Sa", "re", "Re", "ga", "Ga", "Ma", "Ma#", "Pa", "dha", "Dha", "ni", "Ni"}

// Octave register marks: taar above, mandra below, madhya unmarked
const (
	TaarOctave   = 5
	MadhyaOctave = 4
	MandraOctave = 3
)

// Row is one line of the composer grid
type Row struct {
	Pitch Pitch
	Label string
}

// Label returns the sargam name of p with its register mark
func Label(p Pitch) string {
	if p.IsRest() {
		return ""
	}
	name := sargam[p.Class()]
	switch oct := p.Octave(); {
	case oct > MadhyaOctave:
		for i := MadhyaOctave; i < oct; i++ {
			name += "'"
		}
	case oct < MadhyaOctave:
		for i := oct; i < MadhyaOctave; i++ {
			name += "."
		}
	}
	return name
}

// Grid derives the chromatic rows from the top of octave hi down to the
// bottom of octave lo, highest pitch first.
func Grid(hi, lo int) []Row {
	if hi < lo {
		hi, lo = lo, hi
	}
	rows := make([]Row, 0, (hi-lo+1)*12)
	for oct := hi; oct >= lo; oct-- {
		for class := 11; class >= 0; class-- {
			p := Pitch((oct+1)*12 + class)
			if p.IsRest() {
				continue
			}
			rows = append(rows, Row{Pitch: p, Label: Label(p)})
		}
	}
	return rows
}

// DefaultGrid is three octaves, B5 down to C3
func DefaultGrid() []Row {
	return Grid(TaarOctave, MandraOctave)
}

// RowOf returns the index of p in rows, or -1
func RowOf(rows []Row, p Pitch) int {
	for i, r := range rows {
		if r.Pitch == p {
			return i
		}
	}
	return -1
}
