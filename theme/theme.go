package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Grid states (no cursor)
	StepEmpty    rune // · no note on this beat
	StepActive   rune // ● note on this beat
	StepPlayhead rune // ▶ beat being played, no note in this row
	StepSounding rune // ◆ note being played

	// Grid states (with cursor)
	CursorEmpty  rune // ○ cursor on empty
	CursorActive rune // ◉ cursor on active

	// Player list
	Selected rune // ▸ highlighted loop
	Playing  rune // ♪ loaded loop
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			StepEmpty:    '·',
			StepActive:   '●',
			StepPlayhead: '│',
			StepSounding: '◆',

			CursorEmpty:  '○',
			CursorActive: '◉',

			Selected: '▸',
			Playing:  '♪',
		},
	}
}

// Default is the embedded palette with the standard symbols
func Default() *Theme {
	return New(DefaultPalette())
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // night
	RoleSurface = 0.1 // plum
	RoleMuted   = 0.2 // dusty rose
	RoleFG      = 0.4 // readable pink
	RoleAccent  = 0.5 // saffron
	RoleCursor  = 0.6 // marigold
	RoleActive  = 0.7 // turmeric
	RoleSuccess = 1.0 // ivory
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) Surface() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSurface))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleCursor))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
