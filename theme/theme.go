package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

// Symbols used by the keyboard strip
type Symbols struct {
	WhiteKey rune // ▁ idle white key
	BlackKey rune // ▂ idle black key
	Chord    rune // █ sounding chord pitch
	Melody   rune // ◆ sounding melody pitch
	Pool     rune // ▄ available to the melody
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			WhiteKey: '▁',
			BlackKey: '▂',
			Chord:    '█',
			Melody:   '◆',
			Pool:     '▄',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleMuted   = 0.2
	RoleFG      = 0.4
	RoleAccent  = 0.5
	RoleChord   = 0.55
	RolePool    = 0.3
	RoleMelody  = 0.9
	RoleWarning = 0.75
	RoleSuccess = 1.0
)

func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Chord() lipgloss.Color   { return t.Color(RoleChord) }
func (t *Theme) Pool() lipgloss.Color    { return t.Color(RolePool) }
func (t *Theme) Melody() lipgloss.Color  { return t.Color(RoleMelody) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return lipgloss.Color(t.Palette.Lookup(norm).Hex())
}
