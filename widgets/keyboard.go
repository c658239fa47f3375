package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-progression/chord"
	"go-progression/theme"
)

// Keyboard describes what to draw on a keyboard strip
type Keyboard struct {
	Low, High int   // inclusive pitch range
	Chord     []int // sounding chord pitches
	Pool      []int // pitches the melody may choose
	Melody    int   // sounding melody pitch, -1 if none
}

func isBlack(pitch int) bool {
	switch chord.PitchClass(pitch) {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

// RenderKeyboard draws one cell per pitch from Low to High. The melody
// wins over the chord, the chord over the pool.
func RenderKeyboard(th *theme.Theme, k Keyboard) string {
	chordSet := chord.SetOf(k.Chord...)
	poolSet := chord.SetOf(k.Pool...)

	idle := lipgloss.NewStyle().Foreground(th.Muted())
	chordStyle := lipgloss.NewStyle().Foreground(th.Chord())
	poolStyle := lipgloss.NewStyle().Foreground(th.Pool())
	melodyStyle := lipgloss.NewStyle().Foreground(th.Melody()).Bold(true)

	var out strings.Builder
	for p := k.Low; p <= k.High; p++ {
		switch {
		case p == k.Melody:
			out.WriteString(melodyStyle.Render(string(th.Symbols.Melody)))
		case chordSet.Has(p):
			out.WriteString(chordStyle.Render(string(th.Symbols.Chord)))
		case poolSet.Has(p):
			out.WriteString(poolStyle.Render(string(th.Symbols.Pool)))
		case isBlack(p):
			out.WriteString(idle.Render(string(th.Symbols.BlackKey)))
		default:
			out.WriteString(idle.Render(string(th.Symbols.WhiteKey)))
		}
	}
	return out.String()
}

// RenderOctaveRuler labels every C between Low and High, aligned with
// RenderKeyboard
func RenderOctaveRuler(low, high int) string {
	cells := []rune(strings.Repeat(" ", high-low+1))
	for p := low; p <= high; p++ {
		if chord.PitchClass(p) != 0 {
			continue
		}
		label := chord.NoteName(p)
		for i, r := range label {
			if p-low+i < len(cells) {
				cells[p-low+i] = r
			}
		}
	}
	return strings.TrimRight(string(cells), " ")
}

// RenderLegendItem renders a single legend item: "█ Name - description"
func RenderLegendItem(color lipgloss.Color, symbol rune, name, desc string) string {
	sym := lipgloss.NewStyle().Foreground(color).Render(string(symbol))
	return fmt.Sprintf("  %s %s - %s", sym, name, desc)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
