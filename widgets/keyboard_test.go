package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"go-progression/theme"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestRenderKeyboard(t *testing.T) {
	th := theme.New(theme.Plasma())
	out := RenderKeyboard(th, Keyboard{
		Low:    60,
		High:   72,
		Chord:  []int{60, 64, 67},
		Pool:   []int{60, 62, 64, 67},
		Melody: 72,
	})
	// C  C# D  D# E  F  F# G  G# A  A# B  C
	assert.Equal(t, "█▂▄▂█▁▂█▂▁▂▁◆", out)
	assert.Equal(t, 13, lipgloss.Width(out))
}

func TestRenderKeyboardMelodyOverChord(t *testing.T) {
	th := theme.New(theme.Plasma())
	out := RenderKeyboard(th, Keyboard{Low: 60, High: 62, Chord: []int{61}, Melody: 61})
	assert.Equal(t, "▁◆▁", out)
}

func TestRenderOctaveRuler(t *testing.T) {
	assert.Equal(t, "C4"+strings.Repeat(" ", 10)+"C5", RenderOctaveRuler(60, 73))
	// labels are cut at the right edge
	assert.Equal(t, "C4"+strings.Repeat(" ", 10)+"C", RenderOctaveRuler(60, 72))
	assert.Equal(t, "  C4", RenderOctaveRuler(58, 61))
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{{
		Title: "Keys",
		Keys:  []KeyBinding{{Key: "q", Desc: "quit"}},
	}})
	assert.Equal(t, "Keys\n  q            quit", out)
}
