package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-progression/chord"
)

func TestActiveNotesDiff(t *testing.T) {
	var a ActiveNotes

	off, on := a.Diff(chord.SetOf(50, 53, 57))
	assert.True(t, off.Empty())
	assert.Equal(t, []int{50, 53, 57}, on.Keys())

	off, on = a.Diff(chord.SetOf(48, 52, 57))
	assert.Equal(t, []int{50, 53}, off.Keys())
	assert.Equal(t, []int{48, 52}, on.Keys())
	assert.Equal(t, chord.SetOf(48, 52, 57), a.Active())
}

func TestActiveNotesDiffIdempotent(t *testing.T) {
	var a ActiveNotes
	target := chord.SetOf(52, 55, 59)
	a.Diff(target)

	off, on := a.Diff(target)
	assert.True(t, off.Empty())
	assert.True(t, on.Empty())
}

func TestActiveNotesRelease(t *testing.T) {
	var a ActiveNotes
	a.Diff(chord.SetOf(40, 44))

	assert.Equal(t, []int{40, 44}, a.Release().Keys())
	assert.True(t, a.Active().Empty())
	assert.True(t, a.Release().Empty())
}

func TestMelodyVoice(t *testing.T) {
	var m MelodyVoice
	assert.Equal(t, -1, m.Sounding())

	chordKeys := chord.SetOf(62, 65, 69)

	tests := []struct {
		name    string
		key     int
		wantOff int
		wantOn  int
		after   int
	}{
		{"first note", 74, -1, 74, 74},
		{"sustain", 74, -1, -1, 74},
		{"move", 77, 74, 77, 77},
		{"clashes with chord", 65, -1, -1, 77},
		{"move again", 81, 77, 81, 81},
	}
	for _, tt := range tests {
		off, on := m.Update(tt.key, chordKeys)
		assert.Equal(t, tt.wantOff, off, tt.name)
		assert.Equal(t, tt.wantOn, on, tt.name)
		assert.Equal(t, tt.after, m.Sounding(), tt.name)
	}

	assert.Equal(t, 81, m.Release())
	assert.Equal(t, -1, m.Sounding())
	assert.Equal(t, -1, m.Release())
}

func TestMelodyVoiceStartsSilent(t *testing.T) {
	var m MelodyVoice
	// a clash before any melody note leaves the voice silent
	off, on := m.Update(62, chord.SetOf(62))
	assert.Equal(t, -1, off)
	assert.Equal(t, -1, on)
	assert.Equal(t, -1, m.Sounding())

	// pitch 0 is a real note, not "nothing sounding"
	off, on = m.Update(0, chord.PitchSet{})
	assert.Equal(t, -1, off)
	assert.Equal(t, 0, on)
}
