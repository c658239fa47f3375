package sequencer

import "go-progression/chord"

// ActiveNotes tracks the sounding pitches of one channel so consecutive
// chords only turn off and on what actually changed.
type ActiveNotes struct {
	set chord.PitchSet
}

// Diff returns the pitches to turn off (sounding, not in target) and on
// (in target, not sounding), and records target as sounding
func (a *ActiveNotes) Diff(target chord.PitchSet) (off, on chord.PitchSet) {
	off = a.set.Difference(target)
	on = target.Difference(a.set)
	a.set = target
	return off, on
}

// Active returns the sounding pitches
func (a *ActiveNotes) Active() chord.PitchSet {
	return a.set
}

// Release returns every sounding pitch and forgets them
func (a *ActiveNotes) Release() chord.PitchSet {
	s := a.set
	a.set = chord.PitchSet{}
	return s
}

// MelodyVoice tracks the single sounding melody pitch
type MelodyVoice struct {
	key      int
	sounding bool
}

// Update proposes key as the next melody note. It returns the pitch to turn
// off and the pitch to turn on, -1 meaning no event. A repeated key sustains.
// A key already sounding on the chord channel is skipped and the previous
// melody note keeps holding.
func (m *MelodyVoice) Update(key int, chordActive chord.PitchSet) (off, on int) {
	off, on = -1, -1
	if m.sounding && m.key == key {
		return off, on
	}
	if chordActive.Has(key) {
		return off, on
	}
	if m.sounding {
		off = m.key
	}
	m.key, m.sounding = key, true
	return off, key
}

// Sounding returns the sounding pitch, -1 if silent
func (m *MelodyVoice) Sounding() int {
	if !m.sounding {
		return -1
	}
	return m.key
}

// Release returns the sounding pitch (-1 if silent) and silences the voice
func (m *MelodyVoice) Release() int {
	k := m.Sounding()
	m.sounding = false
	return k
}
