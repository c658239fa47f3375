package sequencer

import (
	"slices"
	"time"

	"go-progression/chord"
)

// State is everything the Sequencer remembers between ticks.
// It is owned by a single Sequencer and only leaves it as a copy.
type State struct {
	Primary   bool // playing the primary chord set
	Transpose int  // -1, 0 or +1: down, root position, up

	LastIndex int         // index of the last freshly picked chord, -1 before the first
	Repeat    int         // times LastIndex was picked again in a row
	Last      chord.Chord // last freshly picked chord, voiced and transposed
	HasLast   bool

	Chord     chord.Chord    // chord sounding this bar
	Alternate bool           // Chord is the alternate voicing of Last
	Pool      chord.PitchSet // pitches the melody draws from this bar

	Melody int // last proposed melody pitch, -1 before the first
	Bar    int // bar of the last tick, -1 before the first
	Sub    int // sub-beat of the last tick within its bar
	Ticks  int // sub-beats played so far
}

func newState() State {
	return State{
		Primary:   true,
		LastIndex: -1,
		Melody:    -1,
		Bar:       -1,
	}
}

// Snapshot is an immutable view of a running generator for displays and
// the HTTP endpoint. Slices are private copies.
type Snapshot struct {
	RunID      string        `json:"runId"`
	Playing    bool          `json:"playing"`
	Tick       int           `json:"tick"`
	Bar        int           `json:"bar"`
	Sub        int           `json:"sub"`
	Primary    bool          `json:"primary"`
	Transpose  int           `json:"transpose"`
	ChordIndex int           `json:"chordIndex"`
	Repeat     int           `json:"repeat"`
	Alternate  bool          `json:"alternate"`
	Chord      []int         `json:"chord"`
	ChordName  string        `json:"chordName"`
	Pool       []int         `json:"pool"`
	Melody     int           `json:"melody"`   // sounding melody pitch, -1 if silent
	Sounding   []int         `json:"sounding"` // sounding chord pitches
	ScaleSnap  bool          `json:"scaleSnap"`
	At         time.Time     `json:"at"`
	Late       time.Duration `json:"late"`
}

func (s State) snapshot() Snapshot {
	return Snapshot{
		Tick:       s.Ticks - 1,
		Bar:        s.Bar,
		Sub:        s.Sub,
		Primary:    s.Primary,
		Transpose:  s.Transpose,
		ChordIndex: s.LastIndex,
		Repeat:     s.Repeat,
		Alternate:  s.Alternate,
		Chord:      s.Chord.Keys(),
		ChordName:  s.Chord.String(),
		Pool:       s.Pool.Keys(),
		Melody:     -1,
	}
}

// Clone returns a deep copy
func (s Snapshot) Clone() Snapshot {
	s.Chord = slices.Clone(s.Chord)
	s.Pool = slices.Clone(s.Pool)
	s.Sounding = slices.Clone(s.Sounding)
	return s
}
