package chord

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Quality tags a chord as minor or major. It is informational: nothing
// checks that the pitches actually form that triad.
type Quality int

const (
	Minor Quality = iota
	Major
)

func (q Quality) String() string {
	if q == Minor {
		return "minor"
	}
	return "major"
}

// ErrNotTriad is returned by Alternate for chords that are not 3 notes
var ErrNotTriad = errors.New("alternate voicing needs a 3-note chord")

var (
	majorSteps = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorSteps = [7]int{0, 2, 3, 5, 7, 8, 10}
)

// Chord is an immutable ascending list of pitches. Every transformation
// returns a new Chord; the receiver is never modified.
type Chord struct {
	keys    []int
	quality Quality
}

// New builds a major-tagged chord from keys. The slice is copied and sorted.
func New(keys ...int) Chord {
	k := slices.Clone(keys)
	slices.Sort(k)
	return Chord{keys: k, quality: Major}
}

func derive(q Quality, keys []int) Chord {
	slices.Sort(keys)
	return Chord{keys: keys, quality: q}
}

// Triad builds {root, root+3|4, root+7} as pitch classes
func Triad(root int, minor bool) Chord {
	third, q := 4, Major
	if minor {
		third, q = 3, Minor
	}
	return derive(q, []int{mod12(root), mod12(root + third), mod12(root + 7)})
}

// mod12 is a floored modulus, always in 0-11
func mod12(v int) int {
	m := v % 12
	if m < 0 {
		m += 12
	}
	return m
}

// PitchClass returns v mod 12 in the range 0-11
func PitchClass(v int) int {
	return mod12(v)
}

// Keys returns a copy of the pitches in ascending order
func (c Chord) Keys() []int {
	return slices.Clone(c.keys)
}

func (c Chord) Len() int {
	return len(c.keys)
}

func (c Chord) Quality() Quality {
	return c.quality
}

// Root returns the lowest pitch. Panics on an empty chord.
func (c Chord) Root() int {
	return c.keys[0]
}

// Span is the distance from the lowest to the highest pitch
func (c Chord) Span() int {
	if len(c.keys) == 0 {
		return 0
	}
	return c.keys[len(c.keys)-1] - c.keys[0]
}

func (c Chord) Equal(o Chord) bool {
	return slices.Equal(c.keys, o.keys)
}

// PitchClasses returns the sorted pitch classes, duplicates kept
func (c Chord) PitchClasses() []int {
	pcs := make([]int, len(c.keys))
	for i, k := range c.keys {
		pcs[i] = mod12(k)
	}
	slices.Sort(pcs)
	return pcs
}

// Set converts the chord to a PitchSet. Panics if a pitch is outside 0-127.
func (c Chord) Set() PitchSet {
	return SetOf(c.keys...)
}

// Transpose moves every pitch by offset and folds it into one octave
func (c Chord) Transpose(offset int) Chord {
	out := make([]int, len(c.keys))
	for i, k := range c.keys {
		out[i] = mod12(k + offset)
	}
	return derive(c.quality, out)
}

// Up moves the lowest pitch an octave above the rest
func (c Chord) Up() Chord {
	n := len(c.keys)
	if n == 0 {
		return c
	}
	out := make([]int, n)
	copy(out, c.keys[1:])
	out[n-1] = c.keys[0] + 12
	return derive(c.quality, out)
}

// Down moves the highest pitch an octave below the rest
func (c Chord) Down() Chord {
	n := len(c.keys)
	if n == 0 {
		return c
	}
	out := make([]int, n)
	copy(out[1:], c.keys[:n-1])
	out[0] = c.keys[n-1] - 12
	return derive(c.quality, out)
}

// Alternate swaps between the two stock voicings of a triad: a span of 7
// shifts by (-2,-1,0), a span of 9 by (0,+1,0). Any other triad has no
// alternate and is returned unchanged.
func (c Chord) Alternate() (Chord, error) {
	if len(c.keys) != 3 {
		return c, fmt.Errorf("%w: got %d notes", ErrNotTriad, len(c.keys))
	}
	k := c.keys
	switch c.Span() {
	case 7:
		return derive(c.quality, []int{k[0] - 2, k[1] - 1, k[2]}), nil
	case 9:
		return derive(c.quality, []int{k[0], k[1] + 1, k[2]}), nil
	}
	return c, nil
}

// Octave places every pitch class in [base, base+11]
func (c Chord) Octave(base int) Chord {
	out := make([]int, len(c.keys))
	for i, k := range c.keys {
		out[i] = mod12(k) + base
	}
	return derive(c.quality, out)
}

// Scale returns the 7-note diatonic scale rooted at the lowest pitch
func (c Chord) Scale(minor bool) []int {
	if len(c.keys) == 0 {
		return nil
	}
	steps := majorSteps
	if minor {
		steps = minorSteps
	}
	root := c.keys[0]
	scale := make([]int, len(steps))
	for i, s := range steps {
		scale[i] = root + s
	}
	return scale
}

func (c Chord) String() string {
	names := make([]string, len(c.keys))
	for i, k := range c.keys {
		names[i] = NoteName(k)
	}
	return strings.Join(names, " ")
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName formats a MIDI pitch, e.g. 60 -> C4
func NoteName(pitch int) string {
	octave := pitch / 12
	if pitch < 0 && pitch%12 != 0 {
		octave--
	}
	return fmt.Sprintf("%s%d", noteNames[mod12(pitch)], octave-1)
}
