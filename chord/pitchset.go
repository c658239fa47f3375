package chord

import (
	"fmt"
	"math/bits"
	"strings"
)

// MaxPitch is the highest MIDI pitch a PitchSet can hold
const MaxPitch = 127

// PitchSet is a fixed-size presence table over MIDI pitches 0-127.
// The zero value is an empty set. Iteration is always ascending.
type PitchSet [2]uint64

// SetOf builds a PitchSet from the given pitches
func SetOf(keys ...int) PitchSet {
	var s PitchSet
	for _, k := range keys {
		s = s.Add(k)
	}
	return s
}

// InRange reports whether key fits in a PitchSet
func InRange(key int) bool {
	return key >= 0 && key <= MaxPitch
}

func mustRange(key int) {
	if !InRange(key) {
		panic(fmt.Sprintf("chord: pitch %d outside 0-%d", key, MaxPitch))
	}
}

// Add returns s with key present. Panics if key is outside 0-127.
func (s PitchSet) Add(key int) PitchSet {
	mustRange(key)
	s[key>>6] |= 1 << uint(key&63)
	return s
}

// Remove returns s without key
func (s PitchSet) Remove(key int) PitchSet {
	if !InRange(key) {
		return s
	}
	s[key>>6] &^= 1 << uint(key&63)
	return s
}

// Has reports whether key is present
func (s PitchSet) Has(key int) bool {
	if !InRange(key) {
		return false
	}
	return s[key>>6]&(1<<uint(key&63)) != 0
}

func (s PitchSet) Len() int {
	return bits.OnesCount64(s[0]) + bits.OnesCount64(s[1])
}

func (s PitchSet) Empty() bool {
	return s[0] == 0 && s[1] == 0
}

func (s PitchSet) Union(o PitchSet) PitchSet {
	return PitchSet{s[0] | o[0], s[1] | o[1]}
}

// Difference returns the pitches in s that are not in o
func (s PitchSet) Difference(o PitchSet) PitchSet {
	return PitchSet{s[0] &^ o[0], s[1] &^ o[1]}
}

func (s PitchSet) Intersect(o PitchSet) PitchSet {
	return PitchSet{s[0] & o[0], s[1] & o[1]}
}

// Each calls fn for every present pitch in ascending order
func (s PitchSet) Each(fn func(key int)) {
	for w := 0; w < len(s); w++ {
		word := s[w]
		for word != 0 {
			b := bits.TrailingZeros64(word)
			fn(w*64 + b)
			word &^= 1 << uint(b)
		}
	}
}

// Keys returns the present pitches in ascending order
func (s PitchSet) Keys() []int {
	keys := make([]int, 0, s.Len())
	s.Each(func(k int) { keys = append(keys, k) })
	return keys
}

// At returns the i-th lowest pitch. Panics if i is out of range.
func (s PitchSet) At(i int) int {
	if i >= 0 {
		n := 0
		for w := 0; w < len(s); w++ {
			c := bits.OnesCount64(s[w])
			if i < n+c {
				word := s[w]
				for j := n; j < i; j++ {
					word &= word - 1
				}
				return w*64 + bits.TrailingZeros64(word)
			}
			n += c
		}
	}
	panic(fmt.Sprintf("chord: index %d out of range for set of %d", i, s.Len()))
}

func (s PitchSet) String() string {
	var names []string
	s.Each(func(k int) { names = append(names, NoteName(k)) })
	return "{" + strings.Join(names, " ") + "}"
}
