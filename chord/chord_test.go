package chord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriad(t *testing.T) {
	cases := []struct {
		name    string
		root    int
		minor   bool
		want    []int
		quality Quality
	}{
		{"C major", 0, false, []int{0, 4, 7}, Major},
		{"C minor", 0, true, []int{0, 3, 7}, Minor},
		{"D minor", 2, true, []int{2, 5, 9}, Minor},
		{"G major wraps", 7, false, []int{2, 7, 11}, Major},
		{"root above octave", 14, false, []int{2, 6, 9}, Major},
		{"negative root", -1, true, []int{2, 6, 11}, Minor},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Triad(tc.root, tc.minor)
			assert.Equal(t, tc.want, c.Keys())
			assert.Equal(t, tc.quality, c.Quality())
		})
	}
}

func TestNewSortsAndCopies(t *testing.T) {
	in := []int{7, 0, 4}
	c := New(in...)
	in[0] = 99

	assert := assert.New(t)
	assert.Equal([]int{0, 4, 7}, c.Keys())

	keys := c.Keys()
	keys[0] = 42
	assert.Equal([]int{0, 4, 7}, c.Keys(), "Keys must return a copy")
}

func TestUpAndDown(t *testing.T) {
	assert := assert.New(t)

	c := Triad(0, false)
	assert.Equal([]int{4, 7, 12}, c.Up().Keys())
	assert.Equal([]int{-5, 0, 4}, c.Down().Keys())
	assert.Equal([]int{7, 12, 16}, c.Up().Up().Keys())

	assert.Equal([]int{0, 4, 7}, c.Keys(), "receiver must not change")
}

func TestUpDownInverse(t *testing.T) {
	for root := 0; root < 12; root++ {
		for _, minor := range []bool{false, true} {
			c := Triad(root, minor).Octave(48)
			assert.True(t, c.Up().Down().Equal(c), "up/down root=%d minor=%v", root, minor)
			assert.True(t, c.Down().Up().Equal(c), "down/up root=%d minor=%v", root, minor)
			assert.Equal(t, c.PitchClasses(), c.Up().PitchClasses())
		}
	}
}

func TestUpDownEmpty(t *testing.T) {
	c := New()
	assert.Equal(t, 0, c.Up().Len())
	assert.Equal(t, 0, c.Down().Len())
}

func TestTranspose(t *testing.T) {
	assert := assert.New(t)

	c := New(60, 64, 67)
	assert.Equal([]int{2, 6, 9}, c.Transpose(2).Keys())
	assert.Equal([]int{1, 4, 9}, c.Transpose(-3).Keys())
	assert.Equal([]int{0, 4, 7}, c.Transpose(0).Keys())

	for _, k := range c.Transpose(-100).Keys() {
		assert.GreaterOrEqual(k, 0)
		assert.Less(k, 12)
	}
}

func TestAlternate(t *testing.T) {
	cases := []struct {
		name string
		in   Chord
		want []int
	}{
		{"span 7 major", New(0, 4, 7), []int{-2, 3, 7}},
		{"span 7 minor", New(52, 55, 59), []int{50, 54, 59}},
		{"span 9", New(-2, 3, 7), []int{-2, 4, 7}},
		{"span 9 inversion", New(55, 60, 64), []int{55, 61, 64}},
		{"first inversion has no alternate", New(4, 7, 12), []int{4, 7, 12}},
		{"second inversion span 8", New(7, 12, 16), []int{7, 12, 16}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.in.Alternate()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Keys())
		})
	}
}

func TestAlternateKeepsTopAndSize(t *testing.T) {
	for root := 0; root < 12; root++ {
		for _, minor := range []bool{false, true} {
			c := Triad(root, minor).Octave(52)
			alt, err := c.Alternate()
			require.NoError(t, err)
			assert.Equal(t, 3, alt.Len())
			assert.Equal(t, c.Keys()[2], alt.Keys()[2])

			// a changed voicing always lands on span 9, which stays put in span
			if !alt.Equal(c) {
				assert.Equal(t, 9, alt.Span())
				again, err := alt.Alternate()
				require.NoError(t, err)
				assert.Equal(t, 9, again.Span())
			}
		}
	}
}

func TestAlternateNonTriad(t *testing.T) {
	c := New(0, 4, 7, 11)
	got, err := c.Alternate()
	assert.ErrorIs(t, err, ErrNotTriad)
	assert.True(t, got.Equal(c))
}

func TestOctave(t *testing.T) {
	for _, base := range []int{0, 24, 52, 60, 100} {
		for _, c := range []Chord{Triad(2, true), New(-5, 0, 4), New(4, 7, 12), New(-14, 30, 71)} {
			o := c.Octave(base)
			assert.Equal(t, c.PitchClasses(), o.PitchClasses())
			for _, k := range o.Keys() {
				assert.GreaterOrEqual(t, k, base)
				assert.LessOrEqual(t, k, base+11)
			}
		}
	}
	assert.Equal(t, []int{54, 57, 61}, Triad(2, true).Octave(52).Keys())
}

func TestScale(t *testing.T) {
	assert := assert.New(t)

	c := New(60, 64, 67)
	assert.Equal([]int{60, 62, 64, 65, 67, 69, 71}, c.Scale(false))
	assert.Equal([]int{60, 62, 63, 65, 67, 68, 70}, c.Scale(true))
	assert.Nil(New().Scale(true))
}

func TestSpanAndRoot(t *testing.T) {
	c := New(55, 60, 64)
	assert.Equal(t, 55, c.Root())
	assert.Equal(t, 9, c.Span())
	assert.Equal(t, 0, New().Span())
}

func TestNoteName(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("C4", NoteName(60))
	assert.Equal("E3", NoteName(52))
	assert.Equal("C-1", NoteName(0))
	assert.Equal("A#-2", NoteName(-2))
	assert.Equal("D3 F3 A3", New(50, 53, 57).String())
}
