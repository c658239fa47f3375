package sequencer

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go-progression/chord"
	"go-progression/debug"
)

// ErrEmptyPool means a bar produced no pitches for the melody to draw from
var ErrEmptyPool = errors.New("empty melody pool")

// Step is the outcome of one sub-beat
type Step struct {
	Tick      int
	Bar       int
	Sub       int
	NewBar    bool        // Chord was decided on this tick
	Chord     chord.Chord // chord sounding for the whole bar
	Melody    int         // proposed melody pitch, offset applied
	ScaleSnap bool        // Melody is a passing tone from the scale
}

// Sequencer decides, bar by bar, which chord sounds and, sub-beat by
// sub-beat, which melody pitch is proposed. It is not safe for concurrent
// use; the Driver owns it for the duration of a run.
type Sequencer struct {
	params    Params
	primary   []chord.Chord
	secondary []chord.Chord
	rng       *rand.Rand
	state     State
}

// New validates p and builds the two chord sets: the primary set in the
// configured quality and the secondary set in the opposite one.
func New(p Params) (*Sequencer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Sequencer{
		params: p,
		rng:    rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15)),
		state:  newState(),
	}
	for _, root := range p.Roots {
		s.primary = append(s.primary, chord.Triad(root, p.Minor))
		s.secondary = append(s.secondary, chord.Triad(root, !p.Minor))
	}
	return s, nil
}

func (s *Sequencer) Params() Params {
	return s.params
}

// State returns a copy of the sequencer state
func (s *Sequencer) State() State {
	return s.state
}

// Tick advances one sub-beat. The first sub-beat of every bar also decides
// the bar's chord.
func (s *Sequencer) Tick() (Step, error) {
	st := &s.state
	n := s.params.Subdivisions
	step := Step{
		Tick: st.Ticks,
		Bar:  st.Ticks / n,
		Sub:  st.Ticks % n,
	}

	if step.Sub == 0 {
		if err := s.decideBar(); err != nil {
			return step, fmt.Errorf("bar %d: %w", step.Bar, err)
		}
		step.NewBar = true
	}

	key, snapped := s.melody(step.Sub)
	st.Melody = key
	st.Bar, st.Sub = step.Bar, step.Sub
	st.Ticks++

	step.Chord = st.Chord
	step.Melody = key
	step.ScaleSnap = snapped
	return step, nil
}

func (s *Sequencer) decideBar() error {
	st := &s.state
	p := s.params

	// 1. set switch
	u := s.rng.Float64()
	if st.Primary && u < p.SwitchFromPrimary {
		st.Primary = false
	} else if !st.Primary && u < p.SwitchToPrimary {
		st.Primary = true
	}
	set := s.secondary
	if st.Primary {
		set = s.primary
	}

	// 2. transposition drift
	if t := st.Transpose + s.rng.IntN(3) - 1; t >= -1 && t <= 1 {
		st.Transpose = t
	}

	// 3. chord selection
	if st.HasLast && s.rng.Float64() < p.AltProbability {
		alt, err := st.Last.Alternate()
		if err != nil {
			return err
		}
		st.Chord = alt
		st.Alternate = true
		st.Repeat = 0
		st.Pool = alt.Set()
	} else {
		id := s.pick(len(set))
		base := set[id].Octave(p.BaseKey)
		c := base
		switch st.Transpose {
		case -1:
			c = base.Down()
		case 1:
			c = base.Up()
		}
		st.Chord = c
		st.Alternate = false
		st.Last, st.HasLast = c, true
		// 4. pool spans the untransposed and transposed voicings
		st.Pool = base.Set().Union(c.Set())
	}

	if st.Pool.Empty() {
		return ErrEmptyPool
	}
	debug.Log("seq", "bar=%d primary=%v transpose=%+d alt=%v idx=%d repeat=%d chord=%s",
		st.Ticks/p.Subdivisions, st.Primary, st.Transpose, st.Alternate, st.LastIndex, st.Repeat, st.Chord)
	return nil
}

// pick chooses a chord index, forcing a change once the same index has been
// repeated more than MaxChordLength times.
func (s *Sequencer) pick(n int) int {
	st := &s.state
	id := s.rng.IntN(n)
	if id != st.LastIndex {
		st.LastIndex = id
		st.Repeat = 0
		return id
	}
	st.Repeat++
	if st.Repeat > s.params.MaxChordLength {
		for id == st.LastIndex {
			id = s.rng.IntN(n)
		}
		st.LastIndex = id
		st.Repeat = 0
	}
	return id
}

func (s *Sequencer) melody(sub int) (key int, snapped bool) {
	st := &s.state
	p := s.params

	if sub > 0 && sub < p.Subdivisions-1 && s.rng.Float64() < p.ScaleProbability {
		scale := st.Chord.Scale(st.Primary == p.Minor)
		if i := snapToScale(scale, st.Pool); i >= 0 {
			return scale[i] + p.MelodyOffset, true
		}
		return scale[s.rng.IntN(len(scale))] + p.MelodyOffset, true
	}
	return st.Pool.At(s.rng.IntN(st.Pool.Len())) + p.MelodyOffset, false
}

// snapToScale returns the index of the scale degree whose pitch class has
// the smallest non-zero squared distance to a pool pitch class, the first
// one on ties. It returns -1 when no degree qualifies.
func snapToScale(scale []int, pool chord.PitchSet) int {
	best, bestScore := -1, int(^uint(0)>>1)
	for i, deg := range scale {
		a := chord.PitchClass(deg)
		pool.Each(func(key int) {
			b := chord.PitchClass(key)
			if d := (a - b) * (a - b); d != 0 && d < bestScore {
				best, bestScore = i, d
			}
		})
	}
	return best
}
