package sequencer

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go-progression/chord"
)

// ErrInvalidParams wraps every configuration problem found by Validate
var ErrInvalidParams = errors.New("invalid generator settings")

// Params configures the Sequencer and the Driver. It is handed over once
// before playback starts and never changes during a run.
type Params struct {
	Roots             []int   `json:"roots" yaml:"roots"`                         // chord roots as pitch classes
	Minor             bool    `json:"minor" yaml:"minor"`                         // quality of the primary set
	AltProbability    float64 `json:"altProbability" yaml:"altProbability"`       // chance of the alternate voicing
	MaxChordLength    int     `json:"maxChordLength" yaml:"maxChordLength"`       // repeats allowed before a forced change
	SwitchFromPrimary float64 `json:"switchFromPrimary" yaml:"switchFromPrimary"` // primary -> secondary chance per bar
	SwitchToPrimary   float64 `json:"switchToPrimary" yaml:"switchToPrimary"`     // secondary -> primary chance per bar
	BaseKey           int     `json:"baseKey" yaml:"baseKey"`                     // lowest pitch of the chord octave band
	MelodyOffset      int     `json:"melodyOffset" yaml:"melodyOffset"`           // added to every melody pitch
	ScaleProbability  float64 `json:"scaleProbability" yaml:"scaleProbability"`   // chance of a passing tone on inner sub-beats
	BarPeriodMS       int     `json:"barPeriodMs" yaml:"barPeriodMs"`
	Subdivisions      int     `json:"subdivisions" yaml:"subdivisions"`
	Seed              uint64  `json:"seed" yaml:"seed"`
}

// DefaultParams returns the stock progression: D, C and G in minor
func DefaultParams() Params {
	return Params{
		Roots:             []int{2, 0, 7},
		Minor:             true,
		AltProbability:    0.3,
		MaxChordLength:    3,
		SwitchFromPrimary: 0.1,
		SwitchToPrimary:   0.4,
		BaseKey:           52,
		MelodyOffset:      12,
		ScaleProbability:  0.2,
		BarPeriodMS:       500,
		Subdivisions:      4,
		Seed:              0,
	}
}

// BarPeriod is the length of one bar
func (p Params) BarPeriod() time.Duration {
	return time.Duration(p.BarPeriodMS) * time.Millisecond
}

// SubBeat is the length of one sub-beat
func (p Params) SubBeat() time.Duration {
	if p.Subdivisions <= 0 {
		return 0
	}
	return p.BarPeriod() / time.Duration(p.Subdivisions)
}

// Voicings reach 14 semitones below the base key (down, then alternate)
// and 23 above it (up).
const (
	reachBelow = 14
	reachAbove = 23
)

// KeyRange is the lowest and highest pitch a chord or melody note can take
func (p Params) KeyRange() (lo, hi int) {
	lo = p.BaseKey - reachBelow + min(p.MelodyOffset, 0)
	hi = p.BaseKey + reachAbove + max(p.MelodyOffset, 0)
	return lo, hi
}

// Validate reports every problem at once
func (p Params) Validate() error {
	var errs []error
	if len(p.Roots) < 2 {
		errs = append(errs, fmt.Errorf("need at least 2 chord roots, got %d", len(p.Roots)))
	}
	for _, prob := range []struct {
		name string
		v    float64
	}{
		{"altProbability", p.AltProbability},
		{"switchFromPrimary", p.SwitchFromPrimary},
		{"switchToPrimary", p.SwitchToPrimary},
		{"scaleProbability", p.ScaleProbability},
	} {
		if math.IsNaN(prob.v) || prob.v < 0 || prob.v > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0,1], got %v", prob.name, prob.v))
		}
	}
	if p.MaxChordLength < 0 {
		errs = append(errs, fmt.Errorf("maxChordLength must not be negative, got %d", p.MaxChordLength))
	}
	if p.BarPeriodMS <= 0 {
		errs = append(errs, fmt.Errorf("barPeriodMs must be positive, got %d", p.BarPeriodMS))
	}
	if p.Subdivisions <= 0 {
		errs = append(errs, fmt.Errorf("subdivisions must be positive, got %d", p.Subdivisions))
	} else if p.BarPeriodMS > 0 && p.SubBeat() <= 0 {
		errs = append(errs, fmt.Errorf("%d subdivisions do not fit in %s", p.Subdivisions, p.BarPeriod()))
	}
	if lo, hi := p.BaseKey-reachBelow, p.BaseKey+reachAbove; !chord.InRange(lo) || !chord.InRange(hi) {
		errs = append(errs, fmt.Errorf("baseKey %d puts chords at %d..%d, outside 0-127", p.BaseKey, lo, hi))
	}
	if lo, hi := p.BaseKey-reachBelow+p.MelodyOffset, p.BaseKey+reachAbove+p.MelodyOffset; !chord.InRange(lo) || !chord.InRange(hi) {
		errs = append(errs, fmt.Errorf("melodyOffset %d puts melody at %d..%d, outside 0-127", p.MelodyOffset, lo, hi))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidParams, errors.Join(errs...))
}

// Voices maps the two generated parts onto MIDI channels
type Voices struct {
	ChordChannel    uint8 `json:"chordChannel" yaml:"chordChannel"`
	MelodyChannel   uint8 `json:"melodyChannel" yaml:"melodyChannel"`
	Velocity        uint8 `json:"velocity" yaml:"velocity"`
	ReleaseVelocity uint8 `json:"releaseVelocity" yaml:"releaseVelocity"`
}

func DefaultVoices() Voices {
	return Voices{
		ChordChannel:    0,
		MelodyChannel:   1,
		Velocity:        127,
		ReleaseVelocity: 64,
	}
}

func (v Voices) Validate() error {
	var errs []error
	if v.ChordChannel > 15 || v.MelodyChannel > 15 {
		errs = append(errs, fmt.Errorf("channels must be 0-15, got chord=%d melody=%d", v.ChordChannel, v.MelodyChannel))
	}
	if v.ChordChannel == v.MelodyChannel {
		errs = append(errs, fmt.Errorf("chord and melody need separate channels, both are %d", v.ChordChannel))
	}
	if v.Velocity > 127 || v.ReleaseVelocity > 127 {
		errs = append(errs, fmt.Errorf("velocities must be 0-127, got %d/%d", v.Velocity, v.ReleaseVelocity))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidParams, errors.Join(errs...))
}
