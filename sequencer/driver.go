package sequencer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-progression/chord"
	"go-progression/debug"
	"go-progression/midi"
)

// Driver plays a Sequencer in real time. Each sub-beat it asks the
// Sequencer for the next step, reconciles it against the sounding notes and
// sends the difference to the sink.
type Driver struct {
	seq    *Sequencer
	sink   midi.Sink
	voices Voices
	period time.Duration
	bar    time.Duration

	// Limit stops the run after this many sub-beats; 0 plays until cancelled
	Limit int

	chord  ActiveNotes
	melody MelodyVoice

	updates chan Snapshot
	mu      sync.Mutex
	latest  Snapshot
}

func NewDriver(seq *Sequencer, sink midi.Sink, v Voices) (*Driver, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	d := &Driver{
		seq:     seq,
		sink:    sink,
		voices:  v,
		period:  seq.Params().SubBeat(),
		bar:     seq.Params().BarPeriod(),
		updates: make(chan Snapshot, 1),
	}
	d.latest = d.snapshot(seq.State(), false, time.Now(), 0)
	return d, nil
}

// Updates delivers a snapshot after every sub-beat and one when the run
// ends. Snapshots are dropped while the receiver is behind.
func (d *Driver) Updates() <-chan Snapshot {
	return d.updates
}

// Latest returns the most recent snapshot
func (d *Driver) Latest() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest.Clone()
}

// Go runs the driver on its own goroutine. The channel receives the result
// of Run exactly once.
func (d *Driver) Go(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				debug.Log("driver", "panic: %v", r)
				done <- fmt.Errorf("driver panic: %v", r)
			}
		}()
		done <- d.Run(ctx)
	}()
	return done
}

// Run plays until ctx is cancelled, Limit is reached or an error occurs.
// Sounding notes are always released before it returns. Cancellation is
// not an error; a sub-beat already under way completes first.
//
// Sub-beats that fall behind schedule play immediately to catch up, unless
// the run is more than a bar late, in which case the schedule restarts from
// the current sub-beat.
func (d *Driver) Run(ctx context.Context) (err error) {
	start := time.Now()
	debug.Log("driver", "start period=%s limit=%d chord=ch%d melody=ch%d",
		d.period, d.Limit, d.voices.ChordChannel, d.voices.MelodyChannel)

	defer func() {
		if ferr := d.flush(); ferr != nil {
			err = errors.Join(err, ferr)
		}
		if err != nil {
			debug.Error("driver", err, "run aborted")
		}
		d.publish(d.snapshot(d.seq.State(), false, time.Now(), 0))
		debug.Log("driver", "stopped after %s", time.Since(start).Round(time.Millisecond))
	}()

	deadline := start
	for n := 0; d.Limit == 0 || n < d.Limit; n++ {
		if ctx.Err() != nil {
			return nil
		}
		if wait := time.Until(deadline); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}

		// more than a bar behind: restart the schedule here
		now := time.Now()
		late := now.Sub(deadline)
		if late > d.bar {
			debug.Log("driver", "tick %d is %s late, restarting the clock", n, late.Round(time.Millisecond))
			deadline = now
		}

		step, err := d.play()
		if err != nil {
			return err
		}
		snap := d.snapshot(d.seq.State(), true, now, late)
		snap.ScaleSnap = step.ScaleSnap
		d.publish(snap)
		deadline = deadline.Add(d.period)
	}
	return nil
}

// play runs one sub-beat: chord diff first, then the melody update
func (d *Driver) play() (Step, error) {
	step, err := d.seq.Tick()
	if err != nil {
		return step, fmt.Errorf("tick %d: %w", step.Tick, err)
	}
	v := d.voices

	off, on := d.chord.Diff(step.Chord.Set())
	if err := d.send(off, func(k uint8) error { return d.sink.NoteOff(v.ChordChannel, k, v.ReleaseVelocity) }); err != nil {
		return step, err
	}
	if err := d.send(on, func(k uint8) error { return d.sink.NoteOn(v.ChordChannel, k, v.Velocity) }); err != nil {
		return step, err
	}

	if !chord.InRange(step.Melody) {
		return step, fmt.Errorf("tick %d: melody pitch %d outside 0-127", step.Tick, step.Melody)
	}
	moff, mon := d.melody.Update(step.Melody, d.chord.Active())
	if moff >= 0 {
		if err := d.sink.NoteOff(v.MelodyChannel, uint8(moff), v.ReleaseVelocity); err != nil {
			return step, err
		}
	}
	if mon >= 0 {
		if err := d.sink.NoteOn(v.MelodyChannel, uint8(mon), v.Velocity); err != nil {
			return step, err
		}
	}

	if step.NewBar {
		debug.Log("driver", "bar=%d chord=%s off=%s on=%s", step.Bar, step.Chord, off, on)
	}
	debug.LogEvery(64, "driver", "tick=%d melody=%d", step.Tick, step.Melody)
	return step, nil
}

func (d *Driver) send(keys chord.PitchSet, fn func(k uint8) error) error {
	var err error
	keys.Each(func(k int) {
		if err == nil {
			err = fn(uint8(k))
		}
	})
	return err
}

// flush releases every tracked note, then silences both channels. It keeps
// going past sink errors so as much as possible gets through.
func (d *Driver) flush() error {
	v := d.voices
	var errs []error
	d.chord.Release().Each(func(k int) {
		errs = append(errs, d.sink.NoteOff(v.ChordChannel, uint8(k), v.ReleaseVelocity))
	})
	if k := d.melody.Release(); k >= 0 {
		errs = append(errs, d.sink.NoteOff(v.MelodyChannel, uint8(k), v.ReleaseVelocity))
	}
	errs = append(errs, d.sink.AllNotesOff(v.ChordChannel))
	errs = append(errs, d.sink.AllNotesOff(v.MelodyChannel))
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func (d *Driver) snapshot(st State, playing bool, at time.Time, late time.Duration) Snapshot {
	snap := st.snapshot()
	snap.RunID = debug.RunID()
	snap.Playing = playing
	snap.Melody = d.melody.Sounding()
	snap.Sounding = d.chord.Active().Keys()
	snap.At = at
	snap.Late = late
	return snap
}

func (d *Driver) publish(snap Snapshot) {
	d.mu.Lock()
	d.latest = snap
	d.mu.Unlock()

	select {
	case d.updates <- snap.Clone():
	default:
	}
}
