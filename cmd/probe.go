package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"go-progression/chord"
	"go-progression/midi"
	"go-progression/sequencer"
)

type probeOptions struct {
	port   string
	root   int
	major  bool
	base   int
	hold   time.Duration
	dryRun bool
}

func newProbeCmd() *cobra.Command {
	opts := &probeOptions{}
	c := &cobra.Command{
		Use:   "probe",
		Short: "play one triad, its inversions and its alternate voicing",
		Long: `probe checks the wiring to a synth: it plays a triad in root position,
inverted down and up, then its alternate voicing, and a melody note on the
melody channel, holding each for --hold.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := loadConfig(cmd, &playOptions{port: opts.port})
			if err != nil {
				return err
			}
			sink, closeSink, err := openSink(cfg, opts.dryRun, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeSink(); cerr != nil && err == nil {
					err = cerr
				}
			}()
			return probe(cmd.Context(), sink, cmd.ErrOrStderr(), cfg.Output.Voices, opts)
		},
	}
	f := c.Flags()
	f.StringVarP(&opts.port, "port", "p", "", "MIDI output port (default first hardware port)")
	f.IntVar(&opts.root, "root", 0, "root pitch class, 0 = C")
	f.BoolVar(&opts.major, "major", false, "major triad instead of minor")
	f.IntVar(&opts.base, "base", 60, "lowest pitch of the root position voicing")
	f.DurationVar(&opts.hold, "hold", 600*time.Millisecond, "how long each voicing sounds")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print events instead of sending them")
	return c
}

// probeVoicings lists the voicings probe plays, in order
func probeVoicings(root int, minor bool, base int) ([]chord.Chord, error) {
	c := chord.Triad(root, minor).Octave(base)
	alt, err := c.Alternate()
	if err != nil {
		return nil, err
	}
	return []chord.Chord{c, c.Down(), c.Up(), alt}, nil
}

func probe(ctx context.Context, sink midi.Sink, log io.Writer, v sequencer.Voices, opts *probeOptions) error {
	voicings, err := probeVoicings(opts.root, !opts.major, opts.base)
	if err != nil {
		return err
	}
	for _, c := range voicings {
		if !chord.InRange(c.Root()) || !chord.InRange(c.Keys()[c.Len()-1]+12) {
			return fmt.Errorf("base %d puts %s outside 0-127", opts.base, c)
		}
	}

	// release keeps going past sink errors and reports them all
	var active sequencer.ActiveNotes
	release := func() error {
		var errs []error
		active.Release().Each(func(k int) {
			errs = append(errs, sink.NoteOff(v.ChordChannel, uint8(k), v.ReleaseVelocity))
		})
		errs = append(errs, sink.AllNotesOff(v.ChordChannel), sink.AllNotesOff(v.MelodyChannel))
		return errors.Join(errs...)
	}

	for _, c := range voicings {
		fmt.Fprintf(log, "%-10s %s\n", c.Quality(), c)
		off, on := active.Diff(c.Set())
		var serr error
		off.Each(func(k int) {
			if serr == nil {
				serr = sink.NoteOff(v.ChordChannel, uint8(k), v.ReleaseVelocity)
			}
		})
		on.Each(func(k int) {
			if serr == nil {
				serr = sink.NoteOn(v.ChordChannel, uint8(k), v.Velocity)
			}
		})
		if serr != nil {
			return errors.Join(serr, release())
		}
		if err := wait(ctx, opts.hold); err != nil {
			fmt.Fprintln(log, "interrupted")
			return release()
		}
	}

	// melody channel: top of the last voicing an octave up
	last := voicings[len(voicings)-1].Keys()
	mel := uint8(last[len(last)-1] + 12)
	fmt.Fprintf(log, "%-10s %s\n", "melody", chord.NoteName(int(mel)))
	if err := sink.NoteOn(v.MelodyChannel, mel, v.Velocity); err != nil {
		return errors.Join(err, release())
	}
	if err := wait(ctx, opts.hold); err != nil {
		fmt.Fprintln(log, "interrupted")
	}
	return errors.Join(sink.NoteOff(v.MelodyChannel, mel, v.ReleaseVelocity), release())
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
