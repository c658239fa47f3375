package midi

import (
	"fmt"
	"io"
	"slices"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-progression/debug"
)

// Sink consumes note commands. Channels are 0-15, keys and velocities 0-127.
// Sends are fire-and-forget: an error means the transport is gone.
type Sink interface {
	NoteOn(channel, key, velocity uint8) error
	NoteOff(channel, key, velocity uint8) error
	AllNotesOff(channel uint8) error
}

// SendFunc matches the sender returned by gomidi.SendTo
type SendFunc func(msg gomidi.Message) error

// SenderSink adapts a raw message sender to a Sink
type SenderSink struct {
	send SendFunc
}

func NewSenderSink(send SendFunc) *SenderSink {
	return &SenderSink{send: send}
}

func (s *SenderSink) emit(e Event) error {
	if err := s.send(e.Message()); err != nil {
		return fmt.Errorf("send %s: %w", e, err)
	}
	return nil
}

func (s *SenderSink) NoteOn(channel, key, velocity uint8) error {
	return s.emit(Event{Type: NoteOn, Channel: channel, Note: key, Velocity: velocity})
}

func (s *SenderSink) NoteOff(channel, key, velocity uint8) error {
	return s.emit(Event{Type: NoteOff, Channel: channel, Note: key, Velocity: velocity})
}

func (s *SenderSink) AllNotesOff(channel uint8) error {
	return s.emit(Event{Type: CC, Channel: channel, Note: AllNotesOffCC})
}

// Recorder keeps every event it receives, in order
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) add(e Event) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) NoteOn(channel, key, velocity uint8) error {
	return r.add(Event{Type: NoteOn, Channel: channel, Note: key, Velocity: velocity})
}

func (r *Recorder) NoteOff(channel, key, velocity uint8) error {
	return r.add(Event{Type: NoteOff, Channel: channel, Note: key, Velocity: velocity})
}

func (r *Recorder) AllNotesOff(channel uint8) error {
	return r.add(Event{Type: CC, Channel: channel, Note: AllNotesOffCC})
}

// Events returns a copy of everything recorded so far
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Bytes concatenates the wire form of every recorded event
func (r *Recorder) Bytes() []byte {
	var out []byte
	for _, e := range r.Events() {
		out = append(out, e.Message()...)
	}
	return out
}

// Printer writes one line per event, for dry runs without a MIDI port
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) print(e Event) error {
	_, err := fmt.Fprintln(p.w, e.String())
	return err
}

func (p *Printer) NoteOn(channel, key, velocity uint8) error {
	return p.print(Event{Type: NoteOn, Channel: channel, Note: key, Velocity: velocity})
}

func (p *Printer) NoteOff(channel, key, velocity uint8) error {
	return p.print(Event{Type: NoteOff, Channel: channel, Note: key, Velocity: velocity})
}

func (p *Printer) AllNotesOff(channel uint8) error {
	return p.print(Event{Type: CC, Channel: channel, Note: AllNotesOffCC})
}

// Logged wraps a sink so every event also goes to the debug log
func Logged(s Sink) Sink {
	return loggedSink{s}
}

type loggedSink struct {
	Sink
}

func (l loggedSink) NoteOn(channel, key, velocity uint8) error {
	debug.Log("out", "ch=%d on key=%d vel=%d", channel, key, velocity)
	return l.Sink.NoteOn(channel, key, velocity)
}

func (l loggedSink) NoteOff(channel, key, velocity uint8) error {
	debug.Log("out", "ch=%d off key=%d vel=%d", channel, key, velocity)
	return l.Sink.NoteOff(channel, key, velocity)
}

func (l loggedSink) AllNotesOff(channel uint8) error {
	debug.Log("out", "ch=%d all-notes-off", channel)
	return l.Sink.AllNotesOff(channel)
}
