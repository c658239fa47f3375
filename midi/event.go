package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
	CC      uint8 = 0xB0
)

// AllNotesOffCC is the channel mode controller that silences a channel
const AllNotesOffCC uint8 = 123

// Event is a single outgoing message on a channel (0-15).
// For CC events Note holds the controller number and Velocity the value.
type Event struct {
	Type     uint8 // NoteOn, NoteOff, CC
	Channel  uint8
	Note     uint8
	Velocity uint8
}

// Message converts the event to wire bytes
func (e Event) Message() gomidi.Message {
	switch e.Type {
	case NoteOn:
		return gomidi.NoteOn(e.Channel, e.Note, e.Velocity)
	case NoteOff:
		return gomidi.NoteOffVelocity(e.Channel, e.Note, e.Velocity)
	default:
		return gomidi.ControlChange(e.Channel, e.Note, e.Velocity)
	}
}

// IsAllNotesOff reports whether e is an all-notes-off control message
func (e Event) IsAllNotesOff() bool {
	return e.Type == CC && e.Note == AllNotesOffCC
}

func (e Event) String() string {
	switch e.Type {
	case NoteOn:
		return fmt.Sprintf("ch=%d on  key=%d vel=%d", e.Channel, e.Note, e.Velocity)
	case NoteOff:
		return fmt.Sprintf("ch=%d off key=%d vel=%d", e.Channel, e.Note, e.Velocity)
	}
	if e.IsAllNotesOff() {
		return fmt.Sprintf("ch=%d all-notes-off", e.Channel)
	}
	return fmt.Sprintf("ch=%d cc=%d val=%d", e.Channel, e.Note, e.Velocity)
}
