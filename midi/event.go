package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// NoteEvent is a key press or release on a keyboard
type NoteEvent struct {
	Note     uint8
	Velocity uint8
	Channel  uint8
	On       bool
}

// Controller is a MIDI input device that produces note events
type Controller interface {
	ID() string
	NoteEvents() <-chan NoteEvent
	Close() error
}

// NoteFromMessage converts a note message. A note on with velocity 0 is
// a release.
func NoteFromMessage(msg gomidi.Message) (NoteEvent, bool) {
	var channel, note, velocity uint8
	switch {
	case msg.GetNoteOn(&channel, &note, &velocity):
		return NoteEvent{Note: note, Velocity: velocity, Channel: channel, On: velocity > 0}, true
	case msg.GetNoteOff(&channel, &note, &velocity):
		return NoteEvent{Note: note, Velocity: velocity, Channel: channel}, true
	}
	return NoteEvent{}, false
}
