package piano

import (
	"ledpiano/color"
	"ledpiano/envelope"
	"ledpiano/vmath"
)

// maxVelocity is the top MIDI velocity
const maxVelocity = 127

// Random key colours are drawn from the pure hues (subcodes 2-10)
const (
	randomFirst = 2
	randomCount = 9
)

// KeyColors are the configured codes for white and black keys
type KeyColors struct {
	White color.Code
	Black color.Code
}

// For returns the code configured for a key of the given colour
func (kc KeyColors) For(black bool) color.Code {
	if black {
		return kc.Black
	}
	return kc.White
}

// Keyboard owns one envelope per key
type Keyboard struct {
	Layout Layout
	Keys   envelope.Bank
}

// NewKeyboard creates idle envelopes with black flags from the pitch class
func NewKeyboard(l Layout) *Keyboard {
	kb := &Keyboard{
		Layout: l,
		Keys:   make(envelope.Bank, l.Keys),
	}
	for i := range kb.Keys {
		kb.Keys[i] = envelope.KeyState{
			Black:       IsBlack(l.Note(i)),
			RandomColor: color.White,
		}
	}
	return kb
}

// NoteOn triggers the envelope of note. Velocity 0 is treated as a release.
// With an instantaneous profile the key starts at its velocity, otherwise
// it starts dark and the attack ramps it up.
func (kb *Keyboard) NoteOn(note, velocity uint8, p envelope.Profile, colors KeyColors, rnd envelope.Rand) bool {
	if velocity == 0 {
		return kb.NoteOff(note)
	}
	k, ok := kb.Layout.Key(note)
	if !ok {
		return false
	}

	s := &kb.Keys[k]
	s.Pressing = true
	s.Refreshing = true
	s.Peaked = false
	if p.Increase == 0 {
		s.Alpha = VelocityAlpha(velocity)
	} else {
		s.Alpha = 0
	}
	if colors.For(s.Black) == color.Random && rnd != nil {
		s.RandomColor = color.Code(randomFirst + rnd(randomCount))
	}
	return true
}

// NoteOff releases note; the envelope keeps fading until it retires
func (kb *Keyboard) NoteOff(note uint8) bool {
	k, ok := kb.Layout.Key(note)
	if !ok {
		return false
	}
	s := &kb.Keys[k]
	s.Pressing = false
	s.Peaked = false
	return true
}

// Reset silences every key
func (kb *Keyboard) Reset() {
	for i := range kb.Keys {
		s := &kb.Keys[i]
		s.Alpha = 0
		s.Refreshing = false
		s.Pressing = false
		s.Peaked = false
	}
}

// VelocityAlpha scales a MIDI velocity to key intensity
func VelocityAlpha(velocity uint8) uint8 {
	if velocity > maxVelocity {
		velocity = maxVelocity
	}
	return vmath.Round8(float64(velocity) * envelope.MaxAlpha / maxVelocity)
}
